package stripefs

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
)

// MemFileSystem is an in-memory FileSystem fake, used by the stripe
// engine's unit tests so they run without touching the real OS
// filesystem, in the spirit of restic's mock-backend test doubles.
type MemFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

// NewMem returns an empty MemFileSystem.
func NewMem() *MemFileSystem {
	return &MemFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *MemFileSystem) MkdirAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path.Clean(p)] = true
	return nil
}

func (m *MemFileSystem) RemoveAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clean := path.Clean(p)
	prefix := clean + "/"
	for name := range m.files {
		if name == clean || strings.HasPrefix(name, prefix) {
			delete(m.files, name)
		}
	}
	for name := range m.dirs {
		if name == clean || strings.HasPrefix(name, prefix) {
			delete(m.dirs, name)
		}
	}
	return nil
}

func (m *MemFileSystem) OpenRead(p string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path.Clean(p)]
	if !ok {
		return nil, fmt.Errorf("memfs: open %s: no such file", p)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return io.NopCloser(bytes.NewReader(cp)), nil
}

type memWriter struct {
	fs   *MemFileSystem
	path string
	buf  bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memWriter) Close() error {
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	w.fs.files[path.Clean(w.path)] = w.buf.Bytes()
	return nil
}

func (m *MemFileSystem) CreateWrite(p string) (io.WriteCloser, error) {
	return &memWriter{fs: m, path: p}, nil
}
