package stripe

import (
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/vantyr-labs/raid6-engine/internal/raiderr"
)

// diskDir returns the directory simulating physical disk d under root.
func diskDir(root string, d int) string {
	return filepath.Join(root, fmt.Sprintf("disk_%d", d))
}

// chunkPath returns the path of stripe s's chunk file on disk d.
func chunkPath(root string, d, s int) string {
	return filepath.Join(diskDir(root, d), strconv.Itoa(s))
}

// writeEntry biases and writes a single chunk entry: one byte when
// N <= 8, eight little-endian bytes otherwise. Data columns and P only
// ever carry values in [0, 255], but Q carries a full GF(2^N) element,
// which is why every entry is widened to uint64 here regardless of
// which column it came from.
func (e *Engine) writeEntry(w io.Writer, value uint64) error {
	biased := int64(value) - e.bias
	if e.byteWidth == 1 {
		_, err := w.Write([]byte{byte(int8(biased))})
		return err
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(biased))
	_, err := w.Write(buf[:])
	return err
}

// readEntry un-biases the i'th fixed-width entry of raw.
func (e *Engine) readEntry(raw []byte, i int) uint64 {
	var biased int64
	if e.byteWidth == 1 {
		biased = int64(int8(raw[i]))
	} else {
		biased = int64(binary.LittleEndian.Uint64(raw[i*8 : i*8+8]))
	}
	return uint64(biased + e.bias)
}

// writeChunk biases and persists a CHUNK_SIZE-byte chunk to disk d,
// stripe s. Used for data columns and P, whose entries always fit a
// byte.
func (e *Engine) writeChunk(d, s int, data []byte) error {
	w, err := e.fs.CreateWrite(chunkPath(e.cfg.Root, d, s))
	if err != nil {
		return fmt.Errorf("stripe: %w: opening disk_%d/%d for write: %v", raiderr.ErrIO, d, s, err)
	}
	defer w.Close()

	for _, b := range data {
		if err := e.writeEntry(w, uint64(b)); err != nil {
			return fmt.Errorf("stripe: %w: writing disk_%d/%d: %v", raiderr.ErrIO, d, s, err)
		}
	}
	return nil
}

// readChunk reads back and un-biases a CHUNK_SIZE-byte chunk from disk
// d, stripe s. Returns raiderr.ErrNotFound (wrapped) when the chunk was
// never written, which callers treat as an all-zero column.
func (e *Engine) readChunk(d, s int) ([]byte, error) {
	raw, err := e.readRawChunk(d, s)
	if err != nil {
		return nil, err
	}

	out := make([]byte, e.cfg.ChunkSize)
	for i := 0; i < e.cfg.ChunkSize && (i+1)*e.byteWidth <= len(raw); i++ {
		out[i] = byte(e.readEntry(raw, i))
	}
	return out, nil
}

// writeWideChunk persists a CHUNK_SIZE-entry chunk whose values may
// span the full GF(2^N) range rather than a single byte: used for Q,
// the only column whose parity value can exceed 255 once N > 8.
func (e *Engine) writeWideChunk(d, s int, data []uint64) error {
	w, err := e.fs.CreateWrite(chunkPath(e.cfg.Root, d, s))
	if err != nil {
		return fmt.Errorf("stripe: %w: opening disk_%d/%d for write: %v", raiderr.ErrIO, d, s, err)
	}
	defer w.Close()

	for _, v := range data {
		if err := e.writeEntry(w, v); err != nil {
			return fmt.Errorf("stripe: %w: writing disk_%d/%d: %v", raiderr.ErrIO, d, s, err)
		}
	}
	return nil
}

// readWideChunk is readChunk's counterpart for Q: it returns full-width
// field elements instead of truncating each entry to a byte.
func (e *Engine) readWideChunk(d, s int) ([]uint64, error) {
	raw, err := e.readRawChunk(d, s)
	if err != nil {
		return nil, err
	}

	out := make([]uint64, e.cfg.ChunkSize)
	for i := 0; i < e.cfg.ChunkSize && (i+1)*e.byteWidth <= len(raw); i++ {
		out[i] = e.readEntry(raw, i)
	}
	return out, nil
}

func (e *Engine) readRawChunk(d, s int) ([]byte, error) {
	r, err := e.fs.OpenRead(chunkPath(e.cfg.Root, d, s))
	if err != nil {
		return nil, fmt.Errorf("stripe: %w: disk_%d/%d", raiderr.ErrNotFound, d, s)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("stripe: %w: reading disk_%d/%d: %v", raiderr.ErrIO, d, s, err)
	}
	return raw, nil
}
