package stripe

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/vantyr-labs/raid6-engine/internal/raiderr"
)

// Write stores payload under name, allocating space from the free
// list first and appending at the write cursor for any residual.
func (e *Engine) Write(name string, payload []byte) error {
	if _, exists := e.files[name]; exists {
		return fmt.Errorf("stripe: %w: %q already exists, use Update", raiderr.ErrInvalidArgument, name)
	}
	return e.writeNew(name, bytes.NewReader(payload), len(payload))
}

// WriteFromFile reads srcPath through the engine's filesystem and
// stores its content under name.
func (e *Engine) WriteFromFile(srcPath, name string) error {
	r, err := e.fs.OpenRead(srcPath)
	if err != nil {
		return fmt.Errorf("stripe: %w: opening source %s: %v", raiderr.ErrIO, srcPath, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("stripe: %w: reading source %s: %v", raiderr.ErrIO, srcPath, err)
	}
	return e.Write(name, data)
}

// writeNew allocates extents for size bytes and fills them from r,
// recording the result in the file table under name.
func (e *Engine) writeNew(name string, r io.Reader, size int) error {
	extents := e.allocateExtents(size)
	for _, ext := range extents {
		if err := e.fillExtent(r, ext); err != nil {
			return err
		}
	}
	e.files[name] = extents
	logrus.Infof("[stripe] wrote %q: %d bytes across %d extent(s)", name, size, len(extents))
	return e.checkpoint()
}

// allocateExtents satisfies a size-byte allocation first from the free
// list (oldest first), clipping the final popped extent down to the
// exact remainder needed, then appends one tail extent at the write
// cursor for whatever is still unmet.
func (e *Engine) allocateExtents(size int) []Extent {
	var targets []Extent
	remaining := size
	for remaining > 0 && len(e.freeList) > 0 {
		fe := e.freeList[0]
		e.freeList = e.freeList[1:]
		take := fe.Length
		if take > remaining {
			take = remaining
		}
		targets = append(targets, Extent{StripeIndex: fe.StripeIndex, LogicalDisk: fe.LogicalDisk, Length: take})
		remaining -= take
	}
	if remaining > 0 {
		targets = append(targets, Extent{StripeIndex: e.curStripe, LogicalDisk: e.curColumn, Length: remaining})
	}
	return targets
}

// fillExtent writes ext.Length bytes read from r into successive data
// columns starting at (ext.StripeIndex, ext.LogicalDisk). When ext
// starts exactly at the engine's write cursor, the cursor advances in
// step; reused free-list extents never touch it. Every stripe touched
// is (re)sealed before fillExtent returns from it, so parity is always
// fresh even for a short final chunk or a mid-stripe extent boundary.
func (e *Engine) fillExtent(r io.Reader, ext Extent) error {
	n := e.cfg.Disks
	d := e.dataWidth
	stripe := ext.StripeIndex
	column := ext.LogicalDisk
	atFrontier := stripe == e.curStripe && column == e.curColumn
	remaining := ext.Length

	for remaining > 0 {
		chunkLen := remaining
		if chunkLen > e.cfg.ChunkSize {
			chunkLen = e.cfg.ChunkSize
		}

		buf := make([]byte, e.cfg.ChunkSize)
		if _, err := io.ReadFull(r, buf[:chunkLen]); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("stripe: %w: reading source data: %v", raiderr.ErrIO, err)
		}

		disk := physData(n, stripe, column)
		if err := e.writeChunk(disk, stripe, buf); err != nil {
			return err
		}
		e.setUtil(stripe, disk, chunkLen)
		remaining -= chunkLen
		column++

		if column == d {
			if err := e.seal(stripe); err != nil {
				return err
			}
			stripe++
			column = 0
			if atFrontier {
				e.curStripe = stripe
				e.curColumn = 0
			}
			continue
		}

		if atFrontier {
			e.curColumn = column
		}
		if remaining == 0 {
			if err := e.seal(stripe); err != nil {
				return err
			}
		}
	}
	return nil
}
