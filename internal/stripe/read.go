package stripe

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vantyr-labs/raid6-engine/internal/raiderr"
)

// Read returns the full content previously stored under name.
func (e *Engine) Read(name string) ([]byte, error) {
	extents, ok := e.files[name]
	if !ok {
		return nil, fmt.Errorf("stripe: %w: %q", raiderr.ErrNotFound, name)
	}
	var out []byte
	for _, ext := range extents {
		chunk, err := e.readExtent(ext)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// ReadToFile reads name and writes it to dstPath through the engine's
// filesystem.
func (e *Engine) ReadToFile(name, dstPath string) error {
	data, err := e.Read(name)
	if err != nil {
		return err
	}
	w, err := e.fs.CreateWrite(dstPath)
	if err != nil {
		return fmt.Errorf("stripe: %w: opening destination %s: %v", raiderr.ErrIO, dstPath, err)
	}
	defer w.Close()
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("stripe: %w: writing destination %s: %v", raiderr.ErrIO, dstPath, err)
	}
	return nil
}

// readExtent concatenates ext.Length live bytes starting at
// (ext.StripeIndex, ext.LogicalDisk), truncating each column's
// contribution to its recorded utilization.
func (e *Engine) readExtent(ext Extent) ([]byte, error) {
	n := e.cfg.Disks
	d := e.dataWidth
	stripe := ext.StripeIndex
	startColumn := ext.LogicalDisk
	remaining := ext.Length
	var out []byte

	for remaining > 0 {
		dataCols, _, _, err := e.readStripe(stripe, nil, false)
		if err != nil {
			return nil, err
		}
		for c := startColumn; c < d && remaining > 0; c++ {
			disk := physData(n, stripe, c)
			if dataCols[c] == nil {
				return nil, fmt.Errorf("stripe: %w: missing data column %d (disk_%d) at stripe %d", raiderr.ErrIO, c, disk, stripe)
			}
			take := e.utilAt(stripe, disk)
			if take > remaining {
				take = remaining
			}
			out = append(out, dataCols[c][:take]...)
			remaining -= take
		}
		stripe++
		startColumn = 0
	}
	return out, nil
}

// readStripe reads every physical disk of stripe s except those in
// exclude, sorting results into data columns, P, and Q. When the
// engine verifies on read, a disk that fails to read but is recorded
// as holding live data triggers an automatic Reconstruct of every
// failed disk before one retry; if disks still fail to read after
// that retry, the stripe is unrecoverable.
func (e *Engine) readStripe(s int, exclude []int, recoveringAlready bool) ([][]byte, []byte, []uint64, error) {
	n := e.cfg.Disks
	d := e.dataWidth
	excluded := make(map[int]bool, len(exclude))
	for _, x := range exclude {
		excluded[x] = true
	}

	dataCols := make([][]byte, d)
	var p []byte
	var q []uint64
	var failed []int

	for disk := 0; disk < n; disk++ {
		if excluded[disk] {
			continue
		}
		switch {
		case isP(n, s, disk):
			data, err := e.readChunk(disk, s)
			if err != nil {
				if e.cfg.VerifyOnRead && e.utilAt(s, disk) > 0 {
					failed = append(failed, disk)
				}
				continue
			}
			p = data
		case isQ(n, s, disk):
			data, err := e.readWideChunk(disk, s)
			if err != nil {
				if e.cfg.VerifyOnRead && e.utilAt(s, disk) > 0 {
					failed = append(failed, disk)
				}
				continue
			}
			q = data
		default:
			data, err := e.readChunk(disk, s)
			if err != nil {
				if e.cfg.VerifyOnRead && e.utilAt(s, disk) > 0 {
					failed = append(failed, disk)
				}
				continue
			}
			dataCols[dataColumnOf(n, s, disk)] = data
		}
	}

	if len(failed) == 0 {
		return dataCols, p, q, nil
	}
	if len(exclude) > 0 || recoveringAlready {
		return nil, nil, nil, fmt.Errorf("stripe: %w: stripe %d unreadable (disks %v)", raiderr.ErrUnrecoverableCorruption, s, failed)
	}

	logrus.Warnf("[stripe] read of stripe %d found failed disks %v; attempting recovery", s, failed)
	if err := e.Reconstruct(failed); err != nil {
		return nil, nil, nil, err
	}
	return e.readStripe(s, exclude, true)
}
