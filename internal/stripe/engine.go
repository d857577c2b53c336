// Package stripe implements the RAID-6 stripe layout engine: the
// write cursor, free-list extent allocator, column-rotation bookkeeping,
// and the P/Q-sealing and reconstruction logic that sit on top of
// internal/gf and internal/parity. This is the part of the system that
// was internal/raid/raid6.go's job in the original array controller;
// here it owns the whole array rather than one RAID level among many.
package stripe

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vantyr-labs/raid6-engine/internal/config"
	"github.com/vantyr-labs/raid6-engine/internal/gf"
	"github.com/vantyr-labs/raid6-engine/internal/parity"
	"github.com/vantyr-labs/raid6-engine/internal/raiderr"
	"github.com/vantyr-labs/raid6-engine/internal/stripefs"
)

// Extent is a contiguous run of a file's bytes: starting at
// (StripeIndex, LogicalDisk) and running for Length bytes across
// successive data columns. Offset is reserved for partial re-use of an
// extent's span and is always 0 in this engine; writes that reuse a
// free-list extent always refill it from its first byte.
type Extent struct {
	StripeIndex int
	LogicalDisk int
	Offset      int
	Length      int
}

// Engine owns one simulated RAID-6 array: N disk directories under
// cfg.Root, the write cursor, the file table, and the free list.
type Engine struct {
	cfg   config.ArrayConfig
	fs    stripefs.FileSystem
	field *gf.Field
	codec *parity.Codec

	dataWidth int // N - 2
	byteWidth int // 1 when N<=8, 8 otherwise
	bias      int64

	files    map[string][]Extent
	freeList []Extent
	util     map[int][]int // stripe index -> N per-disk byte counts

	curStripe int
	curColumn int
}

// New validates cfg, builds the GF(2^N) field and P/Q codec, and
// creates the N disk directories. Without an existing journal it first
// erases cfg.Root and returns an Engine with an empty file table and
// the write cursor at the origin; when a journal exists at
// cfg.JournalPath it keeps the root and restores the journaled state.
func New(cfg config.ArrayConfig, fs stripefs.FileSystem) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The LUT cache is only worth persisting to the real host
	// filesystem; it is addressed directly through os, independent of
	// the fs abstraction (see internal/gf/lutcache.go), so in-memory
	// test engines pass no directory and simply rebuild the table
	// in-process each time.
	lutDir := ""
	if _, isOS := fs.(*stripefs.OSFileSystem); isOS && cfg.Root != "" {
		lutDir = cfg.Root
	}
	field, err := gf.New(cfg.Disks, cfg.Arith, lutDir)
	if err != nil {
		return nil, fmt.Errorf("stripe: constructing field: %w", err)
	}

	// A journal that already exists describes a prior array at this
	// root: preserve its disk directories and replay it instead of
	// formatting fresh.
	snap, resuming, err := peekJournal(fs, cfg.JournalPath)
	if err != nil {
		return nil, err
	}

	if !resuming {
		if err := fs.RemoveAll(cfg.Root); err != nil {
			return nil, fmt.Errorf("stripe: %w: clearing root %s: %v", raiderr.ErrIO, cfg.Root, err)
		}
	}
	for d := 0; d < cfg.Disks; d++ {
		if err := fs.MkdirAll(diskDir(cfg.Root, d)); err != nil {
			return nil, fmt.Errorf("stripe: %w: creating disk_%d: %v", raiderr.ErrIO, d, err)
		}
	}

	byteWidth := 1
	if cfg.Disks > 8 {
		byteWidth = 8
	}

	e := &Engine{
		cfg:       cfg,
		fs:        fs,
		field:     field,
		codec:     parity.New(field),
		dataWidth: cfg.Disks - 2,
		byteWidth: byteWidth,
		bias:      int64(1) << uint(cfg.Disks-1),
		files:     make(map[string][]Extent),
		util:      make(map[int][]int),
	}

	if resuming {
		e.restore(snap)
		logrus.Infof("[stripe] resumed %d-disk array at %q from journal %s: %d file(s)",
			cfg.Disks, cfg.Root, cfg.JournalPath, len(e.files))
	} else {
		logrus.Infof("[stripe] initialized %d-disk array at %q, chunk size %d, data width %d",
			cfg.Disks, cfg.Root, cfg.ChunkSize, e.dataWidth)
	}

	return e, nil
}

// utilAt returns the recorded byte count written to physical disk d at
// stripe s, or 0 if nothing has been recorded there.
func (e *Engine) utilAt(s, d int) int {
	row, ok := e.util[s]
	if !ok {
		return 0
	}
	return row[d]
}

// setUtil records that n bytes of live data occupy physical disk d at
// stripe s.
func (e *Engine) setUtil(s, d, n int) {
	row, ok := e.util[s]
	if !ok {
		row = make([]int, e.cfg.Disks)
		e.util[s] = row
	}
	row[d] = n
}

// colByteOrZero returns dataCols[c][i], treating a nil column (never
// written, or deliberately excluded during recovery) as all-zero.
func colByteOrZero(dataCols [][]byte, c, i int) byte {
	if dataCols[c] == nil {
		return 0
	}
	return dataCols[c][i]
}

func padTo(b []byte, size int) []byte {
	if len(b) >= size {
		return b[:size]
	}
	out := make([]byte, size)
	copy(out, b)
	return out
}
