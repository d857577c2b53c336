package config

import (
	"fmt"

	"github.com/vantyr-labs/raid6-engine/internal/gf"
	"github.com/vantyr-labs/raid6-engine/internal/raiderr"
)

// supportedDiskCount mirrors the domain of the Conway polynomial
// table in internal/gf: m = 1..40, plus 64, 97, 100.
func supportedDiskCount(n int) bool {
	if n >= 1 && n <= 40 {
		return true
	}
	switch n {
	case 64, 97, 100:
		return true
	}
	return false
}

// ArrayConfig describes the geometry and policy of one simulated RAID-6
// array: how many disks, how big a chunk is, where the disk directories
// live on the host filesystem, whether reads proactively verify and
// reconstruct, and which Galois-field arithmetic variant to use.
type ArrayConfig struct {
	Disks        int
	ChunkSize    int
	Root         string
	VerifyOnRead bool
	Arith        gf.ArithVariant

	// JournalPath, when non-empty, enables the optional metadata
	// journal (internal/metajournal). Empty means in-memory-only
	// metadata, matching the original engine.
	JournalPath string
}

// DefaultArrayConfig returns a minimally-sized, sane configuration
// (8 disks, 128-byte chunks, verification on) suitable as a starting
// point for CLI flag defaults.
func DefaultArrayConfig() ArrayConfig {
	return ArrayConfig{
		Disks:        8,
		ChunkSize:    128,
		Root:         "disks",
		VerifyOnRead: true,
		Arith:        gf.ArithAuto,
	}
}

// Validate enforces the engine's constraints on N and CHUNK_SIZE.
func (c ArrayConfig) Validate() error {
	if c.Disks < 4 {
		return raiderr.NewValidationError("Disks", c.Disks,
			fmt.Sprintf("raid6: disk count must be >= 4, got %d", c.Disks))
	}
	if !supportedDiskCount(c.Disks) {
		return raiderr.NewValidationError("Disks", c.Disks,
			fmt.Sprintf("raid6: disk count %d has no tabulated Conway polynomial (valid: 4..40, 64, 97, 100)", c.Disks))
	}
	if c.ChunkSize < 1 {
		return raiderr.NewValidationError("ChunkSize", c.ChunkSize,
			fmt.Sprintf("raid6: chunk size must be >= 1, got %d", c.ChunkSize))
	}
	if c.Root == "" {
		return raiderr.NewValidationError("Root", c.Root, "raid6: root directory must not be empty")
	}
	return nil
}
