// Package metajournal persists an engine's file table, free list,
// utilization table, and write cursor to a single JSON file, so a
// stripe engine can be reopened across process restarts without
// touching the core write/read/recovery algorithms. It is an opt-in
// extension: an engine configured with an empty journal path never
// imports this package's behavior at all.
package metajournal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/vantyr-labs/raid6-engine/internal/raiderr"
	"github.com/vantyr-labs/raid6-engine/internal/stripefs"
)

// ExtentRecord mirrors internal/stripe.Extent's fields. It is
// redeclared here rather than imported so that internal/stripe can
// depend on this package without a cycle.
type ExtentRecord struct {
	StripeIndex int `json:"stripe_index"`
	LogicalDisk int `json:"logical_disk"`
	Offset      int `json:"offset"`
	Length      int `json:"length"`
}

// Snapshot is the full persisted state of one engine.
type Snapshot struct {
	Files     map[string][]ExtentRecord `json:"files"`
	FreeList  []ExtentRecord            `json:"free_list"`
	Util      map[int][]int             `json:"util"`
	CurStripe int                       `json:"cur_stripe"`
	CurColumn int                       `json:"cur_column"`
}

// Save writes snap to path as JSON, through fs.
func Save(fs stripefs.FileSystem, path string, snap Snapshot) error {
	w, err := fs.CreateWrite(path)
	if err != nil {
		return fmt.Errorf("metajournal: %w: opening %s: %v", raiderr.ErrIO, path, err)
	}
	defer w.Close()

	enc := json.NewEncoder(w)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("metajournal: %w: encoding %s: %v", raiderr.ErrIO, path, err)
	}
	logrus.Debugf("[metajournal] wrote %s: %d file(s), %d free extent(s)", path, len(snap.Files), len(snap.FreeList))
	return nil
}

// Load reads path back into a Snapshot. found is false (with a nil
// error) when the journal file does not exist yet, which is the
// normal state for a brand-new array.
func Load(fs stripefs.FileSystem, path string) (snap Snapshot, found bool, err error) {
	r, openErr := fs.OpenRead(path)
	if openErr != nil {
		return Snapshot{}, false, nil
	}
	defer r.Close()

	raw, readErr := io.ReadAll(r)
	if readErr != nil {
		return Snapshot{}, false, fmt.Errorf("metajournal: %w: reading %s: %v", raiderr.ErrIO, path, readErr)
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("metajournal: %w: decoding %s: %v", raiderr.ErrIO, path, err)
	}
	logrus.Debugf("[metajournal] loaded %s: %d file(s), %d free extent(s)", path, len(snap.Files), len(snap.FreeList))
	return snap, true, nil
}
