package stripe

import (
	"fmt"

	"github.com/vantyr-labs/raid6-engine/internal/metajournal"
	"github.com/vantyr-labs/raid6-engine/internal/stripefs"
)

// peekJournal loads a journal at path (if non-empty and present)
// without mutating any engine state, for use during construction to
// decide whether to format the root fresh or resume from it.
func peekJournal(fs stripefs.FileSystem, path string) (metajournal.Snapshot, bool, error) {
	if path == "" {
		return metajournal.Snapshot{}, false, nil
	}
	snap, found, err := metajournal.Load(fs, path)
	if err != nil {
		return metajournal.Snapshot{}, false, fmt.Errorf("stripe: checking for existing journal: %w", err)
	}
	return snap, found, nil
}

func toRecords(extents []Extent) []metajournal.ExtentRecord {
	if extents == nil {
		return nil
	}
	out := make([]metajournal.ExtentRecord, len(extents))
	for i, e := range extents {
		out[i] = metajournal.ExtentRecord{
			StripeIndex: e.StripeIndex,
			LogicalDisk: e.LogicalDisk,
			Offset:      e.Offset,
			Length:      e.Length,
		}
	}
	return out
}

func fromRecords(records []metajournal.ExtentRecord) []Extent {
	if records == nil {
		return nil
	}
	out := make([]Extent, len(records))
	for i, r := range records {
		out[i] = Extent{StripeIndex: r.StripeIndex, LogicalDisk: r.LogicalDisk, Offset: r.Offset, Length: r.Length}
	}
	return out
}

// snapshot captures the engine's mutable bookkeeping state for
// persistence.
func (e *Engine) snapshot() metajournal.Snapshot {
	files := make(map[string][]metajournal.ExtentRecord, len(e.files))
	for name, extents := range e.files {
		files[name] = toRecords(extents)
	}
	return metajournal.Snapshot{
		Files:     files,
		FreeList:  toRecords(e.freeList),
		Util:      e.util,
		CurStripe: e.curStripe,
		CurColumn: e.curColumn,
	}
}

// restore replaces the engine's bookkeeping state with snap's.
func (e *Engine) restore(snap metajournal.Snapshot) {
	e.files = make(map[string][]Extent, len(snap.Files))
	for name, records := range snap.Files {
		e.files[name] = fromRecords(records)
	}
	e.freeList = fromRecords(snap.FreeList)
	if snap.Util != nil {
		e.util = snap.Util
	}
	e.curStripe = snap.CurStripe
	e.curColumn = snap.CurColumn
}

// checkpoint persists the engine's bookkeeping state when a journal
// path is configured; it is a no-op otherwise.
func (e *Engine) checkpoint() error {
	if e.cfg.JournalPath == "" {
		return nil
	}
	if err := metajournal.Save(e.fs, e.cfg.JournalPath, e.snapshot()); err != nil {
		return fmt.Errorf("stripe: checkpointing: %w", err)
	}
	return nil
}
