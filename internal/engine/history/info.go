package history

import (
	"time"

	"github.com/dshills/chronicle/internal/engine/action"
	"github.com/dshills/chronicle/internal/engine/timeline"
)

// EntryInfo is read-only display information about a timeline entry.
type EntryInfo struct {
	ID          string
	Description string
	Timestamp   time.Time
	Kind        action.Kind
	ActionCount int
	Checkpoint  bool
}

// Stats summarizes the timeline for inspection UIs.
type Stats struct {
	Entries     int
	Cursor      int
	CanUndo     bool
	CanRedo     bool
	Checkpoints int
	ByCategory  map[action.Category]int
}

// PeekUndo returns info about the entry the next undo would step off,
// without moving the cursor.
func (e *Engine) PeekUndo() (EntryInfo, bool) {
	cur := e.store.Current()
	if cur == nil {
		return EntryInfo{}, false
	}
	return entryInfo(cur), true
}

// PeekRedo returns info about the entry the next redo would land on.
func (e *Engine) PeekRedo() (EntryInfo, bool) {
	next, err := e.store.EntryAt(e.store.Cursor() + 1)
	if err != nil {
		return EntryInfo{}, false
	}
	return entryInfo(next), true
}

// Stats computes summary counters over a consistent timeline view.
func (e *Engine) Stats() Stats {
	entries := e.store.Entries()

	stats := Stats{
		Entries:    len(entries),
		Cursor:     e.store.Cursor(),
		CanUndo:    e.store.CanUndo(),
		CanRedo:    e.store.CanRedo(),
		ByCategory: make(map[action.Category]int),
	}

	for _, entry := range entries {
		if entry.Flags.Checkpoint {
			stats.Checkpoints++
		}
		for _, a := range entry.Actions {
			stats.ByCategory[a.Category]++
		}
	}

	return stats
}

func entryInfo(entry *timeline.Entry) EntryInfo {
	info := EntryInfo{
		ID:          entry.ID,
		Description: entry.Description,
		Timestamp:   entry.Timestamp,
		ActionCount: entry.ActionCount(),
		Checkpoint:  entry.Flags.Checkpoint,
	}
	if top := entry.TopAction(); top != nil {
		info.Kind = top.Kind
	}
	return info
}
