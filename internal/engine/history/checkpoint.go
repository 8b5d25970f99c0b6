package history

import (
	"github.com/dshills/chronicle/internal/engine/action"
	"github.com/dshills/chronicle/internal/engine/timeline"
	"github.com/dshills/chronicle/internal/event"
)

// checkpointKind is outside the classifier table on purpose: the total
// classifier maps it to the system/low fallback, which is what a save
// point is.
const checkpointKind = action.Kind("checkpoint")

// CreateCheckpoint captures the current document state as a flagged
// entry. Checkpoints go through the normal append path, so they
// participate in truncate-on-append and eviction and remain reachable
// by ordinary undo.
func (e *Engine) CreateCheckpoint(description string) *timeline.Entry {
	if description == "" {
		description = "Checkpoint"
	}

	e.mu.Lock()
	snap := e.provider.CaptureSnapshot()
	a := action.New(checkpointKind, description, snap, snap)

	entry := e.newEntryLocked(a)
	entry.Flags.Checkpoint = true
	e.store.Append(entry)
	e.mu.Unlock()

	e.publish(event.TopicCheckpoint, entry)
	return entry
}

// Restore moves the cursor to the entry with the given id, anywhere on
// the timeline, and applies its state. Unlike undo/redo this can move
// the cursor forward past previously undone entries without discarding
// them. An evicted id returns timeline.ErrNotFound.
func (e *Engine) Restore(entryID string) (*timeline.Entry, error) {
	e.mu.Lock()
	entry, err := e.store.Restore(entryID)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	_ = e.store.UpdateFlags(entry.ID, func(f *timeline.Flags) {
		f.RestorePoint = true
	})
	e.applyLocked(entry)
	e.mu.Unlock()

	e.publish(event.TopicRestore, entry)
	return entry, nil
}
