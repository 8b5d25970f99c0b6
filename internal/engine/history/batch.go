package history

import (
	"github.com/dshills/chronicle/internal/engine/action"
	"github.com/dshills/chronicle/internal/engine/timeline"
	"github.com/dshills/chronicle/internal/event"
)

// StartBatch opens a batch. Actions recorded while the batch is open
// are buffered and committed as a single undoable entry by EndBatch.
// Returns ErrBatchOpen if a batch is already open; batches do not nest.
func (e *Engine) StartBatch(description string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.batching {
		return ErrBatchOpen
	}

	e.batching = true
	e.batchDesc = description
	e.batchBuf = nil
	return nil
}

// EndBatch closes the open batch. The buffered actions become the
// children of a single batch action wrapped in one entry, so the whole
// run is exactly one undo/redo step. Ending an empty batch (or with no
// batch open) is a no-op, not an error.
func (e *Engine) EndBatch() *timeline.Entry {
	e.mu.Lock()

	if !e.batching {
		e.mu.Unlock()
		return nil
	}
	e.batching = false

	buffered := e.batchBuf
	e.batchBuf = nil

	if len(buffered) == 0 {
		e.mu.Unlock()
		return nil
	}

	batch := action.NewBatch(e.batchDesc, buffered)
	entry := e.newEntryLocked(batch)
	e.store.Append(entry)
	e.mu.Unlock()

	e.publish(event.TopicActionRecorded, batch)
	return entry
}

// CancelBatch discards the open batch without committing. Document
// mutations the host already performed are its own to reconcile.
func (e *Engine) CancelBatch() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.batching = false
	e.batchBuf = nil
}

// InBatch returns true while a batch is open.
func (e *Engine) InBatch() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.batching
}

// Transaction runs fn inside a batch. If fn returns an error the batch
// is cancelled, otherwise it is committed as one entry.
func (e *Engine) Transaction(description string, fn func() error) error {
	if err := e.StartBatch(description); err != nil {
		return err
	}

	if err := fn(); err != nil {
		e.CancelBatch()
		return err
	}

	e.EndBatch()
	return nil
}
