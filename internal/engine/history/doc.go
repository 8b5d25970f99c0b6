// Package history provides the versioned history engine for an
// editable document.
//
// The Engine records classified actions onto a bounded timeline,
// navigates it with undo/redo/jump, groups runs of actions into atomic
// batches, and manages named checkpoints addressable outside linear
// undo order. Key concepts:
//
// # Recording
//
// The host constructs an action for each edit and records it:
//
//	engine := history.New(provider, history.WithSettings(settings))
//	engine.Perform(action.KindMove, "Move rectangle", before, after)
//
// # Batches
//
// A run of actions can commit as a single undoable unit:
//
//	engine.Transaction("Apply filter job", func() error {
//	    // ... multiple engine.Record calls ...
//	    return nil
//	})
//
// # Navigation
//
// Undo, Redo, JumpTo, and Restore only move the timeline cursor; after
// any of them the document state applied through the provider is
// exactly the snapshot captured at the target entry. Navigation never
// replays deltas.
//
// # Concurrency
//
// One engine owns one timeline. The autosave and checkpoint timers and
// the playback scheduler all enter through the same lock as manual
// edits, so every mutation observes a consistent prior state.
package history
