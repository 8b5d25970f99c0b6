// Package event provides the observer bus for history notifications.
//
// The engine publishes an envelope after each committed mutation
// (record, undo, redo, checkpoint, restore, playback transitions).
// Delivery is synchronous with per-handler panic recovery: observer
// failures are counted, never propagated, and never roll back the
// mutation that triggered them.
package event
