// Package snapshot defines the opaque document-state contract between the
// history engine and the host document subsystem.
//
// The engine never inspects a snapshot; it captures one when recording an
// action or checkpoint and hands one back when the timeline cursor moves.
// Snapshots are deep-copied at capture time so later document mutation
// cannot alias recorded history.
package snapshot

// Snapshot is an opaque, deep-copyable fragment of document state.
// A nil Snapshot represents the empty document (the state before the
// first recorded action).
type Snapshot []byte

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// IsZero returns true if the snapshot represents the empty document.
func (s Snapshot) IsZero() bool {
	return len(s) == 0
}

// Context is a minimal denormalized view of document-level state at a
// point in history, used for display and restore.
type Context struct {
	ObjectCount   int      `json:"object_count"`
	CanvasWidth   int      `json:"canvas_width"`
	CanvasHeight  int      `json:"canvas_height"`
	ZoomLevel     float64  `json:"zoom_level"`
	SelectionRefs []string `json:"selection_refs,omitempty"`
}

// Clone returns an independent copy of the context.
func (c Context) Clone() Context {
	out := c
	if c.SelectionRefs != nil {
		out.SelectionRefs = make([]string, len(c.SelectionRefs))
		copy(out.SelectionRefs, c.SelectionRefs)
	}
	return out
}

// Provider is implemented by the document subsystem. CaptureSnapshot and
// CaptureContext are called when recording history; ApplySnapshot is called
// after any cursor movement (undo, redo, jump, restore, playback tick).
type Provider interface {
	// CaptureSnapshot returns a deep copy of the current document state.
	CaptureSnapshot() Snapshot

	// CaptureContext returns document-level context for display.
	CaptureContext() Context

	// ApplySnapshot replaces the live document state with the snapshot.
	// A nil snapshot means the empty document.
	ApplySnapshot(Snapshot)
}

// ProviderFuncs adapts plain functions to the Provider interface.
// Nil functions are treated as no-ops.
type ProviderFuncs struct {
	Capture    func() Snapshot
	CaptureCtx func() Context
	Apply      func(Snapshot)
}

// CaptureSnapshot implements Provider.
func (p ProviderFuncs) CaptureSnapshot() Snapshot {
	if p.Capture == nil {
		return nil
	}
	return p.Capture()
}

// CaptureContext implements Provider.
func (p ProviderFuncs) CaptureContext() Context {
	if p.CaptureCtx == nil {
		return Context{}
	}
	return p.CaptureCtx()
}

// ApplySnapshot implements Provider.
func (p ProviderFuncs) ApplySnapshot(s Snapshot) {
	if p.Apply != nil {
		p.Apply(s)
	}
}
