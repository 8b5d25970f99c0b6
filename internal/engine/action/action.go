package action

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/chronicle/internal/engine/snapshot"
)

// TargetRef is a non-owning reference to the document object an action
// affected. It is a lookup key for display; the action does not own the
// object's lifetime.
type TargetRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Action is one recorded, classified document mutation. Actions are
// immutable once appended to the timeline.
type Action struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`

	Target *TargetRef `json:"target,omitempty"`

	// Before and After are opaque state fragments owned exclusively by
	// the action; they are deep-copied at construction time.
	Before snapshot.Snapshot `json:"before,omitempty"`
	After  snapshot.Snapshot `json:"after,omitempty"`

	// Metadata is a free-form bag for display and analytics. It never
	// affects replay correctness.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Derived from Kind via Classify; never set independently.
	Classification

	// BatchID is set when the action was recorded inside an open batch.
	BatchID string `json:"batch_id,omitempty"`

	// Children is populated only for KindBatch.
	Children []*Action `json:"children,omitempty"`
}

// New creates a classified action for the given kind. Snapshots are
// cloned so the caller may keep mutating its own copies.
func New(kind Kind, description string, before, after snapshot.Snapshot) *Action {
	return &Action{
		ID:             uuid.NewString(),
		Kind:           kind,
		Description:    description,
		Timestamp:      time.Now(),
		Before:         before.Clone(),
		After:          after.Clone(),
		Classification: Classify(kind),
	}
}

// NewBatch creates a batch action aggregating children in order. The
// batch's Before/After span from the first child's Before to the last
// child's After.
func NewBatch(description string, children []*Action) *Action {
	a := New(KindBatch, description, nil, nil)
	a.Children = children
	if len(children) > 0 {
		a.Before = children[0].Before.Clone()
		a.After = children[len(children)-1].After.Clone()
		for _, child := range children {
			child.BatchID = a.ID
		}
	}
	return a
}

// WithTarget sets the target reference and returns the action for chaining.
func (a *Action) WithTarget(id, typ, name string) *Action {
	a.Target = &TargetRef{ID: id, Type: typ, Name: name}
	return a
}

// WithMetadata sets a metadata key and returns the action for chaining.
func (a *Action) WithMetadata(key string, value any) *Action {
	if a.Metadata == nil {
		a.Metadata = make(map[string]any)
	}
	a.Metadata[key] = value
	return a
}

// IsBatch returns true if the action aggregates child actions.
func (a *Action) IsBatch() bool {
	return a.Kind == KindBatch
}

// Clone creates a deep copy of the action.
func (a *Action) Clone() *Action {
	clone := *a
	clone.Before = a.Before.Clone()
	clone.After = a.After.Clone()

	if a.Target != nil {
		target := *a.Target
		clone.Target = &target
	}

	if a.Metadata != nil {
		clone.Metadata = make(map[string]any, len(a.Metadata))
		for k, v := range a.Metadata {
			clone.Metadata[k] = v
		}
	}

	if a.Children != nil {
		clone.Children = make([]*Action, len(a.Children))
		for i, child := range a.Children {
			clone.Children[i] = child.Clone()
		}
	}

	return &clone
}
