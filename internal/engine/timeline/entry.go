package timeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/chronicle/internal/engine/action"
	"github.com/dshills/chronicle/internal/engine/snapshot"
)

// Flags are independent markers on an entry. They are not mutually
// exclusive; a checkpoint may also be bookmarked, for example.
type Flags struct {
	Checkpoint   bool `json:"checkpoint,omitempty"`
	AutoSave     bool `json:"auto_save,omitempty"`
	ManualSave   bool `json:"manual_save,omitempty"`
	RestorePoint bool `json:"restore_point,omitempty"`
	Bookmarked   bool `json:"bookmarked,omitempty"`
	Starred      bool `json:"starred,omitempty"`
}

// Entry is one point on the timeline: one or more actions plus the
// document-level context captured when they were recorded. Entries are
// immutable once appended, except for display flags.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Actions holds one action, or several for a closed batch.
	Actions []*action.Action `json:"actions"`

	Context snapshot.Context `json:"context"`
	Flags   Flags            `json:"flags"`

	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// NewEntry creates an entry wrapping the given actions.
func NewEntry(actions ...*action.Action) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Actions:   actions,
	}
}

// State returns the document snapshot this entry represents: the after
// state of its last action. Applying it reproduces the document exactly
// as it was after this entry was recorded.
func (e *Entry) State() snapshot.Snapshot {
	if len(e.Actions) == 0 {
		return nil
	}
	return e.Actions[len(e.Actions)-1].After
}

// TopAction returns the most recent action in the entry, or nil.
func (e *Entry) TopAction() *action.Action {
	if len(e.Actions) == 0 {
		return nil
	}
	return e.Actions[len(e.Actions)-1]
}

// ActionCount returns the number of actions, counting batch children.
func (e *Entry) ActionCount() int {
	count := 0
	for _, a := range e.Actions {
		if a.IsBatch() {
			count += len(a.Children)
			continue
		}
		count++
	}
	return count
}

// Clone creates a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	clone := *e
	clone.Context = e.Context.Clone()

	if e.Actions != nil {
		clone.Actions = make([]*action.Action, len(e.Actions))
		for i, a := range e.Actions {
			clone.Actions[i] = a.Clone()
		}
	}

	if e.Tags != nil {
		clone.Tags = make([]string, len(e.Tags))
		copy(clone.Tags, e.Tags)
	}

	return &clone
}
