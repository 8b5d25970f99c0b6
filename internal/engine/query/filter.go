package query

import (
	"strings"
	"time"

	"github.com/dshills/chronicle/internal/engine/action"
	"github.com/dshills/chronicle/internal/engine/timeline"
)

// Filter selects timeline entries for inspection UIs. Zero-value
// fields match everything; set fields are combined with AND.
type Filter struct {
	// Categories matches entries containing an action in any of the
	// given categories.
	Categories []action.Category

	// Kinds matches entries containing an action of any given kind.
	// Batch children are searched.
	Kinds []action.Kind

	// After/Before bound the entry timestamp. Zero values are open.
	After  time.Time
	Before time.Time

	// Text is a case-insensitive substring match against entry and
	// action descriptions, tags, and target names.
	Text string

	// CheckpointsOnly keeps only checkpoint-flagged entries.
	CheckpointsOnly bool

	// BookmarkedOnly keeps only bookmarked entries.
	BookmarkedOnly bool

	// StarredOnly keeps only starred entries.
	StarredOnly bool
}

// Apply returns the entries matching the filter, preserving timeline
// order. The input is read-only; callers pass a store snapshot.
func (f Filter) Apply(entries []*timeline.Entry) []*timeline.Entry {
	var out []*timeline.Entry
	for _, entry := range entries {
		if f.matches(entry) {
			out = append(out, entry)
		}
	}
	return out
}

func (f Filter) matches(entry *timeline.Entry) bool {
	if f.CheckpointsOnly && !entry.Flags.Checkpoint {
		return false
	}
	if f.BookmarkedOnly && !entry.Flags.Bookmarked {
		return false
	}
	if f.StarredOnly && !entry.Flags.Starred {
		return false
	}

	if !f.After.IsZero() && entry.Timestamp.Before(f.After) {
		return false
	}
	if !f.Before.IsZero() && entry.Timestamp.After(f.Before) {
		return false
	}

	if len(f.Categories) > 0 && !f.matchesCategory(entry) {
		return false
	}
	if len(f.Kinds) > 0 && !f.matchesKind(entry) {
		return false
	}
	if f.Text != "" && !f.matchesText(entry) {
		return false
	}

	return true
}

func (f Filter) matchesCategory(entry *timeline.Entry) bool {
	for _, a := range flatten(entry.Actions) {
		for _, cat := range f.Categories {
			if a.Category == cat {
				return true
			}
		}
	}
	return false
}

func (f Filter) matchesKind(entry *timeline.Entry) bool {
	for _, a := range flatten(entry.Actions) {
		for _, kind := range f.Kinds {
			if a.Kind == kind {
				return true
			}
		}
	}
	return false
}

func (f Filter) matchesText(entry *timeline.Entry) bool {
	needle := strings.ToLower(f.Text)

	if strings.Contains(strings.ToLower(entry.Description), needle) {
		return true
	}
	for _, tag := range entry.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	for _, a := range flatten(entry.Actions) {
		if strings.Contains(strings.ToLower(a.Description), needle) {
			return true
		}
		if a.Target != nil && strings.Contains(strings.ToLower(a.Target.Name), needle) {
			return true
		}
	}
	return false
}

// flatten expands batch actions into their children, keeping order.
func flatten(actions []*action.Action) []*action.Action {
	out := make([]*action.Action, 0, len(actions))
	for _, a := range actions {
		out = append(out, a)
		if a.IsBatch() {
			out = append(out, a.Children...)
		}
	}
	return out
}
