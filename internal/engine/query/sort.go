package query

import (
	"sort"

	"github.com/dshills/chronicle/internal/engine/action"
	"github.com/dshills/chronicle/internal/engine/timeline"
)

// SortField identifies a sortable entry attribute.
type SortField string

// Sortable fields.
const (
	SortByTimestamp   SortField = "timestamp"
	SortByDescription SortField = "description"
	SortByActionCount SortField = "actions"
	SortBySeverity    SortField = "severity"
)

// SortKey pairs a field with a direction.
type SortKey struct {
	Field      SortField
	Descending bool
}

// severityRank orders severities for comparison.
var severityRank = map[action.Severity]int{
	action.SeverityLow:    0,
	action.SeverityMedium: 1,
	action.SeverityHigh:   2,
}

// Sort orders entries by the given keys, earlier keys taking
// precedence. The sort is stable, so timeline order breaks ties.
// The input slice is sorted in place and returned.
func Sort(entries []*timeline.Entry, keys ...SortKey) []*timeline.Entry {
	if len(keys) == 0 {
		return entries
	}

	sort.SliceStable(entries, func(i, j int) bool {
		for _, key := range keys {
			cmp := compare(entries[i], entries[j], key.Field)
			if cmp == 0 {
				continue
			}
			if key.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	return entries
}

func compare(a, b *timeline.Entry, field SortField) int {
	switch field {
	case SortByDescription:
		switch {
		case a.Description < b.Description:
			return -1
		case a.Description > b.Description:
			return 1
		}
		return 0
	case SortByActionCount:
		return a.ActionCount() - b.ActionCount()
	case SortBySeverity:
		return maxSeverity(a) - maxSeverity(b)
	default: // SortByTimestamp
		switch {
		case a.Timestamp.Before(b.Timestamp):
			return -1
		case a.Timestamp.After(b.Timestamp):
			return 1
		}
		return 0
	}
}

// maxSeverity returns the rank of the most severe action in the entry.
func maxSeverity(entry *timeline.Entry) int {
	rank := 0
	for _, a := range flatten(entry.Actions) {
		if r := severityRank[a.Severity]; r > rank {
			rank = r
		}
	}
	return rank
}
