package timeline

import (
	"errors"
	"log/slog"
	"sync"
)

// Common errors for timeline operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrOutOfRange    = errors.New("index out of range")
	ErrNotFound      = errors.New("entry not found")
)

// DefaultMaxSize bounds the timeline when no size is configured.
const DefaultMaxSize = 1000

// Store is the bounded, append-only timeline plus a cursor marking the
// current state. The cursor is -1 when the timeline is empty or fully
// undone. Entries past the cursor exist only between an undo and the
// next append; appending truncates them first (linear history).
//
// All mutating operations are serialized by the store's lock. Readers
// see a consistent view via copy-on-read (Entries) or the read lock.
type Store struct {
	mu sync.RWMutex

	entries []*Entry
	cursor  int
	maxSize int

	// byID indexes live entries for restore-by-id. Pruned on eviction
	// and truncation, so an evicted checkpoint is simply not found.
	byID map[string]int

	logger *slog.Logger
}

// NewStore creates an empty timeline bounded to maxSize entries.
func NewStore(maxSize int) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Store{
		cursor:  -1,
		maxSize: maxSize,
		byID:    make(map[string]int),
		logger:  slog.Default().With("component", "timeline"),
	}
}

// Append adds an entry after the cursor and makes it current. Any
// entries past the cursor (a stale redo branch) are discarded first.
// If the timeline exceeds its bound the oldest entry is evicted; the
// cursor is adjusted so it keeps pointing at the same logical entry.
func (s *Store) Append(entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(entry)
}

func (s *Store) appendLocked(entry *Entry) {
	s.checkCursorLocked()

	// Truncate the stale redo branch.
	if s.cursor < len(s.entries)-1 {
		for _, stale := range s.entries[s.cursor+1:] {
			delete(s.byID, stale.ID)
		}
		s.entries = s.entries[:s.cursor+1]
	}

	s.entries = append(s.entries, entry)
	s.cursor = len(s.entries) - 1
	s.byID[entry.ID] = s.cursor

	// Evict from the front past the bound. Strict FIFO: history must
	// stay chronological for the undo metaphor to hold.
	if len(s.entries) > s.maxSize {
		excess := len(s.entries) - s.maxSize
		for _, old := range s.entries[:excess] {
			delete(s.byID, old.ID)
		}
		s.entries = s.entries[excess:]
		s.cursor -= excess
		if s.cursor < -1 {
			s.cursor = -1
		}
		s.reindexLocked()
	}
}

// EntryAt returns the entry at index.
func (s *Store) EntryAt(index int) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.entries) {
		return nil, ErrOutOfRange
	}
	return s.entries[index], nil
}

// Current returns the entry at the cursor, or nil when the cursor is -1.
func (s *Store) Current() *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cursor < 0 {
		return nil
	}
	return s.entries[s.cursor]
}

// Cursor returns the current cursor index (-1 when empty).
func (s *Store) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Len returns the number of entries on the timeline.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Undo moves the cursor back one entry and returns the new current
// entry. Returns nil when the cursor moves to -1 (empty document).
// Nothing is discarded; the undone entries remain reachable by Redo.
func (s *Store) Undo() (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkCursorLocked()

	if s.cursor < 0 {
		return nil, ErrNothingToUndo
	}

	s.cursor--
	if s.cursor < 0 {
		return nil, nil
	}
	return s.entries[s.cursor], nil
}

// Redo moves the cursor forward one entry and returns it.
func (s *Store) Redo() (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkCursorLocked()

	if s.cursor >= len(s.entries)-1 {
		return nil, ErrNothingToRedo
	}

	s.cursor++
	return s.entries[s.cursor], nil
}

// CanUndo returns true if the cursor can move back.
func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor >= 0
}

// CanRedo returns true if the cursor can move forward.
func (s *Store) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor < len(s.entries)-1
}

// JumpTo sets the cursor directly to index and returns the entry there.
// Unlike an undo/redo chain followed by an append, this is purely
// cursor movement; nothing is discarded.
func (s *Store) JumpTo(index int) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return nil, ErrOutOfRange
	}

	s.cursor = index
	return s.entries[index], nil
}

// IndexOf returns the index of the entry with the given id.
func (s *Store) IndexOf(id string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return 0, ErrNotFound
	}
	return idx, nil
}

// Restore sets the cursor to the entry with the given id, anywhere on
// the timeline. This is the one operation that can move the cursor
// forward past previously undone entries without discarding them. An
// evicted id is ErrNotFound.
func (s *Store) Restore(id string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	s.cursor = idx
	return s.entries[idx], nil
}

// UpdateFlags mutates an entry's display flags under the store lock.
// Flags are the only mutable part of an appended entry; snapshots and
// actions stay immutable.
func (s *Store) UpdateFlags(id string, update func(*Flags)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	update(&s.entries[idx].Flags)
	return nil
}

// Clear resets the timeline to empty. Irreversible; confirmation is the
// caller's concern.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.cursor = -1
	s.byID = make(map[string]int)
}

// Entries returns a copy of the timeline slice for consistent reads.
// The entries themselves are shared; they are immutable once appended.
func (s *Store) Entries() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// MaxSize returns the timeline bound.
func (s *Store) MaxSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxSize
}

// SetMaxSize changes the bound, evicting oldest entries if the timeline
// is already larger.
func (s *Store) SetMaxSize(maxSize int) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxSize = maxSize
	if len(s.entries) <= maxSize {
		return
	}

	excess := len(s.entries) - maxSize
	for _, old := range s.entries[:excess] {
		delete(s.byID, old.ID)
	}
	s.entries = s.entries[excess:]
	s.cursor -= excess
	if s.cursor < -1 {
		s.cursor = -1
	}
	s.reindexLocked()
}

// SetCursor clamps and sets the cursor directly. Used by import, which
// validates structure separately.
func (s *Store) SetCursor(cursor int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cursor < -1 {
		cursor = -1
	}
	if cursor >= len(s.entries) {
		cursor = len(s.entries) - 1
	}
	s.cursor = cursor
}

// reindexLocked rebuilds the id index after a front eviction shifted
// every surviving index.
func (s *Store) reindexLocked() {
	for i, e := range s.entries {
		s.byID[e.ID] = i
	}
}

// checkCursorLocked guards the cursor invariant -1 <= cursor < len.
// A violation is a logic bug; clamp and log rather than crash so the
// editor stays usable.
func (s *Store) checkCursorLocked() {
	if s.cursor >= -1 && s.cursor < len(s.entries) {
		return
	}
	s.logger.Error("cursor out of range, clamping",
		"cursor", s.cursor, "entries", len(s.entries))
	if s.cursor < -1 {
		s.cursor = -1
	} else {
		s.cursor = len(s.entries) - 1
	}
}
