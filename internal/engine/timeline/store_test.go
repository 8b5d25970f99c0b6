package timeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dshills/chronicle/internal/engine/action"
	"github.com/dshills/chronicle/internal/engine/snapshot"
)

// newTestEntry creates an entry holding one action whose after state
// encodes n.
func newTestEntry(n int) *Entry {
	after := snapshot.Snapshot(fmt.Sprintf(`{"n":%d}`, n))
	a := action.New(action.KindUpdate, fmt.Sprintf("Edit %d", n), nil, after)
	return NewEntry(a)
}

func fillStore(t *testing.T, s *Store, n int) []*Entry {
	t.Helper()
	entries := make([]*Entry, n)
	for i := 0; i < n; i++ {
		entries[i] = newTestEntry(i)
		s.Append(entries[i])
	}
	return entries
}

func TestNewStoreEmpty(t *testing.T) {
	s := NewStore(10)
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
	if s.Cursor() != -1 {
		t.Errorf("cursor = %d, want -1", s.Cursor())
	}
	if s.Current() != nil {
		t.Error("current should be nil on empty store")
	}
}

func TestAppendAdvancesCursor(t *testing.T) {
	s := NewStore(10)
	fillStore(t, s, 3)

	if s.Len() != 3 {
		t.Errorf("len = %d, want 3", s.Len())
	}
	if s.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", s.Cursor())
	}
}

func TestTruncateOnAppend(t *testing.T) {
	s := NewStore(10)
	fillStore(t, s, 5)

	// Undo twice: cursor 4 -> 2.
	if _, err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if s.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", s.Cursor())
	}

	stale3, _ := s.EntryAt(3)
	stale4, _ := s.EntryAt(4)

	fresh := newTestEntry(99)
	s.Append(fresh)

	if s.Len() != 4 {
		t.Errorf("len = %d, want 4", s.Len())
	}
	if s.Cursor() != 3 {
		t.Errorf("cursor = %d, want 3", s.Cursor())
	}
	if s.Current() != fresh {
		t.Error("current should be the fresh entry")
	}

	// The stale redo branch is gone, including from the id index.
	if _, err := s.IndexOf(stale3.ID); !errors.Is(err, ErrNotFound) {
		t.Error("truncated entry still indexed")
	}
	if _, err := s.IndexOf(stale4.ID); !errors.Is(err, ErrNotFound) {
		t.Error("truncated entry still indexed")
	}
}

func TestBoundedGrowth(t *testing.T) {
	s := NewStore(3)
	entries := fillStore(t, s, 7)

	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	if s.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", s.Cursor())
	}

	// The three most recent survive.
	for i, want := range entries[4:] {
		got, err := s.EntryAt(i)
		if err != nil {
			t.Fatalf("entryAt(%d): %v", i, err)
		}
		if got != want {
			t.Errorf("entry %d is not the expected survivor", i)
		}
	}

	// Evicted entries are unreachable by id.
	if _, err := s.IndexOf(entries[0].ID); !errors.Is(err, ErrNotFound) {
		t.Error("evicted entry still indexed")
	}
}

func TestEvictionKeepsLogicalCursor(t *testing.T) {
	s := NewStore(3)
	fillStore(t, s, 3)

	current := s.Current()
	s.Append(newTestEntry(3)) // evicts index 0

	if s.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", s.Cursor())
	}
	// The previously current entry moved down one index but is intact.
	moved, err := s.EntryAt(1)
	if err != nil {
		t.Fatalf("entryAt(1): %v", err)
	}
	if moved != current {
		t.Error("eviction changed which entry indices point to incorrectly")
	}
}

func TestEntryAtOutOfRange(t *testing.T) {
	s := NewStore(10)
	fillStore(t, s, 2)

	for _, idx := range []int{-1, 2, 100} {
		if _, err := s.EntryAt(idx); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("EntryAt(%d) err = %v, want ErrOutOfRange", idx, err)
		}
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	const n = 5
	s := NewStore(10)
	entries := fillStore(t, s, n)

	// N undos end at the empty cursor.
	for i := 0; i < n; i++ {
		if _, err := s.Undo(); err != nil {
			t.Fatalf("undo %d: %v", i, err)
		}
	}
	if s.Cursor() != -1 {
		t.Errorf("cursor = %d, want -1", s.Cursor())
	}
	if s.Current() != nil {
		t.Error("current should be nil after full undo")
	}
	if _, err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("undo past start err = %v, want ErrNothingToUndo", err)
	}

	// N redos restore the cursor to the last entry.
	for i := 0; i < n; i++ {
		entry, err := s.Redo()
		if err != nil {
			t.Fatalf("redo %d: %v", i, err)
		}
		if entry != entries[i] {
			t.Errorf("redo %d returned wrong entry", i)
		}
	}
	if s.Cursor() != n-1 {
		t.Errorf("cursor = %d, want %d", s.Cursor(), n-1)
	}
	if _, err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("redo past end err = %v, want ErrNothingToRedo", err)
	}
}

func TestUndoReturnsNewCurrent(t *testing.T) {
	s := NewStore(10)
	entries := fillStore(t, s, 3)

	entry, err := s.Undo()
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if entry != entries[1] {
		t.Error("undo should return the new current entry")
	}
}

func TestCanUndoCanRedo(t *testing.T) {
	s := NewStore(10)
	if s.CanUndo() || s.CanRedo() {
		t.Error("empty store should allow neither undo nor redo")
	}

	fillStore(t, s, 2)
	if !s.CanUndo() {
		t.Error("should be able to undo")
	}
	if s.CanRedo() {
		t.Error("should not be able to redo at the end")
	}

	if _, err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !s.CanRedo() {
		t.Error("should be able to redo after undo")
	}
}

func TestJumpTo(t *testing.T) {
	s := NewStore(10)
	entries := fillStore(t, s, 5)

	entry, err := s.JumpTo(1)
	if err != nil {
		t.Fatalf("jump: %v", err)
	}
	if entry != entries[1] {
		t.Error("jump returned wrong entry")
	}
	if s.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", s.Cursor())
	}
	// Non-destructive: everything is still there.
	if s.Len() != 5 {
		t.Errorf("len = %d, want 5", s.Len())
	}

	if _, err := s.JumpTo(5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("jump out of range err = %v, want ErrOutOfRange", err)
	}
	if _, err := s.JumpTo(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("jump to -1 err = %v, want ErrOutOfRange", err)
	}
}

func TestRestoreMovesForward(t *testing.T) {
	s := NewStore(10)
	entries := fillStore(t, s, 5)

	// Undo back behind entry 3.
	for i := 0; i < 3; i++ {
		if _, err := s.Undo(); err != nil {
			t.Fatalf("undo: %v", err)
		}
	}
	if s.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", s.Cursor())
	}

	// Restore jumps forward past undone entries without discarding.
	entry, err := s.Restore(entries[3].ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if entry != entries[3] {
		t.Error("restore returned wrong entry")
	}
	if s.Cursor() != 3 {
		t.Errorf("cursor = %d, want 3", s.Cursor())
	}
	if s.Len() != 5 {
		t.Errorf("len = %d, want 5", s.Len())
	}
}

func TestRestoreUnknownID(t *testing.T) {
	s := NewStore(10)
	fillStore(t, s, 2)

	if _, err := s.Restore("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("restore unknown err = %v, want ErrNotFound", err)
	}
}

func TestRestoreEvictedID(t *testing.T) {
	s := NewStore(2)
	entries := fillStore(t, s, 4) // entries[0], entries[1] evicted

	if _, err := s.Restore(entries[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("restore evicted err = %v, want ErrNotFound", err)
	}
	if _, err := s.Restore(entries[3].ID); err != nil {
		t.Errorf("restore surviving entry: %v", err)
	}
}

func TestClear(t *testing.T) {
	s := NewStore(10)
	entries := fillStore(t, s, 3)

	s.Clear()

	if s.Len() != 0 || s.Cursor() != -1 {
		t.Errorf("after clear: len=%d cursor=%d", s.Len(), s.Cursor())
	}
	if _, err := s.IndexOf(entries[0].ID); !errors.Is(err, ErrNotFound) {
		t.Error("cleared entry still indexed")
	}
}

func TestUpdateFlags(t *testing.T) {
	s := NewStore(10)
	entries := fillStore(t, s, 2)

	err := s.UpdateFlags(entries[0].ID, func(f *Flags) {
		f.Bookmarked = true
		f.Starred = true
	})
	if err != nil {
		t.Fatalf("update flags: %v", err)
	}

	got, _ := s.EntryAt(0)
	if !got.Flags.Bookmarked || !got.Flags.Starred {
		t.Error("flags not updated")
	}

	if err := s.UpdateFlags("nope", func(f *Flags) {}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update unknown err = %v, want ErrNotFound", err)
	}
}

func TestSetMaxSizeShrinks(t *testing.T) {
	s := NewStore(10)
	entries := fillStore(t, s, 6)

	s.SetMaxSize(3)

	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	got, _ := s.EntryAt(0)
	if got != entries[3] {
		t.Error("shrink should keep the most recent entries")
	}
	if s.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", s.Cursor())
	}
}

func TestEntriesIsACopy(t *testing.T) {
	s := NewStore(10)
	fillStore(t, s, 3)

	view := s.Entries()
	view[0] = nil

	if got, _ := s.EntryAt(0); got == nil {
		t.Error("mutating the view must not affect the store")
	}
}

func TestEntryState(t *testing.T) {
	entry := newTestEntry(7)
	if string(entry.State()) != `{"n":7}` {
		t.Errorf("state = %q", entry.State())
	}

	empty := &Entry{}
	if empty.State() != nil {
		t.Error("entry without actions should have nil state")
	}
}

func TestEntryActionCount(t *testing.T) {
	first := action.New(action.KindCreate, "a", nil, nil)
	second := action.New(action.KindMove, "b", nil, nil)
	batch := action.NewBatch("batch", []*action.Action{first, second})

	entry := NewEntry(batch)
	if entry.ActionCount() != 2 {
		t.Errorf("action count = %d, want 2 (batch children)", entry.ActionCount())
	}

	plain := NewEntry(first)
	if plain.ActionCount() != 1 {
		t.Errorf("action count = %d, want 1", plain.ActionCount())
	}
}

func TestEntryClone(t *testing.T) {
	entry := newTestEntry(1)
	entry.Tags = []string{"alpha"}
	entry.Context.SelectionRefs = []string{"obj-1"}

	clone := entry.Clone()
	entry.Tags[0] = "beta"
	entry.Context.SelectionRefs[0] = "obj-2"
	entry.Actions[0].Description = "changed"

	if clone.Tags[0] != "alpha" {
		t.Error("clone tags were modified through original")
	}
	if clone.Context.SelectionRefs[0] != "obj-1" {
		t.Error("clone context was modified through original")
	}
	if clone.Actions[0].Description == "changed" {
		t.Error("clone actions were modified through original")
	}
}
