// Package timeline provides the bounded, append-only history timeline.
//
// A Store holds an ordered sequence of entries plus a cursor marking
// the current document state. Appending truncates any undone branch
// (linear history), pushes the entry, and evicts the oldest entry when
// the configured bound is exceeded. Undo, redo, jump, and restore only
// move the cursor; entries are immutable once appended, which is what
// makes concurrent reads of history safe.
package timeline
