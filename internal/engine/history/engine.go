package history

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/dshills/chronicle/internal/config"
	"github.com/dshills/chronicle/internal/engine/action"
	"github.com/dshills/chronicle/internal/engine/snapshot"
	"github.com/dshills/chronicle/internal/engine/timeline"
	"github.com/dshills/chronicle/internal/event"
)

// ErrBatchOpen is returned when a batch is started while one is open.
// Batches do not nest.
var ErrBatchOpen = errors.New("batch already open")

// Saver persists exported timeline bytes. Implemented by the host's
// byte store; the engine never touches the transport itself.
type Saver interface {
	Save(data []byte) error
}

// Exporter serializes the timeline for autosave.
type Exporter func(*timeline.Store, config.Settings) ([]byte, error)

// Engine owns one timeline and coordinates recording, batching,
// navigation, checkpoints, and the autosave/checkpoint timers.
//
// All mutating operations run under the engine's lock; the timers and
// the playback scheduler call through the same entry points, so their
// wakeups are serialized in whichever order the lock grants.
type Engine struct {
	mu sync.Mutex

	store    *timeline.Store
	provider snapshot.Provider
	bus      *event.Bus
	settings config.Settings

	// Batch state: Idle <-> Open.
	batching  bool
	batchDesc string
	batchBuf  []*action.Action

	// Autosave wiring; nil disables autosave.
	saver  Saver
	export Exporter

	timers *timerSet

	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSettings sets the engine settings.
func WithSettings(s config.Settings) Option {
	return func(e *Engine) {
		s.Validate()
		e.settings = s
	}
}

// WithBus sets the observer bus.
func WithBus(bus *event.Bus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithStore seeds the engine with an existing timeline, typically one
// rehydrated by the persistence adapter.
func WithStore(store *timeline.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithAutoSave wires the autosave timer to a byte store.
func WithAutoSave(saver Saver, export Exporter) Option {
	return func(e *Engine) {
		e.saver = saver
		e.export = export
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine around the document provider.
func New(provider snapshot.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		settings: config.Default(),
		logger:   slog.Default().With("component", "history"),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		e.store = timeline.NewStore(e.settings.MaxHistorySize)
	} else {
		e.store.SetMaxSize(e.settings.MaxHistorySize)
	}
	e.timers = newTimerSet(e)

	return e
}

// Store exposes the timeline for read-only consumers (query engine,
// persistence adapter).
func (e *Engine) Store() *timeline.Store {
	return e.store
}

// Settings returns the current settings.
func (e *Engine) Settings() config.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// ApplySettings replaces the settings, resizing the timeline bound.
// Running timers pick up new intervals on restart.
func (e *Engine) ApplySettings(s config.Settings) {
	s.Validate()

	e.mu.Lock()
	e.settings = s
	e.mu.Unlock()

	e.store.SetMaxSize(s.MaxHistorySize)
}

// Record commits an action to history. While a batch is open the action
// is buffered and the timeline is untouched; otherwise it is wrapped in
// a new entry and appended, truncating any undone branch.
// Returns the appended entry, or nil while batching.
func (e *Engine) Record(a *action.Action) *timeline.Entry {
	e.mu.Lock()
	if e.batching {
		e.batchBuf = append(e.batchBuf, a)
		e.mu.Unlock()
		e.publish(event.TopicActionRecorded, a)
		return nil
	}

	entry := e.newEntryLocked(a)
	e.store.Append(entry)
	e.mu.Unlock()

	e.publish(event.TopicActionRecorded, a)
	return entry
}

// Perform is a convenience wrapper: classify, construct, and record.
func (e *Engine) Perform(kind action.Kind, description string, before, after snapshot.Snapshot) (*action.Action, *timeline.Entry) {
	a := action.New(kind, description, before, after)
	entry := e.Record(a)
	return a, entry
}

// Undo moves the cursor back one entry and applies the resulting state
// to the document. Returns the new current entry, nil when the timeline
// is fully undone (empty document), or ErrNothingToUndo at the start.
func (e *Engine) Undo() (*timeline.Entry, error) {
	e.mu.Lock()
	undone := e.store.Current()
	entry, err := e.store.Undo()
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.applyLocked(entry)
	e.mu.Unlock()

	if undone != nil {
		e.publish(event.TopicUndo, undone.TopAction())
	}
	return entry, nil
}

// Redo moves the cursor forward one entry and applies its state.
func (e *Engine) Redo() (*timeline.Entry, error) {
	e.mu.Lock()
	entry, err := e.store.Redo()
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.applyLocked(entry)
	e.mu.Unlock()

	e.publish(event.TopicRedo, entry.TopAction())
	return entry, nil
}

// JumpTo sets the cursor to any valid index and applies that entry's
// state. Non-destructive: equivalent to chained undo/redo.
func (e *Engine) JumpTo(index int) (*timeline.Entry, error) {
	e.mu.Lock()
	entry, err := e.store.JumpTo(index)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.applyLocked(entry)
	e.mu.Unlock()

	e.publish(event.TopicJump, entry)
	return entry, nil
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.store.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.store.CanRedo()
}

// Current returns the entry at the cursor, or nil.
func (e *Engine) Current() *timeline.Entry {
	return e.store.Current()
}

// Clear destroys the timeline. Irreversible; the caller is responsible
// for user confirmation.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.store.Clear()
	e.mu.Unlock()

	e.publish(event.TopicCleared, nil)
}

// SetBookmarked toggles the bookmark flag on an entry. Flags are
// display metadata; this never mutates recorded snapshots.
func (e *Engine) SetBookmarked(entryID string, bookmarked bool) error {
	return e.store.UpdateFlags(entryID, func(f *timeline.Flags) {
		f.Bookmarked = bookmarked
	})
}

// SetStarred toggles the star flag on an entry.
func (e *Engine) SetStarred(entryID string, starred bool) error {
	return e.store.UpdateFlags(entryID, func(f *timeline.Flags) {
		f.Starred = starred
	})
}

// newEntryLocked wraps actions into an entry with captured context.
func (e *Engine) newEntryLocked(actions ...*action.Action) *timeline.Entry {
	entry := timeline.NewEntry(actions...)
	entry.Context = e.provider.CaptureContext()
	if top := entry.TopAction(); top != nil {
		entry.Description = top.Description
	}
	return entry
}

// applyLocked pushes an entry's state onto the live document. A nil
// entry means the empty document.
func (e *Engine) applyLocked(entry *timeline.Entry) {
	var snap snapshot.Snapshot
	if entry != nil {
		snap = entry.State()
	}
	e.provider.ApplySnapshot(snap)
}

// publish emits an observer event. Observer failures are the bus's
// concern; they never roll back the mutation already committed.
func (e *Engine) publish(topic event.Topic, payload any) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(event.NewEnvelope(topic, payload, "history"))
}
