package history

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/chronicle/internal/engine/timeline"
	"github.com/dshills/chronicle/internal/event"
)

// timerSet runs the autosave and automatic-checkpoint loops. Both call
// into the engine's normal entry points, so their wakeups serialize
// through the engine lock along with manual edits and playback ticks.
type timerSet struct {
	engine *Engine

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func newTimerSet(e *Engine) *timerSet {
	return &timerSet{engine: e}
}

// StartTimers launches the autosave and checkpoint-interval loops.
// No-op if already running. Intervals are read from the settings at
// start; ApplySettings followed by a restart picks up changes.
func (e *Engine) StartTimers(ctx context.Context) {
	e.timers.start(ctx)
}

// StopTimers cancels the timer loops and waits for them. Idempotent.
func (e *Engine) StopTimers() {
	e.timers.stop()
}

func (t *timerSet) start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}

	ctx, t.cancel = context.WithCancel(ctx)
	t.running = true

	settings := t.engine.Settings()

	if t.engine.saver != nil && t.engine.export != nil {
		t.wg.Add(1)
		go t.loop(ctx, settings.AutoSaveInterval, t.engine.autoSave)
	}

	t.wg.Add(1)
	go t.loop(ctx, settings.CheckpointInterval, t.engine.autoCheckpoint)
}

func (t *timerSet) stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.cancel()
	t.running = false
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *timerSet) loop(ctx context.Context, interval time.Duration, tick func()) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}

// autoSave exports the timeline and hands the bytes to the configured
// store. The export reads a consistent view; an entry being appended
// concurrently is either fully included or fully excluded.
func (e *Engine) autoSave() {
	e.mu.Lock()
	settings := e.settings
	data, err := e.export(e.store, settings)
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("autosave export failed", "error", err)
		return
	}
	if err := e.saver.Save(data); err != nil {
		e.logger.Error("autosave write failed", "error", err)
		return
	}

	if cur := e.store.Current(); cur != nil {
		_ = e.store.UpdateFlags(cur.ID, func(f *timeline.Flags) {
			f.AutoSave = true
		})
	}

	e.publish(event.TopicAutoSave, nil)
}

// autoCheckpoint creates an interval checkpoint unless the current
// entry is already one, so idle sessions do not fill the timeline.
func (e *Engine) autoCheckpoint() {
	cur := e.store.Current()
	if cur == nil || cur.Flags.Checkpoint {
		return
	}
	e.CreateCheckpoint("Automatic checkpoint")
}
