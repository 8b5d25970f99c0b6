// Package playback replays history by advancing the timeline cursor on
// a fixed cadence.
//
// The scheduler drives the same redo primitive used by manual
// navigation. It is not locked against concurrent edits: an append
// while playing truncates everything ahead of the cursor, and the next
// tick stops playback early. Hosts should suspend editing while a
// replay runs.
package playback

import (
	"sync"
	"time"

	"github.com/dshills/chronicle/internal/engine/timeline"
	"github.com/dshills/chronicle/internal/event"
)

// Advancer is the slice of the history engine playback needs.
type Advancer interface {
	Redo() (*timeline.Entry, error)
	CanRedo() bool
}

// Scheduler advances an Advancer one step per tick until the timeline
// end is reached.
type Scheduler struct {
	mu sync.Mutex

	advancer Advancer
	bus      *event.Bus
	speed    float64

	ticker  *time.Ticker
	done    chan struct{}
	wg      sync.WaitGroup
	playing bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSpeed sets the playback speed in ticks per second. Non-positive
// values keep the default of 1.
func WithSpeed(speed float64) Option {
	return func(s *Scheduler) {
		if speed > 0 {
			s.speed = speed
		}
	}
}

// WithBus publishes playback start/stop events to the bus.
func WithBus(bus *event.Bus) Option {
	return func(s *Scheduler) {
		s.bus = bus
	}
}

// NewScheduler creates a stopped scheduler over the advancer.
func NewScheduler(advancer Advancer, opts ...Option) *Scheduler {
	s := &Scheduler{
		advancer: advancer,
		speed:    1.0,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins ticking. No-op if already playing or already at the
// last entry.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.playing || !s.advancer.CanRedo() {
		s.mu.Unlock()
		return
	}

	s.playing = true
	s.ticker = time.NewTicker(s.period())
	s.done = make(chan struct{})

	s.wg.Add(1)
	go s.run(s.ticker, s.done)
	s.mu.Unlock()

	s.publish(event.TopicPlaybackStarted)
}

// Stop cancels playback. Idempotent; safe to call while stopped.
func (s *Scheduler) Stop() {
	if s.stopInternal() {
		s.publish(event.TopicPlaybackStopped)
	}
}

// IsPlaying returns true while the tick loop runs.
func (s *Scheduler) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// SetSpeed changes the tick rate. Takes effect immediately when
// playing.
func (s *Scheduler) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.speed = speed
	if s.playing && s.ticker != nil {
		s.ticker.Reset(s.period())
	}
}

// Speed returns the current playback speed.
func (s *Scheduler) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// period derives the tick interval from the speed multiplier. Callers
// hold s.mu.
func (s *Scheduler) period() time.Duration {
	return time.Duration(float64(time.Second) / s.speed)
}

func (s *Scheduler) run(ticker *time.Ticker, done chan struct{}) {
	defer s.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !s.tick() {
				// End of timeline: the scheduler stops itself.
				go s.Stop()
				return
			}
		}
	}
}

// tick advances one entry. Returns false when playback should end.
func (s *Scheduler) tick() bool {
	if _, err := s.advancer.Redo(); err != nil {
		return false
	}
	return s.advancer.CanRedo()
}

// stopInternal tears down the loop. Returns true if it was playing.
func (s *Scheduler) stopInternal() bool {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return false
	}
	s.playing = false
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	return true
}

func (s *Scheduler) publish(topic event.Topic) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.NewEnvelope(topic, nil, "playback"))
}
