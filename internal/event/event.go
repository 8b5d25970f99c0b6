package event

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a hierarchical event name (e.g. "history.undo").
type Topic string

// Topics published by the history engine.
const (
	// TopicAll subscribes to every topic.
	TopicAll Topic = "*"

	TopicActionRecorded  Topic = "history.action.recorded"
	TopicUndo            Topic = "history.undo"
	TopicRedo            Topic = "history.redo"
	TopicJump            Topic = "history.jump"
	TopicCheckpoint      Topic = "history.checkpoint"
	TopicRestore         Topic = "history.restore"
	TopicCleared         Topic = "history.cleared"
	TopicAutoSave        Topic = "history.autosave"
	TopicPlaybackStarted Topic = "history.playback.started"
	TopicPlaybackStopped Topic = "history.playback.stopped"
)

// Meta contains standard information attached to every envelope.
type Meta struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was published.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// Envelope wraps a published payload with its topic and metadata.
// Envelopes are immutable once created.
type Envelope struct {
	Topic   Topic
	Payload any
	Meta    Meta
}

// NewEnvelope creates an envelope with fresh metadata.
func NewEnvelope(topic Topic, payload any, source string) Envelope {
	return Envelope{
		Topic:   topic,
		Payload: payload,
		Meta: Meta{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}
