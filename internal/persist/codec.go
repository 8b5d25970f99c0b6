package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/chronicle/internal/config"
	"github.com/dshills/chronicle/internal/engine/action"
	"github.com/dshills/chronicle/internal/engine/timeline"
)

// ErrMalformedData is returned when imported bytes are structurally
// invalid. Import is all-or-nothing: the caller's live timeline is
// never touched on failure.
var ErrMalformedData = errors.New("malformed timeline data")

// FormatVersion is the serialization format version.
const FormatVersion = 1

// envelope is the on-disk shape of an exported timeline.
type envelope struct {
	FormatVersion int               `json:"format_version"`
	ExportedAt    time.Time         `json:"exported_at"`
	Settings      wireSettings      `json:"settings"`
	Cursor        int               `json:"cursor"`
	Entries       []*timeline.Entry `json:"entries"`
}

// wireSettings serializes settings with durations in milliseconds.
type wireSettings struct {
	MaxHistorySize       int     `json:"max_history_size"`
	AutoSaveIntervalMS   int64   `json:"autosave_interval_ms"`
	CheckpointIntervalMS int64   `json:"checkpoint_interval_ms"`
	PlaybackSpeed        float64 `json:"playback_speed"`
	Compression          bool    `json:"compression"`
	AuditLog             bool    `json:"audit_log"`
	Notifications        bool    `json:"notifications"`
}

func toWire(s config.Settings) wireSettings {
	return wireSettings{
		MaxHistorySize:       s.MaxHistorySize,
		AutoSaveIntervalMS:   s.AutoSaveInterval.Milliseconds(),
		CheckpointIntervalMS: s.CheckpointInterval.Milliseconds(),
		PlaybackSpeed:        s.PlaybackSpeed,
		Compression:          s.Compression,
		AuditLog:             s.AuditLog,
		Notifications:        s.Notifications,
	}
}

func fromWire(w wireSettings) config.Settings {
	s := config.Settings{
		MaxHistorySize:     w.MaxHistorySize,
		AutoSaveInterval:   time.Duration(w.AutoSaveIntervalMS) * time.Millisecond,
		CheckpointInterval: time.Duration(w.CheckpointIntervalMS) * time.Millisecond,
		PlaybackSpeed:      w.PlaybackSpeed,
		Compression:        w.Compression,
		AuditLog:           w.AuditLog,
		Notifications:      w.Notifications,
	}
	s.Validate()
	return s
}

// Export serializes the full timeline, including nested batch
// children, plus the engine settings. The store's copy-on-read view
// means an entry appended mid-export is either fully included or fully
// excluded.
func Export(store *timeline.Store, settings config.Settings) ([]byte, error) {
	env := envelope{
		FormatVersion: FormatVersion,
		Settings:      toWire(settings),
		Cursor:        store.Cursor(),
		Entries:       store.Entries(),
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding timeline: %w", err)
	}

	// Stamp the export time after encoding so envelope equality is
	// content-addressable in tests.
	data, err = sjson.SetBytes(data, "exported_at", time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("stamping export: %w", err)
	}

	return data, nil
}

// Import deserializes an exported timeline. Structurally invalid input
// returns ErrMalformedData; a cursor pointing past the entries is
// clamped into range. On success the returned store fully replaces the
// caller's timeline.
func Import(data []byte) (*timeline.Store, config.Settings, error) {
	if err := validate(data); err != nil {
		return nil, config.Settings{}, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, config.Settings{}, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	settings := fromWire(env.Settings)

	store := timeline.NewStore(settings.MaxHistorySize)
	for _, entry := range env.Entries {
		reclassify(entry.Actions)
		store.Append(entry)
	}
	store.SetCursor(env.Cursor)

	return store, settings, nil
}

// validate checks structure with gjson before committing to a full
// decode, so corrupt input is rejected without allocating a timeline.
func validate(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: not valid JSON", ErrMalformedData)
	}

	root := gjson.ParseBytes(data)

	version := root.Get("format_version")
	if !version.Exists() || version.Type != gjson.Number {
		return fmt.Errorf("%w: missing format_version", ErrMalformedData)
	}
	if version.Int() != FormatVersion {
		return fmt.Errorf("%w: unsupported format version %d", ErrMalformedData, version.Int())
	}

	cursor := root.Get("cursor")
	if !cursor.Exists() || cursor.Type != gjson.Number {
		return fmt.Errorf("%w: missing cursor", ErrMalformedData)
	}
	if cursor.Int() < -1 {
		return fmt.Errorf("%w: cursor %d out of range", ErrMalformedData, cursor.Int())
	}

	entries := root.Get("entries")
	if !entries.Exists() || !entries.IsArray() {
		return fmt.Errorf("%w: missing entries", ErrMalformedData)
	}

	var invalid error
	entries.ForEach(func(_, entry gjson.Result) bool {
		if entry.Get("id").String() == "" {
			invalid = fmt.Errorf("%w: entry missing id", ErrMalformedData)
			return false
		}
		actions := entry.Get("actions")
		if !actions.IsArray() || len(actions.Array()) == 0 {
			invalid = fmt.Errorf("%w: entry %s has no actions", ErrMalformedData, entry.Get("id").String())
			return false
		}
		actions.ForEach(func(_, a gjson.Result) bool {
			if a.Get("id").String() == "" || a.Get("kind").String() == "" {
				invalid = fmt.Errorf("%w: action missing id or kind", ErrMalformedData)
				return false
			}
			return true
		})
		return invalid == nil
	})

	return invalid
}

// reclassify re-derives classification from kind so imported data
// cannot carry an inconsistent triple.
func reclassify(actions []*action.Action) {
	for _, a := range actions {
		a.Classification = action.Classify(a.Kind)
		if len(a.Children) > 0 {
			reclassify(a.Children)
		}
	}
}
