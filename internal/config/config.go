package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for engine settings.
const (
	DefaultMaxHistorySize     = 1000
	DefaultAutoSaveInterval   = 30 * time.Second
	DefaultCheckpointInterval = 5 * time.Minute
	DefaultPlaybackSpeed      = 1.0
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "CHRONICLE_"

// Settings holds process-wide engine configuration. Lifecycle is the
// engine lifetime; live reload replaces the whole struct.
type Settings struct {
	// MaxHistorySize bounds the timeline entry count.
	MaxHistorySize int

	// AutoSaveInterval is the period between automatic exports.
	AutoSaveInterval time.Duration

	// CheckpointInterval is the period between automatic checkpoints.
	CheckpointInterval time.Duration

	// PlaybackSpeed is the ticks-per-second multiplier for replay.
	PlaybackSpeed float64

	// Feature toggles. These affect side behaviors, never the core
	// cursor algorithm.
	Compression   bool
	AuditLog      bool
	Notifications bool
}

// Default returns settings with all defaults applied.
func Default() Settings {
	return Settings{
		MaxHistorySize:     DefaultMaxHistorySize,
		AutoSaveInterval:   DefaultAutoSaveInterval,
		CheckpointInterval: DefaultCheckpointInterval,
		PlaybackSpeed:      DefaultPlaybackSpeed,
	}
}

// Validate normalizes out-of-range values back to defaults. Invalid
// values are recoverable configuration mistakes, not fatal errors.
func (s *Settings) Validate() {
	if s.MaxHistorySize <= 0 {
		s.MaxHistorySize = DefaultMaxHistorySize
	}
	if s.AutoSaveInterval <= 0 {
		s.AutoSaveInterval = DefaultAutoSaveInterval
	}
	if s.CheckpointInterval <= 0 {
		s.CheckpointInterval = DefaultCheckpointInterval
	}
	if s.PlaybackSpeed <= 0 {
		s.PlaybackSpeed = DefaultPlaybackSpeed
	}
}

// ApplyEnv overrides settings from CHRONICLE_* environment variables.
// Unparseable values are reported; parseable ones before the failure
// are still applied.
func (s *Settings) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvPrefix + "MAX_HISTORY_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %sMAX_HISTORY_SIZE: %w", EnvPrefix, err)
		}
		s.MaxHistorySize = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "AUTOSAVE_INTERVAL_MS"); ok {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %sAUTOSAVE_INTERVAL_MS: %w", EnvPrefix, err)
		}
		s.AutoSaveInterval = time.Duration(ms) * time.Millisecond
	}
	if v, ok := os.LookupEnv(EnvPrefix + "CHECKPOINT_INTERVAL_MS"); ok {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %sCHECKPOINT_INTERVAL_MS: %w", EnvPrefix, err)
		}
		s.CheckpointInterval = time.Duration(ms) * time.Millisecond
	}
	if v, ok := os.LookupEnv(EnvPrefix + "PLAYBACK_SPEED"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %sPLAYBACK_SPEED: %w", EnvPrefix, err)
		}
		s.PlaybackSpeed = f
	}
	return nil
}
