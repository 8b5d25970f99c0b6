package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileSettings is the on-disk schema. Pointer fields distinguish
// "absent" from "zero"; absent fields keep their current values.
type fileSettings struct {
	MaxHistorySize       *int     `toml:"max_history_size" yaml:"max_history_size"`
	AutoSaveIntervalMS   *int64   `toml:"autosave_interval_ms" yaml:"autosave_interval_ms"`
	CheckpointIntervalMS *int64   `toml:"checkpoint_interval_ms" yaml:"checkpoint_interval_ms"`
	PlaybackSpeed        *float64 `toml:"playback_speed" yaml:"playback_speed"`
	Compression          *bool    `toml:"compression" yaml:"compression"`
	AuditLog             *bool    `toml:"audit_log" yaml:"audit_log"`
	Notifications        *bool    `toml:"notifications" yaml:"notifications"`
}

// Load reads settings from a TOML or YAML file, applies environment
// overrides, and validates. A missing file is not an error; defaults
// are returned. An empty path skips file loading entirely.
func Load(path string) (Settings, error) {
	settings := Default()

	if path != "" {
		if err := loadFile(path, &settings); err != nil {
			return settings, err
		}
	}

	if err := settings.ApplyEnv(); err != nil {
		return settings, err
	}

	settings.Validate()
	return settings, nil
}

// loadFile merges one settings file into settings.
func loadFile(path string, settings *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, not an error
		}
		return fmt.Errorf("reading settings file %s: %w", path, err)
	}

	var fs fileSettings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fs); err != nil {
			return &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		if err := toml.Unmarshal(data, &fs); err != nil {
			return &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	}

	fs.apply(settings)
	return nil
}

// apply merges present file values into settings.
func (fs *fileSettings) apply(s *Settings) {
	if fs.MaxHistorySize != nil {
		s.MaxHistorySize = *fs.MaxHistorySize
	}
	if fs.AutoSaveIntervalMS != nil {
		s.AutoSaveInterval = time.Duration(*fs.AutoSaveIntervalMS) * time.Millisecond
	}
	if fs.CheckpointIntervalMS != nil {
		s.CheckpointInterval = time.Duration(*fs.CheckpointIntervalMS) * time.Millisecond
	}
	if fs.PlaybackSpeed != nil {
		s.PlaybackSpeed = *fs.PlaybackSpeed
	}
	if fs.Compression != nil {
		s.Compression = *fs.Compression
	}
	if fs.AuditLog != nil {
		s.AuditLog = *fs.AuditLog
	}
	if fs.Notifications != nil {
		s.Notifications = *fs.Notifications
	}
}

// ParseError represents an error while parsing a settings file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
