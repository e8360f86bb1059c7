package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Features is the set of toggles that gate what gets captured and applied.
// A value is a snapshot of one read; callers must re-read for every operation.
type Features struct {
	AutoSave                 bool `yaml:"autoSave" json:"autoSave"`
	AutoRestore              bool `yaml:"autoRestore" json:"autoRestore"`
	IncludeOpenFiles         bool `yaml:"includeOpenFiles" json:"includeOpenFiles"`
	IncludeEditorLayout      bool `yaml:"includeEditorLayout" json:"includeEditorLayout"`
	ShowStatusBar            bool `yaml:"showStatusBar" json:"showStatusBar"`
	IncludeWorkspaceSettings bool `yaml:"includeWorkspaceSettings" json:"includeWorkspaceSettings"`
}

// DefaultFeatures returns the toggle defaults. Settings capture is opt-in
// because applying it rewrites the workspace settings file.
func DefaultFeatures() Features {
	return Features{
		AutoSave:                 true,
		AutoRestore:              true,
		IncludeOpenFiles:         true,
		IncludeEditorLayout:      true,
		ShowStatusBar:            true,
		IncludeWorkspaceSettings: false,
	}
}

// DaemonConfig holds settings for the watch command.
type DaemonConfig struct {
	// AutoSaveInterval is the period of the background quiet save. Zero disables it.
	AutoSaveInterval time.Duration `yaml:"autoSaveInterval" json:"autoSaveInterval"`

	// RebindDelay is how long the reactor waits after a folder change before rebinding.
	RebindDelay time.Duration `yaml:"rebindDelay" json:"rebindDelay"`
}

// DefaultRebindDelay gives the git integration time to notice a new repository.
const DefaultRebindDelay = time.Second

// File is the on-disk layout of config.yaml.
type File struct {
	Features Features     `yaml:"features"`
	Daemon   DaemonConfig `yaml:"daemon"`
}

// FeatureSource yields the current toggles.
type FeatureSource interface {
	Features() Features
}

// StaticFeatures is a FeatureSource that always returns the same toggles.
type StaticFeatures Features

// Features returns the fixed toggles.
func (s StaticFeatures) Features() Features {
	return Features(s)
}

// FileFeatureSource reads the toggles from config.yaml on every call so that
// edits take effect on the next operation. A missing file yields the
// defaults. A broken file is logged and the last good toggles are kept.
type FileFeatureSource struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	lastGood *Features
}

// NewFileFeatureSource creates a FileFeatureSource for the given config path.
func NewFileFeatureSource(path string, logger *slog.Logger) *FileFeatureSource {
	return &FileFeatureSource{path: path, logger: logger}
}

// Features re-reads the config file.
func (s *FileFeatureSource) Features() Features {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := LoadFile(s.path)
	if err != nil {
		if s.lastGood != nil {
			s.logger.Warn("failed to read feature toggles, keeping previous values", "path", s.path, "error", err)
			return *s.lastGood
		}
		s.logger.Warn("failed to read feature toggles, using defaults", "path", s.path, "error", err)
		return DefaultFeatures()
	}
	s.lastGood = &f.Features
	return f.Features
}

// LoadFile reads config.yaml. Keys absent from the file keep their defaults.
// Returns the defaults with no error if the file doesn't exist.
func LoadFile(path string) (*File, error) {
	f := &File{
		Features: DefaultFeatures(),
		Daemon:   DaemonConfig{RebindDelay: DefaultRebindDelay},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if f.Daemon.RebindDelay <= 0 {
		f.Daemon.RebindDelay = DefaultRebindDelay
	}

	return f, nil
}

// WriteDefault writes a config.yaml with the default values if none exists.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&File{
		Features: DefaultFeatures(),
		Daemon:   DaemonConfig{RebindDelay: DefaultRebindDelay},
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
