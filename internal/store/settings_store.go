package store

import (
	"context"
	"errors"
	"os"
	"sync"

	"controlui/internal/logging"
	"controlui/internal/types"
)

type SettingsStore interface {
	Load(ctx context.Context) (*types.Settings, bool)
	Save(ctx context.Context, settings *types.Settings) error
}

type FileSettingsStore struct {
	path     string
	defaults types.Settings
	logger   logging.Logger
	mu       sync.Mutex
}

// NewFileSettingsStore returns a store for path. Keys missing from the
// file keep their value from defaults.
func NewFileSettingsStore(path string, defaults types.Settings, logger logging.Logger) *FileSettingsStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &FileSettingsStore{
		path:     path,
		defaults: defaults.Normalize(),
		logger:   logger.With(logging.F("component", "settings_store")),
	}
}

func (s *FileSettingsStore) Path() string {
	return s.path
}

func (s *FileSettingsStore) Close() error {
	return nil
}

// Load returns the persisted record, or false when there is none usable.
// A malformed file is reported as absent after a warning.
func (s *FileSettingsStore) Load(ctx context.Context) (*types.Settings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.defaults.Clone()
	if err := readJSON(s.path, &settings); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("settings file unreadable, using defaults", logging.F("path", s.path), logging.F("error", err))
		}
		return nil, false
	}
	settings = settings.Normalize()
	return &settings, true
}

func (s *FileSettingsStore) Save(ctx context.Context, settings *types.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings == nil {
		return errors.New("settings are required")
	}
	record := settings.Normalize()
	if err := SaveJSONFile(s.path, record); err != nil {
		return err
	}
	s.logger.Debug("settings saved", logging.F("path", s.path), logging.Secret("token", record.Token))
	return nil
}
