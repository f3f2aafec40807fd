package store

import (
	"fmt"
	"strings"

	"controlui/internal/logging"
	"controlui/internal/types"
)

const (
	SettingsBackendJSON = "json"
	SettingsBackendBolt = "bbolt"
)

// LocatedSettingsStore is a SettingsStore backed by a single file.
type LocatedSettingsStore interface {
	SettingsStore
	Path() string
	Close() error
}

type SettingsPaths struct {
	JSONPath string
	DBPath   string
}

func NormalizeSettingsBackend(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", SettingsBackendJSON, "file":
		return SettingsBackendJSON, nil
	case SettingsBackendBolt, "bolt":
		return SettingsBackendBolt, nil
	default:
		return "", fmt.Errorf("unknown settings backend %q: must be json or bbolt", strings.TrimSpace(raw))
	}
}

// OpenSettingsStore opens the store for backend. The JSON store is the
// default.
func OpenSettingsStore(backend string, paths SettingsPaths, defaults types.Settings, logger logging.Logger) (LocatedSettingsStore, error) {
	resolved, err := NormalizeSettingsBackend(backend)
	if err != nil {
		return nil, err
	}
	if resolved == SettingsBackendBolt {
		return NewBoltSettingsStore(paths.DBPath, defaults, logger)
	}
	return NewFileSettingsStore(paths.JSONPath, defaults, logger), nil
}
