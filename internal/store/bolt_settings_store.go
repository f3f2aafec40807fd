package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"controlui/internal/logging"
	"controlui/internal/types"
)

var (
	bucketSettings = []byte("settings")
	keySettings    = []byte("record")
)

// BoltSettingsStore keeps the settings record as one JSON value in a bbolt
// database.
type BoltSettingsStore struct {
	db       *bolt.DB
	path     string
	defaults types.Settings
	logger   logging.Logger
	mu       sync.Mutex
}

func NewBoltSettingsStore(path string, defaults types.Settings, logger logging.Logger) (*BoltSettingsStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("settings db path is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := openBolt(path)
	if err != nil && isCorruptBolt(err) {
		aside := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102T150405.000000000"))
		logger.Warn("settings db corrupt, starting fresh", logging.F("path", path), logging.F("moved_to", aside))
		if err := os.Rename(path, aside); err != nil {
			return nil, fmt.Errorf("move aside %s: %w", path, err)
		}
		db, err = openBolt(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := chmodFile(path, 0o600); err != nil && !IsPermissionUnsupported(err) {
		_ = db.Close()
		return nil, fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSettings)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltSettingsStore{
		db:       db,
		path:     path,
		defaults: defaults.Normalize(),
		logger:   logger.With(logging.F("component", "settings_store"), logging.F("backend", SettingsBackendBolt)),
	}, nil
}

func openBolt(path string) (*bolt.DB, error) {
	return bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
}

// isCorruptBolt reports whether err means the file is not a usable bbolt
// database. A lock timeout or permission error is not corruption.
func isCorruptBolt(err error) bool {
	if errors.Is(err, bolt.ErrInvalid) || errors.Is(err, bolt.ErrChecksum) || errors.Is(err, bolt.ErrVersionMismatch) {
		return true
	}
	// Truncated files fail the mmap size check with an unexported error.
	return strings.Contains(err.Error(), "file size too small")
}

func (s *BoltSettingsStore) Path() string {
	return s.path
}

func (s *BoltSettingsStore) Load(ctx context.Context) (*types.Settings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSettings)
		if b == nil {
			return nil
		}
		if value := b.Get(keySettings); len(value) > 0 {
			raw = append([]byte(nil), value...)
		}
		return nil
	}); err != nil {
		s.logger.Warn("settings db unreadable, using defaults", logging.F("path", s.path), logging.F("error", err))
		return nil, false
	}
	if raw == nil {
		return nil, false
	}
	settings := s.defaults.Clone()
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logger.Warn("settings record malformed, using defaults", logging.F("path", s.path), logging.F("error", err))
		return nil, false
	}
	settings = settings.Normalize()
	return &settings, true
}

func (s *BoltSettingsStore) Save(ctx context.Context, settings *types.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings == nil {
		return errors.New("settings are required")
	}
	record := settings.Normalize()
	raw, err := encodeJSON(record)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSettings)
		if err != nil {
			return err
		}
		return b.Put(keySettings, raw)
	}); err != nil {
		return fmt.Errorf("save settings to %s: %w", s.path, err)
	}
	s.logger.Debug("settings saved", logging.F("path", s.path), logging.Secret("token", record.Token))
	return nil
}

func (s *BoltSettingsStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
