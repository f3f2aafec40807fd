package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultGatewayURL    = "ws://127.0.0.1:18789"
	defaultLogsInterval  = 2 * time.Second
	defaultDebugInterval = 3 * time.Second
	minPollInterval      = 250 * time.Millisecond
)

type UIConfig struct {
	Gateway UIGatewayConfig `toml:"gateway"`
	Polling UIPollingConfig `toml:"polling"`
	Logging UILoggingConfig `toml:"logging"`
	Storage UIStorageConfig `toml:"storage"`
}

type UIGatewayConfig struct {
	URL      string `toml:"url"`
	BasePath string `toml:"base_path"`
}

type UIPollingConfig struct {
	LogsInterval  string `toml:"logs_interval"`
	DebugInterval string `toml:"debug_interval"`
}

type UILoggingConfig struct {
	Level string `toml:"level"`
}

type UIStorageConfig struct {
	Backend string `toml:"backend"`
}

func DefaultUIConfig() UIConfig {
	return UIConfig{
		Gateway: UIGatewayConfig{
			URL: defaultGatewayURL,
		},
		Polling: UIPollingConfig{
			LogsInterval:  defaultLogsInterval.String(),
			DebugInterval: defaultDebugInterval.String(),
		},
		Logging: UILoggingConfig{
			Level: "info",
		},
		Storage: UIStorageConfig{
			Backend: "json",
		},
	}
}

func LoadUIConfig() (UIConfig, error) {
	path, err := UIConfigPath()
	if err != nil {
		return UIConfig{}, err
	}
	return LoadUIConfigFromPath(path)
}

// LoadUIConfigFromPath overlays the file at path on the defaults. A
// missing or blank file yields the defaults; malformed TOML is an error.
func LoadUIConfigFromPath(path string) (UIConfig, error) {
	cfg := DefaultUIConfig()
	if err := readTOML(path, &cfg); err != nil {
		return UIConfig{}, fmt.Errorf("ui config %s: %w", path, err)
	}
	return cfg, nil
}

func (c UIConfig) GatewayURL() string {
	url := strings.TrimSpace(c.Gateway.URL)
	if url == "" {
		return defaultGatewayURL
	}
	return strings.TrimRight(url, "/")
}

func (c UIConfig) BasePath() string {
	return strings.TrimSpace(c.Gateway.BasePath)
}

func (c UIConfig) LogsPollInterval() time.Duration {
	return parseInterval(c.Polling.LogsInterval, defaultLogsInterval)
}

func (c UIConfig) DebugPollInterval() time.Duration {
	return parseInterval(c.Polling.DebugInterval, defaultDebugInterval)
}

func (c UIConfig) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

// StorageBackend names the settings backend, lower-cased. Validation is
// left to the store.
func (c UIConfig) StorageBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if backend == "" {
		return "json"
	}
	return backend
}

func parseInterval(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		return fallback
	}
	if interval < minPollInterval {
		return minPollInterval
	}
	return interval
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
