package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUIConfigDefaults(t *testing.T) {
	t.Setenv("CONTROLUI_HOME", filepath.Join(t.TempDir(), "data"))
	cfg, err := LoadUIConfig()
	if err != nil {
		t.Fatalf("LoadUIConfig: %v", err)
	}
	if cfg.GatewayURL() != "ws://127.0.0.1:18789" {
		t.Fatalf("unexpected gateway url: %q", cfg.GatewayURL())
	}
	if cfg.LogsPollInterval() != 2*time.Second || cfg.DebugPollInterval() != 3*time.Second {
		t.Fatalf("unexpected intervals: %v %v", cfg.LogsPollInterval(), cfg.DebugPollInterval())
	}
	if cfg.LogLevel() != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel())
	}
	if cfg.StorageBackend() != "json" {
		t.Fatalf("unexpected storage backend: %q", cfg.StorageBackend())
	}
}

func TestLoadUIConfigFromTOML(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("CONTROLUI_HOME", dataDir)
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := []byte(`[gateway]
url = "wss://gw.example.com/"
base_path = "/ui"

[polling]
logs_interval = "5s"
debug_interval = "10ms"

[logging]
level = "debug"

[storage]
backend = "BBolt"
`)
	if err := os.WriteFile(filepath.Join(dataDir, "ui.toml"), content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadUIConfig()
	if err != nil {
		t.Fatalf("LoadUIConfig: %v", err)
	}
	if cfg.GatewayURL() != "wss://gw.example.com" {
		t.Fatalf("unexpected gateway url: %q", cfg.GatewayURL())
	}
	if cfg.BasePath() != "/ui" {
		t.Fatalf("unexpected base path: %q", cfg.BasePath())
	}
	if cfg.LogsPollInterval() != 5*time.Second {
		t.Fatalf("unexpected logs interval: %v", cfg.LogsPollInterval())
	}
	if cfg.DebugPollInterval() != 250*time.Millisecond {
		t.Fatalf("expected debug interval clamp, got %v", cfg.DebugPollInterval())
	}
	if cfg.LogLevel() != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel())
	}
	if cfg.StorageBackend() != "bbolt" {
		t.Fatalf("unexpected storage backend: %q", cfg.StorageBackend())
	}
}

func TestLoadUIConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.toml")
	if err := os.WriteFile(path, []byte("[gateway\nurl = "), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadUIConfigFromPath(path); err == nil {
		t.Fatalf("expected malformed toml to fail")
	}
}

func TestPollIntervalFallback(t *testing.T) {
	cfg := UIConfig{Polling: UIPollingConfig{LogsInterval: "soon", DebugInterval: "-1s"}}
	if cfg.LogsPollInterval() != 2*time.Second || cfg.DebugPollInterval() != 3*time.Second {
		t.Fatalf("expected fallback intervals, got %v %v", cfg.LogsPollInterval(), cfg.DebugPollInterval())
	}
}
