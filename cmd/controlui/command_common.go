package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"controlui/internal/client"
	"controlui/internal/config"
	"controlui/internal/logging"
	"controlui/internal/polling"
	"controlui/internal/settings"
	"controlui/internal/store"
	"controlui/internal/types"
)

const version = "dev"

// environment is the per-invocation wiring shared by every command that
// touches the saved settings.
type environment struct {
	uiConfig   config.UIConfig
	defaults   types.Settings
	store      store.LocatedSettingsStore
	polls      *polling.Controller
	reconciler *settings.Reconciler
	logger     logging.Logger
	closer     io.Closer
}

type loggerFactory func(cfg config.UIConfig) (logging.Logger, io.Closer, error)

func stderrLogger(stderr io.Writer) loggerFactory {
	return func(cfg config.UIConfig) (logging.Logger, io.Closer, error) {
		return logging.New(stderr, logging.ParseLevel(cfg.LogLevel())), nil, nil
	}
}

func fileLogger(cfg config.UIConfig) (logging.Logger, io.Closer, error) {
	path, err := config.UILogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	return logging.OpenFile(path, logging.ParseLevel(cfg.LogLevel()))
}

func openEnvironment(newLogger loggerFactory, scheduler polling.Scheduler) (*environment, error) {
	uiCfg, err := config.LoadUIConfig()
	if err != nil {
		return nil, err
	}
	paths, err := settingsPaths()
	if err != nil {
		return nil, err
	}
	logger, closer, err := newLogger(uiCfg)
	if err != nil {
		return nil, err
	}
	defaults := types.DefaultSettings(uiCfg.GatewayURL())
	settingsStore, err := store.OpenSettingsStore(uiCfg.StorageBackend(), paths, defaults, logger)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	if scheduler == nil {
		scheduler = polling.NewTickerScheduler()
	}
	polls := polling.NewController(scheduler,
		polling.WithInterval(polling.KindLogs, uiCfg.LogsPollInterval()),
		polling.WithInterval(polling.KindDebug, uiCfg.DebugPollInterval()),
		polling.WithLogger(logger),
	)
	return &environment{
		uiConfig:   uiCfg,
		defaults:   defaults,
		store:      settingsStore,
		polls:      polls,
		reconciler: settings.NewReconciler(settingsStore, polls, defaults, logger),
		logger:     logger,
		closer:     closer,
	}, nil
}

func (e *environment) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("settings store close failed", logging.F("error", err))
	}
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

func settingsPaths() (store.SettingsPaths, error) {
	jsonPath, err := config.SettingsPath()
	if err != nil {
		return store.SettingsPaths{}, err
	}
	dbPath, err := config.SettingsDBPath()
	if err != nil {
		return store.SettingsPaths{}, err
	}
	return store.SettingsPaths{JSONPath: jsonPath, DBPath: dbPath}, nil
}

// bootstrap builds a host from the saved record and rawURL, and reports the
// tab rawURL routes to.
func (e *environment) bootstrap(ctx context.Context, rawURL string) (*settings.MemoryHost, types.Tab, error) {
	host := settings.NewMemoryHost(types.TabChat, e.defaults)
	if err := e.reconciler.Bootstrap(ctx, host, rawURL); err != nil {
		return nil, "", err
	}
	return host, routeTab(e.uiConfig.BasePath(), rawURL), nil
}

// routeTab resolves the path of rawURL to a tab; anything unrecognized is
// chat.
func routeTab(basePath, rawURL string) types.Tab {
	raw := strings.TrimSpace(rawURL)
	if idx := strings.IndexAny(raw, "?#"); idx >= 0 {
		raw = raw[:idx]
	}
	if raw == "" {
		return types.TabChat
	}
	path := raw
	if u, err := url.Parse(raw); err == nil && (u.Scheme != "" || u.Host != "") {
		path = u.Path
	}
	tab, ok := types.TabFromPath(basePath, path)
	if !ok {
		return types.TabChat
	}
	return tab
}

// shareOrigin is the HTTP origin share links point at.
func shareOrigin(record types.Settings) string {
	origin, err := client.HTTPBaseURL(record.GatewayURL)
	if err != nil {
		return ""
	}
	return origin
}

func newGatewayClient(record types.Settings) (*client.Client, error) {
	return client.New(record.GatewayURL, record.Token)
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}

	return version
}
