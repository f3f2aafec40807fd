package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"controlui/internal/config"
	"controlui/internal/logging"
	"controlui/internal/store"
	"controlui/internal/types"
)

type ConfigCommand struct {
	stdout io.Writer
	stderr io.Writer
}

const (
	configFormatJSON = "json"
	configFormatTOML = "toml"
	configFormatYAML = "yaml"
)

type configOutput struct {
	Backend      string         `json:"storage_backend" toml:"storage_backend" yaml:"storage_backend"`
	SettingsPath string         `json:"settings_path" toml:"settings_path" yaml:"settings_path"`
	UIConfigPath string         `json:"ui_config_path" toml:"ui_config_path" yaml:"ui_config_path"`
	LogPath      string         `json:"log_path" toml:"log_path" yaml:"log_path"`
	Settings     types.Settings `json:"settings" toml:"settings" yaml:"settings"`
	UI           uiConfigOutput `json:"ui" toml:"ui" yaml:"ui"`
}

type uiConfigOutput struct {
	Gateway effectiveGatewayConfig `json:"gateway" toml:"gateway" yaml:"gateway"`
	Polling effectivePollingConfig `json:"polling" toml:"polling" yaml:"polling"`
	Logging effectiveLoggingConfig `json:"logging" toml:"logging" yaml:"logging"`
}

type effectiveGatewayConfig struct {
	URL      string `json:"url" toml:"url" yaml:"url"`
	BasePath string `json:"base_path" toml:"base_path" yaml:"base_path"`
}

type effectivePollingConfig struct {
	LogsInterval  string `json:"logs_interval" toml:"logs_interval" yaml:"logs_interval"`
	DebugInterval string `json:"debug_interval" toml:"debug_interval" yaml:"debug_interval"`
}

type effectiveLoggingConfig struct {
	Level string `json:"level" toml:"level" yaml:"level"`
}

func NewConfigCommand(stdout, stderr io.Writer) *ConfigCommand {
	return &ConfigCommand{
		stdout: stdout,
		stderr: stderr,
	}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("default", false, "print default values")
	format := fs.String("format", configFormatJSON, "output format: json|toml|yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolvedFormat, err := resolveConfigFormat(*format)
	if err != nil {
		return err
	}
	payload, err := c.buildOutput(*defaults)
	if err != nil {
		return err
	}
	return writeConfigOutput(c.stdout, resolvedFormat, payload)
}

func (c *ConfigCommand) buildOutput(defaults bool) (configOutput, error) {
	paths, err := settingsPaths()
	if err != nil {
		return configOutput{}, err
	}
	uiPath, err := config.UIConfigPath()
	if err != nil {
		return configOutput{}, err
	}
	logPath, err := config.UILogPath()
	if err != nil {
		return configOutput{}, err
	}

	uiCfg := config.DefaultUIConfig()
	if !defaults {
		uiCfg, err = config.LoadUIConfig()
		if err != nil {
			return configOutput{}, err
		}
	}
	backend, err := store.NormalizeSettingsBackend(uiCfg.StorageBackend())
	if err != nil {
		return configOutput{}, err
	}
	settingsPath := paths.JSONPath
	if backend == store.SettingsBackendBolt {
		settingsPath = paths.DBPath
	}
	record := types.DefaultSettings(uiCfg.GatewayURL())
	if !defaults {
		logger := logging.New(c.stderr, logging.ParseLevel(uiCfg.LogLevel()))
		settingsStore, err := store.OpenSettingsStore(backend, paths, record, logger)
		if err != nil {
			return configOutput{}, err
		}
		if saved, ok := settingsStore.Load(context.Background()); ok {
			record = *saved
		}
		_ = settingsStore.Close()
	}

	return configOutput{
		Backend:      backend,
		SettingsPath: settingsPath,
		UIConfigPath: uiPath,
		LogPath:      logPath,
		Settings:     record.Normalize().Redacted(),
		UI: uiConfigOutput{
			Gateway: effectiveGatewayConfig{
				URL:      uiCfg.GatewayURL(),
				BasePath: types.NormalizeBasePath(uiCfg.BasePath()),
			},
			Polling: effectivePollingConfig{
				LogsInterval:  uiCfg.LogsPollInterval().String(),
				DebugInterval: uiCfg.DebugPollInterval().String(),
			},
			Logging: effectiveLoggingConfig{
				Level: uiCfg.LogLevel(),
			},
		},
	}, nil
}

func writeConfigOutput(out io.Writer, format string, payload any) error {
	switch format {
	case configFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case configFormatTOML:
		data, err := toml.Marshal(payload)
		if err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = out.Write(data)
		return err
	case configFormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(payload); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return errors.New("unsupported format")
	}
}

func resolveConfigFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", configFormatJSON:
		return configFormatJSON, nil
	case configFormatTOML:
		return configFormatTOML, nil
	case configFormatYAML, "yml":
		return configFormatYAML, nil
	default:
		return "", errors.New("invalid format: must be json, toml, or yaml")
	}
}
