package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName = ".controlui"
	homeEnvVar = "CONTROLUI_HOME"
)

// DataDir returns the base data directory. CONTROLUI_HOME overrides the
// default under the user's home directory.
func DataDir() (string, error) {
	if override := strings.TrimSpace(os.Getenv(homeEnvVar)); override != "" {
		return filepath.Clean(override), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// SettingsPath returns the path to the persisted settings record.
func SettingsPath() (string, error) {
	return dataFile("settings.json")
}

// SettingsDBPath returns the path of the settings database used by the
// bbolt backend.
func SettingsDBPath() (string, error) {
	return dataFile("settings.db")
}

// UIConfigPath returns the path to the hand-edited UI options file.
func UIConfigPath() (string, error) {
	return dataFile("ui.toml")
}

// UILogPath returns the path the terminal UI logs to.
func UILogPath() (string, error) {
	return dataFile("ui.log")
}

func dataFile(name string) (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, name), nil
}
