package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the OS-standard configuration directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(runtime.GOOS, homeDir), nil
}

// DataDir returns the per-application directory under the config directory.
func DataDir(appName string) (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

func fallbackConfigDir(goos, homeDir string) string {
	switch goos {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support")
	default:
		return filepath.Join(homeDir, ".config")
	}
}
