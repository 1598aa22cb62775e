package config

import (
	"os"
	"path/filepath"
)

// appName is used for directory names and env var lookups.
const appName = "modresolve"

// GetConfigFile returns the config file path.
// MODRESOLVE_CONFIG takes precedence, then $XDG_CONFIG_HOME/modresolve/config.toml,
// then ~/.config/modresolve/config.toml.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv("MODRESOLVE_CONFIG"); envPath != "" {
		return envPath, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}
