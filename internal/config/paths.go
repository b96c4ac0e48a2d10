package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const appName = "workbench"

var (
	testPathMu sync.Mutex
	testPath   string
)

// ConfigDir returns ~/.config/workbench.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", appName)
	}
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the config file location.
func ConfigPath() string {
	testPathMu.Lock()
	defer testPathMu.Unlock()
	if testPath != "" {
		return testPath
	}
	return filepath.Join(ConfigDir(), "config.json")
}

// SetTestConfigPath points ConfigPath at path. Tests only.
func SetTestConfigPath(path string) {
	testPathMu.Lock()
	defer testPathMu.Unlock()
	testPath = path
}

// ResetTestConfigPath undoes SetTestConfigPath.
func ResetTestConfigPath() {
	SetTestConfigPath("")
}

// StateDir returns $XDG_STATE_HOME/workbench, defaulting to
// ~/.local/state/workbench.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "state", appName)
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ScriptsDBPath returns the configured store path, or the default under
// StateDir.
func (c *Config) ScriptsDBPath() string {
	if c.Plugins.Scripts.StorePath != "" {
		return expandPath(c.Plugins.Scripts.StorePath)
	}
	return filepath.Join(StateDir(), "scripts.db")
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
