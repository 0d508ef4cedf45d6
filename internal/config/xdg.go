// ABOUTME: XDG Base Directory specification helpers
// ABOUTME: Resolves data and config locations for symptomlog with fallbacks
package config

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used below the XDG base directories.
const AppName = "symptomlog"

// GetDataHome returns XDG_DATA_HOME or fallback to ~/.local/share
func GetDataHome() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg
	}
	home := os.Getenv("HOME")
	return filepath.Join(home, ".local", "share")
}

// GetConfigHome returns XDG_CONFIG_HOME or fallback to ~/.config
func GetConfigHome() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home := os.Getenv("HOME")
	return filepath.Join(home, ".config")
}

// DefaultDBPath is where the entry database lives unless configured otherwise.
func DefaultDBPath() string {
	return filepath.Join(GetDataHome(), AppName, AppName+".db")
}

// DefaultConfigPath is the config file read when --config is not given.
func DefaultConfigPath() string {
	return filepath.Join(GetConfigHome(), AppName, "config.toml")
}

// DefaultJournalDir is where daily journal files go when no dir is configured.
func DefaultJournalDir() string {
	return filepath.Join(GetDataHome(), AppName, "journal")
}
