// ABOUTME: Tests for XDG directory resolution
// ABOUTME: Validates fallback behavior and app path construction
package config

import (
	"path/filepath"
	"testing"
)

func TestGetDataHome(t *testing.T) {
	t.Run("uses XDG_DATA_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/custom/data")
		got := GetDataHome()
		if got != "/custom/data" {
			t.Errorf("got %s, want /custom/data", got)
		}
	})

	t.Run("falls back to HOME/.local/share", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		t.Setenv("HOME", "/home/tester")
		want := filepath.Join("/home/tester", ".local", "share")
		got := GetDataHome()
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})
}

func TestGetConfigHome(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		got := GetConfigHome()
		if got != "/custom/config" {
			t.Errorf("got %s, want /custom/config", got)
		}
	})

	t.Run("falls back to HOME/.config", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/tester")
		want := filepath.Join("/home/tester", ".config")
		got := GetConfigHome()
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})
}

func TestAppPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CONFIG_HOME", "/conf")

	if got := DefaultDBPath(); got != "/data/symptomlog/symptomlog.db" {
		t.Errorf("DefaultDBPath() = %s", got)
	}
	if got := DefaultConfigPath(); got != "/conf/symptomlog/config.toml" {
		t.Errorf("DefaultConfigPath() = %s", got)
	}
	if got := DefaultJournalDir(); got != "/data/symptomlog/journal" {
		t.Errorf("DefaultJournalDir() = %s", got)
	}
}
