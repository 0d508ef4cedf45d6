// ABOUTME: Unit tests for the add command
// ABOUTME: Tests field flags, input rules and journal appending
package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/symptomlog/internal/form"
)

func TestAddCommand(t *testing.T) {
	t.Run("stores every field", func(t *testing.T) {
		setupCLI(t)

		out := mustRun(t, "add",
			"-b", "Knie", "-s", "8", "-p", "brennend",
			"-m", "Ibuprofen", "-d", "400mg",
			"--trigger", "Treppe", "-n", "beim Aufstehen",
			"--heart-rate", "90", "--bp", "130/85",
			"--at", "2024-03-05 14:30")
		assert.Contains(t, out, "Entry created (ID: 1)")
		assert.Contains(t, out, "05.03.2024 14:30")

		entries := listJSON(t)
		require.Len(t, entries, 1)
		entry := entries[0]
		assert.Equal(t, 8, entry.Severity)
		assert.Equal(t, "Brennend", entry.PainType)
		assert.Equal(t, "Knie", *entry.BodyPart)
		assert.Equal(t, "Ibuprofen", entry.Medication)
		assert.Equal(t, "400mg", *entry.Dosage)
		assert.Equal(t, "Treppe", entry.Trigger)
		assert.Equal(t, "beim Aufstehen", entry.Note)
		assert.Equal(t, 90, *entry.HeartRate)
		assert.Equal(t, "130/85", *entry.BloodPressure)
	})

	t.Run("heart rate stays empty unless given", func(t *testing.T) {
		setupCLI(t)
		mustRun(t, "add", "-b", "Kopf")

		entries := listJSON(t)
		require.Len(t, entries, 1)
		assert.Nil(t, entries[0].HeartRate)
		assert.Equal(t, form.DefaultSeverity, entries[0].Severity)
		assert.Equal(t, "Stechend", entries[0].PainType)
	})

	t.Run("free text pain type", func(t *testing.T) {
		setupCLI(t)
		mustRun(t, "add", "-b", "Rücken", "--pain-other", "ziehend")

		entries := listJSON(t)
		require.Len(t, entries, 1)
		assert.Equal(t, "Sonstige", entries[0].PainType)
		assert.Equal(t, "ziehend", *entries[0].PainTypeOther)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cases := map[string][]string{
			"missing body part":         {"add", "-s", "3"},
			"severity out of range":     {"add", "-b", "Kopf", "-s", "12"},
			"dosage without medication": {"add", "-b", "Kopf", "-d", "400mg"},
			"malformed blood pressure":  {"add", "-b", "Kopf", "--bp", "hoch"},
		}
		for name, args := range cases {
			t.Run(name, func(t *testing.T) {
				setupCLI(t)
				_, err := runCLI(t, "", args...)
				assert.ErrorIs(t, err, form.ErrInvalidEntry)
				assert.Empty(t, listJSON(t))
			})
		}
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		setupCLI(t)
		_, err := runCLI(t, "", "add", "Kopf")
		assert.Error(t, err)
	})

	t.Run("appends to the journal when enabled", func(t *testing.T) {
		dir := setupCLI(t)
		journalDir := filepath.Join(dir, "journal")

		cfgDir := filepath.Join(dir, "config", "symptomlog")
		require.NoError(t, os.MkdirAll(cfgDir, 0755))
		cfg := "[journal]\nenabled = true\nformat = \"json\"\ndir = \"" + filepath.ToSlash(journalDir) + "\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(cfg), 0644))

		out := mustRun(t, "add", "-b", "Kopf", "--at", "2024-03-05 09:00")
		assert.Contains(t, out, "Journal updated")

		_, err := os.Stat(filepath.Join(journalDir, "2024-03-05.jsonl"))
		assert.NoError(t, err)
	})
}

func TestAddExampleTimesParse(t *testing.T) {
	matches := regexp.MustCompile(`--at "([^"]+)"`).FindAllStringSubmatch(addCmd.Example, -1)
	require.NotEmpty(t, matches)

	for _, m := range matches {
		_, err := form.ParseTime(m[1], time.UTC, time.Now())
		assert.NoError(t, err, "example time %q", m[1])
	}
}
