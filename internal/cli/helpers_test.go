// ABOUTME: Shared helpers for command tests
// ABOUTME: Isolates each test in its own database and resets flag state between runs
package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/harper/symptomlog/internal/config"
	"github.com/harper/symptomlog/internal/db"
)

// setupCLI points every XDG location and the database into a temp dir.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvDBPath, filepath.Join(dir, "symptoms.db"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	color.NoColor = true
	resetFlags(rootCmd)
	return dir
}

// resetFlags restores every flag to its default; cobra keeps values between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	resetFlags(rootCmd)
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func listJSON(t *testing.T) []db.Entry {
	t.Helper()
	out := mustRun(t, "list", "--json", "--limit", "0")
	var entries []db.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	return entries
}
