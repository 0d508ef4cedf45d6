// ABOUTME: Show command for a single entry
// ABOUTME: Prints every field of one entry as a journal card or JSON
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harper/symptomlog/internal/config"
	"github.com/harper/symptomlog/internal/journal"
)

var showJSONOutput bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entry, found, err := a.store.GetEntry(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to load entry: %w", err)
		}
		if !found {
			return fmt.Errorf("entry %d not found", id)
		}

		out := cmd.OutOrStdout()
		if showJSONOutput {
			data, err := json.MarshalIndent(entry, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			_, _ = fmt.Fprintln(out, string(data))
			return nil
		}

		card, err := journal.Format(config.FormatMarkdown, entry, a.loc)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Entry %d  %s\n%s", entry.ID, formatSeverity(entry.Severity), card)
		return nil
	},
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", arg)
	}
	return id, nil
}

func init() {
	showCmd.Flags().BoolVar(&showJSONOutput, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}
