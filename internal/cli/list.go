// ABOUTME: List command for displaying recent entries
// ABOUTME: Supports table and JSON output formats with time range filtering
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/symptomlog/internal/form"
)

var (
	listLimit      int
	listJSONOutput bool
	listSince      string
	listUntil      string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent entries",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.store.ListEntries(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		entries, err = form.FilterEntries(entries, listSince, listUntil, listLimit, a.loc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if listJSONOutput {
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			_, _ = fmt.Fprintln(out, string(data))
			return nil
		}

		if len(entries) == 0 {
			_, _ = faintColor.Fprintln(out, "No entries")
			return nil
		}
		return writeEntryTable(out, entries, a.loc)
	},
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
	listCmd.Flags().BoolVar(&listJSONOutput, "json", false, "Output as JSON")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only entries at or after this time")
	listCmd.Flags().StringVar(&listUntil, "until", "", "Only entries at or before this time")
	rootCmd.AddCommand(listCmd)
}
