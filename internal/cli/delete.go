// ABOUTME: Delete command for removing a single entry
// ABOUTME: Deleting an unknown id is reported but not treated as an error
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete one entry",
	Args:    cobra.ExactArgs(1),
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

		_, existed, err := a.store.GetEntry(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to load entry: %w", err)
		}

		if err := a.store.DeleteEntry(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		if existed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Entry %d deleted\n", id)
		} else {
			_, _ = faintColor.Fprintf(cmd.OutOrStdout(), "No entry %d, nothing to delete\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
