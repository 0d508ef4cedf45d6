// ABOUTME: Export command writing every entry into daily journal files
// ABOUTME: Uses the configured journal directory and format unless overridden
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/symptomlog/internal/config"
	"github.com/harper/symptomlog/internal/journal"
)

var (
	exportDir    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all entries into daily journal files",
	Long: `Export rewrites one journal file per day (YYYY-MM-DD) containing every entry of that
day, oldest first. Formats: markdown, json (one object per line) and yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		dir := a.cfg.Journal.Dir
		if exportDir != "" {
			dir = exportDir
		}
		format := a.cfg.Journal.Format
		if exportFormat != "" {
			format = exportFormat
		}
		switch format {
		case config.FormatMarkdown, config.FormatJSON, config.FormatYAML:
		default:
			return fmt.Errorf("invalid format %q (want markdown, json or yaml)", format)
		}

		entries, err := a.store.ListEntries(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		files, err := journal.Export(dir, format, entries, a.loc)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		a.logger.Info("export finished", "dir", dir, "format", format, "files", len(files))
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries into %d files in %s\n", len(entries), len(files), dir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Target directory (default from config)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "markdown, json or yaml (default from config)")
	rootCmd.AddCommand(exportCmd)
}
