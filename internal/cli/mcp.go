// ABOUTME: MCP subcommand for running the symptomlog MCP server
// ABOUTME: Handles stdio transport initialization and server lifecycle
package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/symptomlog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the symptomlog MCP server",
	Long:  `Start the Model Context Protocol server for AI assistants to record and query symptoms over stdio.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := mcp.NewServer(a.store, a.loc, a.logger)
		a.logger.Info("mcp server starting", "db", a.cfg.DBPath)
		return server.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
