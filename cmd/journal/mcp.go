// ABOUTME: MCP command to start the MCP server.
// ABOUTME: Runs on stdio for integration with AI agents.

package main

import (
	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long:  `Start the Model Context Protocol server for AI agent integration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jr.ctrl.Refresh(cmd.Context())
		server := mcp.NewServer(mcp.Deps{
			Notes:      jr.notes,
			Categories: jr.cats,
			Controller: jr.ctrl,
			Generator:  jr.gen,
			Logger:     jr.log,
		}, version)
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
