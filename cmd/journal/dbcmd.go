// ABOUTME: Database maintenance commands.
// ABOUTME: Shows table counts and resets the journal to an empty schema.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/ui"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

var dbInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show database location and row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := jr.engine.Info(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read database info: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Path:        %s\n", jr.cfg.DBPath)
		fmt.Fprintf(out, "Users:       %d\n", info.Users)
		fmt.Fprintf(out, "Categories:  %d\n", info.Categories)
		fmt.Fprintf(out, "Notes:       %d\n", info.Notes)
		return nil
	},
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and recreate the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		force, _ := cmd.Flags().GetBool("force")

		if !force && !confirm(cmd, "Delete every note, category and user?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		if err := jr.engine.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
		jr.ctrl.Refresh(ctx)

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Journal reset"))
		return nil
	},
}

func init() {
	dbResetCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	dbCmd.AddCommand(dbInfoCmd, dbResetCmd)
	rootCmd.AddCommand(dbCmd)
}
