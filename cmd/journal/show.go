// ABOUTME: Show command for displaying a single note.
// ABOUTME: Renders markdown content with glamour.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a note",
	Long:  `Display a note's full content with rendered markdown.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		raw, _ := cmd.Flags().GetBool("raw")

		note, err := jr.notes.GetByPrefix(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, ui.FormatNoteHeader(note, categoryOf(categoryNames(ctx), note)))

		if raw {
			fmt.Fprintln(out, note.Content)
			return nil
		}
		content, err := ui.FormatNoteContent(note.Content)
		if err != nil {
			content = note.Content + "\n"
		}
		fmt.Fprint(out, content)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "print content without markdown rendering")
	rootCmd.AddCommand(showCmd)
}
