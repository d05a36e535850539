// ABOUTME: Add command for creating new notes.
// ABOUTME: Content comes from --content, --file, stdin or $EDITOR.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/models"
	"github.com/harper/journal/internal/ui"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new note",
	Long:  `Create a new note with the given title. Content can be provided via --content, --file (use - for stdin), or $EDITOR.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		emoji, _ := cmd.Flags().GetString("emoji")
		color, _ := cmd.Flags().GetString("color")
		categoryFlag, _ := cmd.Flags().GetString("category")
		userFlag, _ := cmd.Flags().GetString("user")

		content, err := readContent(cmd, "")
		if err != nil {
			return err
		}

		in := models.CreateNote{
			Title:   args[0],
			Content: content,
			Emoji:   emoji,
			Color:   color,
		}
		if categoryFlag != "" {
			cat, err := resolveCategory(ctx, categoryFlag)
			if err != nil {
				return fmt.Errorf("category %q: %w", categoryFlag, err)
			}
			in.CategoryID = &cat.ID
		}
		if in.UserID, err = ownerByEmail(ctx, userFlag); err != nil {
			return err
		}

		note, err := jr.ctrl.CreateNewNote(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Created note %s", note.ID)))
		return nil
	},
}

func init() {
	addCmd.Flags().String("content", "", "note content (inline)")
	addCmd.Flags().String("file", "", "read content from file, - for stdin")
	addCmd.Flags().String("emoji", "", "display emoji (default 📝)")
	addCmd.Flags().String("color", "", "hex color like #FEF3C7")
	addCmd.Flags().StringP("category", "c", "", "category name or id")
	addCmd.Flags().StringP("user", "u", "", "owner email")
	rootCmd.AddCommand(addCmd)
}
