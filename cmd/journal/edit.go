// ABOUTME: Edit command for modifying existing notes.
// ABOUTME: Flags change single fields; with no flags the content opens in $EDITOR.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/models"
	"github.com/harper/journal/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit <id-prefix>",
	Short: "Edit a note",
	Long: `Change a note's title, content, emoji, color or category. Only the fields
given as flags change. With no flags the content opens in $EDITOR.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()

		note, err := jr.notes.GetByPrefix(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		in := models.UpdateNote{ID: note.ID}
		if flags.Changed("title") {
			v, _ := flags.GetString("title")
			in.Title = &v
		}
		if flags.Changed("emoji") {
			v, _ := flags.GetString("emoji")
			in.Emoji = &v
		}
		if flags.Changed("color") {
			v, _ := flags.GetString("color")
			in.Color = &v
		}
		if flags.Changed("content") || flags.Changed("file") {
			v, err := readContent(cmd, note.Content)
			if err != nil {
				return err
			}
			in.Content = &v
		}

		clearCat, _ := flags.GetBool("clear-category")
		switch {
		case clearCat && flags.Changed("category"):
			return errors.New("--category and --clear-category cannot be combined")
		case clearCat:
			in.CategoryID = models.Null[string]()
		case flags.Changed("category"):
			ref, _ := flags.GetString("category")
			cat, err := resolveCategory(ctx, ref)
			if err != nil {
				return fmt.Errorf("category %q: %w", ref, err)
			}
			in.CategoryID = models.Set(cat.ID)
		}

		if in.Title == nil && in.Content == nil && in.Emoji == nil && in.Color == nil && !in.CategoryID.IsSet() {
			newContent, err := openEditor(note.Content)
			if err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}
			if newContent == note.Content {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes made.")
				return nil
			}
			in.Content = &newContent
		}

		updated, err := jr.ctrl.UpdateExistingNote(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to update note: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Updated note %s", updated.ID)))
		return nil
	},
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("content", "", "new content (inline)")
	editCmd.Flags().String("file", "", "read new content from file, - for stdin")
	editCmd.Flags().String("emoji", "", "new emoji, empty for the default")
	editCmd.Flags().String("color", "", "new hex color, empty for the default")
	editCmd.Flags().StringP("category", "c", "", "move to this category (name or id)")
	editCmd.Flags().Bool("clear-category", false, "remove the note from its category")
	rootCmd.AddCommand(editCmd)
}
