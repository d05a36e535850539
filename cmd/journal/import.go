// ABOUTME: Import command for restoring notes from backup.
// ABOUTME: Accepts a JSON backup, a markdown file, or a directory of markdown files.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/db"
	"github.com/harper/journal/internal/models"
	"github.com/harper/journal/internal/transfer"
	"github.com/harper/journal/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import notes",
	Long: `Import notes from a JSON backup, a markdown file or a directory of markdown files.
Records whose id already exists are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}

		if info.IsDir() {
			notes, errs := transfer.ReadMarkdownDir(path)
			for _, e := range errs {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn(e.Error()))
			}
			return importNotes(cmd, notes)
		}

		if strings.HasSuffix(strings.ToLower(path), ".json") {
			return importJSON(cmd, path)
		}

		data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
		if err != nil {
			return err
		}
		note, err := transfer.ParseMarkdown(path, data)
		if err != nil {
			return err
		}
		return importNotes(cmd, []*models.Note{note})
	},
}

func importJSON(cmd *cobra.Command, path string) error {
	f, err := os.Open(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	doc, err := transfer.ReadJSON(f)
	if err != nil {
		return err
	}
	res, err := transfer.Import(cmd.Context(), doc, jr.notes, jr.cats)
	if err != nil {
		return err
	}
	jr.ctrl.Refresh(cmd.Context())

	fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf(
		"Imported %d notes (%d skipped) and %d categories (%d skipped)",
		res.Notes.Imported, res.Notes.Skipped, res.Categories.Imported, res.Categories.Skipped,
	)))
	return nil
}

// importNotes keeps complete records as-is and creates the rest as new notes.
func importNotes(cmd *cobra.Command, notes []*models.Note) error {
	ctx := cmd.Context()
	var complete []*models.Note
	created := 0
	for _, n := range notes {
		n.CategoryID = knownCategory(ctx, n.CategoryID)
		if n.ID != "" {
			complete = append(complete, n)
			continue
		}
		if _, err := jr.notes.Create(ctx, models.CreateNote{
			Title:      n.Title,
			Content:    n.Content,
			Emoji:      n.Emoji,
			Color:      n.Color,
			CategoryID: n.CategoryID,
		}); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn(fmt.Sprintf("failed to import %q: %v", n.Title, err)))
			continue
		}
		created++
	}

	var res db.ImportResult
	if len(complete) > 0 {
		var err error
		if res, err = jr.notes.ImportMany(ctx, complete); err != nil {
			return err
		}
	}
	jr.ctrl.Refresh(ctx)

	fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Imported %d notes (%d skipped)", created+res.Imported, res.Skipped)))
	return nil
}

// knownCategory drops references to categories this journal does not have.
func knownCategory(ctx context.Context, id *string) *string {
	if id == nil {
		return nil
	}
	if _, found, err := jr.cats.GetByID(ctx, *id); err != nil || !found {
		return nil
	}
	return id
}

func init() {
	rootCmd.AddCommand(importCmd)
}
