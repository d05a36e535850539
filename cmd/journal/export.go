// ABOUTME: Export command for backing up the journal.
// ABOUTME: Writes a JSON backup or a directory of markdown files.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/models"
	"github.com/harper/journal/internal/transfer"
	"github.com/harper/journal/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes",
	Long:  `Export notes and categories to a JSON backup, or notes to markdown files with YAML frontmatter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		notePrefix, _ := cmd.Flags().GetString("note")

		switch format {
		case "json":
			doc, err := transfer.Export(ctx, jr.notes, jr.cats, time.Now())
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			if notePrefix != "" {
				note, err := jr.notes.GetByPrefix(ctx, notePrefix)
				if err != nil {
					return fmt.Errorf("failed to get note: %w", err)
				}
				doc.Notes = []*models.Note{note}
			}
			return exportJSON(cmd, doc, outputPath)

		case "md":
			var notes []*models.Note
			if notePrefix != "" {
				note, err := jr.notes.GetByPrefix(ctx, notePrefix)
				if err != nil {
					return fmt.Errorf("failed to get note: %w", err)
				}
				notes = []*models.Note{note}
			} else {
				var err error
				if notes, err = jr.notes.List(ctx, nil); err != nil {
					return fmt.Errorf("failed to list notes: %w", err)
				}
			}
			if outputPath == "" {
				outputPath = "export"
			}
			n, err := transfer.WriteMarkdownDir(outputPath, notes)
			if err != nil {
				return fmt.Errorf("failed to write markdown: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Exported %d notes to %s", n, outputPath)))
			return nil

		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	},
}

func exportJSON(cmd *cobra.Command, doc *transfer.Document, outputPath string) error {
	if outputPath == "" || outputPath == "-" {
		return transfer.WriteJSON(cmd.OutOrStdout(), doc)
	}

	f, err := os.Create(outputPath) //nolint:gosec // User-specified output path is expected CLI behavior
	if err != nil {
		return err
	}
	if err := transfer.WriteJSON(f, doc); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Exported %d notes and %d categories to %s",
		len(doc.Notes), len(doc.Categories), outputPath)))
	return nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "export format: json or md")
	exportCmd.Flags().StringP("output", "o", "", "output file (json) or directory (md)")
	exportCmd.Flags().String("note", "", "export a single note by id prefix")
	rootCmd.AddCommand(exportCmd)
}
