// ABOUTME: Seed command for filling an empty journal with sample notes.
// ABOUTME: --fake generates random notes with gofakeit for trying things out.

package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/models"
	"github.com/harper/journal/internal/ui"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add sample notes",
	Long:  `Add the built-in sample notes when the journal is empty, or --fake N random notes at any time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fake, _ := cmd.Flags().GetInt("fake")
		seed, _ := cmd.Flags().GetInt64("seed")

		if fake <= 0 {
			n, err := jr.notes.SeedIfEmpty(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed notes: %w", err)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Journal already has notes, nothing to seed.")
				return nil
			}
			jr.ctrl.Refresh(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Added %d sample notes", n)))
			return nil
		}

		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		faker := gofakeit.New(seed)
		for i := 0; i < fake; i++ {
			if _, err := jr.ctrl.CreateNewNote(ctx, fakeNote(faker)); err != nil {
				return fmt.Errorf("failed to create fake note %d: %w", i+1, err)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Added %d random notes", fake)))
		return nil
	},
}

func fakeNote(f *gofakeit.Faker) models.CreateNote {
	title := []rune(f.Sentence(4))
	if len(title) > models.MaxTitleLength {
		title = title[:models.MaxTitleLength]
	}
	return models.CreateNote{
		Title:   string(title),
		Content: f.Paragraph(2, 3, 12, "\n\n"),
		Emoji:   f.Emoji(),
		Color:   f.HexColor(),
	}
}

func init() {
	seedCmd.Flags().Int("fake", 0, "generate this many random notes")
	seedCmd.Flags().Int64("seed", 0, "random seed for --fake (default: time based)")
	rootCmd.AddCommand(seedCmd)
}
