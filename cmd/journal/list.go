// ABOUTME: List command for displaying notes.
// ABOUTME: Supports search, category and owner filters.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/models"
	"github.com/harper/journal/internal/state"
	"github.com/harper/journal/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long:  `List notes, most recently updated first, optionally filtered by search text, category or owner.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		searchFlag, _ := cmd.Flags().GetString("search")
		categoryFlag, _ := cmd.Flags().GetString("category")
		userFlag, _ := cmd.Flags().GetString("user")
		limitFlag, _ := cmd.Flags().GetInt("limit")

		owner, err := ownerByEmail(ctx, userFlag)
		if err != nil {
			return err
		}

		var notes []*models.Note
		if categoryFlag != "" {
			cat, err := resolveCategory(ctx, categoryFlag)
			if err != nil {
				return fmt.Errorf("category %q: %w", categoryFlag, err)
			}
			if notes, err = jr.notes.ListByCategory(ctx, cat.ID, owner); err != nil {
				return fmt.Errorf("failed to list notes: %w", err)
			}
		} else {
			ctrl := jr.ctrl
			if owner != nil {
				ctrl = state.New(jr.notes, jr.log, state.WithOwner(*owner))
			}
			ctrl.SetQuery(ctx, searchFlag)
			st := ctrl.Snapshot()
			if st.Err != "" {
				return errors.New(st.Err)
			}
			notes = st.Notes
		}

		out := cmd.OutOrStdout()
		if len(notes) == 0 {
			fmt.Fprintln(out, "No notes found.")
			return nil
		}
		if limitFlag > 0 && len(notes) > limitFlag {
			notes = notes[:limitFlag]
		}

		names := categoryNames(ctx)
		for _, note := range notes {
			fmt.Fprint(out, ui.FormatNoteListItem(note, categoryOf(names, note)))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "search title and content")
	listCmd.Flags().StringP("category", "c", "", "category name or id")
	listCmd.Flags().StringP("user", "u", "", "only notes owned by this email")
	listCmd.Flags().IntP("limit", "n", 20, "number of results")
	rootCmd.AddCommand(listCmd)
}
