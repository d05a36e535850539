// ABOUTME: Category commands for creating, listing and removing categories.
// ABOUTME: Removing a category keeps its notes and leaves them uncategorized.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/ui"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var color, icon *string
		if cmd.Flags().Changed("color") {
			v, _ := cmd.Flags().GetString("color")
			color = &v
		}
		if cmd.Flags().Changed("icon") {
			v, _ := cmd.Flags().GetString("icon")
			icon = &v
		}

		cat, err := jr.cats.Create(cmd.Context(), args[0], color, icon)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Created category %s (%s)", cat.Name, cat.ID)))
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with note counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := jr.cats.ListWithCounts(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		if len(cats) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No categories yet.")
			return nil
		}

		counts := make([]ui.CategoryCount, 0, len(cats))
		for _, c := range cats {
			cc := ui.CategoryCount{ID: c.Category.ID, Name: c.Category.Name, Count: c.Count}
			if c.Category.Icon != nil {
				cc.Icon = *c.Category.Icon
			}
			counts = append(counts, cc)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.FormatCategoryList(counts))
		return nil
	},
}

var categoryRmCmd = &cobra.Command{
	Use:   "rm <name-or-id>",
	Short: "Remove a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		force, _ := cmd.Flags().GetBool("force")

		cat, err := resolveCategory(ctx, args[0])
		if err != nil {
			return fmt.Errorf("category %q: %w", args[0], err)
		}
		if !force && !confirm(cmd, fmt.Sprintf("Delete category %q? Its notes are kept.", cat.Name)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := jr.cats.Delete(ctx, cat.ID); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		// Notes that pointed at the category now read as uncategorized.
		jr.ctrl.Refresh(ctx)

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Deleted category %s", cat.Name)))
		return nil
	},
}

func init() {
	categoryAddCmd.Flags().String("color", "", "display color")
	categoryAddCmd.Flags().String("icon", "", "display icon")
	categoryRmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd, categoryRmCmd)
	rootCmd.AddCommand(categoryCmd)
}
