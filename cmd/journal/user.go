// ABOUTME: User commands for managing note owners.
// ABOUTME: Deleting a user deletes the notes they own.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/db"
	"github.com/harper/journal/internal/ui"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <name> <email>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")

		u, err := jr.users.Create(cmd.Context(), args[0], args[1], password)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Created user %s (%s)", u.Email, u.ID)))
		return nil
	},
}

var userRmCmd = &cobra.Command{
	Use:   "rm <email>",
	Short: "Remove a user and their notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		force, _ := cmd.Flags().GetBool("force")

		u, found, err := jr.users.GetByEmail(ctx, args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", db.ErrUserNotFound, args[0])
		}
		if !force && !confirm(cmd, fmt.Sprintf("Delete user %s and all of their notes?", u.Email)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := jr.users.Delete(ctx, u.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		jr.ctrl.Refresh(ctx)

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Deleted user %s", u.Email)))
		return nil
	},
}

var userVerifyCmd = &cobra.Command{
	Use:   "verify <email>",
	Short: "Check a user's password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")

		u, found, err := jr.users.GetByEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !found || !db.CheckPassword(u, password) {
			return errors.New("email or password is incorrect")
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Password ok for %s", u.Email)))
		return nil
	},
}

func init() {
	userAddCmd.Flags().String("password", "", "login password")
	_ = userAddCmd.MarkFlagRequired("password")
	userRmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	userVerifyCmd.Flags().String("password", "", "password to check")
	_ = userVerifyCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userAddCmd, userRmCmd, userVerifyCmd)
	rootCmd.AddCommand(userCmd)
}
