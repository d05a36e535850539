// ABOUTME: Shared helpers for CLI commands.
// ABOUTME: Category lookup by name or id, confirmation prompts and $EDITOR input.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/journal/internal/db"
	"github.com/harper/journal/internal/models"
)

// resolveCategory accepts a category id or a case-insensitive name.
func resolveCategory(ctx context.Context, ref string) (*models.Category, error) {
	ref = strings.TrimSpace(ref)
	if cat, found, err := jr.cats.GetByID(ctx, ref); err != nil {
		return nil, err
	} else if found {
		return cat, nil
	}

	cats, err := jr.cats.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *models.Category
	for _, c := range cats {
		if strings.EqualFold(c.Name, ref) {
			if match != nil {
				return nil, fmt.Errorf("more than one category is named %q, use its id", ref)
			}
			match = c
		}
	}
	if match == nil {
		return nil, db.ErrCategoryNotFound
	}
	return match, nil
}

// categoryNames maps category id to a display name with its icon.
func categoryNames(ctx context.Context) map[string]string {
	names := map[string]string{}
	cats, err := jr.cats.List(ctx)
	if err != nil {
		return names
	}
	for _, c := range cats {
		name := c.Name
		if c.Icon != nil && *c.Icon != "" {
			name = *c.Icon + " " + name
		}
		names[c.ID] = name
	}
	return names
}

func categoryOf(names map[string]string, note *models.Note) string {
	if note.CategoryID == nil {
		return ""
	}
	return names[*note.CategoryID]
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// readContent picks the note body from --content, --file, stdin ("-") or $EDITOR.
func readContent(cmd *cobra.Command, initial string) (string, error) {
	contentFlag, _ := cmd.Flags().GetString("content")
	fileFlag, _ := cmd.Flags().GetString("file")

	switch {
	case cmd.Flags().Changed("content"):
		return contentFlag, nil
	case fileFlag == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case fileFlag != "":
		data, err := os.ReadFile(fileFlag) //nolint:gosec // User-specified file path is expected CLI behavior
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	default:
		return openEditor(initial)
	}
}

func openEditor(initial string) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	tmpFile, err := os.CreateTemp("", "journal-*.md")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(tmpFile.Name())
	}()

	if initial != "" {
		if _, err := tmpFile.WriteString(initial); err != nil {
			_ = tmpFile.Close()
			return "", fmt.Errorf("failed to write initial content: %w", err)
		}
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	cmd := exec.Command(editor, tmpFile.Name()) //nolint:gosec // Launching $EDITOR is expected CLI behavior
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ownerByEmail returns the id of the user with that email, or nil for "".
func ownerByEmail(ctx context.Context, email string) (*string, error) {
	if email == "" {
		return nil, nil
	}
	u, found, err := jr.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", db.ErrUserNotFound, email)
	}
	return &u.ID, nil
}
