// ABOUTME: Terminal UI formatting for journal output.
// ABOUTME: Uses glamour for markdown and fatih/color for styling.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/harper/journal/internal/models"
	"github.com/harper/journal/internal/sanitize"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

const timeFormat = "2006-01-02 15:04"

type CategoryCount struct {
	ID    string
	Name  string
	Icon  string
	Count int
}

type SourceLink struct {
	Title string
	URI   string
}

func FormatNoteListItem(note *models.Note, category string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s %s  %s\n", note.Emoji, bold(note.Title), faint(note.ID)))

	if category != "" {
		sb.WriteString(fmt.Sprintf("     %s %s\n", faint("Category:"), cyan(category)))
	}
	if preview := Preview(note.Content, 60); preview != "" {
		sb.WriteString(fmt.Sprintf("     %s\n", preview))
	}
	sb.WriteString(fmt.Sprintf("     %s %s\n", faint("Updated:"), faint(note.UpdatedAt.Local().Format(timeFormat))))

	return sb.String()
}

func FormatNoteContent(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content, nil //nolint:nilerr // raw content is an acceptable fallback
	}

	out, err := renderer.Render(content)
	if err != nil {
		return content, nil //nolint:nilerr // raw content is an acceptable fallback
	}
	return out, nil
}

func FormatNoteHeader(note *models.Note, category string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s\n", note.Emoji, bold(note.Title)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(note.ID)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Date:"), note.Date))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Color:"), note.Color))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(note.CreatedAt.Local().Format(timeFormat))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(note.UpdatedAt.Local().Format(timeFormat))))
	if category != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Category:"), cyan(category)))
	}

	sb.WriteString(Separator())
	return sb.String()
}

func FormatCategoryList(cats []CategoryCount) string {
	var sb strings.Builder

	for _, c := range cats {
		label := c.Name
		if c.Icon != "" {
			label = c.Icon + " " + label
		}
		sb.WriteString(fmt.Sprintf("  %s %s  %s\n",
			cyan(label),
			faint(fmt.Sprintf("(%d)", c.Count)),
			faint(c.ID)))
	}

	return sb.String()
}

func FormatSources(sources []SourceLink) string {
	if len(sources) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n%s\n", bold("Sources:")))
	for i, s := range sources {
		title := sanitize.Clean(s.Title)
		if title == "" {
			title = s.URI
		}
		sb.WriteString(fmt.Sprintf("  %d. %s %s\n", i+1, title, faint(s.URI)))
	}
	return sb.String()
}

// Preview returns the first line of s cut to max runes.
func Preview(s string, max int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	r := []rune(line)
	if len(r) <= max {
		return line
	}
	return string(r[:max-1]) + "…"
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func Warn(msg string) string {
	return color.New(color.FgYellow).Sprint("! ") + msg
}
