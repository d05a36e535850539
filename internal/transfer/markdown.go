// ABOUTME: Markdown files with YAML frontmatter, one per note.
// ABOUTME: Files without frontmatter become new notes titled after the file name.

package transfer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/journal/internal/models"
)

type frontmatter struct {
	ID         string    `yaml:"id,omitempty"`
	Title      string    `yaml:"title"`
	Emoji      string    `yaml:"emoji,omitempty"`
	Color      string    `yaml:"color,omitempty"`
	Date       string    `yaml:"date,omitempty"`
	CategoryID string    `yaml:"category,omitempty"`
	Created    time.Time `yaml:"created,omitempty"`
	Updated    time.Time `yaml:"updated,omitempty"`
}

// WriteMarkdownDir writes each note to dir as <title>-<id suffix>.md.
func WriteMarkdownDir(dir string, notes []*models.Note) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	for i, n := range notes {
		data, err := MarshalMarkdown(n)
		if err != nil {
			return i, err
		}
		if err := os.WriteFile(filepath.Join(dir, markdownFilename(n)), data, 0644); err != nil {
			return i, err
		}
	}
	return len(notes), nil
}

func MarshalMarkdown(n *models.Note) ([]byte, error) {
	fm := frontmatter{
		ID:      n.ID,
		Title:   n.Title,
		Emoji:   n.Emoji,
		Color:   n.Color,
		Date:    n.Date,
		Created: n.CreatedAt,
		Updated: n.UpdatedAt,
	}
	if n.CategoryID != nil {
		fm.CategoryID = *n.CategoryID
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n\n")
	buf.WriteString(n.Content)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// ParseMarkdown reads a note from markdown. The returned note has an empty ID
// unless the frontmatter carried a complete record (id plus timestamps).
func ParseMarkdown(name string, data []byte) (*models.Note, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	var fm frontmatter

	if strings.HasPrefix(content, "---\n") {
		parts := strings.SplitN(content, "---\n", 3)
		if len(parts) == 3 {
			if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
				return nil, fmt.Errorf("parse frontmatter in %s: %w", name, err)
			}
			content = parts[2]
		}
	}

	note := &models.Note{
		ID:        fm.ID,
		Title:     fm.Title,
		Content:   strings.TrimSpace(content),
		Emoji:     fm.Emoji,
		Color:     fm.Color,
		Date:      fm.Date,
		CreatedAt: fm.Created.UTC(),
		UpdatedAt: fm.Updated.UTC(),
	}
	if fm.CategoryID != "" {
		note.CategoryID = &fm.CategoryID
	}
	if note.Title == "" {
		note.Title = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	if note.ID == "" || fm.Created.IsZero() || fm.Updated.IsZero() || note.Date == "" {
		note.ID = ""
	}
	return note, nil
}

// ReadMarkdownDir parses every .md file under dir. Files that fail to parse are
// reported in errs and skipped.
func ReadMarkdownDir(dir string) (notes []*models.Note, errs []error) {
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		data, err := os.ReadFile(path) //nolint:gosec // user-selected import directory
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		note, err := ParseMarkdown(path, data)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		notes = append(notes, note)
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return notes, errs
}

var filenameReplacer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-",
	"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
)

func markdownFilename(n *models.Note) string {
	name := []rune(filenameReplacer.Replace(n.Title))
	if len(name) > 60 {
		name = name[:60]
	}
	suffix := n.ID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return fmt.Sprintf("%s-%s.md", string(name), suffix)
}
