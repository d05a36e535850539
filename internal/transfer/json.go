// ABOUTME: JSON backup documents for notes and categories.
// ABOUTME: Import preserves ids and timestamps and never overwrites existing rows.

package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/harper/journal/internal/db"
	"github.com/harper/journal/internal/models"
)

const Version = "1.0"

type Document struct {
	Version    string             `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Notes      []*models.Note     `json:"notes"`
	Categories []*models.Category `json:"categories"`
}

type NoteStore interface {
	List(ctx context.Context, userID *string) ([]*models.Note, error)
	ImportMany(ctx context.Context, notes []*models.Note) (db.ImportResult, error)
}

type CategoryStore interface {
	List(ctx context.Context) ([]*models.Category, error)
	Import(ctx context.Context, cats []*models.Category) (db.ImportResult, error)
}

type Result struct {
	Notes      db.ImportResult `json:"notes"`
	Categories db.ImportResult `json:"categories"`
}

// Export collects every note and category into a document stamped with now.
func Export(ctx context.Context, notes NoteStore, cats CategoryStore, now time.Time) (*Document, error) {
	allNotes, err := notes.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	allCats, err := cats.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return &Document{
		Version:    Version,
		ExportedAt: now.UTC(),
		Notes:      allNotes,
		Categories: allCats,
	}, nil
}

func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if doc.Version == "" {
		return nil, errors.New("decode backup: missing version")
	}
	return &doc, nil
}

// Import writes categories first so note references resolve.
func Import(ctx context.Context, doc *Document, notes NoteStore, cats CategoryStore) (Result, error) {
	var res Result
	var err error
	if res.Categories, err = cats.Import(ctx, doc.Categories); err != nil {
		return res, fmt.Errorf("import categories: %w", err)
	}
	if res.Notes, err = notes.ImportMany(ctx, doc.Notes); err != nil {
		return res, fmt.Errorf("import notes: %w", err)
	}
	return res, nil
}
