// ABOUTME: Bulk import of notes that already carry ids and timestamps.
// ABOUTME: Existing ids are skipped, never overwritten.

package db

import (
	"context"

	"go.uber.org/zap"

	"github.com/harper/journal/internal/models"
)

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportMany inserts each note verbatim. A note whose id is already stored is
// counted as skipped. On error the result reflects the rows handled so far.
func (n *Notes) ImportMany(ctx context.Context, notes []*models.Note) (ImportResult, error) {
	var result ImportResult
	for _, note := range notes {
		if note == nil {
			continue
		}
		if note.ID == "" {
			return result, &ValidationError{Field: "id", Reason: "must not be empty"}
		}
		res, err := n.q.ExecContext(ctx,
			`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO NOTHING`,
			noteArgs(note)...,
		)
		if err != nil {
			return result, storageErr("import note "+note.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return result, storageErr("import note "+note.ID, err)
		}
		if affected == 0 {
			result.Skipped++
			continue
		}
		result.Imported++
	}
	n.log.Info("notes imported", zap.Int("imported", result.Imported), zap.Int("skipped", result.Skipped))
	return result, nil
}
