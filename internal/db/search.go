// ABOUTME: Case-insensitive substring search over note titles and content.
// ABOUTME: LIKE wildcards in the query are escaped and matched literally.

package db

import (
	"context"
	"strings"

	"github.com/harper/journal/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches the trimmed query anywhere in title or content. Both sides
// are folded with the same Unicode lower-casing.
// An empty query behaves like List.
func (n *Notes) Search(ctx context.Context, query string, userID *string) ([]*models.Note, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return n.List(ctx, userID)
	}
	pattern := "%" + likeEscaper.Replace(q) + "%"
	where, args := ownerFilter(userID,
		[]string{`(` + foldFunc + `(title) LIKE ? ESCAPE '\' OR ` + foldFunc + `(content) LIKE ? ESCAPE '\')`},
		[]any{pattern, pattern},
	)
	return n.query(ctx, "search notes", `SELECT `+noteColumns+` FROM notes`+where+noteOrder, args...)
}
