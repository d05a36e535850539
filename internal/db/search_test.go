// ABOUTME: Tests for substring search over notes.
// ABOUTME: Validates Unicode case folding, partial words, wildcards and ordering.

package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/journal/internal/models"
)

func TestSearchNotes(t *testing.T) {
	_, notes := newTestNotes(t)
	ctx := context.Background()

	shopping, err := notes.Create(ctx, models.CreateNote{Title: "Shopping list", Content: "Milk, Bread, Eggs, Coffee"})
	require.NoError(t, err)
	gym, err := notes.Create(ctx, models.CreateNote{Title: "Gym workout", Content: "4 sets of 12 reps"})
	require.NoError(t, err)
	breakfast, err := notes.Create(ctx, models.CreateNote{Title: "Breakfast", Content: "coffee and toast"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"case insensitive content", "milk", []string{shopping.ID}},
		{"upper case query", "COFFEE", []string{breakfast.ID, shopping.ID}},
		{"partial word", "work", []string{gym.ID}},
		{"title match", "shop", []string{shopping.ID}},
		{"padded query", "  reps  ", []string{gym.ID}},
		{"no match", "pasta", []string{}},
		{"empty query lists all", "   ", []string{breakfast.ID, gym.ID, shopping.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := notes.Search(ctx, tt.query, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, noteIDs(got))
		})
	}
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	_, notes := newTestNotes(t)
	ctx := context.Background()

	pct, err := notes.Create(ctx, models.CreateNote{Title: "Savings", Content: "up 5% this month"})
	require.NoError(t, err)
	_, err = notes.Create(ctx, models.CreateNote{Title: "Plain", Content: "up 50 this month"})
	require.NoError(t, err)
	under, err := notes.Create(ctx, models.CreateNote{Title: "snake_case names"})
	require.NoError(t, err)
	_, err = notes.Create(ctx, models.CreateNote{Title: "snakeXcase names"})
	require.NoError(t, err)

	got, err := notes.Search(ctx, "5%", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{pct.ID}, noteIDs(got))

	got, err = notes.Search(ctx, "e_c", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{under.ID}, noteIDs(got))
}

func TestSearchByOwner(t *testing.T) {
	e, notes := newTestNotes(t)
	ctx := context.Background()

	user, err := NewUsers(e.DB(), nil, WithBcryptCost(4)).Create(ctx, "Ada", "ada@example.com", "pw")
	require.NoError(t, err)
	mine, err := notes.Create(ctx, models.CreateNote{Title: "my plans", UserID: &user.ID})
	require.NoError(t, err)
	_, err = notes.Create(ctx, models.CreateNote{Title: "other plans"})
	require.NoError(t, err)

	got, err := notes.Search(ctx, "plans", &user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{mine.ID}, noteIDs(got))
}

func TestSearchFoldsAccentedLetters(t *testing.T) {
	_, notes := newTestNotes(t)
	ctx := context.Background()

	elan, err := notes.Create(ctx, models.CreateNote{Title: "Élan vital", Content: "Über café"})
	require.NoError(t, err)
	_, err = notes.Create(ctx, models.CreateNote{Title: "Plain", Content: "nothing special"})
	require.NoError(t, err)

	for _, query := range []string{"Élan", "élan", "ÉLAN", "Über", "über", "ÜBER CAFÉ", "café"} {
		t.Run(query, func(t *testing.T) {
			got, err := notes.Search(ctx, query, nil)
			require.NoError(t, err)
			assert.Equal(t, []string{elan.ID}, noteIDs(got))
		})
	}
}
