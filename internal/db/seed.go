// ABOUTME: Sample notes written into an empty journal.
// ABOUTME: Seeding goes through Create so defaults and validation apply.

package db

import (
	"context"

	"go.uber.org/zap"

	"github.com/harper/journal/internal/models"
)

var sampleNotes = []models.CreateNote{
	{
		Title:   "Welcome to your journal",
		Content: "Capture thoughts, plans and lists. Search finds words in titles and content.",
		Emoji:   "👋",
		Color:   "#FEF3C7",
	},
	{
		Title:   "Shopping list",
		Content: "Milk, Bread, Eggs, Coffee",
		Emoji:   "🛒",
		Color:   "#DBEAFE",
	},
	{
		Title:   "Gym workout",
		Content: "4 sets of 12 reps",
		Emoji:   "💪",
		Color:   "#FBCFE8",
	},
	{
		Title:   "Book ideas",
		Content: "A lighthouse keeper who collects letters from ships that never arrive.",
		Emoji:   "📚",
		Color:   "#D1FAE5",
	},
	{
		Title:   "Weekend plans",
		Content: "Farmers market on Saturday, hike on Sunday morning.",
		Emoji:   "🌤️",
		Color:   "#E9D5FF",
	},
}

// SeedIfEmpty creates the sample notes when no notes exist and returns how many
// were written.
func (n *Notes) SeedIfEmpty(ctx context.Context) (int, error) {
	if n.Count(ctx, nil) > 0 {
		return 0, nil
	}
	for i, in := range sampleNotes {
		if _, err := n.Create(ctx, in); err != nil {
			return i, err
		}
	}
	n.log.Info("seeded sample notes", zap.Int("count", len(sampleNotes)))
	return len(sampleNotes), nil
}
