// ABOUTME: Tests for the pure note list reducer.
// ABOUTME: Checks ordering rules and that inputs are never mutated.

package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harper/journal/internal/models"
)

var base = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func note(id string, minutes int) *models.Note {
	t := base.Add(time.Duration(minutes) * time.Minute)
	return &models.Note{ID: id, Title: id, CreatedAt: t, UpdatedAt: t}
}

func ids(notes []*models.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestReduceCreatedPrepends(t *testing.T) {
	prev := []*models.Note{note("b", 2), note("a", 1)}

	next := Reduce(prev, Created{Note: note("c", 3)})

	assert.Equal(t, []string{"c", "b", "a"}, ids(next))
	assert.Equal(t, []string{"b", "a"}, ids(prev))
}

func TestReduceCreatedReplacesDuplicate(t *testing.T) {
	prev := []*models.Note{note("b", 2), note("a", 1)}

	next := Reduce(prev, Created{Note: note("a", 5)})

	assert.Equal(t, []string{"a", "b"}, ids(next))
}

func TestReduceUpdatedResorts(t *testing.T) {
	prev := []*models.Note{note("c", 3), note("b", 2), note("a", 1)}

	next := Reduce(prev, Updated{Note: note("a", 10)})

	assert.Equal(t, []string{"a", "c", "b"}, ids(next))
	assert.Equal(t, []string{"c", "b", "a"}, ids(prev))
	assert.Equal(t, base.Add(time.Minute), prev[2].UpdatedAt)
}

func TestReduceUpdatedIgnoresUnknown(t *testing.T) {
	prev := []*models.Note{note("a", 1)}

	next := Reduce(prev, Updated{Note: note("zzz", 9)})

	assert.Equal(t, []string{"a"}, ids(next))
}

func TestReduceDeleted(t *testing.T) {
	prev := []*models.Note{note("c", 3), note("b", 2), note("a", 1)}

	next := Reduce(prev, Deleted{ID: "b"})

	assert.Equal(t, []string{"c", "a"}, ids(next))
	assert.Equal(t, []string{"c", "b", "a"}, ids(prev))
}

func TestReduceLoaded(t *testing.T) {
	loaded := []*models.Note{note("x", 1)}

	next := Reduce([]*models.Note{note("a", 1)}, Loaded{Notes: loaded})

	assert.Equal(t, []string{"x"}, ids(next))
	next[0] = note("y", 2)
	assert.Equal(t, "x", loaded[0].ID)
}

func TestReduceTieBreaksByID(t *testing.T) {
	prev := []*models.Note{note("a", 5), note("b", 1)}

	next := Reduce(prev, Updated{Note: note("b", 5)})

	assert.Equal(t, []string{"b", "a"}, ids(next))
}
