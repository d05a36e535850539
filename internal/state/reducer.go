// ABOUTME: Pure list transitions applied after repository calls succeed.
// ABOUTME: Reduce never mutates its input slice.

package state

import (
	"cmp"
	"slices"

	"github.com/harper/journal/internal/models"
)

type Action interface {
	isAction()
}

// Created prepends a new note.
type Created struct{ Note *models.Note }

// Updated replaces the note with the same id and re-sorts by updatedAt.
// Notes not present in the list are ignored.
type Updated struct{ Note *models.Note }

// Deleted removes the note with ID.
type Deleted struct{ ID string }

// Loaded replaces the whole list.
type Loaded struct{ Notes []*models.Note }

func (Created) isAction() {}
func (Updated) isAction() {}
func (Deleted) isAction() {}
func (Loaded) isAction()  {}

func Reduce(prev []*models.Note, a Action) []*models.Note {
	switch a := a.(type) {
	case Created:
		next := make([]*models.Note, 0, len(prev)+1)
		next = append(next, a.Note)
		for _, n := range prev {
			if n.ID != a.Note.ID {
				next = append(next, n)
			}
		}
		return next
	case Updated:
		next := slices.Clone(prev)
		i := slices.IndexFunc(next, func(n *models.Note) bool { return n.ID == a.Note.ID })
		if i < 0 {
			return next
		}
		next[i] = a.Note
		slices.SortStableFunc(next, byRecency)
		return next
	case Deleted:
		return slices.DeleteFunc(slices.Clone(prev), func(n *models.Note) bool { return n.ID == a.ID })
	case Loaded:
		return slices.Clone(a.Notes)
	default:
		return slices.Clone(prev)
	}
}

// byRecency matches the storage order: updatedAt descending, then id descending.
func byRecency(a, b *models.Note) int {
	if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}
