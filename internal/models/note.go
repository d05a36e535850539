// ABOUTME: Note model representing a journal entry with display metadata.
// ABOUTME: Defines create/update inputs, including the tri-state category patch.

package models

import (
	"time"
)

const (
	DefaultEmoji   = "📝"
	DefaultColor   = "#FEF3C7"
	MaxTitleLength = 50
)

// Note is a single journal entry. Date is the display string computed when the
// note was last written and is never recomputed on read.
type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title" validate:"required,max=50"`
	Content    string    `json:"content"`
	Emoji      string    `json:"emoji"`
	Color      string    `json:"color" validate:"hexcolor"`
	Date       string    `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	CategoryID *string   `json:"categoryId,omitempty"`
	UserID     *string   `json:"userId,omitempty"`
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	c.CategoryID = clonePtr(n.CategoryID)
	c.UserID = clonePtr(n.UserID)
	return &c
}

// CreateNote carries the caller-supplied fields for a new note. Empty emoji and
// color fall back to DefaultEmoji and DefaultColor.
type CreateNote struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Emoji      string  `json:"emoji,omitempty"`
	Color      string  `json:"color,omitempty"`
	CategoryID *string `json:"categoryId,omitempty"`
	UserID     *string `json:"userId,omitempty"`
}

// UpdateNote is a partial update. Nil pointers leave the field unchanged;
// CategoryID distinguishes "leave alone" from "clear" via Optional.
type UpdateNote struct {
	ID         string           `json:"id"`
	Title      *string          `json:"title,omitempty"`
	Content    *string          `json:"content,omitempty"`
	Emoji      *string          `json:"emoji,omitempty"`
	Color      *string          `json:"color,omitempty"`
	CategoryID Optional[string] `json:"categoryId,omitzero"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
