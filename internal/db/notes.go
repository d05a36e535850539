// ABOUTME: Notes repository with validation, partial updates and listing.
// ABOUTME: All reads are ordered by updatedAt descending.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harper/journal/internal/models"
)

const noteColumns = `id, title, content, emoji, color, date, createdAt, updatedAt, categoryId, userId`

const noteOrder = ` ORDER BY updatedAt DESC, id DESC`

type Notes struct {
	q    Querier
	log  *zap.Logger
	opts options
}

func NewNotes(q Querier, log *zap.Logger, opts ...Option) *Notes {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notes{
		q:    q,
		log:  log.Named("notes"),
		opts: buildOptions(newULID, opts),
	}
}

// List returns every note, or only the notes owned by userID when given.
func (n *Notes) List(ctx context.Context, userID *string) ([]*models.Note, error) {
	where, args := ownerFilter(userID, nil, nil)
	return n.query(ctx, "list notes", `SELECT `+noteColumns+` FROM notes`+where+noteOrder, args...)
}

// ListByCategory returns the notes filed under categoryID.
func (n *Notes) ListByCategory(ctx context.Context, categoryID string, userID *string) ([]*models.Note, error) {
	where, args := ownerFilter(userID, []string{"categoryId = ?"}, []any{categoryID})
	return n.query(ctx, "list notes by category", `SELECT `+noteColumns+` FROM notes`+where+noteOrder, args...)
}

// GetByID reports found=false with a nil error when no note has that id.
func (n *Notes) GetByID(ctx context.Context, id string) (*models.Note, bool, error) {
	row := n.q.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr("get note", err)
	}
	return note, true, nil
}

// GetByPrefix resolves a full id or a unique id prefix of at least six characters.
func (n *Notes) GetByPrefix(ctx context.Context, prefix string) (*models.Note, error) {
	prefix = strings.TrimSpace(prefix)
	if note, found, err := n.GetByID(ctx, prefix); err != nil {
		return nil, err
	} else if found {
		return note, nil
	}
	if len(prefix) < 6 {
		return nil, ErrPrefixTooShort
	}

	notes, err := n.query(ctx, "get note by prefix",
		`SELECT `+noteColumns+` FROM notes WHERE id LIKE ? ESCAPE '\'`+noteOrder+` LIMIT 2`,
		likeEscaper.Replace(prefix)+"%",
	)
	if err != nil {
		return nil, err
	}
	switch len(notes) {
	case 0:
		return nil, ErrNoteNotFound
	case 1:
		return notes[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousPrefix, prefix)
	}
}

// Create validates the input, fills defaults and persists a new note. The
// returned note is the one that was written, not a re-read.
func (n *Notes) Create(ctx context.Context, in models.CreateNote) (*models.Note, error) {
	now := n.opts.now().UTC()
	note := &models.Note{
		ID:         n.opts.newID(),
		Title:      strings.TrimSpace(in.Title),
		Content:    strings.TrimSpace(in.Content),
		Emoji:      orDefault(in.Emoji, models.DefaultEmoji),
		Color:      orDefault(in.Color, models.DefaultColor),
		Date:       n.formatDate(now),
		CreatedAt:  now,
		UpdatedAt:  now,
		CategoryID: normalizeRef(in.CategoryID),
		UserID:     normalizeRef(in.UserID),
	}
	if err := checkStruct(note); err != nil {
		return nil, err
	}
	if err := n.checkRefs(ctx, note); err != nil {
		return nil, err
	}

	_, err := n.q.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		noteArgs(note)...,
	)
	if err != nil {
		return nil, storageErr("insert note", err)
	}
	n.log.Debug("note created", zap.String("id", note.ID))
	return note, nil
}

// Update merges the fields present in the patch into the stored note. The read
// and the write are separate statements, so a concurrent delete between them
// surfaces as ErrNoteNotFound.
func (n *Notes) Update(ctx context.Context, in models.UpdateNote) (*models.Note, error) {
	cur, found, err := n.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoteNotFound
	}

	merged := cur.Clone()
	if in.Title != nil {
		merged.Title = strings.TrimSpace(*in.Title)
		if err := checkVar("title", merged.Title, "required,max=50"); err != nil {
			return nil, err
		}
	}
	if in.Content != nil {
		merged.Content = strings.TrimSpace(*in.Content)
	}
	if in.Emoji != nil {
		merged.Emoji = orDefault(*in.Emoji, models.DefaultEmoji)
	}
	if in.Color != nil {
		merged.Color = orDefault(*in.Color, models.DefaultColor)
		if err := checkVar("color", merged.Color, "hexcolor"); err != nil {
			return nil, err
		}
	}
	if in.CategoryID.IsSet() {
		merged.CategoryID = normalizeRef(in.CategoryID.Apply(cur.CategoryID))
	}

	now := n.opts.now().UTC()
	if !now.After(cur.UpdatedAt) {
		now = cur.UpdatedAt.Add(time.Nanosecond)
	}
	merged.UpdatedAt = now
	merged.Date = n.formatDate(now)

	// Only patched fields are checked, so imported notes that predate the
	// current rules stay editable.
	if in.CategoryID.IsSet() {
		if err := n.checkCategory(ctx, merged.CategoryID); err != nil {
			return nil, err
		}
	}

	res, err := n.q.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, emoji = ?, color = ?, date = ?, updatedAt = ?, categoryId = ?
		 WHERE id = ?`,
		merged.Title, merged.Content, merged.Emoji, merged.Color, merged.Date,
		formatTime(merged.UpdatedAt), nullable(merged.CategoryID), merged.ID,
	)
	if err != nil {
		return nil, storageErr("update note", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, storageErr("update note", err)
	}
	if affected == 0 {
		return nil, ErrNoteNotFound
	}
	return merged, nil
}

func (n *Notes) Delete(ctx context.Context, id string) error {
	res, err := n.q.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete note", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete note", err)
	}
	if affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Count only gates optional seeding, so failures are logged and read as zero.
func (n *Notes) Count(ctx context.Context, userID *string) int {
	where, args := ownerFilter(userID, nil, nil)
	var count int
	if err := n.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`+where, args...).Scan(&count); err != nil {
		n.log.Warn("count notes failed", zap.Error(err))
		return 0
	}
	return count
}

func (n *Notes) query(ctx context.Context, op, query string, args ...any) ([]*models.Note, error) {
	rows, err := n.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer func() { _ = rows.Close() }()

	notes := []*models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return notes, nil
}

func (n *Notes) checkRefs(ctx context.Context, note *models.Note) error {
	if err := n.checkCategory(ctx, note.CategoryID); err != nil {
		return err
	}
	if note.UserID == nil {
		return nil
	}
	ok, err := exists(ctx, n.q, "users", *note.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Field: "userId", Reason: "unknown user " + *note.UserID}
	}
	return nil
}

func (n *Notes) checkCategory(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	ok, err := exists(ctx, n.q, "categories", *id)
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Field: "categoryId", Reason: "unknown category " + *id}
	}
	return nil
}

func (n *Notes) formatDate(t time.Time) string {
	return t.In(n.opts.location).Format(n.opts.dateLayout)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	note := &models.Note{}
	var createdAt, updatedAt string
	var categoryID, userID sql.NullString
	err := s.Scan(&note.ID, &note.Title, &note.Content, &note.Emoji, &note.Color, &note.Date,
		&createdAt, &updatedAt, &categoryID, &userID)
	if err != nil {
		return nil, err
	}
	if note.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if note.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		note.CategoryID = &categoryID.String
	}
	if userID.Valid {
		note.UserID = &userID.String
	}
	return note, nil
}

func noteArgs(note *models.Note) []any {
	return []any{
		note.ID, note.Title, note.Content, note.Emoji, note.Color, note.Date,
		formatTime(note.CreatedAt), formatTime(note.UpdatedAt),
		nullable(note.CategoryID), nullable(note.UserID),
	}
}

// ownerFilter builds a WHERE clause from extra conditions plus an optional owner.
func ownerFilter(userID *string, conds []string, args []any) (string, []any) {
	if userID != nil {
		conds = append(conds, "userId = ?")
		args = append(args, *userID)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func exists(ctx context.Context, q Querier, table, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("lookup "+table, err)
	}
	return true, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// normalizeRef treats a blank reference the same as no reference.
func normalizeRef(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func orDefault(s, def string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return def
}
