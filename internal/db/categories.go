// ABOUTME: Categories repository for creating, listing and removing categories.
// ABOUTME: Removing a category leaves its notes in place with no category.

package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/harper/journal/internal/models"
)

type Categories struct {
	q    Querier
	log  *zap.Logger
	opts options
}

func NewCategories(q Querier, log *zap.Logger, opts ...Option) *Categories {
	if log == nil {
		log = zap.NewNop()
	}
	return &Categories{
		q:    q,
		log:  log.Named("categories"),
		opts: buildOptions(newUUID, opts),
	}
}

// Create stores a category as given. The name is not validated.
func (c *Categories) Create(ctx context.Context, name string, color, icon *string) (*models.Category, error) {
	cat := &models.Category{
		ID:        c.opts.newID(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: c.opts.now().UTC(),
	}
	_, err := c.q.ExecContext(ctx,
		`INSERT INTO categories (id, name, color, icon, createdAt) VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, nullable(cat.Color), nullable(cat.Icon), formatTime(cat.CreatedAt),
	)
	if err != nil {
		return nil, storageErr("insert category", err)
	}
	c.log.Debug("category created", zap.String("id", cat.ID), zap.String("name", name))
	return cat, nil
}

// List returns all categories, newest first.
func (c *Categories) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := c.q.QueryContext(ctx,
		`SELECT id, name, color, icon, createdAt FROM categories ORDER BY createdAt DESC, id DESC`)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer func() { _ = rows.Close() }()

	cats := []*models.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, storageErr("list categories", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list categories", err)
	}
	return cats, nil
}

type CategoryWithCount struct {
	Category *models.Category
	Count    int
}

// ListWithCounts returns every category with the number of notes filed under it.
func (c *Categories) ListWithCounts(ctx context.Context) ([]*CategoryWithCount, error) {
	rows, err := c.q.QueryContext(ctx,
		`SELECT c.id, c.name, c.color, c.icon, c.createdAt, COUNT(n.id)
		 FROM categories c
		 LEFT JOIN notes n ON n.categoryId = c.id
		 GROUP BY c.id
		 ORDER BY c.createdAt DESC, c.id DESC`)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*CategoryWithCount
	for rows.Next() {
		var cc CategoryWithCount
		var createdAt string
		var color, icon sql.NullString
		cc.Category = &models.Category{}
		if err := rows.Scan(&cc.Category.ID, &cc.Category.Name, &color, &icon, &createdAt, &cc.Count); err != nil {
			return nil, storageErr("list categories", err)
		}
		if err := fillCategory(cc.Category, color, icon, createdAt); err != nil {
			return nil, storageErr("list categories", err)
		}
		out = append(out, &cc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list categories", err)
	}
	return out, nil
}

func (c *Categories) GetByID(ctx context.Context, id string) (*models.Category, bool, error) {
	row := c.q.QueryRowContext(ctx, `SELECT id, name, color, icon, createdAt FROM categories WHERE id = ?`, id)
	cat, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr("get category", err)
	}
	return cat, true, nil
}

// Delete removes the category. Notes that referenced it keep existing with a
// null categoryId.
func (c *Categories) Delete(ctx context.Context, id string) error {
	res, err := c.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete category", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete category", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Import inserts categories verbatim, skipping ids that already exist.
func (c *Categories) Import(ctx context.Context, cats []*models.Category) (ImportResult, error) {
	var result ImportResult
	for _, cat := range cats {
		if cat == nil {
			continue
		}
		createdAt := cat.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Unix(0, 0)
		}
		res, err := c.q.ExecContext(ctx,
			`INSERT INTO categories (id, name, color, icon, createdAt) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO NOTHING`,
			cat.ID, cat.Name, nullable(cat.Color), nullable(cat.Icon), formatTime(createdAt),
		)
		if err != nil {
			return result, storageErr("import category "+cat.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return result, storageErr("import category "+cat.ID, err)
		}
		if affected == 0 {
			result.Skipped++
			continue
		}
		result.Imported++
	}
	return result, nil
}

func scanCategory(s scanner) (*models.Category, error) {
	cat := &models.Category{}
	var createdAt string
	var color, icon sql.NullString
	if err := s.Scan(&cat.ID, &cat.Name, &color, &icon, &createdAt); err != nil {
		return nil, err
	}
	if err := fillCategory(cat, color, icon, createdAt); err != nil {
		return nil, err
	}
	return cat, nil
}

func fillCategory(cat *models.Category, color, icon sql.NullString, createdAt string) error {
	t, err := parseTime(createdAt)
	if err != nil {
		return err
	}
	cat.CreatedAt = t
	if color.Valid {
		cat.Color = &color.String
	}
	if icon.Valid {
		cat.Icon = &icon.String
	}
	return nil
}
