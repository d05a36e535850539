// ABOUTME: Storage engine owning the SQLite file and its schema.
// ABOUTME: Handles XDG paths, idempotent initialization, row counts and reset.

package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"modernc.org/sqlite"
)

// Foreign keys are enabled per connection through the DSN so every pooled
// connection enforces the cascade and set-null rules.
const dsnFormat = "file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		createdAt TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT,
		icon TEXT,
		createdAt TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		emoji TEXT NOT NULL,
		color TEXT NOT NULL,
		date TEXT NOT NULL,
		createdAt TEXT NOT NULL,
		updatedAt TEXT NOT NULL,
		categoryId TEXT REFERENCES categories(id) ON DELETE SET NULL,
		userId TEXT REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_userId ON notes(userId)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_categoryId ON notes(categoryId)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_updatedAt ON notes(updatedAt DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title)`,
}

// foldFunc lower-cases with Go's Unicode tables. SQLite's built-in LOWER only
// folds ASCII letters.
const foldFunc = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return strings.ToLower(v), nil
		case []byte:
			return strings.ToLower(string(v)), nil
		default:
			return v, nil
		}
	})
}

// Children first so foreign keys never block the drop.
var tables = []string{"notes", "categories", "users"}

// Engine owns the database handle.
type Engine struct {
	db  *sql.DB
	log *zap.Logger
}

// Info holds per-table row counts.
type Info struct {
	Users      int `json:"users"`
	Categories int `json:"categories"`
	Notes      int `json:"notes"`
}

// Open creates the parent directory, opens the database and initializes the
// schema. A schema failure closes the handle and is returned to the caller.
func Open(ctx context.Context, path string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, storageErr("create data directory", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", fmt.Sprintf(dsnFormat, path))
	if err != nil {
		return nil, storageErr("open database", err)
	}

	e := &Engine{db: sqlDB, log: log.Named("db")}
	if err := e.Initialize(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	e.log.Debug("database ready", zap.String("path", path))
	return e, nil
}

// Initialize creates tables and indexes that do not exist yet.
func (e *Engine) Initialize(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return storageErr("initialize schema", err)
		}
	}
	return nil
}

func (e *Engine) Info(ctx context.Context) (Info, error) {
	var info Info
	g, ctx := errgroup.WithContext(ctx)
	counts := map[string]*int{
		"users":      &info.Users,
		"categories": &info.Categories,
		"notes":      &info.Notes,
	}
	for table, dst := range counts {
		g.Go(func() error {
			if err := e.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(dst); err != nil {
				return storageErr("count "+table, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Reset drops every table and recreates the schema. All data is lost.
func (e *Engine) Reset(ctx context.Context) error {
	for _, table := range tables {
		if _, err := e.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return storageErr("drop "+table, err)
		}
	}
	e.log.Warn("database reset")
	return e.Initialize(ctx)
}

func (e *Engine) DB() *sql.DB {
	return e.db
}

func (e *Engine) Close() error {
	return e.db.Close()
}

func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "journal", "journal.db")
}
