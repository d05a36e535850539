// ABOUTME: Tests for the storage engine lifecycle and schema.
// ABOUTME: Verifies initialization, foreign keys, counts, reset and XDG paths.

package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	cur := start.Add(-time.Second)
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	e, err := Open(context.Background(), dbPath, nil)
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "expected database file to be created")
}

func TestInitializeCreatesSchema(t *testing.T) {
	e := openTestEngine(t)
	ctx := context.Background()

	for _, table := range []string{"users", "categories", "notes"} {
		var name string
		err := e.DB().QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "expected table %s", table)
	}
	for _, idx := range []string{"idx_notes_userId", "idx_notes_categoryId", "idx_notes_updatedAt", "idx_notes_title"} {
		var name string
		err := e.DB().QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&name)
		assert.NoError(t, err, "expected index %s", idx)
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	e := openTestEngine(t)
	ctx := context.Background()

	_, err := NewNotes(e.DB(), nil).Create(ctx, sampleNotes[0])
	require.NoError(t, err)

	require.NoError(t, e.Initialize(ctx))
	require.NoError(t, e.Initialize(ctx))

	info, err := e.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Notes)
}

func TestForeignKeysEnabled(t *testing.T) {
	e := openTestEngine(t)

	var on int
	require.NoError(t, e.DB().QueryRow("PRAGMA foreign_keys").Scan(&on))
	assert.Equal(t, 1, on)
}

func TestInfoCountsRows(t *testing.T) {
	e := openTestEngine(t)
	ctx := context.Background()

	users := NewUsers(e.DB(), nil, WithBcryptCost(4))
	cats := NewCategories(e.DB(), nil)
	notes := NewNotes(e.DB(), nil)

	_, err := users.Create(ctx, "Ada", "ada@example.com", "secret")
	require.NoError(t, err)
	_, err = cats.Create(ctx, "Work", nil, nil)
	require.NoError(t, err)
	_, err = cats.Create(ctx, "Home", nil, nil)
	require.NoError(t, err)
	_, err = notes.SeedIfEmpty(ctx)
	require.NoError(t, err)

	info, err := e.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, Info{Users: 1, Categories: 2, Notes: 5}, info)
}

func TestResetDropsData(t *testing.T) {
	e := openTestEngine(t)
	ctx := context.Background()

	_, err := NewNotes(e.DB(), nil).SeedIfEmpty(ctx)
	require.NoError(t, err)

	require.NoError(t, e.Reset(ctx))

	info, err := e.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, Info{}, info)
}

func TestStorageErrorMatchesSentinel(t *testing.T) {
	e := openTestEngine(t)
	require.NoError(t, e.Close())

	_, err := e.Info(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)

	var se *StorageError
	assert.ErrorAs(t, err, &se)
}

func TestDefaultPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)

	assert.Equal(t, filepath.Join(tmpDir, "journal", "journal.db"), DefaultPath())
}
