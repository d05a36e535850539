// ABOUTME: Tests for logger construction.
// ABOUTME: Verifies level parsing and that file output is written as JSON.

package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewRespectsLevel(t *testing.T) {
	log, err := New(Options{Level: "warn", Format: "console"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	log, err := New(Options{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	log.Info("note created", zap.String("id", "n1"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "note created", entry["msg"])
	assert.Equal(t, "n1", entry["id"])
	assert.Contains(t, entry, "timestamp")
}
