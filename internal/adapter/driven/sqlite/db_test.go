package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_FileBackedWithMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formpanel.db")

	db, err := NewDB(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, path, db.Path())
	require.NoError(t, RunMigrations(db.Writer))
	require.NoError(t, RunMigrations(db.Writer), "second run must be a no-op")

	var name string
	err = db.Reader.QueryRowContext(context.Background(),
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'capture_log'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "capture_log", name)
}
