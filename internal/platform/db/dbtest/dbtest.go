// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
)

// New returns a migrated database in t.TempDir(), closed on cleanup.
func New(t testing.TB) *db.DB {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "libratrack_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
