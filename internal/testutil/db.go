package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/database"
)

// NewDB opens a migrated SQLite database in a per-test temp directory
func NewDB(t testing.TB) *sql.DB {
	t.Helper()

	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "pickmyfruit.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, database.NewMigrationManager(conn).RunMigrations())
	return conn
}
