package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *MigrationManager {
	t.Helper()
	conn, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewMigrationManager(conn)
}

func TestRunMigrations_CreatesTables(t *testing.T) {
	m := openTemp(t)
	require.NoError(t, m.RunMigrations())

	for _, table := range []string{"users", "sessions", "verifications", "listings", "inquiries"} {
		var name string
		err := m.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	m := openTemp(t)
	require.NoError(t, m.RunMigrations())
	require.NoError(t, m.RunMigrations())

	applied, err := m.GetAppliedMigrations()
	require.NoError(t, err)
	assert.Len(t, applied, 3)
}

func TestLoadMigrations_SortsAndSkipsBadNames(t *testing.T) {
	conn, err := Open(Config{Path: filepath.Join(t.TempDir(), "fs.db")})
	require.NoError(t, err)
	defer conn.Close()

	source := fstest.MapFS{
		"010_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER)")},
		"002_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER)")},
		"notes.txt":      {Data: []byte("ignored")},
		"bad_name.sql":   {Data: []byte("SELECT 1")},
	}
	m := NewMigrationManagerFS(conn, source)

	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 2, migrations[0].Version)
	assert.Equal(t, "002_first", migrations[0].Name)
	assert.Equal(t, 10, migrations[1].Version)
}

func TestApplyMigration_RollsBackOnError(t *testing.T) {
	m := openTemp(t)
	require.NoError(t, m.InitMigrationsTable())

	err := m.ApplyMigration(Migration{Version: 99, Name: "099_broken", SQL: "CREATE TABLE oops ("})
	require.Error(t, err)

	applied, err := m.GetAppliedMigrations()
	require.NoError(t, err)
	assert.False(t, applied[99])
}
