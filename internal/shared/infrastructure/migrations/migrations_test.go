package migrations

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestFiles_SameForBothDialects(t *testing.T) {
	sqliteFiles, err := Files("sqlite")
	require.NoError(t, err)
	postgresFiles, err := Files("postgres")
	require.NoError(t, err)

	assert.NotEmpty(t, sqliteFiles)
	assert.Equal(t, sqliteFiles, postgresFiles)
}

func TestRunSQLiteMigrations_Idempotent(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, RunSQLiteMigrations(ctx, db))
	require.NoError(t, RunSQLiteMigrations(ctx, db))

	for _, table := range []string{"user_settings", "routine", "routine_checkin", "exemption", "report_season", "outbound_message"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestRunSQLiteMigrations_CheckinUniquePerDay(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, RunSQLiteMigrations(ctx, db))

	_, err = db.ExecContext(ctx, `INSERT INTO routine (id, owner_id, name, created_at, updated_at) VALUES ('r1', 'o1', 'Stretch', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO routine_checkin (id, routine_id, owner_id, local_day) VALUES ('c1', 'r1', 'o1', '2025-01-10')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO routine_checkin (id, routine_id, owner_id, local_day) VALUES ('c2', 'r1', 'o1', '2025-01-10')`)
	assert.Error(t, err)
}

func TestRunPostgresMigrations(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	require.NoError(t, RunPostgresMigrations(ctx, url))
	require.NoError(t, RunPostgresMigrations(ctx, url))
}
