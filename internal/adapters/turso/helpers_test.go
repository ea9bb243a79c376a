package turso_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/sessiontrack/internal/adapters/turso"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:?cache=shared")
	require.NoError(t, err, "open in-memory database")
	db.SetMaxOpenConns(1)

	if err := turso.Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		require.NoError(t, err, "run migrations")
	}

	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM ledger_periods")
		_ = db.Close()
	})
	return db
}
