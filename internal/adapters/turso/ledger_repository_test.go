package turso_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/sessiontrack/internal/adapters/turso"
)

func TestLedgerRepository_LatestEmpty(t *testing.T) {
	repo := turso.NewLedgerRepository(testDB(t))

	state, err := repo.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestLedgerRepository_AddSpendAccumulates(t *testing.T) {
	repo := turso.NewLedgerRepository(testDB(t))
	ctx := context.Background()

	t1 := time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	state, err := repo.AddSpend(ctx, "2026-10", 50, 1, t1)
	require.NoError(t, err)
	assert.InDelta(t, 1, state.Spend, 1e-9)

	state, err = repo.AddSpend(ctx, "2026-10", 50, 1.25, t2)
	require.NoError(t, err)
	assert.Equal(t, "2026-10", state.Period)
	assert.InDelta(t, 2.25, state.Spend, 1e-9)
	assert.True(t, state.UpdatedAt.Equal(t2))
}

func TestLedgerRepository_OpenPeriodKeepsSpend(t *testing.T) {
	repo := turso.NewLedgerRepository(testDB(t))
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	state, err := repo.OpenPeriod(ctx, "2026-10", 50, now)
	require.NoError(t, err)
	assert.Zero(t, state.Spend)
	assert.Equal(t, 50.0, state.Budget)

	_, err = repo.AddSpend(ctx, "2026-10", 50, 3, now.Add(time.Minute))
	require.NoError(t, err)

	state, err = repo.OpenPeriod(ctx, "2026-10", 50, now.Add(time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 3, state.Spend, 1e-9, "opening an existing period must not reset spend")
}

func TestLedgerRepository_LatestIsNewestPeriod(t *testing.T) {
	repo := turso.NewLedgerRepository(testDB(t))
	ctx := context.Background()

	// Timestamps within one second whose variable-width text would misorder.
	base := time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC)
	_, err := repo.AddSpend(ctx, "2026-10", 50, 2, base.Add(100*time.Millisecond))
	require.NoError(t, err)
	_, err = repo.AddSpend(ctx, "2026-09", 50, 12.5, base.Add(123*time.Millisecond))
	require.NoError(t, err)

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2026-10", latest.Period)
	assert.InDelta(t, 2, latest.Spend, 1e-9)

	history, err := repo.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2026-10", history[0].Period)
	assert.Equal(t, "2026-09", history[1].Period)
	assert.InDelta(t, 12.5, history[1].Spend, 1e-9)
	assert.True(t, history[1].UpdatedAt.Equal(base.Add(123*time.Millisecond)))
}

func TestLedgerRepository_TwoConnectionsShareSpend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	dbA, err := turso.OpenLocal(ctx, path)
	require.NoError(t, err)
	defer func() { _ = dbA.Close() }()
	dbB, err := turso.OpenLocal(ctx, path)
	require.NoError(t, err)
	defer func() { _ = dbB.Close() }()

	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	_, err = turso.NewLedgerRepository(dbA).AddSpend(ctx, "2026-10", 5, 1, now)
	require.NoError(t, err)
	state, err := turso.NewLedgerRepository(dbB).AddSpend(ctx, "2026-10", 5, 2, now)
	require.NoError(t, err)
	assert.InDelta(t, 3, state.Spend, 1e-9)
}

func TestOpenLocal_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	db, err := turso.OpenLocal(ctx, path)
	require.NoError(t, err)
	_, err = turso.NewLedgerRepository(db).AddSpend(ctx, "2026-10", 5, 3, time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = turso.OpenLocal(ctx, path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	latest, err := turso.NewLedgerRepository(db).Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.InDelta(t, 3, latest.Spend, 1e-9)
}
