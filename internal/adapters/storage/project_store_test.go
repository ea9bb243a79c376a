package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

func TestProjectStore_CreateGetSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewProjectStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	id := uuid.NewString()
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	p := domain.NewProject(id, "SessionTrack", "desc", []string{"ai"}, now)
	require.NoError(t, store.Create(ctx, p))

	_, err = os.Stat(filepath.Join(dir, id+".json"))
	require.NoError(t, err)

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "SessionTrack", got.Name)
	assert.Equal(t, domain.ProjectActive, got.Status)
	assert.Empty(t, got.Sessions)
	assert.Empty(t, got.ActionItems)
	assert.NotNil(t, got.Metadata)

	got.Description = "changed"
	require.NoError(t, store.Save(ctx, got))

	reloaded, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "changed", reloaded.Description)

	assert.Error(t, store.Create(ctx, p), "duplicate create must fail")
}

func TestProjectStore_NotFound(t *testing.T) {
	dir := t.TempDir()
	store, err := NewProjectStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.GetByID(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missing := domain.NewProject(uuid.NewString(), "x", "", nil, time.Now())
	assert.ErrorIs(t, store.Save(ctx, missing), domain.ErrNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "Save on a missing project must not create a file")
}

func TestProjectStore_List(t *testing.T) {
	store, err := NewProjectStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"a", "b"} {
		require.NoError(t, store.Create(ctx, domain.NewProject(uuid.NewString(), name, "", nil, time.Now())))
	}

	got, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
