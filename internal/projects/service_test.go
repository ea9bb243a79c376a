package projects

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/sessiontrack/internal/adapters/logger"
	"github.com/emiliopalmerini/sessiontrack/internal/adapters/storage"
	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := storage.NewProjectStore(dir)
	require.NoError(t, err)
	return NewService(repo, logger.Nop{}), dir
}

func ptr[T any](v T) *T { return &v }

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "Apollo", "moonshot", []string{"space"})
	require.NoError(t, err)
	assert.NoError(t, uuid.Validate(id))

	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, p.Status)
	assert.Empty(t, p.Sessions)
	assert.Empty(t, p.ActionItems)
	assert.NotNil(t, p.Metadata)
	assert.True(t, p.CreatedAt.Equal(p.UpdatedAt))
}

func TestCreate_EmptyName(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), " ", "", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestUpdate_SequentialDisjointFieldsBothPersist(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "Apollo", "", nil)
	require.NoError(t, err)

	created := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return created.Add(time.Hour) }
	ok, err := svc.Update(ctx, id, domain.ProjectUpdate{Description: ptr("first")})
	require.NoError(t, err)
	require.True(t, ok)

	svc.now = func() time.Time { return created.Add(2 * time.Hour) }
	ok, err = svc.Update(ctx, id, domain.ProjectUpdate{Status: ptr(domain.ProjectPaused)})
	require.NoError(t, err)
	require.True(t, ok)

	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first", p.Description)
	assert.Equal(t, domain.ProjectPaused, p.Status)
	assert.True(t, p.UpdatedAt.Equal(created.Add(2*time.Hour)))
}

func TestUpdate_Missing(t *testing.T) {
	svc, _ := newTestService(t)
	ok, err := svc.Update(context.Background(), uuid.NewString(), domain.ProjectUpdate{Description: ptr("x")})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdate_InvalidStatusWritesNothing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "Apollo", "orig", nil)
	require.NoError(t, err)

	ok, err := svc.Update(ctx, id, domain.ProjectUpdate{
		Description: ptr("changed"),
		Status:      ptr(domain.ProjectStatus("archived")),
	})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.False(t, ok)

	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "orig", p.Description)
}

func TestAddSessionLink(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "Apollo", "", nil)
	require.NoError(t, err)

	for _, path := range []string{"/a.json", "/does/not/exist.json"} {
		ok, err := svc.AddSessionLink(ctx, id, path)
		require.NoError(t, err)
		require.True(t, ok, "AddSessionLink(%q)", path)
	}

	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.Sessions, 2)
	assert.Equal(t, "/a.json", p.Sessions[0].Path)
	assert.Equal(t, "/does/not/exist.json", p.Sessions[1].Path)
	assert.False(t, p.Sessions[0].AddedAt.IsZero())

	ok, err := svc.AddSessionLink(ctx, uuid.NewString(), "/a.json")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestAddActionItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "Apollo", "", nil)
	require.NoError(t, err)

	first, err := svc.AddActionItem(ctx, id, "write docs", "")
	require.NoError(t, err)
	second, err := svc.AddActionItem(ctx, id, "ship", "high")
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "action item ids must be unique")

	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.ActionItems, 2)
	a := p.ActionItems[0]
	assert.Equal(t, first, a.ID)
	assert.Equal(t, domain.PriorityMedium, a.Priority)
	assert.Equal(t, domain.ActionPending, a.Status)
	assert.Equal(t, domain.PriorityHigh, p.ActionItems[1].Priority)

	_, err = svc.AddActionItem(ctx, id, "x", "urgent")
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestAddActionItem_MissingProjectCreatesNoFile(t *testing.T) {
	svc, dir := newTestService(t)

	_, err := svc.AddActionItem(context.Background(), uuid.NewString(), "x", "low")
	require.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSetActionItemStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "Apollo", "", nil)
	require.NoError(t, err)
	item, err := svc.AddActionItem(ctx, id, "write docs", "low")
	require.NoError(t, err)

	require.NoError(t, svc.SetActionItemStatus(ctx, id, item, domain.ActionDone))
	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionDone, p.ActionItems[0].Status)

	assert.ErrorIs(t, svc.SetActionItemStatus(ctx, id, "nope", domain.ActionDone), domain.ErrNotFound)
	assert.ErrorIs(t, svc.SetActionItemStatus(ctx, uuid.NewString(), item, domain.ActionDone), domain.ErrNotFound)
	assert.ErrorIs(t, svc.SetActionItemStatus(ctx, id, item, "blocked"), domain.ErrInvalidStatus)
}

func TestList_SortedAndFiltered(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i, name := range []string{"old", "mid", "new"} {
		ts := base.Add(time.Duration(i) * 24 * time.Hour)
		svc.now = func() time.Time { return ts }
		id, err := svc.Create(ctx, name, "", nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	ok, err := svc.Update(ctx, ids[1], domain.ProjectUpdate{Status: ptr(domain.ProjectCompleted)})
	require.NoError(t, err)
	require.True(t, ok)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, summaryNames(all))

	active, err := svc.List(ctx, ptr(domain.ProjectActive))
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, summaryNames(active))
}

func TestConcurrentLinksAreSerialized(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "Apollo", "", nil)
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddSessionLink(ctx, id, "/s.json")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, p.Sessions, n)
}

func summaryNames(list []domain.ProjectSummary) []string {
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	return names
}
