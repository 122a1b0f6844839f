package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/store"
	"fintrack/internal/store/storetest"
)

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "fintrack.db"), storetest.Location)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return openTestRepo(t) })
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.db")
	v1, err := RunMigrations(path)
	require.NoError(t, err)
	v2, err := RunMigrations(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v1)
	assert.Equal(t, v1, v2)
}

func TestSQLiteDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.db")
	ctx := context.Background()

	repo, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	tx := core.NewTransaction(decimal.RequireFromString("19.99"), "Food", time.Date(2025, 3, 10, 8, 15, 0, 0, time.UTC), "", true)
	require.NoError(t, repo.AddTransaction(ctx, tx))
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	defer repo.Close()

	list, err := repo.ListTransactions(ctx, store.DateDescending)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tx.ID, list[0].ID)
	assert.Equal(t, "19.99", list[0].Amount.StringFixed(2))
	assert.Equal(t, time.UTC, list[0].Date.Location())
}

func TestSQLiteConcurrentContributions(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	g := core.NewGoal("Car", decimal.RequireFromString("10000"), start, start.AddDate(1, 0, 0), "")
	require.NoError(t, repo.AddGoal(ctx, g))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ContributeToGoal(ctx, g.ID, decimal.RequireFromString("5"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentAmount.Equal(decimal.RequireFromString("100")), "got %s", got.CurrentAmount)
	assert.Equal(t, core.ColorBlue, got.Color)
}

func TestPostCount(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	n, err := repo.PostCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, p := range store.DefaultPosts() {
		require.NoError(t, repo.AddPost(ctx, p))
	}
	n, err = repo.PostCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
