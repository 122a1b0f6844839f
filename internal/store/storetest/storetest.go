// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Location is the service location every store under test must read dates
// back in. It sits east of UTC so a store that returns UTC shifts late
// evening instants onto the previous calendar day.
var Location = time.FixedZone("UTC+1", 3600)

// Run exercises a fresh store returned by open for every subtest.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("transactions", func(t *testing.T) { testTransactions(t, open(t)) })
	t.Run("budgets", func(t *testing.T) { testBudgets(t, open(t)) })
	t.Run("goals", func(t *testing.T) { testGoals(t, open(t)) })
	t.Run("posts", func(t *testing.T) { testPosts(t, open(t)) })
	t.Run("budget window in location", func(t *testing.T) { testBudgetWindowInLocation(t, open(t)) })
}

func testTransactions(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	empty, err := s.ListTransactions(ctx, store.DateDescending)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a := core.NewTransaction(decimal.RequireFromString("12.34"), "Food", base, "lunch", true)
	b := core.NewTransaction(decimal.RequireFromString("1500"), "Work", base.AddDate(0, 0, 2), "", false)
	c := core.NewTransaction(decimal.RequireFromString("0.99"), "Other", base.AddDate(0, 0, -1), "gum", true)
	for _, tx := range []core.Transaction{a, b, c} {
		require.NoError(t, s.AddTransaction(ctx, tx))
	}

	invalid := core.NewTransaction(decimal.Zero, "Food", base, "", true)
	assert.ErrorIs(t, s.AddTransaction(ctx, invalid), core.ErrInvalidAmount)

	desc, err := s.ListTransactions(ctx, store.DateDescending)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, []uuid.UUID{b.ID, a.ID, c.ID}, []uuid.UUID{desc[0].ID, desc[1].ID, desc[2].ID})

	asc, err := s.ListTransactions(ctx, store.DateAscending)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, c.ID, asc[0].ID)

	got := desc[1]
	assert.True(t, got.Amount.Equal(a.Amount))
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, "lunch", got.Note)
	assert.True(t, got.IsExpense)
	assert.True(t, got.Date.Equal(a.Date))

	require.NoError(t, s.DeleteTransaction(ctx, a.ID))
	assert.ErrorIs(t, s.DeleteTransaction(ctx, a.ID), store.ErrNotFound)
	left, err := s.ListTransactions(ctx, store.DateDescending)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func testBudgets(t *testing.T, s store.Store) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	b := core.NewBudget(decimal.RequireFromString("1000"), start, start.AddDate(0, 1, -1))
	require.NoError(t, s.AddBudget(ctx, b))

	inverted := core.NewBudget(decimal.RequireFromString("10"), start, start.AddDate(0, 0, -1))
	assert.ErrorIs(t, s.AddBudget(ctx, inverted), core.ErrInvalidInterval)

	list, err := s.ListBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	assert.True(t, list[0].Amount.Equal(b.Amount))
	assert.True(t, list[0].EndDate.Equal(b.EndDate))

	require.NoError(t, s.DeleteBudget(ctx, b.ID))
	assert.ErrorIs(t, s.DeleteBudget(ctx, b.ID), store.ErrNotFound)
}

func testGoals(t *testing.T, s store.Store) {
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	g := core.NewGoal("Bike", decimal.RequireFromString("500"), start, start.AddDate(0, 6, 0), core.ColorGreen)
	require.NoError(t, s.AddGoal(ctx, g))

	updated, err := s.ContributeToGoal(ctx, g.ID, decimal.RequireFromString("120.50"))
	require.NoError(t, err)
	assert.True(t, updated.CurrentAmount.Equal(decimal.RequireFromString("120.50")))

	_, err = s.ContributeToGoal(ctx, g.ID, decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = s.ContributeToGoal(ctx, uuid.New(), decimal.RequireFromString("1"))
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bike", got.Title)
	assert.Equal(t, core.ColorGreen, got.Color)
	assert.True(t, got.CurrentAmount.Equal(decimal.RequireFromString("120.5")))

	list, err := s.ListGoals(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteGoal(ctx, g.ID))
	_, err = s.GetGoal(ctx, g.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteGoal(ctx, g.ID), store.ErrNotFound)
}

func testPosts(t *testing.T, s store.Store) {
	ctx := context.Background()
	before, err := s.ListPosts(ctx)
	require.NoError(t, err)

	p := core.NewPost("Hello", "body", "img")
	require.NoError(t, s.AddPost(ctx, p))

	list, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(before)+1)

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "body", got.Content)
	assert.Equal(t, "img", got.ImageName)

	_, err = s.GetPost(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testBudgetWindowInLocation(t *testing.T, s store.Store) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, Location)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, Location)
	require.NoError(t, s.AddBudget(ctx, core.NewBudget(decimal.RequireFromString("1000"), start, end)))

	for _, tx := range []core.Transaction{
		core.NewTransaction(decimal.RequireFromString("600"), "Food", time.Date(2025, 3, 31, 18, 0, 0, 0, Location), "", true),
		core.NewTransaction(decimal.RequireFromString("50"), "Food", time.Date(2025, 3, 31, 23, 59, 0, 0, Location), "", true),
		core.NewTransaction(decimal.RequireFromString("7"), "Food", time.Date(2025, 4, 1, 0, 30, 0, 0, Location), "", true),
		core.NewTransaction(decimal.RequireFromString("9"), "Food", time.Date(2025, 2, 28, 23, 30, 0, 0, Location), "", true),
	} {
		require.NoError(t, s.AddTransaction(ctx, tx))
	}

	budgets, err := s.ListBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	ts, err := s.ListTransactions(ctx, store.DateAscending)
	require.NoError(t, err)

	b := budgets[0]
	assert.Equal(t, 31, b.EndDate.In(Location).Day())
	remaining := analytics.RemainingBudget(b, ts)
	assert.True(t, remaining.Equal(decimal.RequireFromString("350")), "remaining %s", remaining)
	assert.True(t, b.Contains(time.Date(2025, 3, 31, 23, 59, 0, 0, Location)))
	assert.False(t, b.Contains(time.Date(2025, 4, 1, 0, 0, 0, 0, Location)))

	got, ok := analytics.CurrentBudget(budgets, time.Date(2025, 3, 31, 22, 0, 0, 0, Location))
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)
}
