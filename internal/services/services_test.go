package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

var day1 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakePublisher struct {
	mu     sync.Mutex
	events []*amqp.TransactionEvent
	err    error
}

func (f *fakePublisher) PublishTransactionEvent(_ context.Context, ev *amqp.TransactionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

// countingStore wraps a TransactionStore to count list calls.
type countingStore struct {
	store.TransactionStore
	mu    sync.Mutex
	lists int
	delay time.Duration
	err   error
}

func (c *countingStore) ListTransactions(ctx context.Context, order store.SortOrder) ([]core.Transaction, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.TransactionStore.ListTransactions(ctx, order)
}

func (c *countingStore) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists
}

type fixture struct {
	mem     *memory.Store
	txs     *countingStore
	pub     *fakePublisher
	reports *ReportService
	tx      *TransactionService
	budgets *BudgetService
	goals   *GoalService
	posts   *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.New()
	txs := &countingStore{TransactionStore: mem}
	pub := &fakePublisher{}
	reports := NewReportService(txs, mem, mem, cache.NewLRUCache[analytics.Report](16, time.Minute), time.UTC)
	return &fixture{
		mem:     mem,
		txs:     txs,
		pub:     pub,
		reports: reports,
		tx:      NewTransactionService(txs, pub, reports, time.UTC),
		budgets: NewBudgetService(mem, txs, reports, time.UTC),
		goals:   NewGoalService(mem),
		posts:   NewPostService(mem),
	}
}

func (f *fixture) seedScenario(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, tx := range []core.Transaction{
		core.NewTransaction(dec("100"), "Food", day1, "", true),
		core.NewTransaction(dec("50"), "Food", day1.Add(time.Hour), "", true),
		core.NewTransaction(dec("200"), "Work", day1.Add(2*time.Hour), "", false),
	} {
		_, err := f.tx.Create(ctx, tx)
		require.NoError(t, err)
	}
}

func TestTransactionService_CreatePublishesAndStores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.tx.Create(ctx, core.Transaction{Amount: dec("12.50"), Category: "Food", Date: day1, IsExpense: true})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, amqp.EventTransactionCreated, f.pub.events[0].Type)
	assert.Equal(t, created.ID, f.pub.events[0].TransactionID)

	_, err = f.tx.Create(ctx, core.Transaction{Amount: dec("-1"), Category: "Food", Date: day1})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.Len(t, f.pub.events, 1, "invalid transactions must not be published")

	require.NoError(t, f.tx.Delete(ctx, created.ID))
	require.Len(t, f.pub.events, 2)
	assert.Equal(t, amqp.EventTransactionDeleted, f.pub.events[1].Type)

	assert.ErrorIs(t, f.tx.Delete(ctx, created.ID), store.ErrNotFound)
}

func TestTransactionService_PublishFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	_, err := f.tx.Create(context.Background(), core.NewTransaction(dec("1"), "Food", day1, "", true))
	require.NoError(t, err)

	list, err := f.tx.List(context.Background(), TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTransactionService_NilPublisher(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil, nil, nil)
	_, err := svc.Create(context.Background(), core.NewTransaction(dec("1"), "Food", day1, "", true))
	assert.NoError(t, err)
}

func TestTransactionService_ListFilters(t *testing.T) {
	f := newFixture(t)
	f.seedScenario(t)
	ctx := context.Background()
	_, err := f.tx.Create(ctx, core.NewTransaction(dec("7"), "Transport", day1.AddDate(0, 1, 0), "", true))
	require.NoError(t, err)

	all, err := f.tx.List(ctx, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Transport", all[0].Category, "newest first by default")

	expenses, err := f.tx.List(ctx, TransactionFilter{Kind: analytics.KindExpense})
	require.NoError(t, err)
	assert.Len(t, expenses, 3)

	march, err := f.tx.List(ctx, TransactionFilter{Year: 2025, Month: time.March, Order: store.DateAscending})
	require.NoError(t, err)
	require.Len(t, march, 3)
	assert.True(t, march[0].Amount.Equal(dec("100")))
}

func TestTransactionService_Import(t *testing.T) {
	f := newFixture(t)
	res, err := f.tx.Import(context.Background(), []core.Transaction{
		core.NewTransaction(dec("1"), "Food", day1, "", true),
		core.NewTransaction(dec("0"), "Food", day1, "", true),
		core.NewTransaction(dec("3"), "Work", day1, "", false),
	})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 2, Failed: 1}, res)
}

func TestReportService_MemoizesUntilWrite(t *testing.T) {
	f := newFixture(t)
	f.seedScenario(t)
	ctx := context.Background()
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	before := f.txs.calls()
	r1, err := f.reports.Report(ctx, from, to, analytics.KindAll)
	require.NoError(t, err)
	assert.True(t, r1.Balance.Equal(dec("50")))
	require.Len(t, r1.ExpenseBreakdown, 1)
	assert.True(t, r1.ExpenseBreakdown[0].Percentage.Equal(dec("1")))

	r2, err := f.reports.Report(ctx, from, to, analytics.KindAll)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.Equal(t, before+1, f.txs.calls(), "second call must be served from cache")
	assert.Equal(t, uint64(1), f.reports.Computed())

	_, err = f.reports.Report(ctx, from, to, analytics.KindExpense)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), f.reports.Computed(), "kind is part of the key")

	_, err = f.tx.Create(ctx, core.NewTransaction(dec("25"), "Food", day1, "", true))
	require.NoError(t, err)
	r3, err := f.reports.Report(ctx, from, to, analytics.KindAll)
	require.NoError(t, err)
	assert.True(t, r3.Balance.Equal(dec("25")), "write must invalidate: got %s", r3.Balance)
}

func TestReportService_CollapsesConcurrentRequests(t *testing.T) {
	mem := memory.New()
	txs := &countingStore{TransactionStore: mem, delay: 50 * time.Millisecond}
	svc := NewReportService(txs, mem, mem, cache.NewLRUCache[analytics.Report](16, time.Minute), time.UTC)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Report(context.Background(), from, from.AddDate(0, 1, -1), analytics.KindAll)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Less(t, txs.calls(), 10)
}

func TestReportService_StoreFailure(t *testing.T) {
	mem := memory.New()
	txs := &countingStore{TransactionStore: mem, err: errors.New("disk gone")}
	svc := NewReportService(txs, mem, mem, nil, time.UTC)

	_, err := svc.Report(context.Background(), day1, day1, analytics.KindAll)
	assert.ErrorContains(t, err, "disk gone")
	_, err = svc.Summary(context.Background(), day1)
	assert.ErrorContains(t, err, "disk gone")
}

func TestReportService_Summary(t *testing.T) {
	f := newFixture(t)
	f.seedScenario(t)
	ctx := context.Background()

	_, err := f.budgets.Create(ctx, dec("1000"), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = f.goals.Create(ctx, GoalInput{Title: "Trip", Target: dec("200"), Start: day1, End: day1.AddDate(0, 2, 0)})
	require.NoError(t, err)

	d, err := f.reports.Summary(ctx, day1.Add(5*time.Hour))
	require.NoError(t, err)
	assert.True(t, d.Balance.Equal(dec("50")))
	require.NotNil(t, d.Budget)
	assert.True(t, d.Budget.Remaining.Equal(dec("1050")))
	require.Len(t, d.Goals, 1)
	assert.Equal(t, core.ColorBlue, d.Goals[0].Goal.Color)
}

func TestBudgetService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.budgets.now = func() time.Time { return day1 }

	_, ok, err := f.budgets.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.budgets.Create(ctx, dec("100"), day1, day1.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, core.ErrInvalidInterval)

	b, err := f.budgets.Create(ctx, dec("1000"), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = f.tx.Create(ctx, core.NewTransaction(dec("600"), "Housing", day1, "", true))
	require.NoError(t, err)
	_, err = f.tx.Create(ctx, core.NewTransaction(dec("100"), "Work", day1, "", false))
	require.NoError(t, err)

	st, ok, err := f.budgets.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b.ID, st.Budget.ID)
	assert.True(t, st.Remaining.Equal(dec("500")))

	list, err := f.budgets.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Spent.Equal(dec("600")))

	require.NoError(t, f.budgets.Delete(ctx, b.ID))
	assert.ErrorIs(t, f.budgets.Delete(ctx, b.ID), store.ErrNotFound)
}

func TestBudgetServiceUsesServiceLocation(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	ctx := context.Background()
	mem := memory.New()
	svc := NewBudgetService(mem, mem, nil, loc).WithClock(func() time.Time {
		return time.Date(2025, 3, 31, 20, 0, 0, 0, loc).UTC()
	})

	// A store that hands dates back in UTC moves the end date onto Mar 30.
	b := core.NewBudget(dec("1000"),
		time.Date(2025, 3, 1, 0, 0, 0, 0, loc).UTC(),
		time.Date(2025, 3, 31, 0, 0, 0, 0, loc).UTC())
	require.NoError(t, mem.AddBudget(ctx, b))
	require.NoError(t, mem.AddTransaction(ctx, core.NewTransaction(dec("600"), "Food", time.Date(2025, 3, 31, 18, 0, 0, 0, loc), "", true)))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Remaining.Equal(dec("400")), "remaining %s", list[0].Remaining)
	assert.Equal(t, loc, list[0].Budget.EndDate.Location())

	st, ok, err := svc.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b.ID, st.Budget.ID)
	assert.True(t, st.Spent.Equal(dec("600")))

	reports := NewReportService(mem, mem, mem, cache.NewLRUCache[analytics.Report](4, time.Minute), loc)
	d, err := reports.Summary(ctx, time.Date(2025, 3, 31, 20, 0, 0, 0, loc))
	require.NoError(t, err)
	require.NotNil(t, d.Budget)
	assert.True(t, d.Budget.Remaining.Equal(dec("400")), "remaining %s", d.Budget.Remaining)
}

func TestGoalService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.goals.Create(ctx, GoalInput{Title: "", Target: dec("10"), Start: day1, End: day1})
	assert.ErrorIs(t, err, core.ErrEmptyTitle)
	_, err = f.goals.Create(ctx, GoalInput{Title: "X", Target: dec("10"), Start: day1, End: day1, Color: "teal"})
	assert.ErrorIs(t, err, core.ErrInvalidColor)

	st, err := f.goals.Create(ctx, GoalInput{Title: "Laptop", Target: dec("1000"), Start: day1, End: day1.AddDate(0, 3, 0), Color: core.ColorOrange})
	require.NoError(t, err)
	assert.True(t, st.Progress.IsZero())

	st, err = f.goals.Contribute(ctx, st.Goal.ID, dec("250"))
	require.NoError(t, err)
	assert.True(t, st.Progress.Equal(dec("0.25")))

	st, err = f.goals.Contribute(ctx, st.Goal.ID, dec("2000"))
	require.NoError(t, err)
	assert.True(t, st.Progress.Equal(dec("1")), "progress clamps at 1")

	_, err = f.goals.Contribute(ctx, st.Goal.ID, dec("0"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = f.goals.Contribute(ctx, uuid.New(), dec("1"))
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := f.goals.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.goals.Delete(ctx, st.Goal.ID))
	assert.ErrorIs(t, f.goals.Delete(ctx, st.Goal.ID), store.ErrNotFound)
}

func TestPostService_EnsureSeeded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.posts.EnsureSeeded(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.posts.EnsureSeeded(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding is skipped when posts exist")

	posts, err := f.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	got, err := f.posts.Get(ctx, posts[1].ID)
	require.NoError(t, err)
	assert.Equal(t, posts[1].Title, got.Title)

	_, err = f.posts.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
