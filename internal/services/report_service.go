package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// ReportService reads a snapshot from the stores and runs the analytics
// engine over it. Range reports are memoized until the next write.
type ReportService struct {
	txs     store.TransactionStore
	budgets store.BudgetStore
	goals   store.GoalStore
	loc     *time.Location

	cache      *cache.LRUCache[analytics.Report]
	group      singleflight.Group
	generation atomic.Uint64
	computed   atomic.Uint64
}

func NewReportService(
	txs store.TransactionStore,
	budgets store.BudgetStore,
	goals store.GoalStore,
	reportCache *cache.LRUCache[analytics.Report],
	loc *time.Location,
) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	if reportCache == nil {
		reportCache = cache.NewLRUCache[analytics.Report](0, 0)
	}
	return &ReportService{txs: txs, budgets: budgets, goals: goals, cache: reportCache, loc: loc}
}

// Location is the calendar used for periods and series.
func (s *ReportService) Location() *time.Location { return s.loc }

// Invalidate makes every cached report stale.
func (s *ReportService) Invalidate() {
	s.generation.Add(1)
	s.cache.Purge()
}

// Report returns the analytics view of [from, end of to's day] restricted to
// kind. from and to are interpreted in the service location.
func (s *ReportService) Report(ctx context.Context, from, to time.Time, kind analytics.Kind) (analytics.Report, error) {
	from, to = from.In(s.loc), to.In(s.loc)
	key := s.reportKey(from, to, kind)

	if r, ok := s.cache.Get(key); ok {
		return r, nil
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		ts, err := s.txs.ListTransactions(ctx, store.DateAscending)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		r := analytics.BuildReport(analytics.FilterByKind(ts, kind), from, to)
		s.computed.Add(1)
		s.cache.Set(key, r)
		return r, nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build report", "from", from, "to", to, "error", err)
		return analytics.Report{}, err
	}
	if shared {
		slog.DebugContext(ctx, "Report computation shared", "key", key)
	}
	return v.(analytics.Report), nil
}

func (s *ReportService) reportKey(from, to time.Time, kind analytics.Kind) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d",
		from.Format(time.RFC3339Nano),
		to.Format(time.RFC3339Nano),
		kind,
		s.loc.String(),
		s.generation.Load(),
	)
}

// Summary builds the home screen for now, loading transactions, budgets and
// goals concurrently.
func (s *ReportService) Summary(ctx context.Context, now time.Time) (analytics.Dashboard, error) {
	var (
		ts      []core.Transaction
		budgets []core.Budget
		goals   []core.Goal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ts, err = s.txs.ListTransactions(gctx, store.DateDescending)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		goals, err = s.goals.ListGoals(gctx)
		if err != nil {
			return fmt.Errorf("list goals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Failed to load summary inputs", "error", err)
		return analytics.Dashboard{}, err
	}

	budgetsIn(budgets, s.loc)
	return analytics.BuildDashboard(ts, budgets, goals, now.In(s.loc)), nil
}

// Computed reports how many reports were built rather than served from
// cache.
func (s *ReportService) Computed() uint64 { return s.computed.Load() }

// CacheStats exposes the report cache counters.
func (s *ReportService) CacheStats() cache.Stats { return s.cache.Stats() }
