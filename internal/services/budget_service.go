package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// BudgetService manages budgets and reports how much of each is left.
type BudgetService struct {
	store   store.BudgetStore
	txs     store.TransactionStore
	reports Invalidator
	loc     *time.Location
	now     func() time.Time
}

// NewBudgetService evaluates budget windows on calendar days in loc; nil
// means UTC.
func NewBudgetService(s store.BudgetStore, txs store.TransactionStore, reports Invalidator, loc *time.Location) *BudgetService {
	if loc == nil {
		loc = time.UTC
	}
	return &BudgetService{store: s, txs: txs, reports: reports, loc: loc, now: time.Now}
}

// WithClock replaces the clock used by Current.
func (s *BudgetService) WithClock(now func() time.Time) *BudgetService {
	s.now = now
	return s
}

func (s *BudgetService) Create(ctx context.Context, amount decimal.Decimal, start, end time.Time) (core.Budget, error) {
	b := core.NewBudget(amount, start, end)
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := s.store.AddBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	s.invalidate()
	slog.InfoContext(ctx, "Budget created",
		"id", b.ID,
		"amount", b.Amount.String(),
		"start", b.StartDate.Format(time.DateOnly),
		"end", b.EndDate.Format(time.DateOnly))
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete budget: %w", err)
	}
	s.invalidate()
	slog.InfoContext(ctx, "Budget deleted", "id", id)
	return nil
}

// List returns every budget with its spent, income and remaining amounts.
func (s *BudgetService) List(ctx context.Context) ([]analytics.BudgetStatus, error) {
	budgets, ts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]analytics.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, analytics.StatusOf(b, ts))
	}
	return out, nil
}

// Current returns the status of the budget active now. ok is false when no
// budget covers the current instant.
func (s *BudgetService) Current(ctx context.Context) (analytics.BudgetStatus, bool, error) {
	budgets, ts, err := s.load(ctx)
	if err != nil {
		return analytics.BudgetStatus{}, false, err
	}
	b, ok := analytics.CurrentBudget(budgets, s.now().In(s.loc))
	if !ok {
		return analytics.BudgetStatus{}, false, nil
	}
	return analytics.StatusOf(b, ts), true, nil
}

func (s *BudgetService) load(ctx context.Context) ([]core.Budget, []core.Transaction, error) {
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list budgets: %w", err)
	}
	budgetsIn(budgets, s.loc)
	ts, err := s.txs.ListTransactions(ctx, store.DateAscending)
	if err != nil {
		return nil, nil, fmt.Errorf("list transactions: %w", err)
	}
	return budgets, ts, nil
}

// budgetsIn moves budget windows into loc so their end dates close at the
// end of the calendar day the budget was created for.
func budgetsIn(budgets []core.Budget, loc *time.Location) {
	for i := range budgets {
		budgets[i].StartDate = budgets[i].StartDate.In(loc)
		budgets[i].EndDate = budgets[i].EndDate.In(loc)
	}
}

func (s *BudgetService) invalidate() {
	if s.reports != nil {
		s.reports.Invalidate()
	}
}
