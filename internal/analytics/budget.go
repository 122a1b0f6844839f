package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var one = decimal.NewFromInt(1)

// RemainingBudget returns the spendable amount left in b: the budget amount,
// minus expenses, plus income recorded inside the window. The window runs
// from StartDate through the end of EndDate's calendar day, so income in
// the window tops the envelope up.
func RemainingBudget(b core.Budget, ts []core.Transaction) decimal.Decimal {
	return b.Amount.Add(NetBalance(FilterByDateRange(ts, b.StartDate, b.EndDate)))
}

// BudgetStatus is the view of a budget against its transactions.
type BudgetStatus struct {
	Budget    core.Budget     `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Income    decimal.Decimal `json:"income"`
	Remaining decimal.Decimal `json:"remaining"`
}

// StatusOf computes spent, income and remaining for b.
func StatusOf(b core.Budget, ts []core.Transaction) BudgetStatus {
	in := FilterByDateRange(ts, b.StartDate, b.EndDate)
	return BudgetStatus{
		Budget:    b,
		Spent:     TotalExpense(in),
		Income:    TotalIncome(in),
		Remaining: RemainingBudget(b, ts),
	}
}

// CurrentBudget picks the budget covering now. Budgets may overlap; the one
// that started most recently wins, then the one ending first, then the lowest
// ID. ok is false when no budget covers now.
func CurrentBudget(budgets []core.Budget, now time.Time) (core.Budget, bool) {
	active := make([]core.Budget, 0, len(budgets))
	for _, b := range budgets {
		if b.Contains(now) {
			active = append(active, b)
		}
	}
	if len(active) == 0 {
		return core.Budget{}, false
	}
	sort.Slice(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		if !a.EndDate.Equal(b.EndDate) {
			return a.EndDate.Before(b.EndDate)
		}
		return a.ID.String() < b.ID.String()
	})
	return active[0], true
}

// GoalProgress returns CurrentAmount/TargetAmount clamped to [0,1]. A zero
// or negative target yields 0.
func GoalProgress(g core.Goal) decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.TargetAmount)
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(one) {
		return one
	}
	return p
}

// GoalStatus pairs a goal with its progress.
type GoalStatus struct {
	Goal     core.Goal       `json:"goal"`
	Progress decimal.Decimal `json:"progress"`
}

// GoalStatuses computes progress for every goal, preserving order.
func GoalStatuses(goals []core.Goal) []GoalStatus {
	out := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalStatus{Goal: g, Progress: GoalProgress(g)})
	}
	return out
}
