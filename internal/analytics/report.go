package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Report is the analytics screen for one date range.
type Report struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	Balance          decimal.Decimal `json:"balance"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Count            int             `json:"count"`
	IncomeBreakdown  []CategoryTotal `json:"income_breakdown"`
	ExpenseBreakdown []CategoryTotal `json:"expense_breakdown"`
	Flows            []CategoryFlow  `json:"flows"`
	Daily            []SeriesPoint   `json:"daily"`
	Monthly          []SeriesPoint   `json:"monthly"`
}

// BuildReport filters ts to [from, end of to's day] and derives every
// aggregate of the analytics screen from that slice.
func BuildReport(ts []core.Transaction, from, to time.Time) Report {
	in := FilterByDateRange(ts, from, to)
	return Report{
		From:             from,
		To:               to,
		Balance:          NetBalance(in),
		Income:           TotalIncome(in),
		Expense:          TotalExpense(in),
		Count:            len(in),
		IncomeBreakdown:  GroupByCategory(FilterByKind(in, KindIncome)),
		ExpenseBreakdown: GroupByCategory(FilterByKind(in, KindExpense)),
		Flows:            CategoryFlows(in),
		Daily:            BuildDailySeries(in, from, to),
		Monthly:          BuildMonthlySeries(in, from, to),
	}
}

// Dashboard is the home screen: overall balance, relative period summaries,
// the active budget and goal progress.
type Dashboard struct {
	Balance   decimal.Decimal `json:"balance"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Periods   []PeriodSummary `json:"periods"`
	Budget    *BudgetStatus   `json:"budget,omitempty"`
	Goals     []GoalStatus    `json:"goals"`
	Reference time.Time       `json:"reference"`
}

// BuildDashboard derives the home screen for the reference instant now.
func BuildDashboard(ts []core.Transaction, budgets []core.Budget, goals []core.Goal, now time.Time) Dashboard {
	d := Dashboard{
		Balance:   NetBalance(ts),
		Income:    TotalIncome(ts),
		Expense:   TotalExpense(ts),
		Periods:   Summaries(ts, now),
		Goals:     GoalStatuses(goals),
		Reference: now,
	}
	if b, ok := CurrentBudget(budgets, now); ok {
		st := StatusOf(b, ts)
		d.Budget = &st
	}
	return d
}
