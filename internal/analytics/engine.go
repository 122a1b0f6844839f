// Package analytics turns flat transaction lists into the derived values the
// presentation layer renders: balances, period summaries, category
// breakdowns and date-bucketed series.
//
// Every function is pure. Inputs are never mutated, outputs never alias
// inputs, and no function fails: empty input yields zero values, inverted
// ranges yield empty results and zero denominators resolve to zero.
//
// Calendar comparisons happen in the location of the reference argument
// (start of a range, or the reference instant of a period). Transaction dates
// are converted into that location before being bucketed.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Kind selects transactions by direction.
type Kind string

const (
	KindAll     Kind = "all"
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// ParseKind maps user input to a Kind, defaulting to KindAll.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindIncome, KindExpense:
		return Kind(s)
	default:
		return KindAll
	}
}

// NetBalance sums income minus expenses.
func NetBalance(ts []core.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		total = total.Add(t.Signed())
	}
	return total
}

// TotalIncome sums the amounts of income transactions.
func TotalIncome(ts []core.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		if !t.IsExpense {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalExpense sums the amounts of expense transactions as a magnitude.
func TotalExpense(ts []core.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		if t.IsExpense {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// FilterByDateRange keeps transactions dated in [start, end of end's day].
// An inverted range (start after end) selects nothing.
func FilterByDateRange(ts []core.Transaction, start, end time.Time) []core.Transaction {
	if start.After(end) {
		return []core.Transaction{}
	}
	last := core.EndOfDay(end)
	out := make([]core.Transaction, 0, len(ts))
	for _, t := range ts {
		if t.Date.Before(start) || t.Date.After(last) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilterByKind keeps income, expense or all transactions.
func FilterByKind(ts []core.Transaction, kind Kind) []core.Transaction {
	out := make([]core.Transaction, 0, len(ts))
	for _, t := range ts {
		switch {
		case kind == KindIncome && t.IsExpense,
			kind == KindExpense && !t.IsExpense:
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilterByCategory keeps transactions whose category matches exactly.
func FilterByCategory(ts []core.Transaction, category string) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, t := range ts {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// FilterByMonth keeps transactions falling in the given calendar month of loc.
func FilterByMonth(ts []core.Transaction, year int, month time.Month, loc *time.Location) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, t := range ts {
		y, m, _ := t.Date.In(loc).Date()
		if y == year && m == month {
			out = append(out, t)
		}
	}
	return out
}

// sameDay reports whether a and b fall on the same calendar day of loc.
func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
