package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// CategoryTotal is one slice of a category breakdown.
type CategoryTotal struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"` // share of the sum, in [0,1]
}

// CategoryFlow holds income and expense magnitudes of one category.
type CategoryFlow struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
}

// GroupByCategory totals amounts per category label and computes each
// label's share of the overall sum. Labels match exactly, so "Food" and
// "food" are distinct buckets. Callers usually pre-filter by kind, since
// amounts are summed as magnitudes regardless of direction.
//
// The result is ordered by descending total, then by category name.
// Percentages are zero when the overall sum is zero.
func GroupByCategory(ts []core.Transaction) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	sum := decimal.Zero
	for _, t := range ts {
		cur, ok := totals[t.Category]
		if !ok {
			order = append(order, t.Category)
			cur = decimal.Zero
		}
		totals[t.Category] = cur.Add(t.Amount)
		sum = sum.Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		total := totals[name]
		pct := decimal.Zero
		if !sum.IsZero() {
			pct = total.Div(sum)
		}
		out = append(out, CategoryTotal{Category: name, Total: total, Percentage: pct})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// CategoryFlows splits every category into its income and expense sides,
// ordered by category name.
func CategoryFlows(ts []core.Transaction) []CategoryFlow {
	idx := make(map[string]int)
	out := make([]CategoryFlow, 0)
	for _, t := range ts {
		i, ok := idx[t.Category]
		if !ok {
			i = len(out)
			idx[t.Category] = i
			out = append(out, CategoryFlow{Category: t.Category, Income: decimal.Zero, Expense: decimal.Zero})
		}
		if t.IsExpense {
			out[i].Expense = out[i].Expense.Add(t.Amount)
		} else {
			out[i].Income = out[i].Income.Add(t.Amount)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
