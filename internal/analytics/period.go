package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Period names a window relative to a reference instant.
type Period string

const (
	Today     Period = "today"
	ThisWeek  Period = "this_week"
	ThisMonth Period = "this_month"
)

// Periods lists the summary windows in display order.
func Periods() []Period {
	return []Period{Today, ThisWeek, ThisMonth}
}

// PeriodSummary is the net signed total of a relative window.
type PeriodSummary struct {
	Period    Period          `json:"period"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

// inPeriod reports whether t falls in the window of p around ref, using the
// calendar of ref's location. Weeks are ISO weeks.
func inPeriod(t time.Time, p Period, ref time.Time) bool {
	loc := ref.Location()
	switch p {
	case Today:
		return sameDay(t, ref, loc)
	case ThisWeek:
		ty, tw := t.In(loc).ISOWeek()
		ry, rw := ref.ISOWeek()
		return ty == ry && tw == rw
	case ThisMonth:
		ty, tm, _ := t.In(loc).Date()
		ry, rm, _ := ref.Date()
		return ty == ry && tm == rm
	default:
		return false
	}
}

// FilterByPeriod keeps transactions inside the window of p around ref.
// Unknown periods select nothing.
func FilterByPeriod(ts []core.Transaction, p Period, ref time.Time) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, t := range ts {
		if inPeriod(t.Date, p, ref) {
			out = append(out, t)
		}
	}
	return out
}

// SummarizePeriod returns the net balance of the transactions in p.
func SummarizePeriod(ts []core.Transaction, p Period, ref time.Time) PeriodSummary {
	return PeriodSummary{Period: p, NetAmount: NetBalance(FilterByPeriod(ts, p, ref))}
}

// Summaries returns today, this week and this month summaries for ref.
func Summaries(ts []core.Transaction, ref time.Time) []PeriodSummary {
	periods := Periods()
	out := make([]PeriodSummary, 0, len(periods))
	for _, p := range periods {
		out = append(out, SummarizePeriod(ts, p, ref))
	}
	return out
}
