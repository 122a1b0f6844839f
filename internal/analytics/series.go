package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// SeriesPoint is one calendar bucket of a trend chart. Date is the first
// instant of the bucket (midnight of the day, or the first of the month).
type SeriesPoint struct {
	Date         time.Time       `json:"date"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
}

// civil identifies a calendar day (or month, with day fixed to 1).
type civil struct {
	year  int
	month time.Month
	day   int
}

func civilDay(t time.Time, loc *time.Location) civil {
	y, m, d := t.In(loc).Date()
	return civil{y, m, d}
}

func civilMonth(t time.Time, loc *time.Location) civil {
	y, m, _ := t.In(loc).Date()
	return civil{y, m, 1}
}

func (c civil) before(o civil) bool {
	if c.year != o.year {
		return c.year < o.year
	}
	if c.month != o.month {
		return c.month < o.month
	}
	return c.day < o.day
}

type bucket struct {
	income  decimal.Decimal
	expense decimal.Decimal
}

func (b bucket) add(t core.Transaction) bucket {
	if t.IsExpense {
		b.expense = b.expense.Add(t.Amount)
	} else {
		b.income = b.income.Add(t.Amount)
	}
	return b
}

func (b bucket) point(date time.Time) SeriesPoint {
	return SeriesPoint{
		Date:         date,
		IncomeTotal:  decimal.Zero.Add(b.income),
		ExpenseTotal: decimal.Zero.Add(b.expense),
	}
}

// BuildDailySeries returns one point per calendar day from start's day to
// end's day inclusive, in start's location. Days without transactions get
// explicit zero totals. An inverted range (start after end) yields an empty
// series.
func BuildDailySeries(ts []core.Transaction, start, end time.Time) []SeriesPoint {
	return buildSeries(ts, start, end, civilDay, nextDay)
}

// BuildMonthlySeries returns one point per calendar month from start's month
// to end's month inclusive, in start's location.
func BuildMonthlySeries(ts []core.Transaction, start, end time.Time) []SeriesPoint {
	return buildSeries(ts, start, end, civilMonth, nextMonth)
}

// nextDay and nextMonth step on UTC dates, which have no DST gaps.
func nextDay(c civil) civil {
	y, m, d := time.Date(c.year, c.month, c.day+1, 0, 0, 0, 0, time.UTC).Date()
	return civil{y, m, d}
}

func nextMonth(c civil) civil {
	y, m, _ := time.Date(c.year, c.month+1, 1, 0, 0, 0, 0, time.UTC).Date()
	return civil{y, m, 1}
}

// buildSeries walks buckets iteratively from the first to the last key so
// multi-year ranges cost one loop step per bucket.
func buildSeries(
	ts []core.Transaction,
	start, end time.Time,
	key func(time.Time, *time.Location) civil,
	next func(civil) civil,
) []SeriesPoint {
	if start.After(end) {
		return []SeriesPoint{}
	}
	loc := start.Location()
	first := key(start, loc)
	last := key(end, loc)

	buckets := make(map[civil]bucket)
	for _, t := range ts {
		k := key(t.Date, loc)
		if k.before(first) || last.before(k) {
			continue
		}
		buckets[k] = buckets[k].add(t)
	}

	out := make([]SeriesPoint, 0)
	for k := first; !last.before(k); k = next(k) {
		out = append(out, buckets[k].point(core.DayStart(k.year, k.month, k.day, loc)))
	}
	return out
}

// DaysInRange counts calendar days from start's day to end's day inclusive,
// in start's location: the number of points BuildDailySeries returns for
// the same range. Inverted ranges count zero.
func DaysInRange(start, end time.Time) int {
	if start.After(end) {
		return 0
	}
	loc := start.Location()
	first := civilDay(start, loc)
	last := civilDay(end, loc)
	// Count on UTC midnights so DST transitions do not skew day lengths.
	a := time.Date(first.year, first.month, first.day, 0, 0, 0, 0, time.UTC)
	b := time.Date(last.year, last.month, last.day, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours()/24) + 1
}
