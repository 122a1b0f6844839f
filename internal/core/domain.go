package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ColorRed    ColorTag = "red"
	ColorBlue   ColorTag = "blue"
	ColorGreen  ColorTag = "green"
	ColorPurple ColorTag = "purple"
	ColorOrange ColorTag = "orange"
	ColorGray   ColorTag = "gray"
)

// MaxNoteLength bounds free-text notes on transactions.
const MaxNoteLength = 200

type (
	ColorTag string

	// Transaction is a single recorded money movement. Amount is always a
	// non-negative magnitude; IsExpense carries the direction.
	Transaction struct {
		ID        uuid.UUID
		Amount    decimal.Decimal
		Category  string
		Date      time.Time
		Note      string // optional
		IsExpense bool
	}

	// Budget is an allotted amount for the interval [StartDate, EndDate].
	Budget struct {
		ID        uuid.UUID
		Amount    decimal.Decimal
		StartDate time.Time
		EndDate   time.Time
	}

	// Goal is a savings target; CurrentAmount grows through contributions.
	Goal struct {
		ID            uuid.UUID
		Title         string
		TargetAmount  decimal.Decimal
		CurrentAmount decimal.Decimal
		StartDate     time.Time
		EndDate       time.Time
		Color         ColorTag
	}

	Post struct {
		ID        uuid.UUID
		Title     string
		Content   string
		ImageName string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidInterval = errors.New("end date must not be before start date")
	ErrEmptyCategory   = errors.New("empty category")
	ErrNoteTooLong     = errors.New("note too long (max 200 characters)")
	ErrEmptyTitle      = errors.New("empty title")
	ErrInvalidColor    = errors.New("invalid color tag")
)

// NewTransaction builds a transaction with a fresh ID.
func NewTransaction(amount decimal.Decimal, category string, date time.Time, note string, isExpense bool) Transaction {
	return Transaction{
		ID:        uuid.New(),
		Amount:    amount,
		Category:  category,
		Date:      date,
		Note:      note,
		IsExpense: isExpense,
	}
}

// Signed returns the net contribution of the transaction to a balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.IsExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Kind returns "expense" or "income".
func (t Transaction) Kind() string {
	if t.IsExpense {
		return "expense"
	}
	return "income"
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

func NewBudget(amount decimal.Decimal, start, end time.Time) Budget {
	return Budget{ID: uuid.New(), Amount: amount, StartDate: start, EndDate: end}
}

func (b Budget) Validate() error {
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return ErrInvalidDate
	}
	if b.EndDate.Before(b.StartDate) {
		return ErrInvalidInterval
	}
	return nil
}

// Contains reports whether t lies inside the budget window. The end date
// counts through the end of its calendar day.
func (b Budget) Contains(t time.Time) bool {
	if t.Before(b.StartDate) {
		return false
	}
	return !t.After(EndOfDay(b.EndDate))
}

func NewGoal(title string, target decimal.Decimal, start, end time.Time, color ColorTag) Goal {
	if color == "" {
		color = ColorBlue
	}
	return Goal{
		ID:            uuid.New(),
		Title:         title,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		StartDate:     start,
		EndDate:       end,
		Color:         color,
	}
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	if g.StartDate.IsZero() || g.EndDate.IsZero() {
		return ErrInvalidDate
	}
	if g.EndDate.Before(g.StartDate) {
		return ErrInvalidInterval
	}
	if !g.Color.IsValid() {
		return ErrInvalidColor
	}
	return nil
}

// Contribute adds a deposit to the goal. Deposits must be positive, so
// CurrentAmount never decreases.
func (g *Goal) Contribute(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	return nil
}

func NewPost(title, content, imageName string) Post {
	return Post{ID: uuid.New(), Title: title, Content: content, ImageName: imageName}
}

// ColorTags lists the goal colors in display order.
func ColorTags() []ColorTag {
	return []ColorTag{ColorRed, ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorGray}
}

func (c ColorTag) IsValid() bool {
	switch c {
	case ColorRed, ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorGray:
		return true
	default:
		return false
	}
}

// StartOfDay returns the first instant of t's calendar day in t's own
// location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return DayStart(y, m, d, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return DayStart(y, m, d+1, t.Location()).Add(-time.Nanosecond)
}

// DayStart returns the first instant of the calendar day y-m-d in loc.
// Out-of-range days normalize as in time.Date. Where a DST change skips
// midnight, the day starts at the first wall-clock time that exists.
func DayStart(y int, m time.Month, d int, loc *time.Location) time.Time {
	want := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	for {
		ty, tm, td := t.Date()
		if !time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Before(want) {
			return t
		}
		t = t.Add(15 * time.Minute)
	}
}
