package http

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// JSON views of domain records. Amounts travel as fixed two-decimal
// strings so clients never see float rounding; Display carries the
// formatted value.

type transactionView struct {
	ID       string `json:"id"`
	Amount   string `json:"amount"`
	Display  string `json:"display"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Date     string `json:"date"`
	Note     string `json:"note,omitempty"`
	Type     string `json:"type"`
}

func newTransactionView(t core.Transaction, d DisplaySettings) transactionView {
	display := d.Format(t.Amount)
	if t.IsExpense {
		display = "-" + display
	}
	return transactionView{
		ID:       t.ID.String(),
		Amount:   t.Amount.StringFixed(2),
		Display:  display,
		Category: t.Category,
		Color:    core.ColorForCategory(t.Category),
		Date:     t.Date.Format(time.RFC3339),
		Note:     t.Note,
		Type:     t.Kind(),
	}
}

func newTransactionViews(ts []core.Transaction, d DisplaySettings) []transactionView {
	out := make([]transactionView, 0, len(ts))
	for _, t := range ts {
		out = append(out, newTransactionView(t, d))
	}
	return out
}

type moneyView struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

func newMoneyView(v decimal.Decimal, d DisplaySettings) moneyView {
	return moneyView{Amount: v.StringFixed(2), Display: d.Format(v)}
}

type budgetView struct {
	ID        string    `json:"id"`
	Amount    moneyView `json:"amount"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Spent     moneyView `json:"spent"`
	Income    moneyView `json:"income"`
	Remaining moneyView `json:"remaining"`
	Overspent bool      `json:"overspent"`
}

func newBudgetView(s analytics.BudgetStatus, d DisplaySettings) budgetView {
	return budgetView{
		ID:        s.Budget.ID.String(),
		Amount:    newMoneyView(s.Budget.Amount, d),
		StartDate: s.Budget.StartDate.Format(time.DateOnly),
		EndDate:   s.Budget.EndDate.Format(time.DateOnly),
		Spent:     newMoneyView(s.Spent, d),
		Income:    newMoneyView(s.Income, d),
		Remaining: newMoneyView(s.Remaining, d),
		Overspent: s.Remaining.IsNegative(),
	}
}

type goalView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Target    moneyView `json:"target"`
	Current   moneyView `json:"current"`
	Progress  string    `json:"progress"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Color     string    `json:"color"`
	Reached   bool      `json:"reached"`
}

func newGoalView(s analytics.GoalStatus, d DisplaySettings) goalView {
	g := s.Goal
	return goalView{
		ID:        g.ID.String(),
		Title:     g.Title,
		Target:    newMoneyView(g.TargetAmount, d),
		Current:   newMoneyView(g.CurrentAmount, d),
		Progress:  s.Progress.StringFixed(4),
		StartDate: g.StartDate.Format(time.DateOnly),
		EndDate:   g.EndDate.Format(time.DateOnly),
		Color:     string(g.Color),
		Reached:   !g.CurrentAmount.LessThan(g.TargetAmount),
	}
}

func newGoalViews(gs []analytics.GoalStatus, d DisplaySettings) []goalView {
	out := make([]goalView, 0, len(gs))
	for _, g := range gs {
		out = append(out, newGoalView(g, d))
	}
	return out
}

type postView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	ImageName string `json:"image_name,omitempty"`
}

// newPostView omits the body in list responses.
func newPostView(p core.Post, full bool) postView {
	v := postView{ID: p.ID.String(), Title: p.Title, ImageName: p.ImageName}
	if full {
		v.Content = p.Content
	}
	return v
}

type periodView struct {
	Period string    `json:"period"`
	Net    moneyView `json:"net"`
}

type summaryView struct {
	Balance moneyView    `json:"balance"`
	Income  moneyView    `json:"income"`
	Expense moneyView    `json:"expense"`
	Periods []periodView `json:"periods"`
	Budget  *budgetView  `json:"budget"`
	Goals   []goalView   `json:"goals"`
}

func newSummaryView(db analytics.Dashboard, d DisplaySettings) summaryView {
	v := summaryView{
		Balance: newMoneyView(db.Balance, d),
		Income:  newMoneyView(db.Income, d),
		Expense: newMoneyView(db.Expense, d),
		Periods: make([]periodView, 0, len(db.Periods)),
		Goals:   newGoalViews(db.Goals, d),
	}
	for _, p := range db.Periods {
		v.Periods = append(v.Periods, periodView{Period: string(p.Period), Net: newMoneyView(p.NetAmount, d)})
	}
	if db.Budget != nil {
		b := newBudgetView(*db.Budget, d)
		v.Budget = &b
	}
	return v
}

type categoryTotalView struct {
	Category   string `json:"category"`
	Color      string `json:"color"`
	Total      string `json:"total"`
	Display    string `json:"display"`
	Percentage string `json:"percentage"`
}

type categoryFlowView struct {
	Category string `json:"category"`
	Income   string `json:"income"`
	Expense  string `json:"expense"`
}

type seriesPointView struct {
	Date    string `json:"date"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type reportView struct {
	From             string              `json:"from"`
	To               string              `json:"to"`
	Type             string              `json:"type"`
	Balance          moneyView           `json:"balance"`
	Income           moneyView           `json:"income"`
	Expense          moneyView           `json:"expense"`
	Count            int                 `json:"count"`
	IncomeBreakdown  []categoryTotalView `json:"income_breakdown"`
	ExpenseBreakdown []categoryTotalView `json:"expense_breakdown"`
	Flows            []categoryFlowView  `json:"flows"`
	Daily            []seriesPointView   `json:"daily"`
	Monthly          []seriesPointView   `json:"monthly"`
}

func newReportView(r analytics.Report, kind analytics.Kind, d DisplaySettings) reportView {
	return reportView{
		From:             r.From.Format(time.DateOnly),
		To:               r.To.Format(time.DateOnly),
		Type:             string(kind),
		Balance:          newMoneyView(r.Balance, d),
		Income:           newMoneyView(r.Income, d),
		Expense:          newMoneyView(r.Expense, d),
		Count:            r.Count,
		IncomeBreakdown:  newCategoryTotalViews(r.IncomeBreakdown, d),
		ExpenseBreakdown: newCategoryTotalViews(r.ExpenseBreakdown, d),
		Flows:            newCategoryFlowViews(r.Flows),
		Daily:            newSeriesViews(r.Daily, time.DateOnly),
		Monthly:          newSeriesViews(r.Monthly, "2006-01"),
	}
}

func newCategoryTotalViews(cs []analytics.CategoryTotal, d DisplaySettings) []categoryTotalView {
	out := make([]categoryTotalView, 0, len(cs))
	for _, c := range cs {
		out = append(out, categoryTotalView{
			Category:   c.Category,
			Color:      core.ColorForCategory(c.Category),
			Total:      c.Total.StringFixed(2),
			Display:    d.Format(c.Total),
			Percentage: c.Percentage.StringFixed(4),
		})
	}
	return out
}

func newCategoryFlowViews(fs []analytics.CategoryFlow) []categoryFlowView {
	out := make([]categoryFlowView, 0, len(fs))
	for _, f := range fs {
		out = append(out, categoryFlowView{
			Category: f.Category,
			Income:   f.Income.StringFixed(2),
			Expense:  f.Expense.StringFixed(2),
		})
	}
	return out
}

func newSeriesViews(ps []analytics.SeriesPoint, layout string) []seriesPointView {
	out := make([]seriesPointView, 0, len(ps))
	for _, p := range ps {
		out = append(out, seriesPointView{
			Date:    p.Date.Format(layout),
			Income:  p.IncomeTotal.StringFixed(2),
			Expense: p.ExpenseTotal.StringFixed(2),
		})
	}
	return out
}
