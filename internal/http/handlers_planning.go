package http

import (
	"net/http"
	"strings"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

type createBudgetRequest struct {
	Amount    amountInput `json:"amount"`
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
}

type createGoalRequest struct {
	Title     string      `json:"title"`
	Target    amountInput `json:"target"`
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Color     string      `json:"color"`
}

type contributionRequest struct {
	Amount amountInput `json:"amount"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Budgets.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	d := s.display.forRequest(r)
	views := make([]budgetView, 0, len(list))
	for _, b := range list {
		views = append(views, newBudgetView(b, d))
	}
	NewJSONResponse().Display(d, "Budgets").Data(views).Write(w)
}

// handleCurrentBudget answers with data null when no budget covers today.
func (s *Server) handleCurrentBudget(w http.ResponseWriter, r *http.Request) {
	st, ok, err := s.svc.Budgets.Current(r.Context())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	d := s.display.forRequest(r)
	var data *budgetView
	if ok {
		v := newBudgetView(st, d)
		data = &v
	}
	NewJSONResponse().Display(d, "Budget").Data(data).Write(w)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	amount, err := req.Amount.Decimal()
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	loc := s.svc.Reports.Location()
	start, err := parseDate(req.StartDate, loc)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	end, err := parseDate(req.EndDate, loc)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	b, err := s.svc.Budgets.Create(r.Context(), amount, start, end)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	st, err := s.budgetStatus(r, b)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	d := s.display.forRequest(r)
	NewJSONResponse().
		Status(http.StatusCreated).
		Display(d, "").
		Data(newBudgetView(st, d)).
		Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := s.svc.Budgets.Delete(r.Context(), id); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Goals.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	d := s.display.forRequest(r)
	NewJSONResponse().Display(d, "Goals").Data(newGoalViews(list, d)).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	target, err := req.Target.Decimal()
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	loc := s.svc.Reports.Location()
	today := s.now().In(loc)
	start, err := parseOptionalDate(req.StartDate, core.StartOfDay(today), loc)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	end, err := parseDate(req.EndDate, loc)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	st, err := s.svc.Goals.Create(r.Context(), services.GoalInput{
		Title:  sanitizeInput(req.Title),
		Target: target,
		Start:  start,
		End:    end,
		Color:  core.ColorTag(strings.ToLower(strings.TrimSpace(req.Color))),
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	d := s.display.forRequest(r)
	NewJSONResponse().Status(http.StatusCreated).Display(d, "").Data(newGoalView(st, d)).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := s.svc.Goals.Delete(r.Context(), id); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleContributeGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	var req contributionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	amount, err := req.Amount.Decimal()
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	st, err := s.svc.Goals.Contribute(r.Context(), id, amount)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	d := s.display.forRequest(r)
	NewJSONResponse().Display(d, "").Data(newGoalView(st, d)).Write(w)
}

// budgetStatus reports b with the spending recorded against it so far.
func (s *Server) budgetStatus(r *http.Request, b core.Budget) (analytics.BudgetStatus, error) {
	list, err := s.svc.Budgets.List(r.Context())
	if err != nil {
		return analytics.BudgetStatus{}, err
	}
	for _, st := range list {
		if st.Budget.ID == b.ID {
			return st, nil
		}
	}
	return analytics.StatusOf(b, nil), nil
}
