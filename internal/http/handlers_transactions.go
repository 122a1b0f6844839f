package http

import (
	"net/http"
	"strings"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

type createTransactionRequest struct {
	Amount   amountInput `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Note     string      `json:"note"`
	Type     string      `json:"type"`
}

// handleListTransactions serves ?type=all|income|expense&month=YYYY-MM&order=asc|desc.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := parseType(q.Get("type"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	month, hasMonth, err := ParseMonthParam(q.Get("month"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	f := services.TransactionFilter{
		Kind:  analytics.ParseKind(kind),
		Order: store.ParseSortOrder(q.Get("order")),
	}
	if hasMonth {
		f.Year, f.Month = month.Year, month.Month
	}

	ts, err := s.svc.Transactions.List(r.Context(), f)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	d := s.display.forRequest(r)
	NewJSONResponse().
		Display(d, "Transactions").
		Data(newTransactionViews(ts, d)).
		Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
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
	date, err := parseOptionalDate(req.Date, s.now().In(loc), loc)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	var isExpense bool
	switch strings.ToLower(strings.TrimSpace(req.Type)) {
	case "expense", "":
		isExpense = true
	case "income":
	default:
		ErrorResponse(w, r, badRequest("type must be income or expense"))
		return
	}

	t := core.NewTransaction(amount, sanitizeInput(req.Category), date, sanitizeInput(req.Note), isExpense)
	created, err := s.svc.Transactions.Create(r.Context(), t)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	d := s.display.forRequest(r)
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+created.ID.String()).
		Display(d, "").
		Data(newTransactionView(created, d)).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := s.svc.Transactions.Delete(r.Context(), id); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
