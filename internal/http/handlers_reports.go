package http

import (
	"net/http"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// defaultAnalyticsMonths is the span of the analytics screen when no range
// is given.
const defaultAnalyticsMonths = 6

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	db, err := s.svc.Reports.Summary(r.Context(), s.now())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	d := s.display.forRequest(r)
	NewJSONResponse().Display(d, "Home").Data(newSummaryView(db, d)).Write(w)
}

// handleAnalytics serves ?from=&to=&type=. An inverted range is not an
// error; it yields an empty report.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := s.svc.Reports.Location()
	today := core.StartOfDay(s.now().In(loc))

	to, err := parseOptionalDate(q.Get("to"), today, loc)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	from, err := parseOptionalDate(q.Get("from"), today.AddDate(0, -defaultAnalyticsMonths, 0), loc)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	kindName, err := parseType(q.Get("type"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	kind := analytics.ParseKind(kindName)

	rep, err := s.svc.Reports.Report(r.Context(), from, to, kind)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	d := s.display.forRequest(r)
	NewJSONResponse().Display(d, "Analytics").Data(newReportView(rep, kind, d)).Write(w)
}
