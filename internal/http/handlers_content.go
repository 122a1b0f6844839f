package http

import (
	"net/http"

	"fintrack/internal/core"
)

type currencyView struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.svc.Posts.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, false))
	}
	NewJSONResponse().Display(s.display.forRequest(r), "Articles").Data(views).Write(w)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	p, err := s.svc.Posts.Get(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	NewJSONResponse().Display(s.display.forRequest(r), p.Title).Data(newPostView(p, true)).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().
		Display(s.display.forRequest(r), "Categories").
		Data(map[string][]core.CategoryInfo{
			"income":  core.IncomeCategories,
			"expense": core.ExpenseCategories,
		}).
		Write(w)
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	codes := core.SupportedCurrencies()
	out := make([]currencyView, 0, len(codes))
	for _, c := range codes {
		out = append(out, currencyView{Code: c, Symbol: core.CurrencySymbol(c)})
	}
	NewJSONResponse().Display(s.display.forRequest(r), "Currency").Data(out).Write(w)
}
