package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Services are the application services the handlers call.
type Services struct {
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Goals        *services.GoalService
	Posts        *services.PostService
	Reports      *services.ReportService
}

// ServerConfig configures NewServer. Zero values get defaults.
type ServerConfig struct {
	Addr               string
	Display            DisplaySettings
	RateLimitPerMinute int
	Logger             *log.Logger
	// Now is the clock for default ranges and summaries.
	Now func() time.Time
}

type Server struct {
	http.Server

	svc      Services
	display  DisplaySettings
	now      func() time.Time
	started  time.Time
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(cfg ServerConfig, svc Services) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.DefaultConfig())
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Display.Currency == "" {
		cfg.Display = NewDisplaySettings("", true)
	}

	s := &Server{
		svc:      svc,
		display:  cfg.Display,
		now:      cfg.Now,
		started:  time.Now(),
		detector: security.NewDetector(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerWindow: cfg.RateLimitPerMinute,
			Window:            time.Minute,
		}),
	}
	s.tracer = trace.NewMiddleware(cfg.Logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	s.routes(mux)

	// Writes are rate limited; reads are cheap and mostly cached.
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
	}, http.MethodPost, http.MethodDelete)

	var handler http.Handler = mux
	handler = limited(handler)
	handler = log.Middleware(cfg.Logger.WithComponent(log.ComponentHTTP))(handler)
	handler = s.tracer.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.detector.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("GET /api/budgets/current", s.handleCurrentBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("POST /api/goals/{id}/contributions", s.handleContributeGoal)

	mux.HandleFunc("GET /api/posts", s.handleListPosts)
	mux.HandleFunc("GET /api/posts/{id}", s.handleGetPost)

	mux.HandleFunc("GET /api/reports/summary", s.handleSummary)
	mux.HandleFunc("GET /api/reports/analytics", s.handleAnalytics)

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/currencies", s.handleCurrencies)
}

// Shutdown stops the background cleanup and drains the HTTP server. It is
// safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleMetrics reports cache, traffic and security counters.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"requests":   s.tracer.GetMetrics(),
		"rate_limit": s.limiter.GetMetrics(),
		"security":   s.detector.GetMetrics(),
	}
	if s.svc.Reports != nil {
		stats := s.svc.Reports.CacheStats()
		body["report_cache"] = map[string]any{
			"size":     stats.Size,
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"computed": s.svc.Reports.Computed(),
		}
	}
	writeJSON(w, http.StatusOK, body)
}
