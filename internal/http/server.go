package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finance/internal/auth"
	"finance/internal/log"
	"finance/internal/middleware/cors"
	"finance/internal/middleware/ratelimit"
	"finance/internal/middleware/security"
	"finance/internal/middleware/trace"
	"finance/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Auth     *auth.Authenticator
	Gate     *auth.Gate
	Expenses *services.ExpenseService
	Incomes  *services.IncomeService
	Budgets  *services.BudgetService
	Store    Pinger
	Logger   *log.Logger
}

// Options configure the listener and the outer middleware.
type Options struct {
	Addr               string
	StaticDir          string
	RateLimitPerMinute int
}

// Server is the JSON API server.
type Server struct {
	http.Server

	auth     *auth.Authenticator
	expenses *services.ExpenseService
	incomes  *services.IncomeService
	budgets  *services.BudgetService
	store    Pinger
	logger   *log.Logger

	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. Call Shutdown to stop it and its background goroutines.
func NewServer(opts Options, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		auth:     deps.Auth,
		expenses: deps.Expenses,
		incomes:  deps.Incomes,
		budgets:  deps.Budgets,
		store:    deps.Store,
		logger:   logger.WithComponent(log.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
	}

	mux := http.NewServeMux()
	s.routes(mux, opts.StaticDir)

	var handler http.Handler = mux
	if deps.Gate != nil {
		handler = deps.Gate.Middleware(handler)
	}
	handler = log.RequestIDMiddleware(trace.RequestID)(handler)
	handler = log.Middleware(logger)(handler)
	handler = cors.Middleware(cors.DefaultConfig())(handler)
	handler = s.detector.Middleware(logger)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(s.detector.ExtractClientIP, logger).Middleware(handler)
	s.Handler = handler

	return s
}

func (s *Server) routes(mux *http.ServeMux, staticDir string) {
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			append(log.NewFields().WithClientIP(s.detector.ExtractClientIP(r)).WithHTTPRequest(r.Method, r.URL.Path, "", "").ToSlice(),
				"rejected_total", s.limiter.Rejected())...)
		TooManyRequestsError("Rate limit exceeded. Please try again later.").Write(w)
	})

	mux.Handle("POST /api/auth/register", limited(http.HandlerFunc(s.handleRegister)))
	mux.Handle("POST /api/auth/login", limited(http.HandlerFunc(s.handleLogin)))

	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("GET /api/expenses/category/{category}", s.handleExpensesByCategory)
	mux.HandleFunc("GET /api/expenses/date-range", s.handleExpensesByDateRange)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("POST /api/incomes", s.handleCreateIncome)
	mux.HandleFunc("GET /api/incomes", s.handleListIncomes)
	mux.HandleFunc("GET /api/incomes/date-range", s.handleIncomesByDateRange)
	mux.HandleFunc("GET /api/incomes/recurring", s.handleIncomesByRecurring)
	mux.HandleFunc("PUT /api/incomes/{id}", s.handleUpdateIncome)
	mux.HandleFunc("DELETE /api/incomes/{id}", s.handleDeleteIncome)

	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("GET /api/budgets/month/{month}/year/{year}", s.handleBudgetsByPeriod)
	mux.HandleFunc("GET /api/budgets/progress", s.handleBudgetProgress)
	mux.HandleFunc("PUT /api/budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	if staticDir != "" {
		mux.Handle("GET /", security.StaticAssetMiddleware(time.Hour)(http.FileServer(http.Dir(staticDir))))
	}
}

// Shutdown gracefully shuts down the server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Payload(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Readiness check failed", log.FieldError, err.Error())
			ServiceUnavailableError("database unavailable").Write(w)
			return
		}
	}
	NewJSONResponse().Payload(map[string]string{"status": "ready"}).Write(w)
}
