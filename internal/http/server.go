package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kasereka12/BudgetTracer/internal/auth"
	"github.com/kasereka12/BudgetTracer/internal/cache"
	"github.com/kasereka12/BudgetTracer/internal/dashboard"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	applog "github.com/kasereka12/BudgetTracer/internal/log"
	"github.com/kasereka12/BudgetTracer/internal/middleware/ratelimit"
	"github.com/kasereka12/BudgetTracer/internal/middleware/security"
	"github.com/kasereka12/BudgetTracer/internal/middleware/trace"
	"github.com/kasereka12/BudgetTracer/internal/services"
	"github.com/kasereka12/BudgetTracer/internal/views"
)

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Server.
type Options struct {
	Addr     string
	Services *services.Registry
	Store    Pinger
	Auth     *auth.Provider
	// Avatars is nil when avatar uploads are disabled.
	Avatars           views.AvatarStore
	Logger            *applog.Logger
	RequestsPerMinute int
	TrustedProxies    []string
	// Today overrides the calendar used for form defaults.
	Today forms.Clock
}

// Server serves the JSON API of every domain page.
type Server struct {
	http.Server

	services  *services.Registry
	store     Pinger
	auth      *auth.Provider
	avatars   views.AvatarStore
	dashboard *dashboard.Loader
	today     forms.Clock

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	caches   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		services:  opts.Services,
		store:     opts.Store,
		auth:      opts.Auth,
		avatars:   opts.Avatars,
		dashboard: dashboard.NewLoader(opts.Services),
		today:     opts.Today,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		detector:  security.NewDetector(),
		caches:    cache.NewManager(),
	}
	for _, cidr := range opts.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring invalid trusted proxy", "cidr", cidr, "error", err)
		}
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	for _, c := range opts.Auth.Caches() {
		s.caches.Register(c)
	}
	s.caches.StartCleanup(5 * time.Minute)

	s.Handler = s.middleware(logger, s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/dashboard", s.handleDashboard)

	api.HandleFunc("GET /api/budgets", serve(s, s.budgets, listOp))
	api.HandleFunc("POST /api/budgets", serve(s, s.budgets, createOp))
	api.HandleFunc("PUT /api/budgets/{id}", serve(s, s.budgets, updateOp))
	api.HandleFunc("DELETE /api/budgets/{id}", serve(s, s.budgets, deleteOp))
	api.HandleFunc("POST /api/budgets/{id}/toggle", s.handleToggleBudget)

	api.HandleFunc("GET /api/expenses", serve(s, s.expenses, listOp))
	api.HandleFunc("POST /api/expenses", serve(s, s.expenses, createOp))
	api.HandleFunc("PUT /api/expenses/{id}", serve(s, s.expenses, updateOp))
	api.HandleFunc("DELETE /api/expenses/{id}", serve(s, s.expenses, deleteOp))
	api.HandleFunc("GET /api/expense-categories", s.handleCategories)

	api.HandleFunc("GET /api/income", serve(s, s.incomes, listOp))
	api.HandleFunc("POST /api/income", serve(s, s.incomes, createOp))
	api.HandleFunc("PUT /api/income/{id}", serve(s, s.incomes, updateOp))
	api.HandleFunc("DELETE /api/income/{id}", serve(s, s.incomes, deleteOp))

	api.HandleFunc("GET /api/goals", serve(s, s.goals, listOp))
	api.HandleFunc("POST /api/goals", serve(s, s.goals, createOp))
	api.HandleFunc("PUT /api/goals/{id}", serve(s, s.goals, updateOp))
	api.HandleFunc("DELETE /api/goals/{id}", serve(s, s.goals, deleteOp))
	api.HandleFunc("POST /api/goals/{id}/status", s.handleGoalStatus)
	api.HandleFunc("POST /api/goals/{id}/progress", s.handleGoalProgress)

	api.HandleFunc("GET /api/meals", serve(s, s.meals, listOp))
	api.HandleFunc("POST /api/meals", serve(s, s.meals, createOp))
	api.HandleFunc("PUT /api/meals/{id}", serve(s, s.meals, updateOp))
	api.HandleFunc("DELETE /api/meals/{id}", serve(s, s.meals, deleteOp))

	api.HandleFunc("GET /api/profile", s.handleGetProfile)
	api.HandleFunc("PUT /api/profile", s.handleSaveProfile)
	api.HandleFunc("POST /api/profile/avatar", s.handleUploadAvatar)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("POST /auth/signout", s.handleSignOut)
	mux.Handle("/api/", auth.RequireUser(api))
	return mux
}

// middleware wraps h so that tracing runs outermost and authentication
// runs last.
func (s *Server) middleware(logger *applog.Logger, h http.Handler) http.Handler {
	h = s.auth.Middleware(h)
	h = s.limiter.Middleware(s.detector.ExtractClientIP, ratelimit.WritesOnly)(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.RequestIDMiddleware(trace.FromRequest)(h)
	h = applog.Middleware(logger)(h)
	return s.tracer.Middleware(h)
}

// Shutdown stops background cleanup and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		slog.Info("Stopping HTTP background workers")
		s.limiter.Stop()
		s.caches.Stop()
	})
	return s.Server.Shutdown(ctx)
}
