// Package http exposes the tracker as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"trackmaster/internal/cache"
	"trackmaster/internal/charts"
	"trackmaster/internal/middleware/ratelimit"
	"trackmaster/internal/middleware/security"
	"trackmaster/internal/middleware/trace"
	"trackmaster/internal/services"
)

type Server struct {
	http.Server
	tracker *services.Tracker
	charts  *charts.Generator

	// Report and chart responses keyed "<userID>:<name>", invalidated as a
	// whole per user on any expense mutation.
	reportCache *cache.LRUCache[[]byte]
	cacheMgr    *cache.Manager

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, tracker *services.Tracker, allowedOrigins []string) *Server {
	s := &Server{
		tracker:     tracker,
		charts:      charts.NewGenerator(),
		reportCache: cache.NewLRUCache[[]byte](200, 5*time.Minute),
		cacheMgr:    cache.NewManager(),
		limiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	s.cacheMgr.Register(s.reportCache)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	r := chi.NewRouter()
	r.Use(trace.Middleware)
	r.Use(security.Headers)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(api chi.Router) {
		api.Use(s.limiter.Middleware(trace.ClientIP, nil))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", s.handleSignup)
			auth.Post("/login", s.handleLogin)
			auth.Post("/logout", s.handleLogout)
			auth.Get("/session", s.handleSession)
		})

		api.Route("/expenses", func(exp chi.Router) {
			exp.Get("/", s.handleListExpenses)
			exp.Post("/", s.handleCreateExpense)
			exp.Get("/history", s.handleExpenseHistory)
			exp.Put("/{id}", s.handleUpdateExpense)
			exp.Delete("/{id}", s.handleDeleteExpense)
		})

		api.Get("/categories", s.handleCategories)

		api.Route("/reports", func(rep chi.Router) {
			rep.Get("/summary", s.handleReportSummary)
			rep.Get("/daily", s.handleReportDaily)
			rep.Get("/chart/categories.png", s.handleCategoryChart)
			rep.Get("/chart/daily.png", s.handleDailyChart)
		})
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Shutdown stops the server and its background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheMgr.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateReports drops a user's cached reports after a mutation.
func (s *Server) invalidateReports(userID string) {
	s.reportCache.DeletePrefix(userID + ":")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
