// Package http exposes the JSON API: authentication, transactions, budgets,
// credit cards, the dashboard summary, and exports.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"nami/internal/auth"
	"nami/internal/cache"
	"nami/internal/core"
	applog "nami/internal/log"
	"nami/internal/services"
	"nami/internal/store"
)

// TransactionsAppender is the optional spreadsheet backup target. The Google
// Sheets exporter is the production implementation.
type TransactionsAppender interface {
	AppendTransactions(ctx context.Context, txs []core.Transaction) error
}

type Server struct {
	http.Server

	users   store.UserStore
	finance *services.FinanceService
	tokens  *auth.TokenIssuer
	sheets  TransactionsAppender
	ready   func(ctx context.Context) error

	rateLimiter *rateLimiter

	// Dashboard responses cached per owner; every mutation by that owner
	// invalidates the entry.
	dashCache *cache.LRU[dashboardResponse]

	logger       *applog.Logger
	shutdownOnce sync.Once
}

// Options carries the optional collaborators of the server.
type Options struct {
	// Sheets, when set, enables the POST /api/export/sheets backup.
	Sheets TransactionsAppender
	// Ready, when set, gates /readyz on a dependency check.
	Ready func(ctx context.Context) error

	CacheSize int
	CacheTTL  time.Duration
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, users store.UserStore, finance *services.FinanceService, tokens *auth.TokenIssuer, logger *applog.Logger, opts Options) *Server {
	if opts.CacheSize < 1 {
		opts.CacheSize = 512
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		users:       users,
		finance:     finance,
		tokens:      tokens,
		sheets:      opts.Sheets,
		ready:       opts.Ready,
		rateLimiter: newRateLimiter(),
		dashCache:   cache.NewLRU[dashboardResponse](opts.CacheSize, opts.CacheTTL),
		logger:      logger.WithComponent(applog.ComponentHTTP),
	}

	authOnly := auth.Middleware(tokens)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.Handle("/api/auth/register", s.withAPIDefaults(http.HandlerFunc(s.handleRegister)))
	mux.Handle("/api/auth/login", s.withAPIDefaults(http.HandlerFunc(s.handleLogin)))

	mux.Handle("/api/transactions", s.withAPIDefaults(authOnly(http.HandlerFunc(s.handleTransactions))))
	mux.Handle("/api/transactions/", s.withAPIDefaults(authOnly(http.HandlerFunc(s.handleTransactionByID))))
	mux.Handle("/api/budgets", s.withAPIDefaults(authOnly(http.HandlerFunc(s.handleBudgets))))
	mux.Handle("/api/budgets/", s.withAPIDefaults(authOnly(http.HandlerFunc(s.handleBudgetByID))))
	mux.Handle("/api/cards", s.withAPIDefaults(authOnly(http.HandlerFunc(s.handleCards))))
	mux.Handle("/api/cards/", s.withAPIDefaults(authOnly(http.HandlerFunc(s.handleCardByID))))
	mux.Handle("/api/dashboard", s.withAPIDefaults(authOnly(http.HandlerFunc(s.handleDashboard))))

	mux.Handle("/api/export/csv", s.withAPIDefaults(authOnly(http.HandlerFunc(s.handleExportCSV))))
	mux.Handle("/api/export/report", s.withAPIDefaults(authOnly(http.HandlerFunc(s.handleExportReport))))
	mux.Handle("/api/export/sheets", s.withAPIDefaults(authOnly(http.HandlerFunc(s.handleExportSheets))))

	return s
}

// withAPIDefaults adds security headers, rate limiting, and request logging.
func (s *Server) withAPIDefaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)
		requestID := generateRequestID()

		logger := s.logger.With(applog.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), applog.LoggerContextKey, logger)
		r = r.WithContext(ctx)

		logger.InfoContext(ctx, "Request started",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, ip)

		// Rate limit mutations only; dashboard polling stays unthrottled.
		if isMutation(r.Method) && !s.rateLimiter.allow(ip) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, ip,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		logger.InfoContext(ctx, "Request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	})
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.logger.ErrorContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateDashboard drops the owner's cached dashboard after a mutation.
func (s *Server) invalidateDashboard(owner string) {
	s.dashCache.Invalidate(owner)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
