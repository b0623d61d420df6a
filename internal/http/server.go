package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/tracker"
)

const statisticsCacheKey = "statistics"

type Server struct {
	http.Server
	tracker     *tracker.Tracker
	rateLimiter *rateLimiter

	// Statistics are recomputed over the full data set on every request,
	// so GET responses are cached and invalidated on any mutation.
	statsCache *cache.LRU[map[string]core.Result]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, tr *tracker.Tracker, statsTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		tracker:          tr,
		rateLimiter:      newRateLimiter(),
		statsCache:       cache.NewLRU[map[string]core.Result](16, statsTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /{$}", s.withMiddleware(s.handleRoot))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("GET /expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("GET /expenses/filter", s.withMiddleware(s.handleFilterExpenses))
	mux.HandleFunc("GET /expenses/{id}", s.withMiddleware(s.handleGetExpense))
	mux.HandleFunc("PUT /expenses/{id}", s.withMiddleware(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.withMiddleware(s.handleDeleteExpense))

	mux.HandleFunc("GET /categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.withMiddleware(s.handleCreateCategory))
	mux.HandleFunc("DELETE /categories/{name}", s.withMiddleware(s.handleDeleteCategory))

	mux.HandleFunc("GET /statistics", s.withMiddleware(s.handleStatistics))
	mux.HandleFunc("GET /statistics/{name}", s.withMiddleware(s.handleStatistic))

	return s
}

// startCacheCleanup periodically drops expired statistics entries.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.statsCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines before shutting down the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds request IDs, security headers, rate limiting on
// mutating methods, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, please try again later"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Request-ID", requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// invalidateStatistics drops cached statistics after any data mutation.
func (s *Server) invalidateStatistics() {
	s.statsCache.Delete(statisticsCacheKey)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready only when the store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.tracker.Categories(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
