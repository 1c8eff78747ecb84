// Package api provides the HTTP server for the farm ledger.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cerditos-farm/cerditos/internal/app/finance"
	"github.com/cerditos-farm/cerditos/internal/app/herd"
	"github.com/cerditos-farm/cerditos/internal/app/records"
	"github.com/cerditos-farm/cerditos/internal/app/session"
	"github.com/cerditos-farm/cerditos/internal/domain"
	"github.com/cerditos-farm/cerditos/internal/infra/observability"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "cerditos_session"

// Server is the HTTP API server.
type Server struct {
	records  *records.Service
	herd     *herd.Service
	finance  *finance.Service
	sessions *session.Manager
	log      *zap.Logger

	metricsEnabled bool
	healthCheck    func() error
}

// NewServer creates a new API server.
func NewServer(rec *records.Service, hs *herd.Service, fs *finance.Service, sessions *session.Manager, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{records: rec, herd: hs, finance: fs, sessions: sessions, log: log}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthCheck sets the probe run by /health (typically the store ping).
func (s *Server) SetHealthCheck(fn func() error) { s.healthCheck = fn }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(requestLogger(s.log))
	r.Use(observability.InstrumentHTTP)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Delete("/session", s.handleLogout)

			r.Get("/animals", s.handleListAnimals)
			r.Post("/animals", s.handleCreateAnimal)

			r.Get("/matings", s.handleListMatings)
			r.Post("/matings", s.handleCreateMating)
			r.Get("/matings/expected-farrowing", s.handleExpectedFarrowing)

			r.Get("/farrowings", s.handleListFarrowings)
			r.Post("/farrowings", s.handleCreateFarrowing)

			r.Get("/sales", s.handleListSales)
			r.Post("/sales", s.handleCreateSale)

			r.Get("/expenses", s.handleListExpenses)
			r.Post("/expenses", s.handleCreateExpense)

			r.Get("/feed", s.handleListFeed)
			r.Post("/feed", s.handleCreateFeed)

			r.Get("/dashboard", s.handleDashboard)
			r.Get("/reports/period", s.handlePeriodReport)
			r.Get("/finance/report", s.handleFinanceReport)
			r.Get("/finance/cashflow.png", s.handleCashFlowChart)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.healthCheck != nil {
		if err := s.healthCheck(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ─── Middleware ─────────────────────────────────────────────────────────────

// requireSession admits requests carrying a live session token, either as a
// Bearer token or in the session cookie. In demo mode every request passes.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Validate(sessionToken(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// requestLogger logs one line per request with the chi request ID.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ─── Responses ──────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeServiceError maps a service error onto its HTTP status.
// Storage failures are logged and reported without detail.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRecord),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		s.log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
