// Package api implements the HTTP layer for the attendance reminder service.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nyashahama/attendance-reminder-backend/internal/dispatch"
	"github.com/nyashahama/attendance-reminder-backend/internal/notify"
	"github.com/nyashahama/attendance-reminder-backend/internal/roster"
	"github.com/nyashahama/attendance-reminder-backend/internal/sched"
)

// Config holds values the HTTP layer reads from startup configuration.
type Config struct {
	// Env is "production" or "development".
	Env string

	// AllowedOrigin is echoed in CORS headers. "*" is the development default;
	// production deployments set the frontend origin explicitly.
	AllowedOrigin string
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// settings owns the single notification-settings record.
	settings *notify.Store

	// employees is the fixed roster included in reminders and used to size
	// quick attendance submissions.
	employees roster.Roster

	// dispatcher runs the assemble-and-send reminder flow for the test and
	// trigger endpoints.
	dispatcher *dispatch.Dispatcher

	// schedule reports the daily schedule state.
	schedule sched.Reporter

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	settings *notify.Store,
	employees roster.Roster,
	dispatcher *dispatch.Dispatcher,
	schedule sched.Reporter,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		settings:   settings,
		employees:  employees,
		dispatcher: dispatcher,
		schedule:   schedule,
		cfg:        cfg,
		logger:     logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(30 * time.Second))

	// ── Health & metrics ──────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	// ── Static page ───────────────────────────────────────────────────────────
	r.Get("/", s.handleIndex)

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		r.Route("/notifications", func(r chi.Router) {
			r.Post("/setup", s.handleSetup)
			r.Get("/settings", s.handleGetSettings)
			r.Post("/test", s.handleTestSend)
			r.Post("/trigger", s.handleTrigger)
			r.Get("/schedule", s.handleScheduleStatus)
		})
		r.Post("/attendance/quick", s.handleQuickAttendance)
	})

	return r
}
