package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/nyashahama/attendance-reminder-backend/internal/notify"
)

// successResponse is the shared happy-path envelope for mutating endpoints.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ─── POST /api/notifications/setup ────────────────────────────────────────────

type setupRequest struct {
	Email  string `json:"email"`
	Method string `json:"method"`
}

// handleSetup configures (or reconfigures) the notification target. The whole
// settings record is replaced: enabled becomes true and lastSent resets, so a
// re-setup always starts from a clean slate.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if !decode(w, r, &req) {
		return
	}

	settings, err := s.settings.Setup(req.Email, req.Method)
	if err != nil {
		if errors.Is(err, notify.ErrInvalidEmail) {
			respondErr(w, http.StatusBadRequest, "a valid email address is required")
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}

	s.logger.Info("notifications configured",
		"email", settings.Email,
		"method", settings.Method,
		logField(r),
	)
	respond(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Daily reminders enabled for " + settings.Email,
	})
}

// ─── GET /api/notifications/settings ──────────────────────────────────────────

// handleGetSettings returns the current settings record verbatim. lastSent is
// null until the first successful real send.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.settings.Get())
}

// ─── POST /api/notifications/test ─────────────────────────────────────────────

// handleTestSend sends a one-off test email so the user can verify their
// setup. Unlike the scheduled path, asking for a test while unconfigured is a
// caller mistake and gets a 400 rather than a quiet skip. Test sends never
// touch lastSent.
func (s *Server) handleTestSend(w http.ResponseWriter, r *http.Request) {
	settings := s.settings.Get()
	if !settings.Configured() {
		respondErr(w, http.StatusBadRequest, "notifications are not configured, run setup first")
		return
	}

	res, err := s.dispatcher.Send(r.Context(), true)
	if err != nil {
		s.logger.Error("test send failed", "error", err, logField(r))
		respondErr(w, http.StatusInternalServerError, "failed to send test email")
		return
	}

	s.logger.Info("test reminder sent",
		"dispatch_id", res.ID,
		"status", res.Status,
		logField(r),
	)
	respond(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Test reminder sent to " + settings.Email,
	})
}

// ─── POST /api/notifications/trigger ──────────────────────────────────────────

// handleTrigger runs the real dispatch immediately, outside the schedule. An
// unconfigured system is the dispatch flow's quiescent no-op and reports
// success, so external cron-style callers never see spurious failures.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	res, err := s.dispatcher.Send(r.Context(), false)
	if err != nil {
		s.logger.Error("manual trigger failed", "error", err, logField(r))
		respondErr(w, http.StatusInternalServerError, "failed to send reminder")
		return
	}

	msg := "Reminder sent"
	if res.Skipped {
		msg = "Notifications are not configured, nothing was sent"
	}
	respond(w, http.StatusOK, successResponse{Success: true, Message: msg})
}

// ─── GET /api/notifications/schedule ──────────────────────────────────────────

type scheduleResponse struct {
	DailyScheduleActive bool       `json:"dailyScheduleActive"`
	Timezone            string     `json:"timezone"`
	NextRun             string     `json:"nextRun"`
	LastSent            *time.Time `json:"lastSent"`
}

// handleScheduleStatus reports the daily schedule state plus the last
// successful send from the settings record.
func (s *Server) handleScheduleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.schedule.Status()
	respond(w, http.StatusOK, scheduleResponse{
		DailyScheduleActive: status.Active,
		Timezone:            status.Timezone,
		NextRun:             status.NextRun.Format("Mon, 02 Jan 2006 15:04 MST"),
		LastSent:            s.settings.Get().LastSent,
	})
}
