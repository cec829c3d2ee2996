// Package dispatch implements the reminder assembly-and-send flow shared by
// the manual trigger, the test endpoint, and the daily scheduler.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nyashahama/attendance-reminder-backend/internal/email"
	"github.com/nyashahama/attendance-reminder-backend/internal/notify"
	"github.com/nyashahama/attendance-reminder-backend/internal/quicklink"
	"github.com/nyashahama/attendance-reminder-backend/internal/roster"
)

// Counters live at package level so every Dispatcher instance shares one
// registration in the default registry.
var dispatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reminder_dispatches_total",
	Help: "Reminder dispatch attempts by kind and outcome.",
}, []string{"kind", "outcome"})

// Config carries the static dispatch inputs.
type Config struct {
	ServiceID  string         // EmailJS service id
	TemplateID string         // EmailJS template id
	Location   *time.Location // zone for the human-readable date; nil means time.Local
}

// Result describes one dispatch attempt.
type Result struct {
	ID      string // correlation id, also present in logs
	Test    bool
	Skipped bool   // true when notifications were not configured
	Status  string // transport status text, e.g. "OK"
}

// Dispatcher owns the end-to-end reminder flow. Send is small enough to read
// top to bottom like a checklist.
type Dispatcher struct {
	cfg       Config
	settings  *notify.Store
	employees roster.Roster
	links     *quicklink.Generator
	mailer    email.Sender
	logger    *slog.Logger
}

// New constructs a Dispatcher with all required dependencies.
func New(
	cfg Config,
	settings *notify.Store,
	employees roster.Roster,
	links *quicklink.Generator,
	mailer email.Sender,
	logger *slog.Logger,
) *Dispatcher {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Dispatcher{
		cfg:       cfg,
		settings:  settings,
		employees: employees,
		links:     links,
		mailer:    mailer,
		logger:    logger,
	}
}

// Send runs the full reminder flow:
//
//  1. Snapshot settings; skip quietly when notifications are not configured.
//  2. Assemble the template parameters (subject, date, names, quick link).
//  3. Invoke the EmailJS transport.
//  4. Record lastSent — real sends only.
//
// A skipped dispatch is a success: "not configured" is a valid quiescent
// state, not an error. Transport failures are returned to the caller and
// nothing here retries them.
func (d *Dispatcher) Send(ctx context.Context, isTest bool) (Result, error) {
	res := Result{ID: uuid.New().String(), Test: isTest}
	log := d.logger.With("dispatch_id", res.ID, "test", isTest)

	// ── 1. Quiescent precondition ─────────────────────────────────────────────
	s := d.settings.Get()
	if !s.Configured() {
		res.Skipped = true
		dispatchesTotal.WithLabelValues(kind(isTest), "skipped").Inc()
		log.Warn("dispatch: notifications not configured, skipping send")
		return res, nil
	}

	// ── 2. Assemble template parameters ───────────────────────────────────────
	params, err := d.templateParams(s.Email, isTest)
	if err != nil {
		dispatchesTotal.WithLabelValues(kind(isTest), "failed").Inc()
		return res, fmt.Errorf("dispatch: build params: %w", err)
	}

	// ── 3. Invoke the transport ───────────────────────────────────────────────
	status, err := d.mailer.Send(ctx, d.cfg.ServiceID, d.cfg.TemplateID, params)
	if err != nil {
		dispatchesTotal.WithLabelValues(kind(isTest), "failed").Inc()
		return res, fmt.Errorf("dispatch: send reminder: %w", err)
	}
	res.Status = status

	// ── 4. Bookkeeping ────────────────────────────────────────────────────────
	// Test sends must leave lastSent untouched so the settings record always
	// reflects real deliveries only.
	if !isTest {
		d.settings.MarkSent(time.Now().UTC())
	}

	dispatchesTotal.WithLabelValues(kind(isTest), "sent").Inc()
	log.Info("dispatch: reminder sent", "to", s.Email, "status", status)
	return res, nil
}

// templateParams builds the map the EmailJS template renders. Key names match
// the template's placeholders.
func (d *Dispatcher) templateParams(to string, isTest bool) (map[string]string, error) {
	link, err := d.links.URL()
	if err != nil {
		return nil, err
	}

	date := time.Now().In(d.cfg.Location).Format("Monday, 02 January 2006")
	names := strings.Join(d.employees.Names(), ", ")

	subject := "Attendance Reminder — " + date
	message := fmt.Sprintf(
		"Daily attendance reminder for %s. Please submit attendance for: %s. Use the quick-response link to record today's attendance in one click.",
		date, names,
	)
	if isTest {
		subject = "Test — Attendance Reminder Setup"
		message = "This is a test of your attendance reminder setup. Real reminders will look like this and arrive on the daily schedule."
	}

	return map[string]string{
		"to_email":           to,
		"subject":            subject,
		"date":               date,
		"message":            message,
		"employee_names":     names,
		"quick_response_url": link,
	}, nil
}

func kind(isTest bool) string {
	if isTest {
		return "test"
	}
	return "real"
}
