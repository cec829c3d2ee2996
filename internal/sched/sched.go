// Package sched fires the daily reminder on a cron-defined cadence. It is
// intentionally decoupled from the HTTP layer: the api package holds a
// sched.Reporter interface and calls Status — it never imports the concrete
// Runner.
package sched

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

// Counters live at package level so construction in tests never re-registers.
var runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "schedule_runs_total",
	Help: "Scheduled reminder runs by outcome.",
}, []string{"outcome"})

// ─── COLLABORATOR INTERFACES ──────────────────────────────────────────────────

// Clock abstracts time.Now so tests can pin the schedule to a known instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// Job is the callback fired on every trigger. The concrete implementation is
// the dispatch flow's real (non-test) send.
type Job func(ctx context.Context) error

// Reporter is the narrow interface the api package uses to read schedule
// state. Keeping it here (not in api/) means api/ does not need to import the
// concrete Runner type.
type Reporter interface {
	Status() Status
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// Config defines the cadence. Cadence is data: a standard 5-field cron
// expression evaluated in Timezone, not a hardcoded timer.
type Config struct {
	Cron     string // e.g. "0 20 * * *" for 20:00 daily
	Timezone string // IANA zone name, e.g. "Asia/Kolkata"
}

// Status is the schedule state exposed over the API.
type Status struct {
	Active   bool
	Timezone string
	NextRun  time.Time
}

// Runner sleeps until the next cron fire time, invokes the job exactly once,
// and recomputes. A failed trigger is logged and dropped: the next attempt is
// the next scheduled run, never a retry, and there is no catch-up for missed
// days.
type Runner struct {
	schedule cron.Schedule
	loc      *time.Location
	job      Job
	clock    Clock
	logger   *slog.Logger

	mu      sync.Mutex
	active  bool
	nextRun time.Time
}

// New parses cfg and constructs a Runner. Call Start to begin firing.
func New(cfg Config, job Job, clock Clock, logger *slog.Logger) (*Runner, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("sched: load timezone %q: %w", cfg.Timezone, err)
	}

	// CRON_TZ pins evaluation to the configured zone no matter what zone the
	// host runs in.
	schedule, err := cron.ParseStandard(fmt.Sprintf("CRON_TZ=%s %s", cfg.Timezone, cfg.Cron))
	if err != nil {
		return nil, fmt.Errorf("sched: parse cron %q: %w", cfg.Cron, err)
	}

	if clock == nil {
		clock = SystemClock()
	}

	r := &Runner{
		schedule: schedule,
		loc:      loc,
		job:      job,
		clock:    clock,
		logger:   logger,
	}
	// Precompute so Status is meaningful before Start.
	r.nextRun = schedule.Next(clock.Now())
	return r, nil
}

// Start runs the schedule loop until ctx is cancelled. It blocks; call it in
// a goroutine from main:
//
//	go schedRunner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.setActive(true)
	defer r.setActive(false)

	r.logger.Info("sched: starting",
		"timezone", r.loc.String(),
		"next_run", r.schedule.Next(r.clock.Now()).In(r.loc),
	)

	for {
		next := r.schedule.Next(r.clock.Now())
		r.setNextRun(next)

		timer := time.NewTimer(next.Sub(r.clock.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("sched: stopped")
			return
		case <-timer.C:
			r.fire(ctx)
		}
	}
}

// fire invokes the job once and records the outcome.
func (r *Runner) fire(ctx context.Context) {
	start := time.Now()
	if err := r.job(ctx); err != nil {
		runsTotal.WithLabelValues("error").Inc()
		r.logger.Error("sched: scheduled send failed", "error", err)
		return
	}
	runsTotal.WithLabelValues("ok").Inc()
	r.logger.Info("sched: scheduled send completed", "took", time.Since(start))
}

// Status reports the current schedule state. NextRun is rendered in the
// configured zone.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{
		Active:   r.active,
		Timezone: r.loc.String(),
		NextRun:  r.nextRun.In(r.loc),
	}
}

func (r *Runner) setActive(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = v
}

func (r *Runner) setNextRun(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextRun = t
}
