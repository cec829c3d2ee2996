package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyashahama/attendance-reminder-backend/internal/api"
	"github.com/nyashahama/attendance-reminder-backend/internal/config"
	"github.com/nyashahama/attendance-reminder-backend/internal/dispatch"
	"github.com/nyashahama/attendance-reminder-backend/internal/email"
	"github.com/nyashahama/attendance-reminder-backend/internal/notify"
	"github.com/nyashahama/attendance-reminder-backend/internal/quicklink"
	"github.com/nyashahama/attendance-reminder-backend/internal/roster"
	"github.com/nyashahama/attendance-reminder-backend/internal/sched"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded",
		"env", cfg.Env,
		"port", cfg.Port,
		"base_url", cfg.BaseURL,
	)

	// ── Schedule timezone ─────────────────────────────────────────────────────
	// Loaded once here so the dispatcher and the scheduler agree on the zone.
	loc, err := time.LoadLocation(cfg.ScheduleTZ)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.ScheduleTZ, err)
	}

	// ── State & roster ────────────────────────────────────────────────────────
	settings := notify.NewStore()
	employees := roster.Default()

	// ── Links & email (EmailJS) ───────────────────────────────────────────────
	links := quicklink.New(cfg.BaseURL)
	mailer := email.NewEmailJSClient(cfg.EmailJSPublicKey, cfg.EmailJSPrivateKey)

	// ── Dispatch flow ─────────────────────────────────────────────────────────
	dispatcher := dispatch.New(dispatch.Config{
		ServiceID:  cfg.EmailJSServiceID,
		TemplateID: cfg.EmailJSTemplateID,
		Location:   loc,
	}, settings, employees, links, mailer, logger)

	// ── Scheduler ─────────────────────────────────────────────────────────────
	schedRunner, err := sched.New(sched.Config{
		Cron:     cfg.ScheduleCron,
		Timezone: cfg.ScheduleTZ,
	}, func(ctx context.Context) error {
		_, err := dispatcher.Send(ctx, false)
		return err
	}, sched.SystemClock(), logger)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		settings,
		employees,
		dispatcher,
		schedRunner, // *Runner satisfies sched.Reporter
		api.Config{
			Env:           cfg.Env,
			AllowedOrigin: cfg.AllowedOrigin,
		},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	// Root context cancelled by OS signal. Scheduler and HTTP server both
	// respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the schedule loop in a background goroutine. It blocks until ctx
	// is done.
	go schedRunner.Start(ctx)

	// Start the HTTP server in a background goroutine.
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight HTTP requests up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
