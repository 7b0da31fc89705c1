package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/app"
	"github.com/nemodouble/godlife/pkg/config"
	"github.com/nemodouble/godlife/pkg/observability"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stdout, cli.Version)
	logger.Info("starting godlife worker")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Season start days drift when checkins are backfilled; fix them before scheduling.
	container.RepairSeasons(ctx)

	if err := container.Scheduler.Start(ctx); err != nil {
		logger.Error("failed to start reminder scheduler", "error", err)
		os.Exit(1)
	}

	if container.OutboxProcessor != nil {
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			logger.Error("failed to start outbox processor", "error", err)
			os.Exit(1)
		}
	}

	go func() {
		if err := container.Consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("chat consumer stopped", "error", err)
			cancel()
		}
	}()

	if cfg.WorkerHealthAddr != "" {
		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           healthMux(container),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	statsInterval := cfg.WorkerStatsInterval
	if statsInterval <= 0 {
		statsInterval = 30 * time.Second
	}
	statsTicker := time.NewTicker(statsInterval)
	defer statsTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-statsTicker.C:
				logStats(container)
			}
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")
	logStats(container)
}

func healthMux(c *app.Container) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{
			"status":    "ok",
			"scheduler": c.Scheduler.Stats(),
		}
		if c.OutboxProcessor != nil {
			response["outbox"] = c.OutboxProcessor.GetStats()
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		health := c.Health.GetOverallHealth(checkCtx)
		w.Header().Set("Content-Type", "application/json")
		if health.Status == observability.HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Metrics.Snapshot())
	})
	return mux
}

func logStats(c *app.Container) {
	stats := c.Scheduler.Stats()
	c.Logger.Info("scheduler stats",
		"running", stats.IsRunning,
		"scheduled", stats.Scheduled,
		"fired", stats.Fired,
		"suppressed", stats.Suppressed,
		"failed", stats.Failed,
		"pending", stats.Pending,
		"last_sweep_at", stats.LastSweepAt,
		"last_error", stats.LastError,
	)
	c.Metrics.Gauge(observability.MetricRemindersPending, float64(stats.Pending))
	if c.OutboxProcessor != nil {
		outboxStats := c.OutboxProcessor.GetStats()
		c.Metrics.Gauge(observability.MetricOutboxLag, outboxStats.LagSeconds)
		c.Logger.Info("outbox stats",
			"running", outboxStats.IsRunning,
			"published", outboxStats.PublishedCount,
			"failed", outboxStats.FailedCount,
			"dead", outboxStats.DeadCount,
			"lag_seconds", outboxStats.LagSeconds,
			"last_error", outboxStats.LastError,
		)
	}
}
