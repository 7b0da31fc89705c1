package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nemodouble/godlife/internal/app"
	"github.com/nemodouble/godlife/pkg/config"
	"github.com/nemodouble/godlife/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthMux(t *testing.T) {
	cfg := &config.Config{
		AppEnv:                  "test",
		OwnerID:                 "owner-1",
		LocalMode:               true,
		DatabaseDriver:          "sqlite",
		SQLitePath:              filepath.Join(t.TempDir(), "worker.db"),
		SentStore:               config.SentStoreMemory,
		Messenger:               config.MessengerLog,
		BreakerFailureThreshold: 5,
		BreakerOpenTimeout:      time.Minute,
		DefaultTimezone:         "Asia/Seoul",
		DayBoundaryOffset:       4 * time.Hour,
		DefaultReminderTime:     "21:00",
		HolidayCountry:          "KR",
		MessageLocale:           "ko",
		SweepInterval:           5 * time.Minute,
		SweepWindow:             5 * time.Minute,
		ReplanSchedule:          "@hourly",
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	container, err := app.NewLocalContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer container.Close()

	mux := healthMux(container)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "scheduler")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestLogStatsRecordsPendingGauge(t *testing.T) {
	cfg := &config.Config{
		AppEnv:                  "test",
		OwnerID:                 "owner-1",
		LocalMode:               true,
		DatabaseDriver:          "sqlite",
		SQLitePath:              filepath.Join(t.TempDir(), "worker.db"),
		SentStore:               config.SentStoreMemory,
		Messenger:               config.MessengerLog,
		BreakerFailureThreshold: 5,
		BreakerOpenTimeout:      time.Minute,
		DefaultTimezone:         "Asia/Seoul",
		DayBoundaryOffset:       4 * time.Hour,
		DefaultReminderTime:     "21:00",
		HolidayCountry:          "KR",
		MessageLocale:           "ko",
		SweepInterval:           5 * time.Minute,
		SweepWindow:             5 * time.Minute,
		ReplanSchedule:          "@hourly",
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	container, err := app.NewLocalContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer container.Close()

	logStats(container)

	rec := httptest.NewRecorder()
	healthMux(container).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), observability.MetricRemindersPending)
}
