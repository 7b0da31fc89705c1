package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNewLogger_JSONCarriesServiceAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:          LogLevelInfo,
		Format:         LogFormatJSON,
		Output:         &buf,
		ServiceName:    "godlife-worker",
		ServiceVersion: "1.2.0",
	})

	logger.Info("reminder fired", "routine", "운동")

	rec := decodeRecord(t, &buf)
	assert.Equal(t, "reminder fired", rec["msg"])
	assert.Equal(t, "운동", rec["routine"])
	assert.Equal(t, "godlife-worker", rec["service"])
	assert.Equal(t, "1.2.0", rec["version"])
}

func TestNewLogger_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelWarn, Format: LogFormatText, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message", "owner", "u1")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "owner=u1")
}

func TestNewLogger_ContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatJSON, Output: &buf})

	ctx := WithCorrelationID(context.Background(), "corr-123")
	ctx = WithOwnerID(ctx, "owner-1")
	logger.With("component", "chat").InfoContext(ctx, "toggle handled")

	rec := decodeRecord(t, &buf)
	assert.Equal(t, "corr-123", rec[CorrelationIDKey])
	assert.Equal(t, "owner-1", rec[OwnerIDKey])
	assert.Equal(t, "chat", rec["component"])
}

func TestNewLogger_NoContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Format: LogFormatJSON, Output: &buf})

	logger.Info("plain")

	rec := decodeRecord(t, &buf)
	assert.NotContains(t, rec, CorrelationIDKey)
	assert.NotContains(t, rec, OwnerIDKey)
}

func TestWithCorrelationID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "")
	assert.Len(t, CorrelationIDFromContext(ctx), 36)
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
	assert.Empty(t, OwnerIDFromContext(context.Background()))
}

func TestLogConfigDefaults(t *testing.T) {
	dev := DefaultLogConfig()
	assert.Equal(t, LogFormatText, dev.Format)
	assert.False(t, dev.AddSource)

	prod := ProductionLogConfig()
	assert.Equal(t, LogFormatJSON, prod.Format)
	assert.True(t, prod.AddSource)
	assert.Equal(t, "godlife", prod.ServiceName)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected slog.Level
	}{
		{LogLevelDebug, slog.LevelDebug},
		{LogLevelInfo, slog.LevelInfo},
		{LogLevelWarn, slog.LevelWarn},
		{LogLevelError, slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSlogLevel(tt.input))
		})
	}
}

func TestNewLogger_WritesRotatedFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "godlife.log")

	logger := NewLogger(LogConfig{
		Level:      LogLevelInfo,
		Format:     LogFormatText,
		Output:     &buf,
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	})
	logger.Info("sweep finished", "fired", 2)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "sweep finished")
	assert.Contains(t, buf.String(), "sweep finished", "console output is kept")
}
