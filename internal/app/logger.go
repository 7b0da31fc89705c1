package app

import (
	"io"
	"log/slog"

	"github.com/nemodouble/godlife/pkg/config"
	"github.com/nemodouble/godlife/pkg/observability"
)

// NewLogger builds the process logger from configuration. Development forces
// debug level and LOG_FILE adds a rotated file sink.
func NewLogger(cfg *config.Config, out io.Writer, version string) *slog.Logger {
	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	if cfg.LogLevel != "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
	}
	if cfg.IsDevelopment() {
		logCfg.Level = observability.LogLevelDebug
	}
	if cfg.LogFormat != "" {
		logCfg.Format = observability.LogFormat(cfg.LogFormat)
	}
	if out != nil {
		logCfg.Output = out
	}
	if version != "" {
		logCfg.ServiceVersion = version
	}
	logCfg.File = cfg.LogFile
	logCfg.MaxSizeMB = cfg.LogMaxSizeMB
	logCfg.MaxBackups = cfg.LogMaxBackups
	return observability.NewLogger(logCfg)
}
