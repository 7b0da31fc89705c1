package delivery

import (
	"context"
	"log/slog"
)

// LogMessenger writes messages to the log instead of delivering them.
type LogMessenger struct {
	logger *slog.Logger
}

// NewLogMessenger creates a log messenger.
func NewLogMessenger(logger *slog.Logger) *LogMessenger {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMessenger{logger: logger}
}

func (m *LogMessenger) Send(ctx context.Context, ownerID, text string) error {
	m.logger.InfoContext(ctx, "reminder message",
		"owner_id", ownerID,
		"text", text,
	)
	return nil
}
