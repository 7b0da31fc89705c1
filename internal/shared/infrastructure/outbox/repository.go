package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository stores queued reminders. The SQL implementation shares the
// reminders database so a message can be queued in the caller's transaction.
type Repository interface {
	Save(ctx context.Context, msg *Message) error

	// GetPending returns up to limit messages due at now, oldest first.
	GetPending(ctx context.Context, now time.Time, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	// MarkFailed bumps RetryCount and defers the message to nextRetryAt.
	MarkFailed(ctx context.Context, id uuid.UUID, err string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id uuid.UUID, reason string, at time.Time) error

	// DeleteOld prunes published messages created before cutoff and returns
	// how many were removed. Dead messages are kept for inspection.
	DeleteOld(ctx context.Context, cutoff time.Time) (int64, error)
}
