package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nemodouble/godlife/internal/shared/infrastructure/database"
)

const outboxColumns = `id, owner_id, routing_key, payload, created_at, published_at, next_retry_at,
	retry_count, last_error, dead_lettered_at, dead_letter_reason`

// SQLRepository implements Repository on the outbound_message table for both
// SQLite and PostgreSQL.
type SQLRepository struct {
	conn database.Connection
}

// NewSQLRepository creates an outbox repository on conn.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn}
}

func (r *SQLRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func (r *SQLRepository) rebind(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// Save stores a new outbox message.
func (r *SQLRepository) Save(ctx context.Context, msg *Message) error {
	_, err := r.executor(ctx).Exec(ctx, r.rebind(`
		INSERT INTO outbound_message (id, owner_id, routing_key, payload, created_at, retry_count)
		VALUES (?, ?, ?, ?, ?, 0)`),
		msg.ID.String(), msg.OwnerID, msg.RoutingKey, string(msg.Payload), database.FormatTime(msg.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save outbox message %s: %w", msg.ID, err)
	}
	return nil
}

// GetPending returns messages due at now, oldest first.
func (r *SQLRepository) GetPending(ctx context.Context, now time.Time, limit int) ([]*Message, error) {
	rows, err := r.executor(ctx).Query(ctx, r.rebind(`
		SELECT `+outboxColumns+`
		FROM outbound_message
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at
		LIMIT ?`), database.FormatTime(now), limit)
	if err != nil {
		return nil, fmt.Errorf("query pending outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkPublished marks a message as successfully published.
func (r *SQLRepository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.executor(ctx).Exec(ctx, r.rebind(`UPDATE outbound_message SET published_at = ? WHERE id = ?`),
		database.FormatTime(at), id.String())
	return err
}

// MarkFailed records a publish failure.
func (r *SQLRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, nextRetryAt time.Time) error {
	_, err := r.executor(ctx).Exec(ctx, r.rebind(`
		UPDATE outbound_message
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`), errMsg, database.FormatTime(nextRetryAt), id.String())
	return err
}

// MarkDead dead-letters a message.
func (r *SQLRepository) MarkDead(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	_, err := r.executor(ctx).Exec(ctx, r.rebind(`
		UPDATE outbound_message
		SET retry_count = retry_count + 1, last_error = ?, dead_lettered_at = ?, dead_letter_reason = ?
		WHERE id = ?`), reason, database.FormatTime(at), reason, id.String())
	return err
}

// DeleteOld removes published messages created before cutoff.
func (r *SQLRepository) DeleteOld(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.executor(ctx).Exec(ctx, r.rebind(`
		DELETE FROM outbound_message WHERE published_at IS NOT NULL AND created_at < ?`), database.FormatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		id, payload, createdAt           string
		publishedAt, nextRetryAt, deadAt *string
		lastError, deadReason            *string
		msg                              Message
	)
	if err := row.Scan(&id, &msg.OwnerID, &msg.RoutingKey, &payload, &createdAt, &publishedAt, &nextRetryAt,
		&msg.RetryCount, &lastError, &deadAt, &deadReason); err != nil {
		return nil, fmt.Errorf("scan outbox message: %w", err)
	}

	var err error
	if msg.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse outbox id: %w", err)
	}
	if msg.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if msg.PublishedAt, err = database.ParseNullableTime(publishedAt); err != nil {
		return nil, err
	}
	if msg.NextRetryAt, err = database.ParseNullableTime(nextRetryAt); err != nil {
		return nil, err
	}
	if msg.DeadLetteredAt, err = database.ParseNullableTime(deadAt); err != nil {
		return nil, err
	}
	msg.Payload = []byte(payload)
	msg.LastError = lastError
	msg.DeadLetterReason = deadReason
	return &msg, nil
}
