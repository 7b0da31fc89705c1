package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/database"
	"github.com/nemodouble/godlife/internal/validity"
)

// SQLExemptionRepository implements domain.ExemptionRepository and serves
// exemption windows to the validity calendar.
type SQLExemptionRepository struct {
	sqlStore
}

// NewSQLExemptionRepository creates an exemption repository on conn.
func NewSQLExemptionRepository(conn database.Connection) *SQLExemptionRepository {
	return &SQLExemptionRepository{sqlStore{conn: conn}}
}

// Save inserts or replaces an exemption.
func (r *SQLExemptionRepository) Save(ctx context.Context, e *domain.Exemption) error {
	_, err := r.exec(ctx, `
		INSERT INTO exemption (id, owner_id, start_day, end_day, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			start_day = excluded.start_day,
			end_day = excluded.end_day,
			reason = excluded.reason`,
		e.ID.String(), e.OwnerID, e.StartDay.String(), e.EndDay.String(), e.Reason, database.FormatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save exemption: %w", err)
	}
	return nil
}

// Delete removes an owner's exemption.
func (r *SQLExemptionRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	result, err := r.exec(ctx, `DELETE FROM exemption WHERE id = ? AND owner_id = ?`, id.String(), ownerID)
	if err != nil {
		return fmt.Errorf("delete exemption: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrExemptionNotFound
	}
	return nil
}

// FindByOwner returns the owner's exemptions ordered by start day.
func (r *SQLExemptionRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Exemption, error) {
	rows, err := r.query(ctx, `SELECT id, owner_id, start_day, end_day, reason, created_at
		FROM exemption WHERE owner_id = ? ORDER BY start_day, created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list exemptions: %w", err)
	}
	defer rows.Close()

	var exemptions []*domain.Exemption
	for rows.Next() {
		var id, owner, start, end, reason, createdAt string
		if err := rows.Scan(&id, &owner, &start, &end, &reason, &createdAt); err != nil {
			return nil, err
		}
		e := &domain.Exemption{OwnerID: owner, Reason: reason}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if e.StartDay, err = sharedDomain.ParseDay(start); err != nil {
			return nil, err
		}
		if e.EndDay, err = sharedDomain.ParseDay(end); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, err
		}
		exemptions = append(exemptions, e)
	}
	return exemptions, rows.Err()
}

// ExemptionWindows implements validity.ExemptionSource.
func (r *SQLExemptionRepository) ExemptionWindows(ctx context.Context, ownerID string) ([]validity.Window, error) {
	exemptions, err := r.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	windows := make([]validity.Window, 0, len(exemptions))
	for _, e := range exemptions {
		windows = append(windows, e.Window())
	}
	return windows, nil
}
