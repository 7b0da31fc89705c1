package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/database"
)

const checkinColumns = `id, routine_id, owner_id, local_day, checked_at, undone_at, skipped, skip_reason`

// SQLCheckinRepository implements domain.CheckinRepository with upserts on
// the (routine_id, local_day) unique key.
type SQLCheckinRepository struct {
	sqlStore
	now func() time.Time
}

// NewSQLCheckinRepository creates a checkin repository on conn.
func NewSQLCheckinRepository(conn database.Connection) *SQLCheckinRepository {
	return &SQLCheckinRepository{sqlStore: sqlStore{conn: conn}, now: time.Now}
}

// MarkDone sets checked_at and clears skip and undo fields. An existing
// checked_at is kept so repeating the call leaves the row unchanged.
func (r *SQLCheckinRepository) MarkDone(ctx context.Context, routineID uuid.UUID, ownerID string, day sharedDomain.Day) error {
	_, err := r.exec(ctx, `
		INSERT INTO routine_checkin (`+checkinColumns+`)
		VALUES (?, ?, ?, ?, ?, NULL, 0, NULL)
		ON CONFLICT (routine_id, local_day) DO UPDATE SET
			checked_at = COALESCE(routine_checkin.checked_at, excluded.checked_at),
			undone_at = NULL,
			skipped = 0,
			skip_reason = NULL`,
		uuid.NewString(), routineID.String(), ownerID, day.String(), database.FormatTime(r.now()),
	)
	if err != nil {
		return fmt.Errorf("mark done %s on %s: %w", routineID, day, err)
	}
	return nil
}

// Undo clears checked_at and records undone_at. Untouched days stay untouched.
func (r *SQLCheckinRepository) Undo(ctx context.Context, routineID uuid.UUID, day sharedDomain.Day) error {
	_, err := r.exec(ctx,
		`UPDATE routine_checkin SET checked_at = NULL, undone_at = ? WHERE routine_id = ? AND local_day = ?`,
		database.FormatTime(r.now()), routineID.String(), day.String(),
	)
	if err != nil {
		return fmt.Errorf("undo %s on %s: %w", routineID, day, err)
	}
	return nil
}

// Skip marks the day skipped with an optional reason and clears checked and undo fields.
func (r *SQLCheckinRepository) Skip(ctx context.Context, routineID uuid.UUID, ownerID string, day sharedDomain.Day, reason string) error {
	_, err := r.exec(ctx, `
		INSERT INTO routine_checkin (`+checkinColumns+`)
		VALUES (?, ?, ?, ?, NULL, NULL, 1, ?)
		ON CONFLICT (routine_id, local_day) DO UPDATE SET
			checked_at = NULL,
			undone_at = NULL,
			skipped = 1,
			skip_reason = excluded.skip_reason`,
		uuid.NewString(), routineID.String(), ownerID, day.String(), nullableString(reason),
	)
	if err != nil {
		return fmt.Errorf("skip %s on %s: %w", routineID, day, err)
	}
	return nil
}

// Clear resets the day to neither.
func (r *SQLCheckinRepository) Clear(ctx context.Context, routineID uuid.UUID, day sharedDomain.Day) error {
	_, err := r.exec(ctx,
		`UPDATE routine_checkin SET checked_at = NULL, undone_at = NULL, skipped = 0, skip_reason = NULL WHERE routine_id = ? AND local_day = ?`,
		routineID.String(), day.String(),
	)
	if err != nil {
		return fmt.Errorf("clear %s on %s: %w", routineID, day, err)
	}
	return nil
}

// Get returns the checkin of the day or nil.
func (r *SQLCheckinRepository) Get(ctx context.Context, routineID uuid.UUID, day sharedDomain.Day) (*domain.Checkin, error) {
	row := r.queryRow(ctx, `SELECT `+checkinColumns+` FROM routine_checkin WHERE routine_id = ? AND local_day = ?`,
		routineID.String(), day.String())
	c, err := scanCheckin(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get checkin %s on %s: %w", routineID, day, err)
	}
	return c, nil
}

// ListForRoutine returns the checkins of a routine within [from, to].
func (r *SQLCheckinRepository) ListForRoutine(ctx context.Context, routineID uuid.UUID, from, to sharedDomain.Day) ([]*domain.Checkin, error) {
	return r.list(ctx, `SELECT `+checkinColumns+` FROM routine_checkin
		WHERE routine_id = ? AND local_day >= ? AND local_day <= ? ORDER BY local_day`,
		routineID.String(), from.String(), to.String())
}

// ListForOwnerDay returns every checkin of an owner on one day.
func (r *SQLCheckinRepository) ListForOwnerDay(ctx context.Context, ownerID string, day sharedDomain.Day) ([]*domain.Checkin, error) {
	return r.list(ctx, `SELECT `+checkinColumns+` FROM routine_checkin WHERE owner_id = ? AND local_day = ?`,
		ownerID, day.String())
}

// FirstDoneDay returns the earliest day with a completed checkin.
func (r *SQLCheckinRepository) FirstDoneDay(ctx context.Context, ownerID string) (sharedDomain.Day, error) {
	return r.dayAggregate(ctx, `SELECT MIN(local_day) FROM routine_checkin
		WHERE owner_id = ? AND checked_at IS NOT NULL AND skipped = 0`, ownerID)
}

// LastDoneDayBefore returns the latest completed checkin day strictly before before.
func (r *SQLCheckinRepository) LastDoneDayBefore(ctx context.Context, ownerID string, before sharedDomain.Day) (sharedDomain.Day, error) {
	return r.dayAggregate(ctx, `SELECT MAX(local_day) FROM routine_checkin
		WHERE owner_id = ? AND checked_at IS NOT NULL AND skipped = 0 AND local_day < ?`, ownerID, before.String())
}

func (r *SQLCheckinRepository) dayAggregate(ctx context.Context, query string, args ...any) (sharedDomain.Day, error) {
	var value *string
	if err := r.queryRow(ctx, query, args...).Scan(&value); err != nil {
		return sharedDomain.Day{}, fmt.Errorf("checkin day aggregate: %w", err)
	}
	return parseNullableDay(value)
}

func (r *SQLCheckinRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Checkin, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	defer rows.Close()

	var checkins []*domain.Checkin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		checkins = append(checkins, c)
	}
	return checkins, rows.Err()
}

func scanCheckin(row database.Row) (*domain.Checkin, error) {
	var (
		id, routineID, ownerID, localDay string
		checkedAt, undoneAt, skipReason  *string
		skipped                          int64
	)
	if err := row.Scan(&id, &routineID, &ownerID, &localDay, &checkedAt, &undoneAt, &skipped, &skipReason); err != nil {
		return nil, err
	}

	c := &domain.Checkin{
		OwnerID:    ownerID,
		Skipped:    skipped != 0,
		SkipReason: derefString(skipReason),
	}

	var err error
	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("checkin id %q: %w", id, err)
	}
	if c.RoutineID, err = uuid.Parse(routineID); err != nil {
		return nil, fmt.Errorf("checkin routine id %q: %w", routineID, err)
	}
	if c.Day, err = sharedDomain.ParseDay(localDay); err != nil {
		return nil, err
	}
	if c.CheckedAt, err = database.ParseNullableTime(checkedAt); err != nil {
		return nil, err
	}
	if c.UndoneAt, err = database.ParseNullableTime(undoneAt); err != nil {
		return nil, err
	}
	return c, nil
}
