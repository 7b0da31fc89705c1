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

const routineColumns = `id, owner_id, name, weekend_mode, deadline_time, notes, active, order_index,
	paused, paused_from, paused_until, start_day, created_at, updated_at`

// SQLRoutineRepository implements domain.RoutineRepository.
type SQLRoutineRepository struct {
	sqlStore
}

// NewSQLRoutineRepository creates a routine repository on conn.
func NewSQLRoutineRepository(conn database.Connection) *SQLRoutineRepository {
	return &SQLRoutineRepository{sqlStore{conn: conn}}
}

// Save inserts or updates a routine.
func (r *SQLRoutineRepository) Save(ctx context.Context, routine *domain.Routine) error {
	s := routine.Snapshot()

	var deadline any
	if s.Deadline != nil {
		deadline = s.Deadline.String()
	}

	_, err := r.exec(ctx, `
		INSERT INTO routine (`+routineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			weekend_mode = excluded.weekend_mode,
			deadline_time = excluded.deadline_time,
			notes = excluded.notes,
			active = excluded.active,
			order_index = excluded.order_index,
			paused = excluded.paused,
			paused_from = excluded.paused_from,
			paused_until = excluded.paused_until,
			start_day = excluded.start_day,
			updated_at = excluded.updated_at`,
		s.ID.String(), s.OwnerID, s.Name, string(s.WeekendMode), deadline, s.Notes,
		database.BoolToInt(s.Active), s.OrderIndex, database.BoolToInt(s.Paused),
		nullableDay(s.PausedFrom), nullableDay(s.PausedUntil), nullableDay(s.StartDay),
		database.FormatTime(s.CreatedAt), database.FormatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save routine %s: %w", s.ID, err)
	}
	return nil
}

// FindByID returns the routine or nil when it does not exist.
func (r *SQLRoutineRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Routine, error) {
	row := r.queryRow(ctx, `SELECT `+routineColumns+` FROM routine WHERE id = ?`, id.String())
	routine, err := scanRoutine(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find routine %s: %w", id, err)
	}
	return routine, nil
}

// FindByOwner returns every routine of the owner.
func (r *SQLRoutineRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Routine, error) {
	return r.list(ctx, `SELECT `+routineColumns+` FROM routine WHERE owner_id = ? ORDER BY order_index, created_at`, ownerID)
}

// FindActiveByOwner returns active routines in display order.
func (r *SQLRoutineRepository) FindActiveByOwner(ctx context.Context, ownerID string) ([]*domain.Routine, error) {
	return r.list(ctx, `SELECT `+routineColumns+` FROM routine WHERE owner_id = ? AND active = 1 ORDER BY order_index, created_at`, ownerID)
}

// ListOwners returns owners with at least one active routine.
func (r *SQLRoutineRepository) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := r.query(ctx, `SELECT DISTINCT owner_id FROM routine WHERE active = 1 ORDER BY owner_id`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

// NextOrderIndex returns one past the highest order index of the owner.
func (r *SQLRoutineRepository) NextOrderIndex(ctx context.Context, ownerID string) (int, error) {
	var next int64
	err := r.queryRow(ctx, `SELECT COALESCE(MAX(order_index), -1) + 1 FROM routine WHERE owner_id = ?`, ownerID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next order index: %w", err)
	}
	return int(next), nil
}

func (r *SQLRoutineRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Routine, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	defer rows.Close()

	var routines []*domain.Routine
	for rows.Next() {
		routine, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		routines = append(routines, routine)
	}
	return routines, rows.Err()
}

func scanRoutine(row database.Row) (*domain.Routine, error) {
	var (
		id, ownerID, name, mode, notes    string
		deadline                          *string
		active, orderIndex, paused        int64
		pausedFrom, pausedUntil, startDay *string
		createdAt, updatedAt              string
	)
	if err := row.Scan(&id, &ownerID, &name, &mode, &deadline, &notes, &active, &orderIndex,
		&paused, &pausedFrom, &pausedUntil, &startDay, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	s := domain.RoutineSnapshot{
		OwnerID:     ownerID,
		Name:        name,
		WeekendMode: validity.WeekendMode(mode),
		Notes:       notes,
		Active:      active != 0,
		OrderIndex:  int(orderIndex),
		Paused:      paused != 0,
	}

	var err error
	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("routine id %q: %w", id, err)
	}
	if deadline != nil && *deadline != "" {
		tod, err := sharedDomain.ParseTimeOfDay(*deadline)
		if err != nil {
			return nil, fmt.Errorf("routine %s deadline: %w", id, err)
		}
		s.Deadline = &tod
	}
	if s.PausedFrom, err = parseNullableDay(pausedFrom); err != nil {
		return nil, err
	}
	if s.PausedUntil, err = parseNullableDay(pausedUntil); err != nil {
		return nil, err
	}
	if s.StartDay, err = parseNullableDay(startDay); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateRoutine(s), nil
}
