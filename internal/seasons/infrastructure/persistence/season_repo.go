// Package persistence stores report seasons in the report_season table.
package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/seasons/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/database"
)

const seasonColumns = `id, owner_id, title, start_day, end_day, created_at, closed_at, is_active`

// SQLSeasonRepository implements domain.Repository.
type SQLSeasonRepository struct {
	conn database.Connection
}

// NewSQLSeasonRepository creates a season repository on conn.
func NewSQLSeasonRepository(conn database.Connection) *SQLSeasonRepository {
	return &SQLSeasonRepository{conn: conn}
}

func (r *SQLSeasonRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func (r *SQLSeasonRepository) rebind(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// Save inserts or updates a season.
func (r *SQLSeasonRepository) Save(ctx context.Context, season *domain.Season) error {
	s := season.Snapshot()

	var endDay any
	if !s.EndDay.IsZero() {
		endDay = s.EndDay.String()
	}

	_, err := r.executor(ctx).Exec(ctx, r.rebind(`
		INSERT INTO report_season (`+seasonColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			start_day = excluded.start_day,
			end_day = excluded.end_day,
			closed_at = excluded.closed_at,
			is_active = excluded.is_active`),
		s.ID.String(), s.OwnerID, s.Title, s.StartDay.String(), endDay,
		database.FormatTime(s.CreatedAt), database.NullableTime(s.ClosedAt), database.BoolToInt(s.Active),
	)
	if err != nil {
		return fmt.Errorf("save season %s: %w", s.ID, err)
	}
	return nil
}

// FindByID returns the owner's season or nil.
func (r *SQLSeasonRepository) FindByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Season, error) {
	row := r.executor(ctx).QueryRow(ctx, r.rebind(`SELECT `+seasonColumns+` FROM report_season WHERE owner_id = ? AND id = ?`), ownerID, id.String())
	season, err := scanSeason(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find season %s: %w", id, err)
	}
	return season, nil
}

// FindByOwner returns seasons newest first.
func (r *SQLSeasonRepository) FindByOwner(ctx context.Context, ownerID string, limit int) ([]*domain.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM report_season WHERE owner_id = ? ORDER BY start_day DESC, created_at DESC`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.executor(ctx).Query(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()

	var seasons []*domain.Season
	for rows.Next() {
		season, err := scanSeason(rows)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

// ListOwners returns every owner with at least one season.
func (r *SQLSeasonRepository) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := r.executor(ctx).Query(ctx, `SELECT DISTINCT owner_id FROM report_season ORDER BY owner_id`)
	if err != nil {
		return nil, fmt.Errorf("list season owners: %w", err)
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

func scanSeason(row database.Row) (*domain.Season, error) {
	var (
		id, ownerID, title, startDay string
		endDay, closedAt             *string
		createdAt                    string
		active                       int64
	)
	if err := row.Scan(&id, &ownerID, &title, &startDay, &endDay, &createdAt, &closedAt, &active); err != nil {
		return nil, err
	}

	s := domain.SeasonSnapshot{OwnerID: ownerID, Title: title, Active: active != 0}

	var err error
	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("season id %q: %w", id, err)
	}
	if s.StartDay, err = sharedDomain.ParseDay(startDay); err != nil {
		return nil, err
	}
	if endDay != nil && *endDay != "" {
		if s.EndDay, err = sharedDomain.ParseDay(*endDay); err != nil {
			return nil, err
		}
	}
	if s.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if s.ClosedAt, err = database.ParseNullableTime(closedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateSeason(s), nil
}
