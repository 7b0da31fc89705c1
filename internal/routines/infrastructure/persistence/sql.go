// Package persistence provides driver-agnostic SQL repositories for routines,
// checkins, exemptions and user settings. Queries use ? placeholders and are
// rebound for PostgreSQL.
package persistence

import (
	"context"

	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/database"
)

type sqlStore struct {
	conn database.Connection
}

func (s sqlStore) exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	return database.ExecutorFromContext(ctx, s.conn).Exec(ctx, database.Rebind(s.conn.Driver(), query), args...)
}

func (s sqlStore) queryRow(ctx context.Context, query string, args ...any) database.Row {
	return database.ExecutorFromContext(ctx, s.conn).QueryRow(ctx, database.Rebind(s.conn.Driver(), query), args...)
}

func (s sqlStore) query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return database.ExecutorFromContext(ctx, s.conn).Query(ctx, database.Rebind(s.conn.Driver(), query), args...)
}

func nullableDay(d sharedDomain.Day) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func parseNullableDay(value *string) (sharedDomain.Day, error) {
	if value == nil || *value == "" {
		return sharedDomain.Day{}, nil
	}
	return sharedDomain.ParseDay(*value)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
