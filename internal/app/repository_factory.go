package app

import (
	"fmt"

	routinePersistence "github.com/nemodouble/godlife/internal/routines/infrastructure/persistence"
	seasonPersistence "github.com/nemodouble/godlife/internal/seasons/infrastructure/persistence"
	sharedApplication "github.com/nemodouble/godlife/internal/shared/application"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/database"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/outbox"
)

// RepositoryFactory creates repositories on a database connection. The SQL
// repositories rebind their queries per driver, so one implementation serves
// both SQLite and PostgreSQL.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory. Only SQLite and
// PostgreSQL connections are accepted.
func NewRepositoryFactory(conn database.Connection) (*RepositoryFactory, error) {
	driver := conn.Driver()
	switch driver {
	case database.DriverPostgres, database.DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	return &RepositoryFactory{
		conn:   conn,
		driver: driver,
	}, nil
}

// RoutineRepository creates the routine repository.
func (f *RepositoryFactory) RoutineRepository() *routinePersistence.SQLRoutineRepository {
	return routinePersistence.NewSQLRoutineRepository(f.conn)
}

// CheckinRepository creates the checkin repository.
func (f *RepositoryFactory) CheckinRepository() *routinePersistence.SQLCheckinRepository {
	return routinePersistence.NewSQLCheckinRepository(f.conn)
}

// ExemptionRepository creates the exemption repository.
func (f *RepositoryFactory) ExemptionRepository() *routinePersistence.SQLExemptionRepository {
	return routinePersistence.NewSQLExemptionRepository(f.conn)
}

// SettingsRepository creates the user settings repository.
func (f *RepositoryFactory) SettingsRepository() *routinePersistence.SQLSettingsRepository {
	return routinePersistence.NewSQLSettingsRepository(f.conn)
}

// SeasonRepository creates the report season repository.
func (f *RepositoryFactory) SeasonRepository() *seasonPersistence.SQLSeasonRepository {
	return seasonPersistence.NewSQLSeasonRepository(f.conn)
}

// OutboxRepository creates the outbound message queue.
func (f *RepositoryFactory) OutboxRepository() outbox.Repository {
	return outbox.NewSQLRepository(f.conn)
}

// UnitOfWork creates a unit of work on the connection.
func (f *RepositoryFactory) UnitOfWork() sharedApplication.UnitOfWork {
	return database.NewUnitOfWork(f.conn)
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
