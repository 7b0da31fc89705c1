// Package migrations applies the embedded schema for SQLite and PostgreSQL.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	_ "github.com/lib/pq" // database/sql driver used for multi-statement migrations

	"github.com/nemodouble/godlife/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationFS embed.FS

// RunSQLiteMigrations executes all SQLite migrations in order.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, "sqlite")
}

// RunPostgresMigrations opens a short-lived lib/pq connection and executes all
// PostgreSQL migrations in order. The simple query protocol lets each file hold
// several statements, which the pgx pool used at runtime does not accept.
func RunPostgresMigrations(ctx context.Context, url string) error {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return fmt.Errorf("failed to open postgres for migrations: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping postgres for migrations: %w", err)
	}
	return run(ctx, db, "postgres")
}

// Apply runs the migrations matching the connection's driver. PostgreSQL
// migrations need the connection URL since they run over lib/pq.
func Apply(ctx context.Context, conn database.Connection, cfg database.Config) error {
	switch conn.Driver() {
	case database.DriverSQLite:
		withDB, ok := conn.(interface{ DB() *sql.DB })
		if !ok {
			return fmt.Errorf("sqlite connection does not expose *sql.DB")
		}
		return RunSQLiteMigrations(ctx, withDB.DB())
	case database.DriverPostgres:
		return RunPostgresMigrations(ctx, cfg.URL)
	default:
		return fmt.Errorf("unsupported database driver: %s", conn.Driver())
	}
}

// Files lists the .up.sql migrations of a dialect in execution order.
func Files(dialect string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)
	return upFiles, nil
}

func run(ctx context.Context, db *sql.DB, dialect string) error {
	upFiles, err := Files(dialect)
	if err != nil {
		return err
	}

	for _, file := range upFiles {
		migration, err := migrationFS.ReadFile(dialect + "/" + file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		// CREATE ... IF NOT EXISTS keeps every file idempotent
		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}

	return nil
}
