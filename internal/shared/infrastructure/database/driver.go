package database

import (
	"fmt"
	"strings"
)

// Driver names a storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string { return string(d) }

// IsValid reports whether d is a supported backend.
func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// ParseDriver accepts the DATABASE_DRIVER values. Empty and "auto" mean the
// driver is detected from the URL.
func ParseDriver(value string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return "", nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %q", value)
	}
}

var sqliteSuffixes = []string{".db", ".sqlite", ".sqlite3"}

// DetectDriver picks a backend from a connection string. No URL means the
// zero-config local SQLite file; anything unrecognised is handed to PostgreSQL.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"):
		return DriverSQLite
	}
	for _, suffix := range sqliteSuffixes {
		if strings.HasSuffix(url, suffix) {
			return DriverSQLite
		}
	}
	return DriverPostgres
}

// SQLitePathFromURL strips a sqlite:// scheme. Other values are returned as is.
func SQLitePathFromURL(url string) string {
	return strings.TrimPrefix(url, "sqlite://")
}
