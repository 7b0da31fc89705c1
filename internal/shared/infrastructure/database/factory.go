package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config selects and configures the backend.
type Config struct {
	Driver     Driver // empty or "auto" detects from URL
	URL        string // PostgreSQL DSN, or a sqlite:// URL
	SQLitePath string // defaults to ~/.godlife/godlife.db
	MaxConns   int    // PostgreSQL pool size
}

// Opener opens a connection for one driver. The driver subpackages register
// themselves from init so that callers only link the backends they import.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]Opener{}

// RegisterPostgresDriver installs the PostgreSQL opener.
func RegisterPostgresDriver(fn Opener) { openers[DriverPostgres] = fn }

// RegisterSQLiteDriver installs the SQLite opener.
func RegisterSQLiteDriver(fn Opener) { openers[DriverSQLite] = fn }

// NewConnection opens the configured backend.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	cfg = cfg.resolve()
	open, ok := openers[cfg.Driver]
	if !ok {
		if cfg.Driver.IsValid() {
			return nil, fmt.Errorf("database driver %s is not linked into this binary", cfg.Driver)
		}
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	return open(ctx, cfg)
}

// resolve fills in the detected driver and the SQLite path.
func (c Config) resolve() Config {
	if c.Driver == "" || c.Driver == "auto" {
		c.Driver = DetectDriver(c.URL)
	}
	if c.Driver == DriverSQLite && c.SQLitePath == "" {
		if c.URL != "" {
			c.SQLitePath = SQLitePathFromURL(c.URL)
		} else {
			c.SQLitePath = DefaultSQLitePath()
		}
	}
	return c
}

// DefaultSQLitePath is ~/.godlife/godlife.db, or ./.godlife/godlife.db when
// the home directory is unknown.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".godlife", "godlife.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	if path == "" {
		return errors.New("empty database path")
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
