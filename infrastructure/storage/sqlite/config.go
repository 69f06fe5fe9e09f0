// Package sqlite records run outcomes in a SQLite database.
package sqlite

import (
	"database/sql"
	"errors"
	"strconv"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/felixgeelhaar/react-agent/domain/run"
)

// ErrMigrationFailed is returned when the schema cannot be created.
var ErrMigrationFailed = errors.New("sqlite: migration failed")

// Config configures the database handle.
type Config struct {
	// DSN is a file path or a "file:" URI.
	DSN string

	// MaxOpenConns caps concurrent connections. SQLite serializes writers,
	// so a small pool is enough.
	MaxOpenConns int

	// JournalMode is applied with PRAGMA journal_mode when set.
	JournalMode string

	// BusyTimeout is how long, in milliseconds, a writer waits for a lock.
	BusyTimeout int
}

// DefaultConfig returns a WAL-mode database in the working directory.
func DefaultConfig() Config {
	return Config{
		DSN:          "file:askagent.db?mode=rwc",
		MaxOpenConns: 4,
		JournalMode:  "WAL",
		BusyTimeout:  5000,
	}
}

// Option adjusts a Config.
type Option func(*Config)

// WithDSN sets the data source name. An empty dsn keeps the current one.
func WithDSN(dsn string) Option {
	return func(c *Config) {
		if dsn != "" {
			c.DSN = dsn
		}
	}
}

func openDB(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, errors.Join(run.ErrConnectionFailed, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	pragmas := make([]string, 0, 2)
	if cfg.JournalMode != "" {
		pragmas = append(pragmas, "PRAGMA journal_mode="+cfg.JournalMode)
	}
	if cfg.BusyTimeout > 0 {
		pragmas = append(pragmas, "PRAGMA busy_timeout="+strconv.Itoa(cfg.BusyTimeout))
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Join(run.ErrConnectionFailed, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Join(run.ErrConnectionFailed, err)
	}
	return db, nil
}
