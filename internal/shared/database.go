package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultDatabasePath is used when the config names no catalog file.
const DefaultDatabasePath = "ormimu.db"

// NewDatabase opens the sqlite catalog described by the config, applying the
// connection pool limits and the pragmas the sync workload depends on:
// foreign keys enforce playlist membership integrity, and the busy timeout
// keeps a scan and a sync from tripping over each other's writes.
func NewDatabase(config DatabaseConfig) (*sql.DB, error) {
	path := config.Path
	if path == "" {
		path = DefaultDatabasePath
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
