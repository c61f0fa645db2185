package shared

import (
	"path/filepath"
	"testing"
)

func TestNewDatabase(t *testing.T) {
	t.Run("creates the catalog file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.db")
		db, err := NewDatabase(DatabaseConfig{Path: path})
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})

	t.Run("applies sqlite pragmas", func(t *testing.T) {
		db, err := NewDatabase(DatabaseConfig{Path: ":memory:", MaxOpenConns: 1})
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()

		var foreignKeys int
		if err := db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
			t.Fatalf("PRAGMA foreign_keys: %v", err)
		}
		if foreignKeys != 1 {
			t.Errorf("foreign_keys = %d, want 1", foreignKeys)
		}

		var busyTimeout int
		if err := db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
			t.Fatalf("PRAGMA busy_timeout: %v", err)
		}
		if busyTimeout != 5000 {
			t.Errorf("busy_timeout = %d, want 5000", busyTimeout)
		}
	})

	t.Run("unreachable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "nested", "catalog.db")
		if db, err := NewDatabase(DatabaseConfig{Path: path}); err == nil {
			db.Close()
			t.Error("NewDatabase() succeeded for a path in a missing directory")
		}
	})
}
