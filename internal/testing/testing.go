// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ormimu/ormimu/internal/shared"
)

// MockTranscoder is a test double for [transfer.Transcoder]. It records the
// conversions it was asked to do and writes a marker file so callers can
// assert on the destination.
type MockTranscoder struct {
	Calls []MockConversion
	Err   error
}

// MockConversion records one Convert invocation.
type MockConversion struct {
	SourcePath string
	DestPath   string
	Format     string
}

func (m *MockTranscoder) Convert(ctx context.Context, sourcePath, destPath, format string) error {
	m.Calls = append(m.Calls, MockConversion{SourcePath: sourcePath, DestPath: destPath, Format: format})
	if m.Err != nil {
		return m.Err
	}
	return os.WriteFile(destPath, []byte("transcoded:"+sourcePath), 0644)
}

// NewMemoryDB opens an in-memory sqlite database with migrations applied.
// The connection is closed when the test finishes.
func NewMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Each sqlite :memory: connection is its own database; pin the pool to
	// one connection so every query sees the migrated schema.
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// WriteFile creates a file (and its parent directories) with the given
// content, failing the test on error.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// ErrBoom is a generic failure for injecting into mocks.
var ErrBoom = errors.New("boom")

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
