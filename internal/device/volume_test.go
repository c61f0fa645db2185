package device

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ormimu/ormimu/internal/shared"
)

func TestAcquireRoot(t *testing.T) {
	release, err := AcquireRoot(t.TempDir())
	if err != nil {
		t.Fatalf("AcquireRoot() error = %v", err)
	}
	release()
}

func TestAcquireRootMissing(t *testing.T) {
	_, err := AcquireRoot(filepath.Join(t.TempDir(), "not-mounted"))
	if !errors.Is(err, shared.ErrDestinationUnreachable) {
		t.Errorf("AcquireRoot() error = %v, want ErrDestinationUnreachable", err)
	}
}

func TestAcquireRootNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := AcquireRoot(path)
	if !errors.Is(err, shared.ErrDestinationUnreachable) {
		t.Errorf("AcquireRoot() error = %v, want ErrDestinationUnreachable", err)
	}
}

func TestInspectReportsCapacity(t *testing.T) {
	info, err := Inspect(t.TempDir())
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.TotalBytes <= 0 {
		t.Errorf("total bytes = %d", info.TotalBytes)
	}
	if info.FreeBytes < 0 || info.FreeBytes > info.TotalBytes {
		t.Errorf("free bytes = %d of %d", info.FreeBytes, info.TotalBytes)
	}
}
