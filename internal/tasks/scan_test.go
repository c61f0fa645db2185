package tasks

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/ormimu/ormimu/internal/library"
	"github.com/ormimu/ormimu/internal/metadata"
	"github.com/ormimu/ormimu/internal/shared"
	ormtest "github.com/ormimu/ormimu/internal/testing"
)

// stubReader serves canned tags keyed by file basename.
type stubReader struct {
	tags map[string]metadata.Tags
	err  error
}

func (s stubReader) ReadTags(path string) (metadata.Tags, error) {
	if s.err != nil {
		return metadata.Tags{}, s.err
	}
	if tags, ok := s.tags[filepath.Base(path)]; ok {
		return tags, nil
	}
	return metadata.Tags{Title: filepath.Base(path)}, nil
}

func newTestScanner(t *testing.T, reader metadata.Reader, config shared.ScanConfig) (*Scanner, *library.SongRepository) {
	t.Helper()
	songs := library.NewSongRepository(ormtest.NewMemoryDB(t))
	return NewScanner(reader, songs, config, shared.NewLogger(io.Discard)), songs
}

func TestScanImportsMatchingFiles(t *testing.T) {
	folder := t.TempDir()
	ormtest.WriteFile(t, filepath.Join(folder, "a.mp3"), "x")
	ormtest.WriteFile(t, filepath.Join(folder, "nested", "b.flac"), "x")
	ormtest.WriteFile(t, filepath.Join(folder, "cover.jpg"), "x")
	ormtest.WriteFile(t, filepath.Join(folder, "notes.txt"), "x")

	reader := stubReader{tags: map[string]metadata.Tags{
		"a.mp3":  {Title: "Alpha", Artist: "Band"},
		"b.flac": {Title: "Beta", Artist: "Band", Album: "LP", Year: 1999},
	}}
	scanner, songs := newTestScanner(t, reader, shared.ScanConfig{})

	result, err := scanner.Scan(context.Background(), nil, folder)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.Imported != 2 || result.Known != 0 || len(result.Failures) != 0 {
		t.Errorf("result = %+v", result)
	}

	all, err := songs.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("catalog has %d songs", len(all))
	}
	if all[0].Title != "Alpha" || all[1].Album != "LP" {
		t.Errorf("imported songs = %+v", all)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	folder := t.TempDir()
	ormtest.WriteFile(t, filepath.Join(folder, "a.mp3"), "x")

	scanner, _ := newTestScanner(t, stubReader{}, shared.ScanConfig{})

	if _, err := scanner.Scan(context.Background(), nil, folder); err != nil {
		t.Fatalf("first Scan() error = %v", err)
	}
	result, err := scanner.Scan(context.Background(), nil, folder)
	if err != nil {
		t.Fatalf("second Scan() error = %v", err)
	}
	if result.Imported != 0 || result.Known != 1 {
		t.Errorf("second run = %+v, want file recognized as known", result)
	}
}

func TestScanCustomPatterns(t *testing.T) {
	folder := t.TempDir()
	ormtest.WriteFile(t, filepath.Join(folder, "keep.opus"), "x")
	ormtest.WriteFile(t, filepath.Join(folder, "skip.mp3"), "x")

	scanner, _ := newTestScanner(t, stubReader{}, shared.ScanConfig{Patterns: []string{"**/*.opus"}})

	result, err := scanner.Scan(context.Background(), nil, folder)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("result = %+v, want only the opus file", result)
	}
}

func TestScanCollectsPerFileFailures(t *testing.T) {
	folder := t.TempDir()
	ormtest.WriteFile(t, filepath.Join(folder, "a.mp3"), "x")
	ormtest.WriteFile(t, filepath.Join(folder, "b.mp3"), "x")

	scanner, _ := newTestScanner(t, stubReader{err: ormtest.ErrBoom}, shared.ScanConfig{})

	result, err := scanner.Scan(context.Background(), nil, folder)
	if err != nil {
		t.Fatalf("Scan() error = %v, per-file failures must not abort", err)
	}
	if len(result.Failures) != 2 || result.Imported != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestScanHonorsCancellation(t *testing.T) {
	folder := t.TempDir()
	ormtest.WriteFile(t, filepath.Join(folder, "a.mp3"), "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A throttled scanner blocks in the limiter, which unblocks on a dead
	// context.
	scanner, _ := newTestScanner(t, stubReader{}, shared.ScanConfig{RateLimit: 0.001})
	if _, err := scanner.Scan(ctx, nil, folder); err == nil {
		t.Error("Scan() with cancelled context succeeded")
	}
}
