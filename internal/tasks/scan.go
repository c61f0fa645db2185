package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/ormimu/ormimu/internal/metadata"
	"github.com/ormimu/ormimu/internal/models"
	"github.com/ormimu/ormimu/internal/shared"
)

// SongStore is the subset of the catalog the scanner writes to.
type SongStore interface {
	Create(song *models.Song) error
	GetByPath(path string) (*models.Song, error)
}

// ScanFailure records a single file that could not be imported.
type ScanFailure struct {
	Path string
	Err  error
}

// ScanResult summarizes a finished folder scan.
type ScanResult struct {
	Imported int
	Known    int
	Failures []ScanFailure
}

// Scanner walks folders and imports matching audio files into the catalog.
// Files already present (matched by source path) are left untouched, so
// re-scanning a folder is idempotent.
type Scanner struct {
	reader metadata.Reader
	songs  SongStore
	logger *log.Logger

	patterns []string
	limiter  *rate.Limiter
}

// NewScanner creates a folder scanner. A zero rate limit disables throttling.
func NewScanner(reader metadata.Reader, songs SongStore, config shared.ScanConfig, logger *log.Logger) *Scanner {
	patterns := config.Patterns
	if len(patterns) == 0 {
		patterns = []string{"**/*.mp3", "**/*.flac", "**/*.m4a", "**/*.ogg", "**/*.wav"}
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	return &Scanner{
		reader:   reader,
		songs:    songs,
		logger:   logger,
		patterns: patterns,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Scan walks folder recursively and imports every file whose folder-relative
// path matches one of the configured glob patterns. Per-file failures are
// collected and never abort the walk.
func (s *Scanner) Scan(ctx context.Context, progress chan<- ProgressUpdate, folder string) (*ScanResult, error) {
	result := &ScanResult{}
	step := 0

	err := filepath.WalkDir(folder, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		if !s.matches(filepath.ToSlash(relPath)) {
			return nil
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		step++
		sendProgress(progress, scanFileUpdate(step, relPath))

		if err := s.importFile(path, result); err != nil {
			s.logger.Warn("failed to import file", "path", path, "error", err)
			result.Failures = append(result.Failures, ScanFailure{Path: path, Err: err})
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("scan of %s failed: %w", folder, err)
	}

	sendProgress(progress, scanCompleteUpdate(result))
	s.logger.Info("scan finished",
		"folder", folder, "imported", result.Imported, "known", result.Known, "failed", len(result.Failures))
	return result, nil
}

func (s *Scanner) matches(relPath string) bool {
	for _, pattern := range s.patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

func (s *Scanner) importFile(path string, result *ScanResult) error {
	_, err := s.songs.GetByPath(path)
	if err == nil {
		result.Known++
		return nil
	}
	if !errors.Is(err, shared.ErrSongNotFound) {
		return err
	}

	tags, err := s.reader.ReadTags(path)
	if err != nil {
		return err
	}

	song := &models.Song{
		Title:    tags.Title,
		Artist:   tags.Artist,
		Album:    tags.Album,
		Genre:    tags.Genre,
		Year:     tags.Year,
		FilePath: path,
	}
	if err := s.songs.Create(song); err != nil {
		return err
	}
	result.Imported++
	return nil
}
