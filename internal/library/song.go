package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ormimu/ormimu/internal/models"
	"github.com/ormimu/ormimu/internal/shared"
)

// SongRepository handles persistence for catalog songs.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection.
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song, generating an ID when the record has none.
func (r *SongRepository) Create(song *models.Song) error {
	if song.ID == "" {
		song.ID = shared.GenerateID()
	}
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO songs (id, sequence, title, artist, album, genre, year, file_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		song.ID, sequence, song.Title, song.Artist, song.Album, song.Genre, song.Year, song.FilePath, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}
	return nil
}

// Get retrieves a song by ID, excluding soft-deleted songs.
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := `
		SELECT id, title, artist, album, genre, year, file_path
		FROM songs
		WHERE id = ? AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByPath retrieves a song by its source file path.
func (r *SongRepository) GetByPath(path string) (*models.Song, error) {
	query := `
		SELECT id, title, artist, album, genre, year, file_path
		FROM songs
		WHERE file_path = ? AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRow(query, path))
}

// List retrieves all songs ordered by sequence.
func (r *SongRepository) List() ([]models.Song, error) {
	query := `
		SELECT id, title, artist, album, genre, year, file_path
		FROM songs
		WHERE deleted_at IS NULL
		ORDER BY sequence
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		var s models.Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist, &s.Album, &s.Genre, &s.Year, &s.FilePath); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

// Delete soft-deletes a song by ID.
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec("UPDATE songs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return shared.ErrSongNotFound
	}
	return nil
}

func (r *SongRepository) scanOne(row *sql.Row) (*models.Song, error) {
	var s models.Song
	err := row.Scan(&s.ID, &s.Title, &s.Artist, &s.Album, &s.Genre, &s.Year, &s.FilePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}
	return &s, nil
}
