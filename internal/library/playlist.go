package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ormimu/ormimu/internal/models"
	"github.com/ormimu/ormimu/internal/shared"
)

// PlaylistRepository handles persistence for playlists and their ordered
// song membership.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection.
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist, generating an ID when the record has none.
// Member songs are not written here; use AddSong.
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = shared.GenerateID()
	}
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.Exec(
		"INSERT INTO playlists (id, sequence, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		playlist.ID, sequence, playlist.Name, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

// Get retrieves a playlist with its songs in playlist order.
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	var p models.Playlist
	err := r.db.QueryRow(
		"SELECT id, name FROM playlists WHERE id = ? AND deleted_at IS NULL", id,
	).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	query := `
		SELECT s.id, s.title, s.artist, s.album, s.genre, s.year, s.file_path
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = ? AND s.deleted_at IS NULL
		ORDER BY ps.position
	`
	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist, &s.Album, &s.Genre, &s.Year, &s.FilePath); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		p.Songs = append(p.Songs, s)
	}
	return &p, rows.Err()
}

// GetByName retrieves a playlist by its display name.
func (r *PlaylistRepository) GetByName(name string) (*models.Playlist, error) {
	var id string
	err := r.db.QueryRow(
		"SELECT id FROM playlists WHERE name = ? AND deleted_at IS NULL", name,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}
	return r.Get(id)
}

// List retrieves all playlists ordered by sequence, without member songs.
func (r *PlaylistRepository) List() ([]models.Playlist, error) {
	rows, err := r.db.Query(
		"SELECT id, name FROM playlists WHERE deleted_at IS NULL ORDER BY sequence",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// AddSong appends a song at the end of the playlist.
func (r *PlaylistRepository) AddSong(playlistID, songID string) error {
	var position int
	err := r.db.QueryRow(
		"SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_songs WHERE playlist_id = ?", playlistID,
	).Scan(&position)
	if err != nil {
		return fmt.Errorf("failed to compute position: %w", err)
	}

	_, err = r.db.Exec(
		"INSERT INTO playlist_songs (playlist_id, song_id, position) VALUES (?, ?, ?)",
		playlistID, songID, position,
	)
	if err != nil {
		return fmt.Errorf("failed to add song to playlist: %w", err)
	}
	return nil
}

// Rename updates a playlist's display name. The next device sync propagates
// the rename to on-device folders.
func (r *PlaylistRepository) Rename(id, name string) error {
	result, err := r.db.Exec(
		"UPDATE playlists SET name = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rename result: %w", err)
	}
	if affected == 0 {
		return shared.ErrPlaylistNotFound
	}
	return nil
}

// Delete soft-deletes a playlist by ID.
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(
		"UPDATE playlists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return shared.ErrPlaylistNotFound
	}
	return nil
}
