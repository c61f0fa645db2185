// package models defines the data model shared by the library catalog and the device sync engine
package models

import "fmt"

// Song is a single audio file known to the library catalog. The sync engine
// treats songs as immutable for the duration of an operation and never
// mutates the source library.
type Song struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Genre    string `json:"genre,omitempty"`
	Year     int    `json:"year,omitempty"`
	FilePath string `json:"file_path"`
}

// Validate checks that the song carries the fields every consumer relies on.
func (s Song) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("song id is required")
	}
	if s.Title == "" {
		return fmt.Errorf("song title is required")
	}
	if s.FilePath == "" {
		return fmt.Errorf("song file path is required")
	}
	return nil
}

// Playlist is an ordered collection of songs. A song may belong to zero, one,
// or many playlists.
type Playlist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Songs []Song `json:"songs,omitempty"`
}

// Validate checks that the playlist is usable as a sync selection.
func (p Playlist) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("playlist name is required")
	}
	return nil
}

// Repository defines the interface for catalog data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T any] interface {
	Create(model T) error     // Create inserts a new record
	Get(id string) (T, error) // Get retrieves a record by its ID
	List() ([]T, error)       // List retrieves all records
	Delete(id string) error   // Delete soft-deletes a record by its ID
}
