package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ormimu/ormimu/internal/library"
	"github.com/ormimu/ormimu/internal/metadata"
	"github.com/ormimu/ormimu/internal/models"
	"github.com/ormimu/ormimu/internal/shared"
	"github.com/ormimu/ormimu/internal/tasks"
)

// Scan walks a folder and imports matching audio files into the catalog.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	folder := cmd.StringArg("folder")
	if folder == "" {
		return fmt.Errorf("%w: folder", shared.ErrMissingArgument)
	}

	db, err := r.openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	scanner := tasks.NewScanner(metadata.FileReader{}, library.NewSongRepository(db), r.config.Scan, r.logger)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			if update.Phase == tasks.ScanFile {
				r.writePlain("  %s\n", update.Message)
			}
		}
	}()

	r.writePlain("Scanning %s...\n", folder)
	result, err := scanner.Scan(ctx, progressCh, folder)
	close(progressCh)
	<-drained
	if err != nil {
		return err
	}

	r.writePlainln("Imported %d, already known %d, failed %d", result.Imported, result.Known, len(result.Failures))
	for _, failure := range result.Failures {
		r.writePlain("  ✗ %s: %v\n", failure.Path, failure.Err)
	}
	return nil
}

// LibrarySongs lists every song in the catalog.
func (r *Runner) LibrarySongs(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	songs, err := library.NewSongRepository(db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	for _, song := range songs {
		r.writePlain("%s  %s - %s\n", song.ID, song.Artist, song.Title)
	}
	return r.writePlainln("%d songs", len(songs))
}

// LibraryPlaylists lists every playlist in the catalog.
func (r *Runner) LibraryPlaylists(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	playlists, err := library.NewPlaylistRepository(db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	for _, playlist := range playlists {
		r.writePlain("%s  %s\n", playlist.ID, playlist.Name)
	}
	return r.writePlainln("%d playlists", len(playlists))
}

// LibraryCreate creates an empty playlist.
func (r *Runner) LibraryCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	db, err := r.openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	playlist := &models.Playlist{Name: name}
	if err := library.NewPlaylistRepository(db).Create(playlist); err != nil {
		return err
	}

	r.logger.Info("created playlist", "id", playlist.ID, "name", name)
	return r.writePlain("Created playlist %s (%s)\n", name, playlist.ID)
}

// LibraryAdd appends a song to a playlist.
func (r *Runner) LibraryAdd(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	playlists := library.NewPlaylistRepository(db)
	playlist, err := playlists.GetByName(cmd.String("playlist"))
	if err != nil {
		return err
	}

	song, err := library.NewSongRepository(db).Get(cmd.String("song"))
	if err != nil {
		return err
	}

	if err := playlists.AddSong(playlist.ID, song.ID); err != nil {
		return err
	}
	return r.writePlain("Added %s - %s to %s\n", song.Artist, song.Title, playlist.Name)
}

// LibraryRename renames a playlist.
func (r *Runner) LibraryRename(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	playlists := library.NewPlaylistRepository(db)
	playlist, err := playlists.GetByName(cmd.String("playlist"))
	if err != nil {
		return err
	}

	newName := cmd.String("to")
	if err := playlists.Rename(playlist.ID, newName); err != nil {
		return err
	}

	r.logger.Info("renamed playlist", "id", playlist.ID, "from", playlist.Name, "to", newName)
	return r.writePlain("Renamed %s to %s; device folders follow on the next sync\n", playlist.Name, newName)
}

// LibraryShow prints a playlist with its songs in order.
func (r *Runner) LibraryShow(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	db, err := r.openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	playlist, err := library.NewPlaylistRepository(db).GetByName(name)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, true)
	}

	r.writePlain("%s (%d songs)\n", playlist.Name, len(playlist.Songs))
	for i, song := range playlist.Songs {
		r.writePlain("  %d. %s - %s\n", i+1, song.Artist, song.Title)
	}
	return nil
}
