package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/ormimu/ormimu/internal/library"
	"github.com/ormimu/ormimu/internal/models"
	"github.com/ormimu/ormimu/internal/shared"
	"github.com/ormimu/ormimu/internal/tasks"
	"github.com/ormimu/ormimu/internal/transfer"
	"github.com/ormimu/ormimu/internal/ui"
)

// SyncRun syncs the named playlists (or all of them) to a destination folder.
// Ctrl+C requests cooperative cancellation; the run stops at the next item
// boundary and files already placed stay on the device.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	root := cmd.StringArg("root")
	if root == "" {
		return fmt.Errorf("%w: root", shared.ErrMissingArgument)
	}

	db, err := r.openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	playlists, err := resolvePlaylists(library.NewPlaylistRepository(db), cmd.StringSlice("playlist"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.RenameFolders:
				r.writePlain("📁 %s\n", update.Message)
			case tasks.TransferItem:
				r.writePlain("🎵 %s\n", update.Message)
			case tasks.SkipItem:
				r.writePlain("   %s\n", update.Message)
			case tasks.ItemFailed:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	r.writePlain("Syncing %d playlists to %s...\n\n", len(playlists), root)
	result, err := r.engine.Sync(ctx, progressCh, playlists, root)
	close(progressCh)
	// Let buffered per-item lines flush before the summary block.
	<-drained
	if err != nil {
		return err
	}

	r.writePlain("\n═══════════════════════════════════════\n")
	if result.State == tasks.SyncCancelled {
		r.writePlain("Sync Cancelled\n")
	} else {
		r.writePlain("Sync Complete\n")
	}
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Items: %d\n", result.TotalItems)
	r.writePlain("Transferred: %d\n", result.Transferred)
	r.writePlain("Skipped: %d\n", result.Skipped)
	r.writePlain("Failed: %d\n", len(result.Failures))

	for _, failure := range result.Failures {
		r.writePlain("  - %s - %s: %v\n", failure.Song.Artist, failure.Song.Title, failure.Err)
	}
	return nil
}

// SyncUI launches the interactive terminal UI for device sync.
func (r *Runner) SyncUI(ctx context.Context, cmd *cli.Command) error {
	root := cmd.StringArg("root")
	if root == "" {
		return fmt.Errorf("%w: root", shared.ErrMissingArgument)
	}

	db, err := r.openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ormimu-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, library.NewPlaylistRepository(db), r.engine, root)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// SetLogger swaps the runner's logger and rebuilds the engine so both log to
// the same place.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	transcoder := transfer.NewFFmpeg(r.config.FFmpeg)
	r.engine = tasks.NewDeviceEngine(transfer.NewExecutor(transcoder), r.config.Sync, logger)
}

// resolvePlaylists loads the named playlists with their songs, or every
// playlist when no names are given.
func resolvePlaylists(repo *library.PlaylistRepository, names []string) ([]models.Playlist, error) {
	if len(names) > 0 {
		playlists := make([]models.Playlist, 0, len(names))
		for _, name := range names {
			playlist, err := repo.GetByName(name)
			if err != nil {
				return nil, fmt.Errorf("playlist %q: %w", name, err)
			}
			playlists = append(playlists, *playlist)
		}
		return playlists, nil
	}

	shallow, err := repo.List()
	if err != nil {
		return nil, err
	}
	playlists := make([]models.Playlist, 0, len(shallow))
	for _, p := range shallow {
		full, err := repo.Get(p.ID)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *full)
	}
	return playlists, nil
}
