package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ormimu/ormimu/internal/device"
	"github.com/ormimu/ormimu/internal/models"
	"github.com/ormimu/ormimu/internal/planner"
	"github.com/ormimu/ormimu/internal/shared"
	"github.com/ormimu/ormimu/internal/transfer"
)

// SyncState classifies how a sync run ended.
type SyncState int

const (
	// SyncCompleted means every work item was attempted. Individual items
	// may still have failed; check SyncResult.Failures.
	SyncCompleted SyncState = iota
	// SyncCancelled means the run stopped at a cancellation point. Items
	// finished before the stop remain on the device and in the manifest.
	SyncCancelled
	// SyncFailed means a structural error (unreachable destination, space
	// floor breach, manifest write failure) aborted the run.
	SyncFailed
)

func (s SyncState) String() string {
	switch s {
	case SyncCompleted:
		return "completed"
	case SyncCancelled:
		return "cancelled"
	case SyncFailed:
		return "failed"
	default:
		return ""
	}
}

// WorkItem is one planned placement of a song on the device. In hierarchical
// layout a song appears once per selected playlist; in flat layout once total.
type WorkItem struct {
	Song           models.Song
	PlaylistFolder string
}

// ItemFailure records a single song that could not be placed. Item failures
// never abort the run.
type ItemFailure struct {
	Path string // Destination-relative path that was being written
	Song models.Song
	Err  error
}

// SyncResult summarizes a finished (or stopped) sync run.
type SyncResult struct {
	State          SyncState
	TotalItems     int
	Transferred    int
	Skipped        int
	Failures       []ItemFailure
	RenamedFolders map[string]string // old on-device folder name → new
}

// DeviceEngine orchestrates incremental syncs of library playlists onto an
// external device folder. One engine serves any number of sequential runs;
// concurrent runs against the same destination are not supported.
type DeviceEngine struct {
	executor *transfer.Executor
	logger   *log.Logger

	// Volume reports destination capacity; replaceable in tests.
	Volume device.VolumeFn
	// SafetyFloor is the free-space threshold below which a run aborts.
	SafetyFloor int64
	// SpaceCheckInterval is how many items pass between capacity checks.
	// The check always runs before the first item.
	SpaceCheckInterval int
}

// NewDeviceEngine creates a sync engine with the configured safety limits.
func NewDeviceEngine(executor *transfer.Executor, config shared.SyncConfig, logger *log.Logger) *DeviceEngine {
	engine := &DeviceEngine{
		executor:           executor,
		logger:             logger,
		Volume:             device.Inspect,
		SafetyFloor:        config.SafetyFloorBytes,
		SpaceCheckInterval: config.SpaceCheckInterval,
	}
	if engine.SafetyFloor <= 0 {
		engine.SafetyFloor = 10_000_000
	}
	if engine.SpaceCheckInterval <= 0 {
		engine.SpaceCheckInterval = 10
	}
	return engine
}

// Sync mirrors the given playlists onto the destination root.
//
// The run is incremental: files the manifest already tracks and that still
// exist on the device are skipped. Per-item failures are collected and
// reported in the result; only structural errors return a non-nil error.
// Cancellation via ctx is honored between items and reported as a state,
// not an error.
func (e *DeviceEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate, playlists []models.Playlist, root string) (*SyncResult, error) {
	release, err := device.AcquireRoot(root)
	if err != nil {
		return &SyncResult{State: SyncFailed}, err
	}
	defer release()

	config, err := e.loadOrCreateConfig(root)
	if err != nil {
		return &SyncResult{State: SyncFailed}, err
	}

	manifest := device.LoadManifest(root)

	result := &SyncResult{RenamedFolders: make(map[string]string)}

	if config.Layout == device.LayoutHierarchical {
		if err := e.propagateRenames(root, manifest, playlists, result, progress); err != nil {
			result.State = SyncFailed
			return result, err
		}
	}

	items := planWorkItems(playlists, config)
	result.TotalItems = len(items)
	sendProgress(progress, planningUpdate(len(items)))

	for i, item := range items {
		select {
		case <-ctx.Done():
			result.State = SyncCancelled
			sendProgress(progress, syncCancelledUpdate(i, len(items)))
			if err := device.SaveManifest(manifest, root); err != nil {
				e.logger.Warn("manifest flush after cancellation failed", "error", err)
			}
			return result, nil
		default:
		}

		existingPath := ""
		if config.Layout == device.LayoutFlat {
			if paths := manifest.PathsFor(item.Song.ID); len(paths) > 0 {
				existingPath = paths[0]
			}
		}
		relPath := planner.Plan(item.Song, item.PlaylistFolder, config, existingPath)
		destPath := filepath.Join(root, filepath.FromSlash(relPath))

		if manifest.Files[relPath] == item.Song.ID {
			if _, err := os.Stat(destPath); err == nil {
				result.Skipped++
				sendProgress(progress, skippedUpdate(i+1, len(items), relPath))
				continue
			}
		}

		// Checked only for items that will actually write; skipped items do
		// no I/O and must not be blocked by a full device.
		if i%e.SpaceCheckInterval == 0 {
			if err := e.checkSpace(root); err != nil {
				result.State = SyncFailed
				if flushErr := device.SaveManifest(manifest, root); flushErr != nil {
					e.logger.Warn("manifest flush after abort failed", "error", flushErr)
				}
				return result, err
			}
		}

		sendProgress(progress, syncingUpdate(i+1, len(items), item.Song))

		// Cancellation is cooperative and checked between items only; an
		// in-flight transcode finishes rather than being killed mid-write.
		if err := e.executor.Transfer(context.WithoutCancel(ctx), item.Song.FilePath, destPath, config); err != nil {
			e.logger.Warn("item transfer failed", "title", item.Song.Title, "dest", relPath, "error", err)
			result.Failures = append(result.Failures, ItemFailure{Path: relPath, Song: item.Song, Err: err})
			sendProgress(progress, itemFailedUpdate(i+1, len(items), item.Song.Title, err))
			continue
		}

		manifest.Files[relPath] = item.Song.ID
		if err := device.SaveManifest(manifest, root); err != nil {
			result.State = SyncFailed
			return result, err
		}
		result.Transferred++
	}

	if err := device.SaveManifest(manifest, root); err != nil {
		result.State = SyncFailed
		return result, err
	}

	result.State = SyncCompleted
	sendProgress(progress, syncCompleteUpdate(result))
	e.logger.Info("sync finished",
		"transferred", result.Transferred, "skipped", result.Skipped, "failed", len(result.Failures))
	return result, nil
}

// loadOrCreateConfig reads the device config, creating and persisting a
// default one for never-before-seen destinations. A config with an empty
// format list is corrected to the default format and written back.
func (e *DeviceEngine) loadOrCreateConfig(root string) (*device.Config, error) {
	config, err := device.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = device.DefaultConfig()
		e.logger.Info("initialized device config", "root", root, "id", config.ID)
		if err := device.SaveConfig(config, root); err != nil {
			return nil, err
		}
		return config, nil
	}
	if len(config.SupportedFormats) == 0 {
		config.SupportedFormats = []string{device.DefaultFormat}
		if err := device.SaveConfig(config, root); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// propagateRenames moves on-device playlist folders whose library playlist
// was renamed since the last sync, and rewrites the manifest to match. Runs
// before planning so all work items see post-rename paths.
func (e *DeviceEngine) propagateRenames(root string, manifest *device.Manifest, playlists []models.Playlist, result *SyncResult, progress chan<- ProgressUpdate) error {
	changed := false
	for _, playlist := range playlists {
		folder := planner.SanitizeName(playlist.Name)
		lastKnown, seen := manifest.Playlists[playlist.ID]
		if seen && lastKnown != folder {
			// Only a folder that still exists is renamed; otherwise this is
			// a fresh registration under the new name.
			oldDir := filepath.Join(root, lastKnown)
			if _, err := os.Stat(oldDir); err == nil {
				if err := os.Rename(oldDir, filepath.Join(root, folder)); err != nil {
					return fmt.Errorf("%w: renaming folder %q: %v", shared.ErrDestinationUnreachable, lastKnown, err)
				}
				moved := manifest.RenameFolder(lastKnown, folder)
				result.RenamedFolders[lastKnown] = folder
				sendProgress(progress, renameUpdate(lastKnown, folder, moved))
				e.logger.Info("propagated playlist rename", "from", lastKnown, "to", folder, "entries", moved)
			}
		}
		if !seen || lastKnown != folder {
			manifest.Playlists[playlist.ID] = folder
			changed = true
		}
	}
	if changed {
		return device.SaveManifest(manifest, root)
	}
	return nil
}

// checkSpace aborts the run when free space on the destination volume drops
// below the safety floor.
func (e *DeviceEngine) checkSpace(root string) error {
	info, err := e.Volume(root)
	if err != nil {
		return err
	}
	if info.FreeBytes < e.SafetyFloor {
		return fmt.Errorf("%w: %d bytes free, floor is %d", shared.ErrNotEnoughSpace, info.FreeBytes, e.SafetyFloor)
	}
	return nil
}

// planWorkItems expands the selected playlists into an ordered item list. In
// flat layout a song appearing in several playlists yields one item (first
// occurrence wins); hierarchical layout keeps one item per membership so the
// song lands in every playlist's folder.
func planWorkItems(playlists []models.Playlist, config *device.Config) []WorkItem {
	var items []WorkItem

	if config.Layout == device.LayoutFlat {
		seen := make(map[string]bool)
		for _, playlist := range playlists {
			for _, song := range playlist.Songs {
				if seen[song.ID] {
					continue
				}
				seen[song.ID] = true
				items = append(items, WorkItem{Song: song})
			}
		}
		return items
	}

	for _, playlist := range playlists {
		for _, song := range playlist.Songs {
			items = append(items, WorkItem{Song: song, PlaylistFolder: playlist.Name})
		}
	}
	return items
}

// sendProgress delivers an update without blocking; slow consumers drop
// intermediate updates rather than stalling the sync.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
