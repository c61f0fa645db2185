package tasks

import (
	"fmt"

	"github.com/ormimu/ormimu/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Fraction returns completed work as a value in [0, 1].
func (u ProgressUpdate) Fraction() float64 {
	if u.Total <= 0 {
		return 0
	}
	return float64(u.Step) / float64(u.Total)
}

// Operation phase enumeration
type Phase int

const (
	PlanItems Phase = iota
	RenameFolders
	TransferItem
	SkipItem
	ItemFailed
	SyncDone
	ScanFolder
	ScanFile
	ScanDone
)

func (p Phase) String() string {
	switch p {
	case PlanItems:
		return "plan_items"
	case RenameFolders:
		return "rename_folders"
	case TransferItem:
		return "transfer_item"
	case SkipItem:
		return "skip_item"
	case ItemFailed:
		return "item_failed"
	case SyncDone:
		return "sync_done"
	case ScanFolder:
		return "scan_folder"
	case ScanFile:
		return "scan_file"
	case ScanDone:
		return "scan_done"
	default:
		return ""
	}
}

func planningUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlanItems,
		Total:   total,
		Message: fmt.Sprintf("Planned %d items to sync", total),
	}
}

func renameUpdate(oldName, newName string, moved int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RenameFolders,
		Message: fmt.Sprintf("Renamed playlist folder %q → %q (%d entries)", oldName, newName, moved),
	}
}

func syncingUpdate(step, total int, song models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TransferItem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Syncing %d of %d: %s", step, total, song.Title),
		Data:    song,
	}
}

func skippedUpdate(step, total int, relPath string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipItem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Skipping (exists): %s", relPath),
	}
}

func itemFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ItemFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✗ %s: %v", title, err),
	}
}

func syncCompleteUpdate(result *SyncResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncDone,
		Step:    result.TotalItems,
		Total:   result.TotalItems,
		Message: "Sync Complete",
		Data:    result,
	}
}

func syncCancelledUpdate(done, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncDone,
		Step:    done,
		Total:   total,
		Message: fmt.Sprintf("Sync cancelled after %d of %d items", done, total),
	}
}

func scanFileUpdate(step int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanFile,
		Step:    step,
		Message: fmt.Sprintf("[%d] %s", step, path),
	}
}

func scanCompleteUpdate(result *ScanResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanDone,
		Message: fmt.Sprintf("Scan complete: %d imported, %d already known, %d failed", result.Imported, result.Known, len(result.Failures)),
		Data:    result,
	}
}
