package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Device and destination errors
	ErrConfigIO               = fmt.Errorf("device config read/write failed")
	ErrManifestIO             = fmt.Errorf("device manifest read/write failed")
	ErrDestinationUnreachable = fmt.Errorf("destination not reachable")
	ErrNotEnoughSpace         = fmt.Errorf("not enough space on device")

	// Transfer errors
	ErrSourceMissing   = fmt.Errorf("source file not found")
	ErrCopyFailed      = fmt.Errorf("copy failed")
	ErrTranscodeFailed = fmt.Errorf("conversion failed (ffmpeg error)")

	// Catalog errors
	ErrSongNotFound     = fmt.Errorf("song not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
