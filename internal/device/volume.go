package device

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/ormimu/ormimu/internal/shared"
)

// VolumeInfo reports the capacity of the destination volume.
type VolumeInfo struct {
	TotalBytes int64
	FreeBytes  int64
}

// VolumeFn queries volume capacity for a destination root. The engine takes
// this as an injected dependency so tests can simulate space pressure.
type VolumeFn func(root string) (VolumeInfo, error)

// Inspect queries the live filesystem for the volume holding root. No
// caching: the whole point is detecting space pressure introduced by the
// sync itself.
func Inspect(root string) (VolumeInfo, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(root, &st); err != nil {
		return VolumeInfo{}, fmt.Errorf("%w: %v", shared.ErrDestinationUnreachable, err)
	}
	bsize := int64(st.Bsize)
	return VolumeInfo{
		TotalBytes: int64(st.Blocks) * bsize,
		FreeBytes:  int64(st.Bavail) * bsize,
	}, nil
}

// AcquireRoot verifies the destination root is an existing writable directory
// and holds a handle on it for the duration of a sync. The returned release
// function must run on every exit path.
func AcquireRoot(root string) (func(), error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDestinationUnreachable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", shared.ErrDestinationUnreachable, root)
	}

	dir, err := os.Open(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDestinationUnreachable, err)
	}

	marker, err := os.CreateTemp(root, ".ormimu-write-check-*")
	if err != nil {
		dir.Close()
		return nil, fmt.Errorf("%w: destination is not writable: %v", shared.ErrDestinationUnreachable, err)
	}
	marker.Close()
	os.Remove(marker.Name())

	return func() { dir.Close() }, nil
}
