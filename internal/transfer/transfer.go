// package transfer places individual songs on the device, copying when the
// device plays the source format natively and transcoding otherwise.
//
// All writes follow a create-parent, write-temp, rename-on-success
// discipline so an interrupted transfer is never observed as a complete
// file. The executor surfaces failures and never decides to abort a batch;
// that call belongs to the sync orchestrator.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ormimu/ormimu/internal/device"
	"github.com/ormimu/ormimu/internal/shared"
)

// Executor performs one item's transfer.
type Executor struct {
	transcoder Transcoder
}

// NewExecutor creates an Executor using the given transcoder for formats the
// device cannot play.
func NewExecutor(transcoder Transcoder) *Executor {
	return &Executor{transcoder: transcoder}
}

// Transfer places the file at sourcePath onto the device at destPath
// (absolute). A plain copy is used when the source format is supported by
// the device and already matches the destination extension; everything else
// goes through the transcoder.
func (e *Executor) Transfer(ctx context.Context, sourcePath, destPath string, config *device.Config) error {
	if _, err := os.Stat(sourcePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", shared.ErrSourceMissing, sourcePath)
		}
		return fmt.Errorf("%w: %v", shared.ErrCopyFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCopyFailed, err)
	}

	sourceExt := extOf(sourcePath)
	if config.Supports(sourceExt) && sourceExt == extOf(destPath) {
		return copyFile(sourcePath, destPath)
	}

	return e.transcoder.Convert(ctx, sourcePath, destPath, config.TargetFormat())
}

// extOf returns the lowercased extension without the leading dot.
func extOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// copyFile copies src over dest atomically, overwriting any existing file.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCopyFailed, err)
	}
	defer in.Close()

	tmp := filepath.Join(filepath.Dir(dest), ".ormimu-"+filepath.Base(dest))
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCopyFailed, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", shared.ErrCopyFailed, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", shared.ErrCopyFailed, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", shared.ErrCopyFailed, err)
	}
	return nil
}
