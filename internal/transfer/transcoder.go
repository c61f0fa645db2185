package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/ormimu/ormimu/internal/shared"
)

// Transcoder converts an audio file into the device's target format. Any
// failure is treated uniformly as a transfer failure for that item; the
// engine never retries.
type Transcoder interface {
	Convert(ctx context.Context, sourcePath, destPath, format string) error
}

// FFmpeg shells out to an ffmpeg binary with a fixed device-wide quality
// policy: stereo, canonical sample rate, constant bitrate. Output goes to a
// temporary file renamed into place on success, so a failed conversion never
// leaves a partial destination behind.
type FFmpeg struct {
	Binary     string
	Bitrate    string
	SampleRate int
	Channels   int
}

// NewFFmpeg builds a transcoder from app config, filling in the canonical
// policy for unset fields.
func NewFFmpeg(config shared.FFmpegConfig) *FFmpeg {
	f := &FFmpeg{
		Binary:     config.Binary,
		Bitrate:    config.Bitrate,
		SampleRate: config.SampleRate,
		Channels:   config.Channels,
	}
	if f.Binary == "" {
		f.Binary = "ffmpeg"
	}
	if f.Bitrate == "" {
		f.Bitrate = "192k"
	}
	if f.SampleRate == 0 {
		f.SampleRate = 44100
	}
	if f.Channels == 0 {
		f.Channels = 2
	}
	return f
}

// Convert re-encodes sourcePath into destPath. The output container is
// chosen by ffmpeg from the destination extension, which the path planner
// guarantees matches format.
func (f *FFmpeg) Convert(ctx context.Context, sourcePath, destPath, format string) error {
	// Keep the real extension on the temp name so ffmpeg picks the container.
	tmp := filepath.Join(filepath.Dir(destPath), ".ormimu-"+filepath.Base(destPath))

	args := []string{
		"-i", sourcePath,
		"-vn",
		"-ar", strconv.Itoa(f.SampleRate),
		"-ac", strconv.Itoa(f.Channels),
		"-b:a", f.Bitrate,
		"-id3v2_version", "3",
		"-y",
		tmp,
	}

	cmd := exec.CommandContext(ctx, f.Binary, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", shared.ErrTranscodeFailed, err)
	}
	if err := os.Rename(tmp, destPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", shared.ErrTranscodeFailed, err)
	}
	return nil
}
