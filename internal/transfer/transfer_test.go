package transfer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ormimu/ormimu/internal/device"
	"github.com/ormimu/ormimu/internal/shared"
	ormtest "github.com/ormimu/ormimu/internal/testing"
)

func newTestConfig(formats ...string) *device.Config {
	return &device.Config{SupportedFormats: formats}
}

func TestTransferCopiesSupportedMatchingFormat(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "song.mp3")
	dest := filepath.Join(dir, "out", "song.mp3")
	ormtest.WriteFile(t, source, "mp3 bytes")

	mock := &ormtest.MockTranscoder{}
	executor := NewExecutor(mock)

	if err := executor.Transfer(context.Background(), source, dest, newTestConfig("mp3")); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}

	if got := ormtest.MustReadFile(t, dest); got != "mp3 bytes" {
		t.Errorf("dest content = %q", got)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("transcoder invoked for a plain copy: %v", mock.Calls)
	}
}

func TestTransferTranscodesUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "song.flac")
	dest := filepath.Join(dir, "out", "song.mp3")
	ormtest.WriteFile(t, source, "flac bytes")

	mock := &ormtest.MockTranscoder{}
	executor := NewExecutor(mock)

	if err := executor.Transfer(context.Background(), source, dest, newTestConfig("mp3")); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("transcoder calls = %d, want 1", len(mock.Calls))
	}
	call := mock.Calls[0]
	if call.SourcePath != source || call.DestPath != dest || call.Format != "mp3" {
		t.Errorf("unexpected conversion: %+v", call)
	}
	ormtest.AssertFileExists(t, dest)
}

func TestTransferTranscodesSupportedButMismatchedExtension(t *testing.T) {
	// A wav-only device asked to place an mp3 must convert even though mp3
	// appears nowhere in the path planning.
	dir := t.TempDir()
	source := filepath.Join(dir, "song.mp3")
	dest := filepath.Join(dir, "song.wav")
	ormtest.WriteFile(t, source, "mp3 bytes")

	mock := &ormtest.MockTranscoder{}
	executor := NewExecutor(mock)

	if err := executor.Transfer(context.Background(), source, dest, newTestConfig("wav")); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}
	if len(mock.Calls) != 1 {
		t.Errorf("transcoder calls = %d, want 1", len(mock.Calls))
	}
}

func TestTransferCaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "song.MP3")
	dest := filepath.Join(dir, "song.mp3")
	ormtest.WriteFile(t, source, "mp3 bytes")

	mock := &ormtest.MockTranscoder{}
	executor := NewExecutor(mock)

	if err := executor.Transfer(context.Background(), source, dest, newTestConfig("mp3")); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("uppercase extension triggered a transcode")
	}
}

func TestTransferSourceMissing(t *testing.T) {
	dir := t.TempDir()
	executor := NewExecutor(&ormtest.MockTranscoder{})

	err := executor.Transfer(context.Background(), filepath.Join(dir, "gone.mp3"), filepath.Join(dir, "out.mp3"), newTestConfig("mp3"))
	if !errors.Is(err, shared.ErrSourceMissing) {
		t.Errorf("Transfer() error = %v, want ErrSourceMissing", err)
	}
}

func TestTransferTranscodeFailureLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "song.flac")
	dest := filepath.Join(dir, "song.mp3")
	ormtest.WriteFile(t, source, "flac bytes")

	mock := &ormtest.MockTranscoder{Err: ormtest.ErrBoom}
	executor := NewExecutor(mock)

	if err := executor.Transfer(context.Background(), source, dest, newTestConfig("mp3")); err == nil {
		t.Fatal("Transfer() succeeded with failing transcoder")
	}
	ormtest.AssertFileMissing(t, dest)
}

func TestTransferOverwritesExistingDest(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "song.mp3")
	dest := filepath.Join(dir, "out.mp3")
	ormtest.WriteFile(t, source, "new bytes")
	ormtest.WriteFile(t, dest, "old bytes")

	executor := NewExecutor(&ormtest.MockTranscoder{})
	if err := executor.Transfer(context.Background(), source, dest, newTestConfig("mp3")); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}
	if got := ormtest.MustReadFile(t, dest); got != "new bytes" {
		t.Errorf("dest content = %q, want overwrite", got)
	}
}

func TestNewFFmpegDefaults(t *testing.T) {
	f := NewFFmpeg(shared.FFmpegConfig{})
	if f.Binary != "ffmpeg" || f.Bitrate != "192k" || f.SampleRate != 44100 || f.Channels != 2 {
		t.Errorf("defaults = %+v", f)
	}

	custom := NewFFmpeg(shared.FFmpegConfig{Binary: "/opt/ffmpeg", Bitrate: "256k", SampleRate: 48000, Channels: 1})
	if custom.Binary != "/opt/ffmpeg" || custom.Bitrate != "256k" || custom.SampleRate != 48000 || custom.Channels != 1 {
		t.Errorf("custom config lost: %+v", custom)
	}
}

func TestExtOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/music/song.mp3", "mp3"},
		{"/music/song.FLAC", "flac"},
		{"/music/noext", ""},
		{"song.tar.gz", "gz"},
	}
	for _, tt := range tests {
		if got := extOf(tt.path); got != tt.want {
			t.Errorf("extOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCopyFileCleansUpTempOnFailure(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "song.mp3")
	ormtest.WriteFile(t, source, "bytes")

	// Destination directory does not exist, so the temp create fails.
	dest := filepath.Join(dir, "missing-dir", "out.mp3")
	if err := copyFile(source, dest); err == nil {
		t.Fatal("copyFile() succeeded into missing directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if entry.Name() != "song.mp3" {
			t.Errorf("leftover file %s", entry.Name())
		}
	}
}
