package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadTagsUntaggedFile(t *testing.T) {
	// A file that is not a recognized audio container still imports, with a
	// title derived from its name.
	path := filepath.Join(t.TempDir(), "Morning Jog.mp3")
	if err := os.WriteFile(path, []byte("definitely not an audio container"), 0644); err != nil {
		t.Fatal(err)
	}

	tags, err := FileReader{}.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags() error = %v", err)
	}
	if tags.Title != "Morning Jog" {
		t.Errorf("title = %q, want filename fallback", tags.Title)
	}
	if tags.Artist != "" || tags.Album != "" {
		t.Errorf("unexpected tags: %+v", tags)
	}
}

func TestReadTagsMissingFile(t *testing.T) {
	if _, err := (FileReader{}).ReadTags(filepath.Join(t.TempDir(), "gone.mp3")); err == nil {
		t.Error("ReadTags() succeeded for missing file")
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/music/Song Name.mp3", "Song Name"},
		{"noext", "noext"},
		{"/a/b/c.tar.gz", "c.tar"},
	}
	for _, tt := range tests {
		if got := titleFromFilename(tt.path); got != tt.want {
			t.Errorf("titleFromFilename(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
