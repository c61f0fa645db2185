package device

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestManifestRoundtrip(t *testing.T) {
	root := t.TempDir()

	manifest := NewManifest()
	manifest.Files["Mix/a.mp3"] = "song-a"
	manifest.Files["Mix/b.mp3"] = "song-b"
	manifest.Playlists["pl-1"] = "Mix"

	if err := SaveManifest(manifest, root); err != nil {
		t.Fatalf("SaveManifest() error = %v", err)
	}

	loaded := LoadManifest(root)
	if !reflect.DeepEqual(loaded.Files, manifest.Files) {
		t.Errorf("files = %v, want %v", loaded.Files, manifest.Files)
	}
	if loaded.Playlists["pl-1"] != "Mix" {
		t.Errorf("playlists = %v", loaded.Playlists)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	manifest := LoadManifest(t.TempDir())
	if manifest == nil || manifest.Files == nil || manifest.Playlists == nil {
		t.Fatal("LoadManifest() on empty dir must return usable empty manifest")
	}
	if len(manifest.Files) != 0 {
		t.Errorf("expected empty manifest, got %v", manifest.Files)
	}
}

func TestLoadManifestCorrupt(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ManifestFileName), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	manifest := LoadManifest(root)
	if len(manifest.Files) != 0 {
		t.Errorf("corrupt manifest should load empty, got %v", manifest.Files)
	}
}

func TestPathsFor(t *testing.T) {
	manifest := NewManifest()
	manifest.Files["Zeta/x.mp3"] = "song-a"
	manifest.Files["Alpha/x.mp3"] = "song-a"
	manifest.Files["Alpha/y.mp3"] = "song-b"

	paths := manifest.PathsFor("song-a")
	want := []string{"Alpha/x.mp3", "Zeta/x.mp3"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("PathsFor() = %v, want %v (sorted)", paths, want)
	}

	if got := manifest.PathsFor("missing"); len(got) != 0 {
		t.Errorf("PathsFor(missing) = %v", got)
	}
}

func TestRenameFolder(t *testing.T) {
	manifest := NewManifest()
	manifest.Files["Road/a.mp3"] = "song-a"
	manifest.Files["Road/b.mp3"] = "song-b"
	manifest.Files["Road Trip/c.mp3"] = "song-c"
	manifest.Files["root.mp3"] = "song-d"

	moved := manifest.RenameFolder("Road", "Highway")
	if moved != 2 {
		t.Errorf("RenameFolder() moved = %d, want 2", moved)
	}

	if _, ok := manifest.Files["Highway/a.mp3"]; !ok {
		t.Error("entry not moved to Highway/a.mp3")
	}
	if _, ok := manifest.Files["Road/a.mp3"]; ok {
		t.Error("old entry Road/a.mp3 still present")
	}

	// "Road Trip" shares the prefix but is a different folder.
	if _, ok := manifest.Files["Road Trip/c.mp3"]; !ok {
		t.Error("sibling folder Road Trip was captured by the rename")
	}
	// Root-level files have no folder segment.
	if _, ok := manifest.Files["root.mp3"]; !ok {
		t.Error("root-level entry was touched")
	}
}
