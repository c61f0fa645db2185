package device

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ormimu/ormimu/internal/shared"
)

// Manifest is the per-device sync ledger. It reconciles what the library
// thinks should be on the device with what the engine has already placed
// there. Staleness (a file deleted out-of-band) is detected lazily at sync
// time by checking the filesystem, never eagerly.
type Manifest struct {
	// Files maps destination-relative paths (slash-separated, case
	// sensitive) to source song identifiers.
	Files map[string]string `json:"files"`
	// Playlists maps playlist identifiers to their last-known on-device
	// folder name, used in hierarchical layout to detect renames.
	Playlists map[string]string `json:"playlists,omitempty"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Files:     make(map[string]string),
		Playlists: make(map[string]string),
	}
}

// LoadManifest reads the manifest from the destination root. It never fails
// the caller: a missing or corrupt manifest yields an empty one, favoring
// re-copying over blocking the user.
func LoadManifest(root string) *Manifest {
	data, err := os.ReadFile(filepath.Join(root, ManifestFileName))
	if err != nil {
		return NewManifest()
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return NewManifest()
	}
	if manifest.Files == nil {
		manifest.Files = make(map[string]string)
	}
	if manifest.Playlists == nil {
		manifest.Playlists = make(map[string]string)
	}
	return &manifest
}

// SaveManifest atomically writes the manifest to the destination root. Called
// once per synced item, so an interrupted sync leaves a manifest consistent
// with the files actually written.
func SaveManifest(manifest *Manifest, root string) error {
	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrManifestIO, err)
	}
	if err := shared.WriteFileAtomic(filepath.Join(root, ManifestFileName), data, 0644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrManifestIO, err)
	}
	return nil
}

// PathsFor returns every destination path tracked for the given song, sorted
// so flat-layout path reuse is deterministic across runs.
func (m *Manifest) PathsFor(songID string) []string {
	var paths []string
	for path, id := range m.Files {
		if id == songID {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// RenameFolder rewrites every file entry under the oldName playlist folder to
// live under newName, returning the number of entries moved. Matching is by
// first path segment equality, not string prefix, so a folder named "Road"
// never captures entries under "Road Trip".
func (m *Manifest) RenameFolder(oldName, newName string) int {
	moved := 0
	for path, id := range m.Files {
		segment, rest, found := strings.Cut(path, "/")
		if !found || segment != oldName {
			continue
		}
		delete(m.Files, path)
		m.Files[newName+"/"+rest] = id
		moved++
	}
	return moved
}
