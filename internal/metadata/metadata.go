// package metadata reads tag metadata from audio files.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Tags holds the fields the catalog cares about.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Year   int
}

// Reader extracts tags from an audio file on disk.
type Reader interface {
	ReadTags(path string) (Tags, error)
}

// FileReader reads tags straight from the file. Untagged files are not an
// error: they get a title derived from the file name so they still show up
// in the library.
type FileReader struct{}

func (FileReader) ReadTags(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return Tags{Title: titleFromFilename(path)}, nil
		}
		return Tags{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	t := Tags{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Genre:  m.Genre(),
		Year:   m.Year(),
	}
	if t.Title == "" {
		t.Title = titleFromFilename(path)
	}
	return t, nil
}

// titleFromFilename strips the directory and extension from a path.
func titleFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
