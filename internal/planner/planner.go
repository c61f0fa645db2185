// package planner computes destination-relative paths for synced songs.
//
// Planning is pure: no I/O, no clock. The only nondeterminism is the random
// prefix applied to never-synced songs on randomized flat devices, and that
// choice is made exactly once per song because later syncs reuse the path
// recorded in the manifest.
package planner

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ormimu/ormimu/internal/device"
	"github.com/ormimu/ormimu/internal/models"
	"github.com/ormimu/ormimu/internal/shared"
)

// Characters that are unsafe in file or folder names on common filesystems.
const illegalNameChars = `:/\?%*|"<>`

// randomPrefix is swappable in tests.
var randomPrefix = func() string {
	return fmt.Sprintf("%04d", rand.IntN(10000))
}

// SanitizeName replaces characters that cannot appear in a file or folder
// name with underscores.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalNameChars, r) {
			return '_'
		}
		return r
	}, name)
}

// BaseFilename builds the stable "{artist} - {title} [{id4}]" name for a
// song, without extension. The ID suffix keeps two songs with identical
// title and artist from colliding.
func BaseFilename(song models.Song) string {
	title := SanitizeName(song.Title)
	artist := SanitizeName(song.Artist)
	suffix := shared.ShortID(song.ID)

	if artist == "" {
		return fmt.Sprintf("%s [%s]", title, suffix)
	}
	return fmt.Sprintf("%s - %s [%s]", artist, title, suffix)
}

// Plan computes the destination-relative path for a song.
//
// In flat layout a non-empty existingPath (the path the manifest already
// tracks for this song) is reused verbatim, so a random prefix chosen on a
// previous sync keeps the same play order on every run. Two different songs
// that plan to an identical path resolve as last-write-wins in the manifest;
// the ID suffix makes that practically unreachable.
func Plan(song models.Song, playlistFolder string, config *device.Config, existingPath string) string {
	if config.Layout == device.LayoutFlat && existingPath != "" {
		return existingPath
	}

	filename := BaseFilename(song) + "." + config.TargetFormat()

	if config.Layout == device.LayoutFlat {
		if config.RandomizeFlat {
			return randomPrefix() + "_" + filename
		}
		return filename
	}

	if playlistFolder == "" {
		return filename
	}
	return SanitizeName(playlistFolder) + "/" + filename
}
