package planner

import (
	"strings"
	"testing"

	"github.com/ormimu/ormimu/internal/device"
	"github.com/ormimu/ormimu/internal/models"
)

func fixedPrefix(t *testing.T, value string) {
	t.Helper()
	original := randomPrefix
	randomPrefix = func() string { return value }
	t.Cleanup(func() { randomPrefix = original })
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean name unchanged", "Road Trip", "Road Trip"},
		{"slash replaced", "AC/DC", "AC_DC"},
		{"every illegal char replaced", `a:b/c\d?e%f*g|h"i<j>k`, "a_b_c_d_e_f_g_h_i_j_k"},
		{"consecutive illegal chars keep width", "a//b", "a__b"},
		{"empty string", "", ""},
		{"unicode preserved", "Köln 60s", "Köln 60s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.expected {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBaseFilename(t *testing.T) {
	song := models.Song{ID: "abcd1234-0000", Title: "Thunderstruck", Artist: "AC/DC"}
	if got := BaseFilename(song); got != "AC_DC - Thunderstruck [abcd]" {
		t.Errorf("BaseFilename() = %q", got)
	}

	noArtist := models.Song{ID: "efgh5678-0000", Title: "Untitled"}
	if got := BaseFilename(noArtist); got != "Untitled [efgh]" {
		t.Errorf("BaseFilename() without artist = %q", got)
	}
}

func TestPlanHierarchical(t *testing.T) {
	config := &device.Config{
		SupportedFormats: []string{"mp3"},
		Layout:           device.LayoutHierarchical,
	}
	song := models.Song{ID: "abcd1234", Title: "Song", Artist: "Artist"}

	got := Plan(song, "Road/Trip", config, "")
	want := "Road_Trip/Artist - Song [abcd].mp3"
	if got != want {
		t.Errorf("Plan() = %q, want %q", got, want)
	}

	// No playlist folder puts the file at the root.
	if got := Plan(song, "", config, ""); got != "Artist - Song [abcd].mp3" {
		t.Errorf("Plan() without folder = %q", got)
	}
}

func TestPlanFlat(t *testing.T) {
	song := models.Song{ID: "abcd1234", Title: "Song", Artist: "Artist"}

	t.Run("plain flat has no folder", func(t *testing.T) {
		config := &device.Config{SupportedFormats: []string{"ogg"}, Layout: device.LayoutFlat}
		got := Plan(song, "Road Trip", config, "")
		if got != "Artist - Song [abcd].ogg" {
			t.Errorf("Plan() = %q", got)
		}
		if strings.Contains(got, "/") {
			t.Errorf("flat layout path contains a folder: %q", got)
		}
	})

	t.Run("randomized flat gets a prefix", func(t *testing.T) {
		fixedPrefix(t, "0042")
		config := &device.Config{
			SupportedFormats: []string{"mp3"},
			Layout:           device.LayoutFlat,
			RandomizeFlat:    true,
		}
		got := Plan(song, "", config, "")
		if got != "0042_Artist - Song [abcd].mp3" {
			t.Errorf("Plan() = %q", got)
		}
	})

	t.Run("existing path reused verbatim", func(t *testing.T) {
		fixedPrefix(t, "9999")
		config := &device.Config{
			SupportedFormats: []string{"mp3"},
			Layout:           device.LayoutFlat,
			RandomizeFlat:    true,
		}
		got := Plan(song, "", config, "0042_Artist - Song [abcd].mp3")
		if got != "0042_Artist - Song [abcd].mp3" {
			t.Errorf("Plan() did not reuse existing path: %q", got)
		}
	})

	t.Run("existing path ignored in hierarchical layout", func(t *testing.T) {
		config := &device.Config{SupportedFormats: []string{"mp3"}, Layout: device.LayoutHierarchical}
		got := Plan(song, "Mix", config, "stale.mp3")
		if got != "Mix/Artist - Song [abcd].mp3" {
			t.Errorf("Plan() = %q", got)
		}
	})
}

func TestPlanUsesTargetFormat(t *testing.T) {
	config := &device.Config{
		SupportedFormats: []string{"ogg", "mp3"},
		Layout:           device.LayoutHierarchical,
	}
	song := models.Song{ID: "abcd1234", Title: "Song", Artist: "Artist", FilePath: "/music/song.flac"}

	got := Plan(song, "Mix", config, "")
	if !strings.HasSuffix(got, ".ogg") {
		t.Errorf("Plan() = %q, want first supported format as extension", got)
	}
}
