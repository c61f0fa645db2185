package device

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ormimu/ormimu/internal/shared"
)

const (
	// ConfigFileName is the device config document at the destination root.
	ConfigFileName = "ormimu_config.json"
	// ManifestFileName is the sync ledger document at the destination root.
	ManifestFileName = "ormimu_manifest.json"
	// DefaultFormat is the fallback transcode target for devices with no
	// configured format list.
	DefaultFormat = "mp3"
)

// Layout controls how songs are arranged on the device.
type Layout int

const (
	// LayoutHierarchical creates one sub-folder per playlist; a song that
	// belongs to several playlists is duplicated into each folder.
	LayoutHierarchical Layout = iota
	// LayoutFlat places every song in the device root, de-duplicated by
	// song identity.
	LayoutFlat
)

func (l Layout) String() string {
	if l == LayoutFlat {
		return "flat"
	}
	return "hierarchical"
}

// MarshalJSON serializes the layout to the on-disk "isSimpleDevice" boolean.
func (l Layout) MarshalJSON() ([]byte, error) {
	return json.Marshal(l == LayoutFlat)
}

// UnmarshalJSON parses the on-disk "isSimpleDevice" boolean.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var flat bool
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	if flat {
		*l = LayoutFlat
	} else {
		*l = LayoutHierarchical
	}
	return nil
}

// Config is the per-device sync policy persisted at the destination root.
// JSON field names match the established on-disk format.
type Config struct {
	ID          string `json:"id"`
	Alias       string `json:"alias"`
	Description string `json:"description"`
	// SupportedFormats lists audio formats the device can play; the first
	// entry is the transcode target when a conversion is required. Never
	// empty after the first save.
	SupportedFormats []string `json:"supportedFormats"`
	Layout           Layout   `json:"isSimpleDevice"`
	// RandomizeFlat prefixes flat-layout filenames with a random 4-digit
	// number to defeat alphabetic auto-play ordering on simple devices.
	RandomizeFlat bool `json:"randomizeCopy"`
}

// DefaultConfig returns the policy applied to a never-before-seen destination.
func DefaultConfig() *Config {
	return &Config{
		ID:               shared.GenerateID(),
		Alias:            "My Device",
		SupportedFormats: []string{DefaultFormat},
		Layout:           LayoutHierarchical,
	}
}

// TargetFormat returns the format files are transcoded into.
func (c *Config) TargetFormat() string {
	if len(c.SupportedFormats) == 0 {
		return DefaultFormat
	}
	return c.SupportedFormats[0]
}

// Supports reports whether the device plays the given format natively.
func (c *Config) Supports(format string) bool {
	for _, f := range c.SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// LoadConfig reads the device config from the destination root. A missing or
// unparseable file yields (nil, nil); the caller constructs and persists a
// default. Other I/O failures are structural and returned as errors.
func LoadConfig(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, ConfigFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrConfigIO, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, nil
	}
	return &config, nil
}

// SaveConfig atomically writes the device config to the destination root.
func SaveConfig(config *Config, root string) error {
	data, err := shared.MarshalJSON(config, true)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrConfigIO, err)
	}
	if err := shared.WriteFileAtomic(filepath.Join(root, ConfigFileName), data, 0644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrConfigIO, err)
	}
	return nil
}
