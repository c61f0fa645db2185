package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	FFmpeg   FFmpegConfig   `toml:"ffmpeg"`
	Sync     SyncConfig     `toml:"sync"`
	Scan     ScanConfig     `toml:"scan"`
}

// DatabaseConfig contains library catalog database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// FFmpegConfig contains the transcoder binary location and the fixed
// device-wide quality policy.
type FFmpegConfig struct {
	Binary     string `toml:"binary"`
	Bitrate    string `toml:"bitrate"`
	SampleRate int    `toml:"sample_rate"`
	Channels   int    `toml:"channels"`
}

// SyncConfig contains device sync tunables.
type SyncConfig struct {
	SafetyFloorBytes   int64 `toml:"safety_floor_bytes"`
	SpaceCheckInterval int   `toml:"space_check_interval"`
}

// ScanConfig contains library folder scan settings.
type ScanConfig struct {
	Patterns  []string `toml:"patterns"`
	RateLimit float64  `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
