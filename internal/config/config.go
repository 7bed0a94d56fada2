package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"stlviz/internal/imageio"
)

// Defaults for a capture run.
const (
	DefaultFormat      = "JPEG"
	DefaultWidth       = 2668
	DefaultHeight      = 2001
	DefaultTopTilt     = 20.0
	DefaultBottomTilt  = -20.0
	DefaultPadding     = 1.0
	DefaultLensMM      = 50.0
	DefaultSensorMM    = 36.0
	DefaultSupersample = 1
	DefaultQuality     = 90
	DefaultLightEnergy = 3.0
)

// Config holds the input location and render settings.
type Config struct {
	// Paths
	InputDir string `json:"input_dir" toml:"input_dir"`
	Manifest string `json:"manifest" toml:"manifest"`

	// Render settings
	Format      string   `json:"format" toml:"format"`
	Width       int      `json:"width" toml:"width"`
	Height      int      `json:"height" toml:"height"`
	Supersample int      `json:"supersample" toml:"supersample"`
	Quality     int      `json:"quality" toml:"quality"`
	LightEnergy *float64 `json:"light_energy" toml:"light_energy"`

	// Camera and framing
	TopTilt      *float64 `json:"top_tilt_degrees" toml:"top_tilt_degrees"`
	BottomTilt   *float64 `json:"bottom_tilt_degrees" toml:"bottom_tilt_degrees"`
	Padding      *float64 `json:"padding" toml:"padding"`
	LensMM       float64  `json:"lens_mm" toml:"lens_mm"`
	SensorMM     float64  `json:"sensor_mm" toml:"sensor_mm"`
	Orthographic bool     `json:"orthographic" toml:"orthographic"`

	// Run policy
	StopOnError bool `json:"stop_on_error" toml:"stop_on_error"`
}

// Load reads a JSON or TOML (by .toml extension) config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir    string
	Format      string
	Width       int
	Height      int
	Supersample int
	Manifest    string
	StopOnError bool
}

// Resolve applies non-zero flags over the file values, then fills any
// remaining empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Manifest != "" {
		c.Manifest = flags.Manifest
	}
	if flags.StopOnError {
		c.StopOnError = true
	}

	if c.InputDir != "" {
		if abs, err := filepath.Abs(c.InputDir); err == nil {
			c.InputDir = abs
		}
	}

	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Supersample == 0 {
		c.Supersample = DefaultSupersample
	}
	if c.Quality == 0 {
		c.Quality = DefaultQuality
	}
	if c.LightEnergy == nil {
		v := DefaultLightEnergy
		c.LightEnergy = &v
	}
	if c.TopTilt == nil {
		v := DefaultTopTilt
		c.TopTilt = &v
	}
	if c.BottomTilt == nil {
		v := DefaultBottomTilt
		c.BottomTilt = &v
	}
	if c.Padding == nil {
		v := DefaultPadding
		c.Padding = &v
	}
	if c.LensMM == 0 {
		c.LensMM = DefaultLensMM
	}
	if c.SensorMM == 0 {
		c.SensorMM = DefaultSensorMM
	}
}

// Validate checks a resolved config.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("config: input_dir is required")
	}
	if _, err := imageio.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: format: %w", err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: resolution %dx%d must be positive", c.Width, c.Height)
	}
	if c.Supersample < 1 {
		return fmt.Errorf("config: supersample must be at least 1")
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("config: quality must be between 1 and 100")
	}
	if c.Padding == nil || *c.Padding <= 0 {
		return fmt.Errorf("config: padding must be positive")
	}
	if c.LensMM <= 0 || c.SensorMM <= 0 {
		return fmt.Errorf("config: lens_mm and sensor_mm must be positive")
	}
	if c.LightEnergy != nil && *c.LightEnergy < 0 {
		return fmt.Errorf("config: light_energy must not be negative")
	}
	return nil
}
