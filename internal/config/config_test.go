package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadJSONAndTOMLAgree(t *testing.T) {
	jsonPath := write(t, "c.json", `{
  "input_dir": "/models",
  "format": "PNG",
  "width": 640,
  "height": 480,
  "top_tilt_degrees": 30,
  "bottom_tilt_degrees": 0,
  "padding": 1.25,
  "stop_on_error": true
}`)
	tomlPath := write(t, "c.toml", `
input_dir = "/models"
format = "PNG"
width = 640
height = 480
top_tilt_degrees = 30.0
bottom_tilt_degrees = 0.0
padding = 1.25
stop_on_error = true
`)

	a, err := Load(jsonPath)
	require.NoError(t, err)
	b, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	assert.Equal(t, "PNG", a.Format)
	require.NotNil(t, a.BottomTilt)
	assert.Equal(t, 0.0, *a.BottomTilt, "explicit zero tilt survives")
	assert.True(t, a.StopOnError)
}

func TestExplicitZeroesSurviveResolve(t *testing.T) {
	c, err := Load(write(t, "z.toml", "input_dir = \"/in\"\npadding = 0.0\nlight_energy = 0.0\n"))
	require.NoError(t, err)
	c.Resolve(Flags{})

	require.NotNil(t, c.Padding)
	assert.Equal(t, 0.0, *c.Padding)
	assert.ErrorContains(t, c.Validate(), "padding")

	*c.Padding = 1
	assert.Equal(t, 0.0, *c.LightEnergy)
	assert.NoError(t, c.Validate(), "unlit renders are allowed")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(write(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "config: parse")

	_, err = Load(write(t, "bad.toml", "width = ["))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolveDefaults(t *testing.T) {
	var c Config
	c.Resolve(Flags{InputDir: "/in"})

	assert.Equal(t, "/in", c.InputDir)
	assert.Equal(t, DefaultFormat, c.Format)
	assert.Equal(t, DefaultWidth, c.Width)
	assert.Equal(t, DefaultHeight, c.Height)
	assert.Equal(t, DefaultTopTilt, *c.TopTilt)
	assert.Equal(t, DefaultBottomTilt, *c.BottomTilt)
	assert.Equal(t, DefaultPadding, *c.Padding)
	assert.Equal(t, DefaultLightEnergy, *c.LightEnergy)
	assert.Equal(t, DefaultQuality, c.Quality)
	assert.False(t, c.StopOnError)
	assert.NoError(t, c.Validate())
}

func TestResolveFlagsOverride(t *testing.T) {
	c := Config{InputDir: "/file", Format: "PNG", Width: 100}
	c.Resolve(Flags{InputDir: "/flag", Format: "WEBP", Height: 50, StopOnError: true})

	assert.Equal(t, "/flag", c.InputDir)
	assert.Equal(t, "WEBP", c.Format)
	assert.Equal(t, 100, c.Width)
	assert.Equal(t, 50, c.Height)
	assert.True(t, c.StopOnError)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.Resolve(Flags{InputDir: "/in"})
		return c
	}

	for name, mutate := range map[string]func(*Config){
		"input":       func(c *Config) { c.InputDir = "" },
		"format":      func(c *Config) { c.Format = "EXR" },
		"width":       func(c *Config) { c.Width = -1 },
		"supersample": func(c *Config) { c.Supersample = 0 },
		"quality":     func(c *Config) { c.Quality = 101 },
		"padding":     func(c *Config) { *c.Padding = -1 },
		"no padding":  func(c *Config) { *c.Padding = 0 },
		"energy":      func(c *Config) { *c.LightEnergy = -1 },
		"lens":        func(c *Config) { c.LensMM = -5 },
	} {
		c := base()
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}
}
