package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stlviz/internal/framer"
	"stlviz/internal/imageio"
	"stlviz/internal/mathutil"
	"stlviz/internal/scene"
	"stlviz/internal/shots"
	"stlviz/internal/testutil"
)

func softHost(t *testing.T, proj framer.Projection) *scene.Soft {
	t.Helper()
	h, err := scene.NewSoft(scene.Options{
		Render:     scene.RenderSettings{Format: imageio.PNG, Width: 32, Height: 24},
		Projection: proj,
	})
	require.NoError(t, err)
	return h
}

func box(t *testing.T, dir, name string, lo, hi mathutil.Vec3) string {
	return testutil.WriteBinarySTL(t, dir, name, testutil.BoxTriangles(lo, hi))
}

func TestRunRendersEveryShot(t *testing.T) {
	dir := t.TempDir()
	a := box(t, dir, "a.stl", mathutil.Vec3{5, 5, 5}, mathutil.Vec3{7, 6, 9})
	b := box(t, filepath.Join(dir, "nested"), "b.STL", mathutil.Vec3{-1, -1, -1}, mathutil.Vec3{1, 1, 1})

	h := softHost(t, framer.Perspective)
	var logs bytes.Buffer
	p := New(Config{Host: h, Ext: "png", Logger: log.New(&logs, "", 0)})

	results := p.Run([]string{a, b})
	require.Len(t, results, 2)

	for _, r := range results {
		require.True(t, r.Success, "%s: %s", r.Name, r.Error)
		require.Len(t, r.Outputs, 12)

		seen := map[string]bool{}
		for _, out := range r.Outputs {
			seen[out] = true
			f, err := os.Open(out)
			require.NoError(t, err)
			cfg, err := png.DecodeConfig(f)
			f.Close()
			require.NoError(t, err)
			assert.Equal(t, 32, cfg.Width)
			assert.Equal(t, 24, cfg.Height)
		}
		assert.Len(t, seen, 12, "every shot writes its own file")
	}

	assert.Equal(t, filepath.Join(dir, "renders_a", "a_top_0.0.png"), results[0].Outputs[0])
	assert.Equal(t, filepath.Join(dir, "nested", "renders_b", "b_bottom_630.0.png"), results[1].Outputs[11])
	assert.Contains(t, logs.String(), "Rendering a")
	assert.Contains(t, logs.String(), "Rendering b")

	// Only the last subject remains; it was recentred at the origin.
	require.Len(t, h.Subjects(), 1)
	sub := h.Subjects()[0]
	assert.Equal(t, "b", sub.Name)
	c := h.WorldCorners(sub)
	assert.True(t, mathutil.Mean(c[:]).ApproxEqual(mathutil.Vec3{}, 1e-9))
	assert.Equal(t, scene.NeutralMaterial(), sub.Material)
}

func TestRunIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	bad := testutil.WriteFile(t, dir, "bad.stl", []byte("corrupt"))
	good := box(t, dir, "good.stl", mathutil.Vec3{0, 0, 0}, mathutil.Vec3{1, 1, 1})

	var logs bytes.Buffer
	p := New(Config{Host: softHost(t, framer.Perspective), Ext: "png", Logger: log.New(&logs, "", 0)})
	results := p.Run([]string{bad, good})

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.True(t, errors.Is(results[0].Err, scene.ErrImport))
	assert.NotEmpty(t, results[0].Error)
	assert.Contains(t, logs.String(), "bad: ")
	assert.True(t, results[1].Success)
	assert.Len(t, results[1].Outputs, 12)
}

func TestRunStopOnError(t *testing.T) {
	dir := t.TempDir()
	bad := testutil.WriteFile(t, dir, "bad.stl", []byte("corrupt"))
	good := box(t, dir, "good.stl", mathutil.Vec3{0, 0, 0}, mathutil.Vec3{1, 1, 1})

	p := New(Config{Host: softHost(t, framer.Perspective), Ext: "png", StopOnError: true})
	results := p.Run([]string{bad, good})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	_, err := os.Stat(filepath.Join(dir, "renders_good"))
	assert.True(t, os.IsNotExist(err), "later models are not attempted")
}

func TestRunDegenerateAndOrthographic(t *testing.T) {
	dir := t.TempDir()
	flat := box(t, dir, "flat.stl", mathutil.Vec3{1, 1, 1}, mathutil.Vec3{1, 1, 1})
	p := New(Config{Host: softHost(t, framer.Perspective), Ext: "png"})
	results := p.Run([]string{flat})
	require.Len(t, results, 1)
	assert.True(t, errors.Is(results[0].Err, framer.ErrDegenerateGeometry), "%v", results[0].Err)

	cube := box(t, dir, "cube.stl", mathutil.Vec3{0, 0, 0}, mathutil.Vec3{1, 1, 1})
	p = New(Config{Host: softHost(t, framer.Orthographic), Ext: "png"})
	results = p.Run([]string{cube})
	require.Len(t, results, 1)
	assert.True(t, errors.Is(results[0].Err, framer.ErrUnsupportedProjection), "%v", results[0].Err)
	assert.Empty(t, results[0].Outputs)
}

func TestRunCustomCatalog(t *testing.T) {
	dir := t.TempDir()
	m := box(t, dir, "m.stl", mathutil.Vec3{0, 0, 0}, mathutil.Vec3{2, 1, 1})
	p := New(Config{
		Host:    softHost(t, framer.Perspective),
		Ext:     "png",
		Catalog: shots.Catalog(45, -5)[:2],
		Padding: 1.3,
	})
	results := p.Run([]string{m})
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Len(t, results[0].Outputs, 2)
}

func TestPlaceLight(t *testing.T) {
	l := &scene.Light{}
	corners := [8]mathutil.Vec3{{-1, -2, -3}, {1, 2, 3}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	placeLight(l, corners)
	assert.Equal(t, mathutil.Vec3{0, -6, 12}, l.Location)
	assert.Equal(t, scene.DefaultSunRotation, l.Rotation)
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "manifest.json")
	results := []Result{
		{Model: "/m/a.stl", Name: "a", Outputs: []string{"/m/renders_a/a_top_0.0.JPEG"}, Success: true},
		{Model: "/m/b.stl", Name: "b", Error: "import failed", Err: scene.ErrImport},
	}
	require.NoError(t, WriteManifest(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 2, m.Models)
	assert.Equal(t, 1, m.Succeeded)
	assert.Equal(t, 1, m.Failed)
	assert.Equal(t, "import failed", m.Results[1].Error)
	assert.Nil(t, m.Results[1].Err)
}
