package shots

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stlviz/internal/framer"
	"stlviz/internal/mathutil"
	"stlviz/internal/scene"
	"stlviz/internal/stlmesh"
	"stlviz/internal/testutil"
)

// fakeHost records host calls and keeps subject state like a real scene.
type fakeHost struct {
	lens     framer.Lens
	calls    []string
	renders  []string
	headings []float64
	failAt   int // 1-based render to fail, 0 = never
}

func (h *fakeHost) WorldCorners(s *scene.Subject) [8]mathutil.Vec3 {
	h.calls = append(h.calls, "corners")
	return s.WorldCorners()
}

func (h *fakeHost) SetRotation(s *scene.Subject, axis scene.Axis, angle float64) {
	h.calls = append(h.calls, "rotate")
	s.Rotation[axis] = angle
	h.headings = append(h.headings, angle)
}

func (h *fakeHost) Lens(*scene.Camera) framer.Lens {
	return h.lens
}

func (h *fakeHost) SetCameraPose(c *scene.Camera, pose framer.CameraPose) {
	h.calls = append(h.calls, "pose")
	c.Pose = pose
}

func (h *fakeHost) Render(path string) error {
	h.calls = append(h.calls, "render")
	h.renders = append(h.renders, path)
	if h.failAt > 0 && len(h.renders) == h.failAt {
		return fmt.Errorf("disk full: %w", scene.ErrRender)
	}
	return nil
}

func boxSubject(lo, hi mathutil.Vec3) *scene.Subject {
	return &scene.Subject{Name: "part", Mesh: &stlmesh.Mesh{Tris: testutil.BoxTriangles(lo, hi)}}
}

func perspHost() *fakeHost {
	return &fakeHost{lens: framer.Lens{Projection: framer.Perspective, FovY: mathutil.Deg2Rad(30)}}
}

func TestShootFullCatalog(t *testing.T) {
	h := perspHost()
	p := NewPlanner(h, "JPEG")
	sub := boxSubject(mathutil.Vec3{-1, -2, -0.5}, mathutil.Vec3{1, 2, 0.5})
	cam := &scene.Camera{}

	reqs, err := p.Shoot(sub, cam, "/m/part.stl")
	require.NoError(t, err)
	require.Len(t, reqs, 12)
	assert.Len(t, h.renders, 12)

	// Strict per-shot order: rotate, read corners, pose, render.
	for i := 0; i < 12; i++ {
		assert.Equal(t, []string{"rotate", "corners", "pose", "render"}, h.calls[i*4:i*4+4], "shot %d", i)
	}

	for i, r := range reqs {
		assert.Equal(t, "part", r.Subject)
		assert.Equal(t, h.renders[i], r.Output)
		assert.Equal(t, r.Spec.Heading(), h.headings[i])
		if i < 4 {
			assert.Equal(t, Top, r.Spec.Tilt)
			assert.Greater(t, r.Pose.Position[2], 0.0)
		} else {
			assert.Equal(t, Bottom, r.Spec.Tilt)
			assert.Less(t, r.Pose.Position[2], 0.0)
		}
	}
	assert.Equal(t, reqs[11].Pose, cam.Pose, "camera left at last pose")
	assert.Equal(t, ShotSpec{RotationIndex: 7}.Heading(), sub.Rotation[2])
}

func TestShootFramesRotatedBounds(t *testing.T) {
	h := perspHost()
	p := NewPlanner(h, "png")
	sub := boxSubject(mathutil.Vec3{-3, -1, -1}, mathutil.Vec3{3, 1, 1})

	for spec := range p.Plan() {
		req, err := p.Frame(sub, &scene.Camera{}, "part.stl", spec)
		require.NoError(t, err)

		want, err := framer.Frame(sub.WorldCorners(), h.lens, spec.TiltDegrees, 1)
		require.NoError(t, err)
		assert.Equal(t, want, req.Pose)
	}
}

func TestShootStopsOnRenderFailure(t *testing.T) {
	h := perspHost()
	h.failAt = 5
	p := NewPlanner(h, "JPEG")

	reqs, err := p.Shoot(boxSubject(mathutil.Vec3{-1, -1, -1}, mathutil.Vec3{1, 1, 1}), &scene.Camera{}, "a.stl")
	assert.True(t, errors.Is(err, scene.ErrRender), "%v", err)
	assert.Len(t, reqs, 4)
	assert.Len(t, h.renders, 5)
}

func TestShootDegenerate(t *testing.T) {
	h := perspHost()
	p := NewPlanner(h, "JPEG")
	point := mathutil.Vec3{1, 1, 1}

	reqs, err := p.Shoot(boxSubject(point, point), &scene.Camera{}, "a.stl")
	assert.True(t, errors.Is(err, framer.ErrDegenerateGeometry), "%v", err)
	assert.Empty(t, reqs)
	assert.Empty(t, h.renders)
}

func TestShootUnsupportedProjection(t *testing.T) {
	h := &fakeHost{lens: framer.Lens{Projection: framer.Orthographic, FovY: 0.5}}
	p := NewPlanner(h, "JPEG")
	cam := &scene.Camera{}

	reqs, err := p.Shoot(boxSubject(mathutil.Vec3{-1, -1, -1}, mathutil.Vec3{1, 1, 1}), cam, "a.stl")
	assert.True(t, errors.Is(err, framer.ErrUnsupportedProjection), "%v", err)
	assert.Empty(t, reqs)
	assert.Empty(t, h.renders)
	assert.NotContains(t, h.calls, "pose")
}

func TestCustomTilts(t *testing.T) {
	p := &Planner{Host: perspHost(), Catalog: Catalog(35, -10), Padding: 1.2, Ext: "png"}
	var tilts []float64
	for s := range p.Plan() {
		tilts = append(tilts, s.TiltDegrees)
	}
	assert.Equal(t, []float64{35, 35, 35, 35, -10, -10, -10, -10, -10, -10, -10, -10}, tilts)
}
