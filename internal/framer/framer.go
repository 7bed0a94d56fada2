// Package framer derives a camera pose that fits a mesh's bounding geometry
// into a perspective camera's vertical field of view.
package framer

import (
	"errors"
	"fmt"
	"math"

	"stlviz/internal/mathutil"
)

var (
	// ErrUnsupportedProjection is returned when the camera is not a usable
	// perspective camera. No pose is produced.
	ErrUnsupportedProjection = errors.New("unsupported projection")

	// ErrDegenerateGeometry marks a subject whose bounding sphere has no extent.
	// Frame itself never returns it; callers check BoundingSphere.Degenerate.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// Projection is the camera projection type.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	switch p {
	case Perspective:
		return "PERSP"
	case Orthographic:
		return "ORTHO"
	}
	return fmt.Sprintf("Projection(%d)", int(p))
}

// Lens describes the camera optics that framing depends on.
type Lens struct {
	Projection Projection
	FovY       float64 // vertical field of view, radians
}

// CameraPose is a world-space camera placement. Orientation columns are the
// camera's right, up and back axes; the camera looks along -back.
type CameraPose struct {
	Position    mathutil.Vec3
	Orientation mathutil.Mat3
}

// Forward returns the camera's viewing direction.
func (p CameraPose) Forward() mathutil.Vec3 {
	return p.Orientation.Col(2).Scale(-1)
}

// BoundingSphere approximates the sphere enclosing a box: centre is the mean of
// the corners, radius the largest centre-to-corner distance.
type BoundingSphere struct {
	Center mathutil.Vec3
	Radius float64
}

// SphereFromCorners computes the bounding sphere of a box's 8 world-space corners.
func SphereFromCorners(corners [8]mathutil.Vec3) BoundingSphere {
	center := mathutil.Mean(corners[:])
	var radius float64
	for _, c := range corners {
		radius = math.Max(radius, c.Dist(center))
	}
	return BoundingSphere{Center: center, Radius: radius}
}

// Degenerate reports whether the sphere has (effectively) zero extent.
func (s BoundingSphere) Degenerate() bool {
	return s.Radius <= 1e-12
}

// Distance returns how far from the centre a camera with vertical field of
// view fovY must sit for the padded sphere to exactly fill the view.
func (s BoundingSphere) Distance(fovY, padding float64) float64 {
	return s.Radius * padding / math.Sin(fovY/2)
}

// Frame places a camera on the -Y side of the corners' bounding sphere,
// raised by tiltDeg degrees (positive looks down on the subject, negative
// looks up), far enough back that the sphere scaled by padding fits the
// vertical field of view. The camera looks at the sphere centre with world Z up.
//
// Padding below 1 is accepted and frames tighter than the sphere.
func Frame(corners [8]mathutil.Vec3, lens Lens, tiltDeg, padding float64) (CameraPose, error) {
	if lens.Projection != Perspective {
		return CameraPose{}, fmt.Errorf("framer: camera is %s: %w", lens.Projection, ErrUnsupportedProjection)
	}
	if !(lens.FovY > 0 && lens.FovY < math.Pi) {
		return CameraPose{}, fmt.Errorf("framer: vertical fov %g rad: %w", lens.FovY, ErrUnsupportedProjection)
	}

	sphere := SphereFromCorners(corners)
	dist := sphere.Distance(lens.FovY, padding)

	tilt := mathutil.Deg2Rad(tiltDeg)
	offset := mathutil.Vec3{0, -dist * math.Cos(tilt), dist * math.Sin(tilt)}
	pos := sphere.Center.Add(offset)

	return CameraPose{
		Position:    pos,
		Orientation: mathutil.LookAt(sphere.Center.Sub(pos), mathutil.AxisZ),
	}, nil
}
