// Package scene is the explicit scene context a capture run works against:
// the subject being photographed, the camera and the light, plus the host
// operations that import, move and render them.
package scene

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"stlviz/internal/framer"
	"stlviz/internal/imageio"
	"stlviz/internal/mathutil"
	"stlviz/internal/stlmesh"
)

var (
	// ErrImport wraps failures to read a model file.
	ErrImport = stlmesh.ErrImport

	// ErrRender wraps failures to produce or write an output image.
	ErrRender = errors.New("render failed")
)

// Axis selects a rotation axis. Z is vertical.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// Material is a flat surface colour.
type Material struct {
	Name      string
	BaseColor [4]float64 // linear RGBA
}

// NeutralMaterial returns the light grey material subjects are shot in.
func NeutralMaterial() *Material {
	return &Material{Name: "NeutralMaterial", BaseColor: [4]float64{0.8, 0.8, 0.8, 1}}
}

// Subject is an imported mesh placed in the scene.
type Subject struct {
	Name     string
	Mesh     *stlmesh.Mesh
	Location mathutil.Vec3
	Rotation mathutil.Vec3 // Euler XYZ, radians
	Material *Material
}

// MatrixWorld returns the subject's local-to-world transform.
func (s *Subject) MatrixWorld() mathutil.Mat4 {
	return mathutil.FromMat3Translation(mathutil.EulerXYZ(s.Rotation), s.Location)
}

// WorldCorners returns the subject's local bounding box corners in world space.
func (s *Subject) WorldCorners() [8]mathutil.Vec3 {
	m := s.MatrixWorld()
	corners := s.Mesh.Corners()
	for i := range corners {
		corners[i] = m.MulPoint(corners[i])
	}
	return corners
}

// WorldTriangles returns the subject's triangles in world space.
func (s *Subject) WorldTriangles() [][3]mathutil.Vec3 {
	m := s.MatrixWorld()
	out := make([][3]mathutil.Vec3, len(s.Mesh.Tris))
	for i, t := range s.Mesh.Tris {
		out[i] = [3]mathutil.Vec3{m.MulPoint(t[0]), m.MulPoint(t[1]), m.MulPoint(t[2])}
	}
	return out
}

// Camera is the scene's camera object.
type Camera struct {
	Name        string
	Projection  framer.Projection
	FocalLength float64 // mm
	SensorWidth float64 // mm
	Pose        framer.CameraPose
}

// FovY returns the vertical field of view for a width×height frame. The
// sensor spans the longer image side.
func (c *Camera) FovY(width, height int) float64 {
	sensor := c.SensorWidth
	if width >= height && width > 0 {
		sensor = c.SensorWidth * float64(height) / float64(width)
	}
	return 2 * math.Atan(sensor/(2*c.FocalLength))
}

// Light is a sun light; only its orientation affects shading.
type Light struct {
	Name     string
	Energy   float64
	Location mathutil.Vec3
	Rotation mathutil.Vec3 // Euler XYZ, radians
}

// Direction returns the direction the light travels (its local -Z).
func (l *Light) Direction() mathutil.Vec3 {
	return mathutil.EulerXYZ(l.Rotation).MulVec3(mathutil.Vec3{0, 0, -1})
}

// RenderSettings control output images.
type RenderSettings struct {
	Format      imageio.Format
	Width       int
	Height      int
	Supersample int
	Quality     int
	Background  color.NRGBA
}

// Host is the scene host a capture run drives.
type Host interface {
	// Clear removes subjects and materials. Camera and light persist.
	Clear()
	ImportMesh(path string) (*Subject, error)
	SetOriginToBounds(s *Subject)
	AssignMaterial(s *Subject, m *Material)
	WorldCorners(s *Subject) [8]mathutil.Vec3
	SetRotation(s *Subject, axis Axis, angle float64)
	SetPosition(s *Subject, p mathutil.Vec3)
	EnsureCamera() *Camera
	Lens(c *Camera) framer.Lens
	SetCameraPose(c *Camera, pose framer.CameraPose)
	EnsureLight() *Light
	Render(outputPath string) error
}

// SubjectName names a model after its file: the base name up to its first
// '.', so "dir/gear.v2.stl" is "gear".
func SubjectName(path string) string {
	name, _, _ := strings.Cut(filepath.Base(path), ".")
	return name
}

func validateSettings(rs RenderSettings) error {
	if rs.Width <= 0 || rs.Height <= 0 {
		return fmt.Errorf("resolution %dx%d", rs.Width, rs.Height)
	}
	return nil
}
