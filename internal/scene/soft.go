package scene

import (
	"fmt"
	"image/color"

	"stlviz/internal/framer"
	"stlviz/internal/imageio"
	"stlviz/internal/mathutil"
	"stlviz/internal/postprocess"
	"stlviz/internal/raster"
	"stlviz/internal/stlmesh"
)

// Default object settings.
const (
	CameraName       = "Camera"
	LightName        = "Directional Light"
	DefaultFocal     = 50.0
	DefaultSensor    = 36.0
	DefaultSunEnergy = 3.0
)

// DefaultSunRotation tilts the sun 45° about X then 45° about Z.
var DefaultSunRotation = mathutil.Vec3{0.785, 0, 0.785}

// DefaultBackground is the world colour behind subjects.
var DefaultBackground = color.NRGBA{R: 64, G: 64, B: 64, A: 255}

// Options configure a Soft host.
type Options struct {
	Render      RenderSettings
	Projection  framer.Projection
	FocalLength float64  // mm, default 50
	SensorWidth float64  // mm, default 36
	SunEnergy   *float64 // nil means 3; zero is an unlit sun
}

// Soft is an in-process Host that renders with the software rasterizer.
// It is not safe for concurrent use.
type Soft struct {
	opts     Options
	subjects []*Subject
	camera   *Camera
	light    *Light
}

// NewSoft returns an empty scene with the given render settings.
func NewSoft(opts Options) (*Soft, error) {
	if err := validateSettings(opts.Render); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if opts.Render.Supersample < 1 {
		opts.Render.Supersample = 1
	}
	if opts.Render.Quality <= 0 {
		opts.Render.Quality = 90
	}
	if opts.FocalLength <= 0 {
		opts.FocalLength = DefaultFocal
	}
	if opts.SensorWidth <= 0 {
		opts.SensorWidth = DefaultSensor
	}
	if opts.SunEnergy == nil {
		e := DefaultSunEnergy
		opts.SunEnergy = &e
	} else if *opts.SunEnergy < 0 {
		return nil, fmt.Errorf("scene: negative sun energy %g", *opts.SunEnergy)
	}
	return &Soft{opts: opts}, nil
}

// Settings returns the active render settings.
func (s *Soft) Settings() RenderSettings {
	return s.opts.Render
}

// Subjects returns the subjects currently in the scene.
func (s *Soft) Subjects() []*Subject {
	return s.subjects
}

func (s *Soft) Clear() {
	s.subjects = nil
}

func (s *Soft) ImportMesh(path string) (*Subject, error) {
	mesh, err := stlmesh.Load(path)
	if err != nil {
		return nil, fmt.Errorf("scene: import %s: %w", path, err)
	}
	sub := &Subject{Name: SubjectName(path), Mesh: mesh}
	s.subjects = append(s.subjects, sub)
	return sub, nil
}

// SetOriginToBounds moves the subject's origin to its bounding box centre
// without moving the geometry in world space.
func (s *Soft) SetOriginToBounds(sub *Subject) {
	off := sub.Mesh.CenterOnBounds()
	sub.Location = sub.Location.Add(mathutil.EulerXYZ(sub.Rotation).MulVec3(off))
}

func (s *Soft) AssignMaterial(sub *Subject, m *Material) {
	sub.Material = m
}

func (s *Soft) WorldCorners(sub *Subject) [8]mathutil.Vec3 {
	return sub.WorldCorners()
}

func (s *Soft) SetRotation(sub *Subject, axis Axis, angle float64) {
	sub.Rotation[axis] = angle
}

func (s *Soft) SetPosition(sub *Subject, p mathutil.Vec3) {
	sub.Location = p
}

// EnsureCamera returns the scene camera, creating it on first use.
func (s *Soft) EnsureCamera() *Camera {
	if s.camera == nil {
		s.camera = &Camera{
			Name:        CameraName,
			Projection:  s.opts.Projection,
			FocalLength: s.opts.FocalLength,
			SensorWidth: s.opts.SensorWidth,
			Pose:        framer.CameraPose{Orientation: mathutil.Mat3Identity()},
		}
	}
	return s.camera
}

func (s *Soft) Lens(c *Camera) framer.Lens {
	return framer.Lens{
		Projection: c.Projection,
		FovY:       c.FovY(s.opts.Render.Width, s.opts.Render.Height),
	}
}

func (s *Soft) SetCameraPose(c *Camera, pose framer.CameraPose) {
	c.Pose = pose
}

// EnsureLight returns the scene's sun light, creating it on first use.
func (s *Soft) EnsureLight() *Light {
	if s.light == nil {
		s.light = &Light{
			Name:     LightName,
			Energy:   *s.opts.SunEnergy,
			Rotation: DefaultSunRotation,
		}
	}
	return s.light
}

// Render draws every subject through the camera and writes the image to
// outputPath, creating directories as needed.
func (s *Soft) Render(outputPath string) error {
	rs := s.opts.Render
	cam := s.camera
	if cam == nil {
		return fmt.Errorf("scene: render %s: no camera: %w", outputPath, ErrRender)
	}
	if cam.Projection != framer.Perspective {
		return fmt.Errorf("scene: render %s: %s camera: %w", outputPath, cam.Projection, ErrRender)
	}

	view := raster.View{
		Pose:   cam.Pose,
		FovY:   cam.FovY(rs.Width, rs.Height),
		Width:  rs.Width * rs.Supersample,
		Height: rs.Height * rs.Supersample,
	}

	sunDir, energy := mathutil.Vec3{0, 0, -1}, 0.0
	if s.light != nil {
		sunDir, energy = s.light.Direction(), s.light.Energy
	}
	lc := raster.NewLightConfig(sunDir, cam.Pose.Forward(), energy)

	batches := make([]raster.Batch, 0, len(s.subjects))
	for _, sub := range s.subjects {
		m := sub.Material
		if m == nil {
			m = NeutralMaterial()
		}
		batches = append(batches, raster.Batch{
			Tris:  sub.WorldTriangles(),
			Color: [3]float64{m.BaseColor[0], m.BaseColor[1], m.BaseColor[2]},
		})
	}

	bg := rs.Background
	if bg == (color.NRGBA{}) {
		bg = DefaultBackground
	}
	img := raster.Render(batches, view, &lc, bg)
	if rs.Supersample > 1 {
		img = postprocess.Downsample(img, rs.Width, rs.Height)
	}

	if err := imageio.Save(outputPath, img, rs.Format, rs.Quality); err != nil {
		return fmt.Errorf("scene: render %s: %w: %v", outputPath, ErrRender, err)
	}
	return nil
}
