package shots

import (
	"fmt"
	"iter"

	"stlviz/internal/framer"
	"stlviz/internal/mathutil"
	"stlviz/internal/scene"
)

// Host is the part of the scene host a Planner drives.
type Host interface {
	WorldCorners(s *scene.Subject) [8]mathutil.Vec3
	SetRotation(s *scene.Subject, axis scene.Axis, angle float64)
	Lens(c *scene.Camera) framer.Lens
	SetCameraPose(c *scene.Camera, pose framer.CameraPose)
	Render(outputPath string) error
}

// CaptureRequest is one image handed to the renderer.
type CaptureRequest struct {
	Subject string
	Spec    ShotSpec
	Pose    framer.CameraPose
	Output  string
}

// Planner walks a subject through the shot catalog: rotate, frame, render.
type Planner struct {
	Host    Host
	Catalog []ShotSpec
	Padding float64
	Ext     string // output file extension, e.g. "JPEG"
}

// NewPlanner returns a planner over the default catalog with padding 1.
func NewPlanner(h Host, ext string) *Planner {
	return &Planner{Host: h, Catalog: DefaultCatalog(), Padding: 1, Ext: ext}
}

// Plan yields the planner's catalog lazily.
func (p *Planner) Plan() iter.Seq[ShotSpec] {
	return Plan(p.Catalog)
}

// Shoot captures every catalog entry of sub, loaded from modelPath, through
// cam, one blocking render at a time. It stops at the first failure and
// returns the requests completed so far with the error.
func (p *Planner) Shoot(sub *scene.Subject, cam *scene.Camera, modelPath string) ([]CaptureRequest, error) {
	done := make([]CaptureRequest, 0, len(p.Catalog))
	for spec := range p.Plan() {
		req, err := p.Frame(sub, cam, modelPath, spec)
		if err != nil {
			return done, err
		}
		if err := p.Host.Render(req.Output); err != nil {
			return done, fmt.Errorf("shots: %s %s: %w", sub.Name, spec, err)
		}
		done = append(done, req)
	}
	return done, nil
}

// Frame rotates sub to spec's heading and poses cam for it without rendering.
func (p *Planner) Frame(sub *scene.Subject, cam *scene.Camera, modelPath string, spec ShotSpec) (CaptureRequest, error) {
	p.Host.SetRotation(sub, scene.Z, spec.Heading())

	corners := p.Host.WorldCorners(sub)
	if framer.SphereFromCorners(corners).Degenerate() {
		return CaptureRequest{}, fmt.Errorf("shots: %s: zero-extent bounds: %w", sub.Name, framer.ErrDegenerateGeometry)
	}

	pose, err := framer.Frame(corners, p.Host.Lens(cam), spec.TiltDegrees, p.Padding)
	if err != nil {
		return CaptureRequest{}, fmt.Errorf("shots: %s %s: %w", sub.Name, spec, err)
	}
	p.Host.SetCameraPose(cam, pose)

	return CaptureRequest{
		Subject: sub.Name,
		Spec:    spec,
		Pose:    pose,
		Output:  OutputPath(modelPath, spec, p.Ext),
	}, nil
}
