// Package pipeline runs the capture sequence over a list of model files:
// each subject is imported, staged and shot through the whole catalog before
// the next one starts.
package pipeline

import (
	"io"
	"log"
	"sync/atomic"
	"time"

	"stlviz/internal/mathutil"
	"stlviz/internal/scene"
	"stlviz/internal/shots"
)

// Config holds everything a run needs.
type Config struct {
	Host        scene.Host
	Catalog     []shots.ShotSpec // defaults to shots.DefaultCatalog()
	Padding     float64          // defaults to 1
	Ext         string           // output extension, e.g. "JPEG"
	StopOnError bool             // end the run at the first failed subject
	Logger      *log.Logger      // nil discards
	Progress    time.Duration    // progress report interval, 0 disables
}

// Result holds the outcome of processing one model.
type Result struct {
	Model   string   `json:"model"`
	Name    string   `json:"name"`
	Outputs []string `json:"outputs"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`

	Err error `json:"-"`
}

// Pipeline processes models strictly one after another.
type Pipeline struct {
	cfg     Config
	planner *shots.Planner
	log     *log.Logger
}

// New builds a pipeline from cfg, filling defaults.
func New(cfg Config) *Pipeline {
	if cfg.Catalog == nil {
		cfg.Catalog = shots.DefaultCatalog()
	}
	if cfg.Padding == 0 {
		cfg.Padding = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Pipeline{
		cfg: cfg,
		planner: &shots.Planner{
			Host:    cfg.Host,
			Catalog: cfg.Catalog,
			Padding: cfg.Padding,
			Ext:     cfg.Ext,
		},
		log: logger,
	}
}

// Run processes every model in order. With StopOnError the run ends after the
// first failure and later models are not attempted.
func (p *Pipeline) Run(models []string) []Result {
	total := len(models)
	results := make([]Result, 0, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if p.cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(p.cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					n := processed.Load()
					if n > 0 {
						rate := float64(n) / time.Since(start).Seconds()
						p.log.Printf("  [%d/%d] %.2f models/sec", n, total, rate)
					}
				}
			}
		}()
	}
	defer close(done)

	for _, path := range models {
		r := p.processModel(path)
		results = append(results, r)
		processed.Add(1)
		if !r.Success {
			p.log.Printf("%s: %v", r.Name, r.Err)
			if p.cfg.StopOnError {
				break
			}
		}
	}

	return results
}

func (p *Pipeline) processModel(path string) Result {
	h := p.cfg.Host
	res := Result{Model: path, Name: shots.ModelName(path)}
	p.log.Printf("Rendering %s", res.Name)

	fail := func(err error) Result {
		res.Err = err
		res.Error = err.Error()
		return res
	}

	h.Clear()

	sub, err := h.ImportMesh(path)
	if err != nil {
		return fail(err)
	}
	h.SetOriginToBounds(sub)
	h.SetPosition(sub, mathutil.Vec3{})

	cam := h.EnsureCamera()
	h.AssignMaterial(sub, scene.NeutralMaterial())
	placeLight(h.EnsureLight(), h.WorldCorners(sub))

	reqs, err := p.planner.Shoot(sub, cam, path)
	for _, r := range reqs {
		res.Outputs = append(res.Outputs, r.Output)
	}
	if err != nil {
		return fail(err)
	}

	res.Success = true
	return res
}

// placeLight puts the sun in front of and above the subject, scaled by its
// largest extent.
func placeLight(l *scene.Light, corners [8]mathutil.Vec3) {
	lo, hi := corners[0], corners[0]
	for _, c := range corners {
		lo, hi = lo.Min(c), hi.Max(c)
	}
	center := lo.Add(hi).Scale(0.5)
	size := hi.Sub(lo).MaxComponent()
	l.Location = center.Add(mathutil.Vec3{0, -size, size * 2})
	l.Rotation = scene.DefaultSunRotation
}
