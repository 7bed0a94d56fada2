package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"stlviz/internal/config"
	"stlviz/internal/discover"
	"stlviz/internal/framer"
	"stlviz/internal/imageio"
	"stlviz/internal/pipeline"
	"stlviz/internal/scene"
	"stlviz/internal/shots"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	inputDir := flag.String("input", "", "Directory searched recursively for .stl files")
	format := flag.String("format", "", "Image format: JPEG, PNG, BMP, TIFF, TARGA, WEBP (default: JPEG)")
	width := flag.Int("width", 0, "Output width in pixels (default: 2668)")
	height := flag.Int("height", 0, "Output height in pixels (default: 2001)")
	supersample := flag.Int("supersample", 0, "Render at N× resolution and downsample (default: 1)")
	manifest := flag.String("manifest", "", "Write a JSON run manifest to this path")
	stopOnError := flag.Bool("stop-on-error", false, "Stop the run at the first failed model")
	testN := flag.Int("test", 0, "Render only the first N models for testing")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:    *inputDir,
		Format:      *format,
		Width:       *width,
		Height:      *height,
		Supersample: *supersample,
		Manifest:    *manifest,
		StopOnError: *stopOnError,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	models, err := discover.Walk(cfg.InputDir, func(dir string, err error) {
		fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", dir, err)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(models) {
		models = models[:*testN]
	}

	if len(models) == 0 {
		fmt.Println("No models to render.")
		os.Exit(0)
	}

	imgFormat, _ := imageio.ParseFormat(cfg.Format)
	proj := framer.Perspective
	if cfg.Orthographic {
		proj = framer.Orthographic
	}
	host, err := scene.NewSoft(scene.Options{
		Render: scene.RenderSettings{
			Format:      imgFormat,
			Width:       cfg.Width,
			Height:      cfg.Height,
			Supersample: cfg.Supersample,
			Quality:     cfg.Quality,
		},
		Projection:  proj,
		FocalLength: cfg.LensMM,
		SensorWidth: cfg.SensorMM,
		SunEnergy:   cfg.LightEnergy,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("STL multi-angle renderer → %s\n", cfg.Format)
	fmt.Printf("Models: %d, Shots per model: %d\n", len(models), shots.TopShots+shots.BottomShots)
	fmt.Printf("Input: %s\n", cfg.InputDir)
	fmt.Printf("Resolution: %dx%d\n", cfg.Width, cfg.Height)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	p := pipeline.New(pipeline.Config{
		Host:        host,
		Catalog:     shots.Catalog(*cfg.TopTilt, *cfg.BottomTilt),
		Padding:     *cfg.Padding,
		Ext:         cfg.Format,
		StopOnError: cfg.StopOnError,
		Logger:      log.New(os.Stdout, "", 0),
		Progress:    2 * time.Second,
	})
	results := p.Run(models)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []pipeline.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(models))
	if skipped := len(models) - len(results); skipped > 0 {
		fmt.Printf("Not attempted: %d\n", skipped)
	}

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	if cfg.Manifest != "" {
		if err := pipeline.WriteManifest(cfg.Manifest, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", cfg.Manifest)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
