package main

import (
	"flag"
	"fmt"
	"os"

	"stlviz/internal/config"
	"stlviz/internal/framer"
	"stlviz/internal/imageio"
	"stlviz/internal/mathutil"
	"stlviz/internal/scene"
	"stlviz/internal/shots"
)

// Prints mesh statistics and every planned shot without rendering.
func main() {
	width := flag.Int("width", config.DefaultWidth, "Frame width used for the field of view")
	height := flag.Int("height", config.DefaultHeight, "Frame height used for the field of view")
	ext := flag.String("format", config.DefaultFormat, "Output extension shown in paths")
	padding := flag.Float64("padding", config.DefaultPadding, "Framing padding factor")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: stlinfo [flags] <model.stl>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	host, err := scene.NewSoft(scene.Options{
		Render: scene.RenderSettings{Format: imageio.JPEG, Width: *width, Height: *height},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sub, err := host.ImportMesh(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	lo, hi := sub.Mesh.Bounds()
	size := hi.Sub(lo)
	fmt.Printf("Model: %s\n", shots.ModelName(path))
	fmt.Printf("Triangles: %d\n", len(sub.Mesh.Tris))
	fmt.Printf("BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	fmt.Printf("Size: %.3f x %.3f x %.3f\n", size[0], size[1], size[2])

	host.SetOriginToBounds(sub)
	host.SetPosition(sub, mathutil.Vec3{})
	cam := host.EnsureCamera()
	lens := host.Lens(cam)

	sphere := framer.SphereFromCorners(host.WorldCorners(sub))
	fmt.Printf("Bounding sphere radius: %.4f\n", sphere.Radius)
	fmt.Printf("Camera: %s, vertical FOV %.2f°, distance %.4f\n",
		lens.Projection, mathutil.Rad2Deg(lens.FovY), sphere.Distance(lens.FovY, *padding))
	fmt.Println("------------------------------------------------------------")

	p := &shots.Planner{Host: host, Catalog: shots.DefaultCatalog(), Padding: *padding, Ext: *ext}
	for spec := range p.Plan() {
		req, err := p.Frame(sub, cam, path, spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		pos := req.Pose.Position
		euler := req.Pose.Orientation.Euler()
		q := mathutil.Mat3ToQuat(req.Pose.Orientation)
		fmt.Printf("%-10s pos(%.3f, %.3f, %.3f) rot(%.1f°, %.1f°, %.1f°) quat(w=%.4f, %.4f, %.4f, %.4f) → %s\n",
			spec, pos[0], pos[1], pos[2],
			mathutil.Rad2Deg(euler[0]), mathutil.Rad2Deg(euler[1]), mathutil.Rad2Deg(euler[2]),
			q[3], q[0], q[1], q[2],
			req.Output)
	}
}
