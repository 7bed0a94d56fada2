// Package raster is a small software renderer: perspective projection through
// a camera pose, z-buffered flat-shaded triangles, one sun light.
package raster

import (
	"image"
	"image/color"
	"math"

	"stlviz/internal/framer"
	"stlviz/internal/mathutil"
)

const (
	// nearPlane is the minimum depth Project accepts.
	nearPlane = 1e-6
	// clipDepth is where triangles crossing in front of the camera are cut.
	clipDepth = 1e-4
)

// View is the camera a frame is rendered through.
type View struct {
	Pose   framer.CameraPose
	FovY   float64 // radians
	Width  int
	Height int
}

// Project maps a world point to pixel coordinates and inverse view depth.
// ok is false for points at or behind the near plane.
func (v View) Project(p mathutil.Vec3) (sx, sy, invDepth float64, ok bool) {
	return v.projectCamera(v.toCamera(p))
}

// toCamera maps a world point into camera space (x right, y up, -z forward).
func (v View) toCamera(p mathutil.Vec3) mathutil.Vec3 {
	return v.Pose.Orientation.Transpose().MulVec3(p.Sub(v.Pose.Position))
}

func (v View) projectCamera(c mathutil.Vec3) (sx, sy, invDepth float64, ok bool) {
	depth := -c[2]
	if depth <= nearPlane {
		return 0, 0, 0, false
	}
	f := 1 / math.Tan(v.FovY/2)
	aspect := float64(v.Width) / float64(v.Height)

	ndcX := c[0] * f / (aspect * depth)
	ndcY := c[1] * f / depth

	sx = (ndcX + 1) * 0.5 * float64(v.Width)
	sy = (1 - ndcY) * 0.5 * float64(v.Height)
	return sx, sy, 1 / depth, true
}

// Batch is a set of world-space triangles sharing one material colour.
type Batch struct {
	Tris  [][3]mathutil.Vec3
	Color [3]float64 // linear RGB
}

// Render rasterizes batches through view onto a bg-filled image.
func Render(batches []Batch, view View, lc *LightConfig, bg color.NRGBA) *image.NRGBA {
	fb := NewFrameBuffer(view.Width, view.Height, bg)

	for _, b := range batches {
		for _, tri := range b.Tris {
			// Face normal for flat shading
			n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
			if n.Len() < 1e-18 {
				continue
			}
			c := lc.Shade(b.Color, n.Normalize())

			poly, m := clipNear([3]mathutil.Vec3{view.toCamera(tri[0]), view.toCamera(tri[1]), view.toCamera(tri[2])})
			for i := 1; i+1 < m; i++ {
				var screen [3][3]float64
				visible := true
				for k, p := range [3]mathutil.Vec3{poly[0], poly[i], poly[i+1]} {
					sx, sy, iz, ok := view.projectCamera(p)
					if !ok {
						visible = false
						break
					}
					screen[k] = [3]float64{sx, sy, iz}
				}
				if visible {
					RasterizeTriangle(fb, screen, c)
				}
			}
		}
	}

	return fb.Image()
}

// clipNear cuts a camera-space triangle against depth clipDepth and returns
// the part in front as a convex polygon of m vertices (0, 3 or 4).
func clipNear(tri [3]mathutil.Vec3) (poly [4]mathutil.Vec3, m int) {
	for i := range 3 {
		a, b := tri[i], tri[(i+1)%3]
		da, db := -a[2]-clipDepth, -b[2]-clipDepth
		if da >= 0 {
			poly[m] = a
			m++
		}
		if (da >= 0) != (db >= 0) {
			poly[m] = a.Add(b.Sub(a).Scale(da / (da - db)))
			m++
		}
	}
	return poly, m
}
