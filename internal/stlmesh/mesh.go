// Package stlmesh loads STL files into triangle meshes.
package stlmesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/hschendel/stl"

	"stlviz/internal/mathutil"
)

// ErrImport is returned for files that cannot be read as an STL mesh.
var ErrImport = errors.New("import failed")

// Mesh holds triangle geometry in the mesh's local space.
type Mesh struct {
	Name string
	Tris [][3]mathutil.Vec3
}

// Load reads an ASCII or binary STL file.
func Load(path string) (*Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stlmesh: read %s: %w: %v", path, ErrImport, err)
	}
	if len(solid.Triangles) == 0 {
		return nil, fmt.Errorf("stlmesh: %s has no triangles: %w", path, ErrImport)
	}

	m := &Mesh{Name: solid.Name, Tris: make([][3]mathutil.Vec3, len(solid.Triangles))}
	for i, t := range solid.Triangles {
		for k, v := range t.Vertices {
			p := mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
			if math.IsNaN(p[0]+p[1]+p[2]) || math.IsInf(p[0]+p[1]+p[2], 0) {
				return nil, fmt.Errorf("stlmesh: %s triangle %d: non-finite vertex: %w", path, i, ErrImport)
			}
			m.Tris[i][k] = p
		}
	}
	return m, nil
}

// Bounds returns the axis-aligned bounding box. An empty mesh has zero bounds.
func (m *Mesh) Bounds() (lo, hi mathutil.Vec3) {
	if len(m.Tris) == 0 {
		return
	}
	lo, hi = m.Tris[0][0], m.Tris[0][0]
	for _, t := range m.Tris {
		for _, v := range t {
			lo = lo.Min(v)
			hi = hi.Max(v)
		}
	}
	return lo, hi
}

// Corners returns the 8 local-space bounding box corners, ordered by X then
// Y then Z alternating: (lo,lo,lo), (lo,lo,hi), (lo,hi,hi), (lo,hi,lo), then
// the same four with X = hi.
func (m *Mesh) Corners() [8]mathutil.Vec3 {
	lo, hi := m.Bounds()
	return BoxCorners(lo, hi)
}

// BoxCorners lists the corners of the box [lo, hi].
func BoxCorners(lo, hi mathutil.Vec3) [8]mathutil.Vec3 {
	return [8]mathutil.Vec3{
		{lo[0], lo[1], lo[2]},
		{lo[0], lo[1], hi[2]},
		{lo[0], hi[1], hi[2]},
		{lo[0], hi[1], lo[2]},
		{hi[0], lo[1], lo[2]},
		{hi[0], lo[1], hi[2]},
		{hi[0], hi[1], hi[2]},
		{hi[0], hi[1], lo[2]},
	}
}

// Translate moves every vertex by d.
func (m *Mesh) Translate(d mathutil.Vec3) {
	for i := range m.Tris {
		for k := range m.Tris[i] {
			m.Tris[i][k] = m.Tris[i][k].Add(d)
		}
	}
}

// CenterOnBounds moves the geometry so its bounding box centre is at the
// local origin and returns the offset that was removed.
func (m *Mesh) CenterOnBounds() mathutil.Vec3 {
	lo, hi := m.Bounds()
	c := lo.Add(hi).Scale(0.5)
	m.Translate(c.Scale(-1))
	return c
}

// Size returns the bounding box extent along each axis.
func (m *Mesh) Size() mathutil.Vec3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}
