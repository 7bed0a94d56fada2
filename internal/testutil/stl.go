// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"stlviz/internal/mathutil"
)

// BoxTriangles returns the 12 triangles of the box [lo, hi].
func BoxTriangles(lo, hi mathutil.Vec3) [][3]mathutil.Vec3 {
	p := func(x, y, z int) mathutil.Vec3 {
		pick := func(k, i int) float64 {
			if i == 0 {
				return lo[k]
			}
			return hi[k]
		}
		return mathutil.Vec3{pick(0, x), pick(1, y), pick(2, z)}
	}
	quads := [][4]mathutil.Vec3{
		{p(0, 0, 0), p(1, 0, 0), p(1, 1, 0), p(0, 1, 0)},
		{p(0, 0, 1), p(0, 1, 1), p(1, 1, 1), p(1, 0, 1)},
		{p(0, 0, 0), p(0, 0, 1), p(1, 0, 1), p(1, 0, 0)},
		{p(0, 1, 0), p(1, 1, 0), p(1, 1, 1), p(0, 1, 1)},
		{p(0, 0, 0), p(0, 1, 0), p(0, 1, 1), p(0, 0, 1)},
		{p(1, 0, 0), p(1, 0, 1), p(1, 1, 1), p(1, 1, 0)},
	}
	var tris [][3]mathutil.Vec3
	for _, q := range quads {
		tris = append(tris, [3]mathutil.Vec3{q[0], q[1], q[2]}, [3]mathutil.Vec3{q[0], q[2], q[3]})
	}
	return tris
}

// WriteBinarySTL writes tris as a binary STL file at dir/name and returns its path.
func WriteBinarySTL(t testing.TB, dir, name string, tris [][3]mathutil.Vec3) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 84, 84+50*len(tris))
	copy(buf, "binary fixture")
	binary.LittleEndian.PutUint32(buf[80:], uint32(len(tris)))
	for _, tri := range tris {
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
		rec := make([]byte, 50)
		put := func(off int, v mathutil.Vec3) {
			for k := 0; k < 3; k++ {
				binary.LittleEndian.PutUint32(rec[off+4*k:], math.Float32bits(float32(v[k])))
			}
		}
		put(0, n)
		put(12, tri[0])
		put(24, tri[1])
		put(36, tri[2])
		buf = append(buf, rec...)
	}

	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// WriteFile writes raw bytes at dir/name and returns its path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
