package raster

import (
	"image/color"
	"math"

	"stlviz/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir  mathutil.Vec3 // unit vector toward the sun
	RimDir    mathutil.Vec3
	ViewDir   mathutil.Vec3 // camera forward
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// NewLightConfig builds lighting for a sun shining along sunDir with the
// given energy, seen by a camera looking along viewDir.
func NewLightConfig(sunDir, viewDir mathutil.Vec3, energy float64) LightConfig {
	lightDir := sunDir.Scale(-1).Normalize()
	// Rim light comes from behind the subject, mirrored across the vertical axis.
	rimDir := mathutil.Vec3{-lightDir[0], -lightDir[1], lightDir[2]}.Normalize()
	viewDir = viewDir.Normalize()

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		ViewDir:   viewDir,
		HalfMain:  lightDir.Sub(viewDir).Normalize(),
		Ambient:   0.20,
		Hemi:      0.25,
		Direct:    energy * 0.5,
		Rim:       0.30,
		SpecInt:   0.25,
		SpecPow:   12.0,
		Exposure:  1.05,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	// Lambertian (abs for double-sided)
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	// Hemisphere fill, Z up
	hemi := (1.0-math.Abs(normal[2]))*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := math.Abs(normal.Dot(lc.HalfMain))
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Shade lights a linear-space base colour for a face normal and returns the
// tone-mapped sRGB colour.
func (lc *LightConfig) Shade(base [3]float64, normal mathutil.Vec3) color.NRGBA {
	s := lc.ComputeShade(normal) * lc.Exposure
	enc := func(v float64) uint8 {
		return clamp255(math.Pow(ACESTonemap(v*s), lc.InvGamma) * 255)
	}
	return color.NRGBA{R: enc(base[0]), G: enc(base[1]), B: enc(base[2]), A: 255}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
