// Package shots defines which views of a subject are captured, in what order,
// and how each capture's output file is named.
package shots

import (
	"fmt"
	"iter"
	"math"
)

// TiltKind names the vertical side a shot is taken from.
type TiltKind int

const (
	Top TiltKind = iota
	Bottom
)

func (k TiltKind) String() string {
	switch k {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return fmt.Sprintf("TiltKind(%d)", int(k))
}

// Default tilt angles in degrees.
const (
	DefaultTopTilt    = 20.0
	DefaultBottomTilt = -20.0
)

// Catalog sizes. The bottom pass revisits each of the 4 headings twice; the
// duplicate files are kept because consumers expect 8 bottom images.
const (
	TopShots    = 4
	BottomShots = 8
)

// QuarterTurn is the heading step between consecutive rotation indices.
const QuarterTurn = math.Pi / 2

// ShotSpec is one entry of the shot catalog. (RotationIndex, Tilt) identifies it.
type ShotSpec struct {
	RotationIndex int
	Tilt          TiltKind
	TiltDegrees   float64
}

// Heading returns the subject's rotation about the vertical axis, in radians.
func (s ShotSpec) Heading() float64 {
	return float64(s.RotationIndex) * QuarterTurn
}

// HeadingDegrees returns the subject's rotation about the vertical axis, in degrees.
func (s ShotSpec) HeadingDegrees() float64 {
	return float64(s.RotationIndex) * 90
}

func (s ShotSpec) String() string {
	return fmt.Sprintf("%s#%d(%g°)", s.Tilt, s.RotationIndex, s.TiltDegrees)
}

// Catalog returns the fixed shot list in emission order: four top shots
// followed by eight bottom shots, each stepping the heading a quarter turn.
func Catalog(topTilt, bottomTilt float64) []ShotSpec {
	out := make([]ShotSpec, 0, TopShots+BottomShots)
	for i := 0; i < TopShots; i++ {
		out = append(out, ShotSpec{RotationIndex: i, Tilt: Top, TiltDegrees: topTilt})
	}
	for i := 0; i < BottomShots; i++ {
		out = append(out, ShotSpec{RotationIndex: i, Tilt: Bottom, TiltDegrees: bottomTilt})
	}
	return out
}

// DefaultCatalog is Catalog with the default tilts.
func DefaultCatalog() []ShotSpec {
	return Catalog(DefaultTopTilt, DefaultBottomTilt)
}

// Plan yields the catalog lazily. Each range over the result starts from the
// first entry again.
func Plan(catalog []ShotSpec) iter.Seq[ShotSpec] {
	return func(yield func(ShotSpec) bool) {
		for _, s := range catalog {
			if !yield(s) {
				return
			}
		}
	}
}
