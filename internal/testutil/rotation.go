package testutil

import (
	"math"

	"stlviz/internal/mathutil"
)

// IsRotation reports whether m is orthonormal with determinant +1, within eps.
func IsRotation(m mathutil.Mat3, eps float64) bool {
	p := mathutil.Mat3Mul(m, m.Transpose())
	id := mathutil.Mat3Identity()
	for i := range p {
		if math.Abs(p[i]-id[i]) > eps {
			return false
		}
	}
	det := m[0]*(m[4]*m[8]-m[5]*m[7]) - m[1]*(m[3]*m[8]-m[5]*m[6]) + m[2]*(m[3]*m[7]-m[4]*m[6])
	return math.Abs(det-1) <= eps
}
