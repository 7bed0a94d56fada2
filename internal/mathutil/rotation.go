package mathutil

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// EulerXYZ composes rotations applied X first, then Y, then Z: Rz @ Ry @ Rx.
// This is the host's default Euler order for object rotations.
func EulerXYZ(e Vec3) Mat3 {
	return Mat3Mul(Mat3Mul(RotZ(e[2]), RotY(e[1])), RotX(e[0]))
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}

// LookAt returns the rotation whose columns are the camera's right, up and
// back axes, so that the camera's -Z axis points along forward and its +Y
// axis lies in the plane spanned by forward and up.
// When forward is parallel to up, world Y is used as the reference instead.
func LookAt(forward, up Vec3) Mat3 {
	f := forward.Normalize()
	if f == (Vec3{}) {
		return Mat3Identity()
	}
	right := f.Cross(up)
	if right.Len() < 1e-9 {
		right = f.Cross(AxisY)
	}
	right = right.Normalize()
	camUp := right.Cross(f)
	return Mat3FromCols(right, camUp, f.Scale(-1))
}
