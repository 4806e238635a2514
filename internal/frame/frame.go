// Package frame holds the vector and quaternion helpers used to carry a held
// attitude along with a rotating reference frame.
package frame

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FromToRotation returns the shortest-arc rotation taking a onto b.
//
// Inputs are not normalized; the magnitudes cancel in the final scale. The
// result is undefined (NaN) when a and b point in exactly opposite directions.
func FromToRotation(a, b mgl64.Vec3) mgl64.Quat {
	cross := a.Cross(b)
	w := a.Dot(b) + math.Sqrt(a.Dot(a)*b.Dot(b))
	norm := 1.0 / math.Sqrt(cross.Dot(cross)+w*w)
	return mgl64.Quat{W: w * norm, V: cross.Mul(norm)}
}

// Relative returns p expressed relative to origin.
func Relative(p, origin mgl64.Vec3) mgl64.Vec3 {
	return p.Sub(origin)
}

// AngleBetween returns the rotation angle in degrees separating two attitudes.
func AngleBetween(q1, q2 mgl64.Quat) float64 {
	d := math.Abs(q1.Normalize().Dot(q2.Normalize()))
	if d > 1 {
		d = 1
	}
	return mgl64.RadToDeg(2 * math.Acos(d))
}

func IsFinite(q mgl64.Quat) bool {
	for _, v := range [4]float64{q.W, q.V[0], q.V[1], q.V[2]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// RotateZ rotates v about +Z by angle radians.
func RotateZ(v mgl64.Vec3, angle float64) mgl64.Vec3 {
	return mgl64.Rotate3DZ(angle).Mul3x1(v)
}
