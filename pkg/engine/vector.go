package engine

import (
	"netherbox/internal/util"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is the vector type used throughout the renderer
type Vec3 = mgl32.Vec3

// Zero is the zero vector
var Zero = Vec3{}

// One is the vector with all components set to 1
var One = Vec3{1, 1, 1}

// InverseDirection returns 1/d per component. Zero components become ±Inf.
func InverseDirection(d Vec3) Vec3 {
	return Vec3{1 / d[0], 1 / d[1], 1 / d[2]}
}

// hadamard multiplies two vectors component-wise
func hadamard(a, b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// normalize returns v scaled to unit length, or v unchanged if it is zero
func normalize(v Vec3) Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

func isZero(v Vec3) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

func minVec(a, b Vec3) Vec3 {
	return Vec3{math32.Min(a[0], b[0]), math32.Min(a[1], b[1]), math32.Min(a[2], b[2])}
}

func maxVec(a, b Vec3) Vec3 {
	return Vec3{math32.Max(a[0], b[0]), math32.Max(a[1], b[1]), math32.Max(a[2], b[2])}
}

func lerpVec(a, b Vec3, t float32) Vec3 {
	return Vec3{util.Lerp(a[0], b[0], t), util.Lerp(a[1], b[1], t), util.Lerp(a[2], b[2], t)}
}
