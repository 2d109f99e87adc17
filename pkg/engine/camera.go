package engine

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// maxPitch keeps orbiting away from the poles
const maxPitch = 1.5

// Camera is a look-at camera. It is read-only while a frame renders; Orbit
// and Zoom are called between frames.
type Camera struct {
	Eye     Vec3
	Center  Vec3
	Up      Vec3
	Forward Vec3
	Right   Vec3

	basis mgl32.Mat3
}

// NewCamera creates a camera at eye looking at center
func NewCamera(eye, center, up Vec3) *Camera {
	c := &Camera{Eye: eye, Center: center, Up: up}
	c.updateBasis()
	return c
}

func (c *Camera) updateBasis() {
	c.Forward = normalize(c.Center.Sub(c.Eye))
	c.Right = normalize(c.Forward.Cross(c.Up))
	c.Up = c.Right.Cross(c.Forward)
	// camera space looks down -z
	c.basis = mgl32.Mat3FromCols(c.Right, c.Up, c.Forward.Mul(-1))
}

// BasisChange transforms a camera-space vector to world space
func (c *Camera) BasisChange(p Vec3) Vec3 {
	return c.basis.Mul3x1(p)
}

// Orbit rotates the eye around the center by yaw and pitch radians
func (c *Camera) Orbit(yaw, pitch float32) {
	rel := c.Eye.Sub(c.Center)
	radius := rel.Len()
	if radius == 0 {
		return
	}

	currentYaw := math32.Atan2(rel[2], rel[0])
	currentPitch := math32.Asin(math32.Max(-1, math32.Min(1, rel[1]/radius)))

	newYaw := currentYaw + yaw
	newPitch := math32.Max(-maxPitch, math32.Min(maxPitch, currentPitch+pitch))

	cp, sp := math32.Cos(newPitch), math32.Sin(newPitch)
	c.Eye = c.Center.Add(Vec3{
		radius * cp * math32.Cos(newYaw),
		radius * sp,
		radius * cp * math32.Sin(newYaw),
	})
	c.updateBasis()
}

// Zoom moves the eye toward the center by amount (away when negative)
func (c *Camera) Zoom(amount float32) {
	forward := normalize(c.Center.Sub(c.Eye))
	c.Eye = c.Eye.Add(forward.Mul(amount))
	c.updateBasis()
}

// Clone returns an independent copy, used to render from another viewpoint
// without touching the shared camera.
func (c *Camera) Clone() *Camera {
	cp := *c
	return &cp
}
