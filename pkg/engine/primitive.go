package engine

import (
	"github.com/chewxy/math32"
)

// hitEpsilon is the smallest accepted hit distance
const hitEpsilon = 0.001

// Hit describes the nearest intersection of a ray with a primitive
type Hit struct {
	Distance float32
	Point    Vec3
	Normal   Vec3
	U, V     float32
	Material *Material
}

// Primitive is anything the BVH can hold
type Primitive interface {
	// Bounds returns the tight axis-aligned box of the primitive
	Bounds() AABB
	// Intersect returns the nearest hit farther than a small epsilon
	Intersect(origin, dir Vec3) (Hit, bool)
	// Material returns the surface material
	Material() *Material
}

// Box is an axis-aligned box primitive
type Box struct {
	Min Vec3
	Max Vec3
	Mat *Material
}

// NewBox creates a cube of the given edge length centred on center
func NewBox(center Vec3, size float32, mat *Material) *Box {
	half := Vec3{size / 2, size / 2, size / 2}
	return &Box{Min: center.Sub(half), Max: center.Add(half), Mat: mat}
}

// NewBoxBounds creates a box from two corners
func NewBoxBounds(a, b Vec3, mat *Material) *Box {
	return &Box{Min: minVec(a, b), Max: maxVec(a, b), Mat: mat}
}

// Bounds implements Primitive
func (b *Box) Bounds() AABB {
	return AABB{Min: b.Min, Max: b.Max}
}

// Material implements Primitive
func (b *Box) Material() *Material {
	return b.Mat
}

// Center returns the box midpoint
func (b *Box) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Intersect implements Primitive. If the origin is inside the box the exit
// face is reported.
func (b *Box) Intersect(origin, dir Vec3) (Hit, bool) {
	tmin, tmax, ok := b.Bounds().slabs(origin, InverseDirection(dir))
	if !ok {
		return Hit{}, false
	}

	distance := tmax
	if tmin > hitEpsilon {
		distance = tmin
	}
	if distance < hitEpsilon {
		return Hit{}, false
	}

	point := origin.Add(dir.Mul(distance))
	normal := b.faceNormal(point)
	u, v := b.uv(point, normal)

	return Hit{
		Distance: distance,
		Point:    point,
		Normal:   normal,
		U:        u,
		V:        v,
		Material: b.Mat,
	}, true
}

// faceNormal picks the face whose plane the point lies closest to, relative
// to the box half extent on that axis.
func (b *Box) faceNormal(p Vec3) Vec3 {
	center := b.Center()
	half := b.Max.Sub(b.Min).Mul(0.5)

	axis := 0
	best := float32(-1)
	for i := 0; i < 3; i++ {
		if half[i] <= 0 {
			continue
		}
		d := math32.Abs((p[i] - center[i]) / half[i])
		if d > best {
			best = d
			axis = i
		}
	}

	var n Vec3
	if p[axis] < center[axis] {
		n[axis] = -1
	} else {
		n[axis] = 1
	}
	return n
}

// uv maps the hit point onto the struck face: x faces use (z, y), y faces
// (x, z) and z faces (x, y).
func (b *Box) uv(p, n Vec3) (float32, float32) {
	size := b.Max.Sub(b.Min)
	local := p.Sub(b.Min)

	var ua, va int
	switch {
	case n[0] != 0:
		ua, va = 2, 1
	case n[1] != 0:
		ua, va = 0, 2
	default:
		ua, va = 0, 1
	}
	return unitRatio(local[ua], size[ua]), unitRatio(local[va], size[va])
}

func unitRatio(x, extent float32) float32 {
	if extent <= 0 {
		return 0
	}
	return math32.Max(0, math32.Min(1, x/extent))
}

// Sphere is a sphere primitive
type Sphere struct {
	Center Vec3
	Radius float32
	Mat    *Material
}

// NewSphere creates a sphere
func NewSphere(center Vec3, radius float32, mat *Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Mat: mat}
}

// Bounds implements Primitive
func (s *Sphere) Bounds() AABB {
	r := Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Material implements Primitive
func (s *Sphere) Material() *Material {
	return s.Mat
}

// Intersect implements Primitive
func (s *Sphere) Intersect(origin, dir Vec3) (Hit, bool) {
	oc := origin.Sub(s.Center)
	a := dir.Dot(dir)
	half := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := half*half - a*c
	if disc <= 0 {
		return Hit{}, false
	}
	sq := math32.Sqrt(disc)

	t := (-half - sq) / a
	if t < hitEpsilon {
		t = (-half + sq) / a
		if t < hitEpsilon {
			return Hit{}, false
		}
	}

	point := origin.Add(dir.Mul(t))
	normal := point.Sub(s.Center).Mul(1 / s.Radius)
	u := 0.5 + math32.Atan2(normal[0], normal[2])/(2*math32.Pi)
	v := 0.5 + math32.Asin(math32.Max(-1, math32.Min(1, normal[1])))/math32.Pi

	return Hit{
		Distance: t,
		Point:    point,
		Normal:   normal,
		U:        u,
		V:        v,
		Material: s.Mat,
	}, true
}
