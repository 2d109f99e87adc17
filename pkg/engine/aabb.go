package engine

import "github.com/chewxy/math32"

// AABB is an axis-aligned bounding box. Min is componentwise <= Max.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates a box from two arbitrary corners
func NewAABB(a, b Vec3) AABB {
	return AABB{Min: minVec(a, b), Max: maxVec(a, b)}
}

// Center returns the midpoint of the box
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Merge returns the smallest box containing both boxes
func (b AABB) Merge(other AABB) AABB {
	return AABB{Min: minVec(b.Min, other.Min), Max: maxVec(b.Max, other.Max)}
}

// LongestAxis returns 0, 1 or 2 for the axis with the largest extent.
// Ties prefer y over x and z over y.
func (b AABB) LongestAxis() int {
	e := b.Size()
	if e[0] > e[1] && e[0] > e[2] {
		return 0
	}
	if e[1] > e[2] {
		return 1
	}
	return 2
}

// Intersect runs the slab test for a ray given its origin and precomputed
// inverse direction. Boxes entirely behind the origin are rejected.
func (b AABB) Intersect(origin, invDir Vec3) bool {
	_, tmax, ok := b.slabs(origin, invDir)
	return ok && tmax >= 0
}

// slabs intersects the three slab intervals and returns the entry and exit
// distances along the ray.
//
// Axis-parallel rays produce ±Inf slab distances which compare as expected.
// A ray lying exactly in a face plane yields NaN on that axis; the axis is
// treated as unbounded, so rays grazing a face count as hits.
func (b AABB) slabs(origin, invDir Vec3) (float32, float32, bool) {
	tmin := math32.Inf(-1)
	tmax := math32.Inf(1)

	for axis := 0; axis < 3; axis++ {
		t0 := (b.Min[axis] - origin[axis]) * invDir[axis]
		t1 := (b.Max[axis] - origin[axis]) * invDir[axis]
		if t0 != t0 || t1 != t1 {
			continue
		}
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		if tmin > t1 || t0 > tmax {
			return 0, 0, false
		}

		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
	}

	return tmin, tmax, true
}
