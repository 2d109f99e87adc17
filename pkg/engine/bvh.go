package engine

import (
	"sort"
)

// node is either a *bvhLeaf or a *bvhInternal
type node interface {
	bounds() AABB
}

// bvhLeaf references exactly one primitive
type bvhLeaf struct {
	box   AABB
	index int
}

// bvhInternal owns two subtrees. Its box is the merge of theirs.
type bvhInternal struct {
	box         AABB
	left, right node
}

func (l *bvhLeaf) bounds() AABB     { return l.box }
func (n *bvhInternal) bounds() AABB { return n.box }

// BVH is a bounding volume hierarchy over a fixed primitive list. It is
// immutable after construction and safe for concurrent queries.
type BVH struct {
	prims []Primitive
	root  node
}

// BuildBVH builds a hierarchy by recursive median split. The primitive
// slice is not modified.
func BuildBVH(prims []Primitive) *BVH {
	indices := make([]int, len(prims))
	for i := range indices {
		indices[i] = i
	}
	return BuildBVHIndices(prims, indices)
}

// BuildBVHIndices builds a hierarchy over the primitives named by indices.
// The index slice is reordered in place.
func BuildBVHIndices(prims []Primitive, indices []int) *BVH {
	bvh := &BVH{prims: prims}
	if len(indices) > 0 {
		bvh.root = buildNode(prims, indices)
	}
	return bvh
}

func buildNode(prims []Primitive, indices []int) node {
	if len(indices) == 1 {
		return &bvhLeaf{box: prims[indices[0]].Bounds(), index: indices[0]}
	}

	box := prims[indices[0]].Bounds()
	for _, idx := range indices[1:] {
		box = box.Merge(prims[idx].Bounds())
	}
	axis := box.LongestAxis()

	sort.SliceStable(indices, func(i, j int) bool {
		return prims[indices[i]].Bounds().Center()[axis] < prims[indices[j]].Bounds().Center()[axis]
	})

	mid := len(indices) / 2
	left := buildNode(prims, indices[:mid])
	right := buildNode(prims, indices[mid:])

	return &bvhInternal{
		box:   left.bounds().Merge(right.bounds()),
		left:  left,
		right: right,
	}
}

// Empty reports whether the hierarchy holds no primitives
func (b *BVH) Empty() bool {
	return b.root == nil
}

// Bounds returns the root box. The zero box is returned for an empty tree.
func (b *BVH) Bounds() AABB {
	if b.root == nil {
		return AABB{}
	}
	return b.root.bounds()
}

// Intersect returns the nearest hit along the ray. invDir must be
// InverseDirection(dir).
func (b *BVH) Intersect(origin, dir, invDir Vec3) (Hit, bool) {
	if b.root == nil {
		return Hit{}, false
	}
	return b.intersectNode(b.root, origin, dir, invDir)
}

func (b *BVH) intersectNode(n node, origin, dir, invDir Vec3) (Hit, bool) {
	switch n := n.(type) {
	case *bvhLeaf:
		if !n.box.Intersect(origin, invDir) {
			return Hit{}, false
		}
		return b.prims[n.index].Intersect(origin, dir)

	case *bvhInternal:
		if !n.box.Intersect(origin, invDir) {
			return Hit{}, false
		}
		lh, lok := b.intersectNode(n.left, origin, dir, invDir)
		rh, rok := b.intersectNode(n.right, origin, dir, invDir)
		switch {
		case lok && rok:
			if rh.Distance < lh.Distance {
				return rh, true
			}
			return lh, true
		case lok:
			return lh, true
		case rok:
			return rh, true
		}
	}
	return Hit{}, false
}

// Leaves returns the primitive index of every leaf in traversal order
func (b *BVH) Leaves() []int {
	var out []int
	var walk func(n node)
	walk = func(n node) {
		switch n := n.(type) {
		case *bvhLeaf:
			out = append(out, n.index)
		case *bvhInternal:
			walk(n.left)
			walk(n.right)
		}
	}
	if b.root != nil {
		walk(b.root)
	}
	return out
}

// BVHStats summarises the shape of a hierarchy
type BVHStats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
}

// Stats walks the tree and counts nodes
func (b *BVH) Stats() BVHStats {
	var st BVHStats
	var walk func(n node, depth int)
	walk = func(n node, depth int) {
		st.Nodes++
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		switch n := n.(type) {
		case *bvhLeaf:
			st.Leaves++
		case *bvhInternal:
			walk(n.left, depth+1)
			walk(n.right, depth+1)
		}
	}
	if b.root != nil {
		walk(b.root, 0)
	}
	return st
}
