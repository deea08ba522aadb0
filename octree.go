package partindex

import (
	"math"
	"math/bits"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// MinNodeHalfSize is the half extent below which a node is not split any
// further. It is about the thickness of a plate.
const MinNodeHalfSize = 8

// octreeNode is a leaf when children is nil. Internal nodes address their
// children by the octant code x<<2 | y<<1 | z; empty octants stay nil.
type octreeNode struct {
	box      Box3
	parts    []*Part
	children *[8]*octreeNode
	visited  bool
}

func (n *octreeNode) isLeaf() bool {
	return n.children == nil
}

func newOctreeNode(box Box3, parts []*Part) *octreeNode {
	n := &octreeNode{box: box}

	half := box.Size().Mul(0.5)
	if len(parts) <= 1 ||
		half[0] < MinNodeHalfSize ||
		half[1] < MinNodeHalfSize ||
		half[2] < MinNodeHalfSize {
		n.parts = parts
		return n
	}

	n.children = new([8]*octreeNode)
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				min := mgl64.Vec3{
					box.Min[0] + float64(x)*half[0],
					box.Min[1] + float64(y)*half[1],
					box.Min[2] + float64(z)*half[2],
				}
				childBox := NewBox3(min, min.Add(half))

				var filtered []*Part
				for _, p := range parts {
					if p.TransformedBoundingBox.IntersectsBox(childBox) {
						filtered = append(filtered, p)
					}
				}

				if len(filtered) > 0 {
					n.children[x<<2|y<<1|z] = newOctreeNode(childBox, filtered)
				}
			}
		}
	}
	return n
}

type leafHit struct {
	parts      []*Part
	distanceSq float64
}

func (n *octreeNode) rayIntersect(ray Ray, hits []leafHit) []leafHit {
	entry, ok := ray.IntersectBox(n.box)
	if !ok {
		return hits
	}

	if n.isLeaf() {
		return append(hits, leafHit{
			parts:      n.parts,
			distanceSq: DistanceSq(entry, ray.Origin),
		})
	}

	for _, c := range n.children {
		if c != nil {
			hits = c.rayIntersect(ray, hits)
		}
	}
	return hits
}

func (n *octreeNode) frustumIntersect(f Frustum, seen map[*Part]struct{}, parts []*Part) []*Part {
	if !f.IntersectsBox(n.box) {
		return parts
	}
	n.visited = true

	if n.isLeaf() {
		for _, p := range n.parts {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			parts = append(parts, p)
		}
		return parts
	}

	for _, c := range n.children {
		if c != nil {
			parts = c.frustumIntersect(f, seen, parts)
		}
	}
	return parts
}

func (n *octreeNode) boxIntersect(b Box3, seen map[*Part]struct{}, parts []*Part) []*Part {
	if !n.box.IntersectsBox(b) {
		return parts
	}

	if n.isLeaf() {
		for _, p := range n.parts {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			parts = append(parts, p)
		}
		return parts
	}

	for _, c := range n.children {
		if c != nil {
			parts = c.boxIntersect(b, seen, parts)
		}
	}
	return parts
}

func (n *octreeNode) resetSelection() {
	if !n.visited {
		return
	}

	n.visited = false
	if n.isLeaf() {
		return
	}
	for _, c := range n.children {
		if c != nil {
			c.resetSelection()
		}
	}
}

// NodeInfo describes one node to a Walk callback.
type NodeInfo struct {
	Box     Box3
	Depth   int
	Leaf    bool
	Visited bool
	Parts   int
}

func (n *octreeNode) walk(depth int, fn func(NodeInfo) bool) {
	descend := fn(NodeInfo{
		Box:     n.box,
		Depth:   depth,
		Leaf:    n.isLeaf(),
		Visited: n.visited,
		Parts:   len(n.parts),
	})
	if !descend || n.isLeaf() {
		return
	}

	for _, c := range n.children {
		if c != nil {
			c.walk(depth+1, fn)
		}
	}
}

// Octree is a static index over the transformed bounding boxes of a set of
// parts. It is rebuilt from scratch by Generate and has no incremental
// insert or delete. Queries on an octree that was never generated return
// nothing.
type Octree struct {
	root *octreeNode

	// CullBackfaces makes ray queries ignore triangles facing away from the
	// ray. Both faces count by default.
	CullBackfaces bool
}

func NewOctree() *Octree {
	return &Octree{}
}

// ceilPow2 returns the smallest power of two >= x, and 1 for x <= 1.
func ceilPow2(x float64) float64 {
	if x <= 1 {
		return 1
	}
	n := uint64(math.Ceil(x))
	return float64(uint64(1) << bits.Len64(n-1))
}

// Generate replaces the tree with one built over parts. The root is a cube
// anchored at the floored minimum corner of the parts' bounds whose side
// is the power of two covering the largest extent. Without parts the root
// is an empty leaf over a zero size box at the origin.
func (o *Octree) Generate(parts []*Part) {
	start := time.Now()

	box := EmptyBox3()
	for _, p := range parts {
		box = box.Union(p.TransformedBoundingBox)
	}

	if box.IsEmpty() {
		o.root = &octreeNode{box: Box3{}}
		instrumentOctreeGenerate(start, o.Stats())
		return
	}

	box.Min = floorVec(box.Min)
	extent := box.Max.Sub(box.Min)
	side := math.Max(ceilPow2(extent[0]), math.Max(ceilPow2(extent[1]), ceilPow2(extent[2])))
	box.Max = box.Min.Add(mgl64.Vec3{side, side, side})

	o.root = newOctreeNode(box, parts)
	instrumentOctreeGenerate(start, o.Stats())
}

// Box is the root box, or an empty box before the first Generate.
func (o *Octree) Box() Box3 {
	if o.root == nil {
		return EmptyBox3()
	}
	return o.root.box
}

// Hit is the closest ray intersection found by RayHit.
type Hit struct {
	Part       *Part
	Point      mgl64.Vec3
	DistanceSq float64
	Triangle   Triangle
}

// RayIntersect returns the part with the closest triangle hit along the
// ray, or nil.
func (o *Octree) RayIntersect(ray Ray, buffers VertexBuffers) *Part {
	hit, ok := o.RayHit(ray, buffers)
	if !ok {
		return nil
	}
	return hit.Part
}

// RayHit visits the leaves the ray passes through from the nearest box
// entry onwards and stops at the first leaf whose best triangle hit is no
// farther than the entry point of the next leaf.
func (o *Octree) RayHit(ray Ray, buffers VertexBuffers) (Hit, bool) {
	if o.root == nil {
		return Hit{}, false
	}

	leaves := o.root.rayIntersect(ray, nil)
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].distanceSq < leaves[j].distanceSq
	})

	var best Hit
	found := false
	best.DistanceSq = math.Inf(1)
	tested := make(map[*Part]struct{})

	for _, leaf := range leaves {
		if found && best.DistanceSq <= leaf.distanceSq {
			break
		}

		for i := len(leaf.parts) - 1; i >= 0; i-- {
			part := leaf.parts[i]
			if _, ok := tested[part]; ok {
				continue
			}
			tested[part] = struct{}{}

			if h, ok := o.rayPart(ray, part, buffers); ok && h.DistanceSq < best.DistanceSq {
				best = h
				found = true
			}
		}
	}

	instrumentQuery("ray", found)
	return best, found
}

func (o *Octree) rayPart(ray Ray, part *Part, buffers VertexBuffers) (Hit, bool) {
	best := Hit{DistanceSq: math.Inf(1)}
	found := false

	for color, indices := range part.TriangleIndices {
		for i := 0; i < len(indices)/3; i++ {
			tri, ok := buffers.Triangle(color, indices, i)
			if !ok {
				continue
			}

			point, ok := ray.IntersectTriangle(tri.A, tri.B, tri.C, o.CullBackfaces)
			if !ok {
				continue
			}

			if d := DistanceSq(point, ray.Origin); d < best.DistanceSq {
				best = Hit{Part: part, Point: point, DistanceSq: d, Triangle: tri}
				found = true
			}
		}
	}
	return best, found
}

// FrustumIntersect returns every part with geometry inside the frustum,
// each once. Visited nodes are flagged until ResetSelection.
func (o *Octree) FrustumIntersect(f Frustum, buffers VertexBuffers) []*Part {
	if o.root == nil {
		return nil
	}

	candidates := o.root.frustumIntersect(f, make(map[*Part]struct{}), nil)

	var parts []*Part
	for _, p := range candidates {
		if !f.IntersectsBox(p.TransformedBoundingBox) {
			continue
		}
		if partIntersectsFrustum(f, p, buffers) {
			parts = append(parts, p)
		}
	}

	instrumentQuery("frustum", len(parts) > 0)
	return parts
}

func partIntersectsFrustum(f Frustum, part *Part, buffers VertexBuffers) bool {
	for color, indices := range part.TriangleIndices {
		for i := 0; i < len(indices)/3; i++ {
			tri, ok := buffers.Triangle(color, indices, i)
			if !ok {
				continue
			}

			if f.ContainsPoint(tri.A) || f.ContainsPoint(tri.B) || f.ContainsPoint(tri.C) {
				return true
			}
			if f.ClipSegment(tri.A, tri.B) ||
				f.ClipSegment(tri.B, tri.C) ||
				f.ClipSegment(tri.C, tri.A) {
				return true
			}
		}
	}

	for color, indices := range part.LineIndices {
		for i := 0; i < len(indices)/2; i++ {
			a, b, ok := buffers.Segment(color, indices, i)
			if !ok {
				continue
			}
			if f.ContainsPoint(a) || f.ContainsPoint(b) || f.ClipSegment(a, b) {
				return true
			}
		}
	}
	return false
}

// IntersectingParts returns the parts whose triangles intersect a triangle
// of part. Candidates come from the leaves overlapping the part's box.
func (o *Octree) IntersectingParts(part *Part, buffers VertexBuffers) []*Part {
	if o.root == nil {
		return nil
	}

	box := part.TransformedBoundingBox
	seen := map[*Part]struct{}{part: {}}
	candidates := o.root.boxIntersect(box, seen, nil)

	own := partTriangles(part, buffers)

	var parts []*Part
	for _, c := range candidates {
		if !c.TransformedBoundingBox.IntersectsBox(box) {
			continue
		}
		if trianglesOverlap(own, partTriangles(c, buffers)) {
			parts = append(parts, c)
		}
	}

	instrumentQuery("intersect", len(parts) > 0)
	return parts
}

func partTriangles(part *Part, buffers VertexBuffers) []Triangle {
	var tris []Triangle
	for color, indices := range part.TriangleIndices {
		for i := 0; i < len(indices)/3; i++ {
			if tri, ok := buffers.Triangle(color, indices, i); ok {
				tris = append(tris, tri)
			}
		}
	}
	return tris
}

func trianglesOverlap(a, b []Triangle) bool {
	boxes := make([]Box3, len(b))
	for i, t := range b {
		boxes[i] = t.Box()
	}

	for _, t1 := range a {
		box := t1.Box()
		for i, t2 := range b {
			if !box.IntersectsBox(boxes[i]) {
				continue
			}
			if TrianglesIntersect(t1, t2) {
				return true
			}
		}
	}
	return false
}

// ResetSelection clears the visited flags set by FrustumIntersect.
func (o *Octree) ResetSelection() {
	if o.root != nil {
		o.root.resetSelection()
	}
}

// Walk calls fn for every node depth first. Returning false skips the
// children of that node.
func (o *Octree) Walk(fn func(NodeInfo) bool) {
	if o.root != nil {
		o.root.walk(0, fn)
	}
}

type OctreeStats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
	PartRefs int
}

func (o *Octree) Stats() OctreeStats {
	var s OctreeStats
	o.Walk(func(n NodeInfo) bool {
		s.Nodes++
		if n.Leaf {
			s.Leaves++
			s.PartRefs += n.Parts
		}
		if n.Depth > s.MaxDepth {
			s.MaxDepth = n.Depth
		}
		return true
	})
	return s
}
