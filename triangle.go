package partindex

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Triangle struct {
	A, B, C mgl64.Vec3
}

func NewTriangle(a, b, c mgl64.Vec3) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// Normal is the unit normal of the counter-clockwise winding, or zero for a
// degenerate triangle.
func (t Triangle) Normal() mgl64.Vec3 {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	if n.Len() == 0 {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

func (t Triangle) Box() Box3 {
	b := EmptyBox3()
	b.ExpandByPoint(t.A)
	b.ExpandByPoint(t.B)
	b.ExpandByPoint(t.C)
	return b
}

func projectionsSeparated(p0, p1, p2, q0, q1, q2 float64) bool {
	minP := math.Min(p0, math.Min(p1, p2))
	maxP := math.Max(p0, math.Max(p1, p2))
	minQ := math.Min(q0, math.Min(q1, q2))
	maxQ := math.Max(q0, math.Max(q1, q2))

	return minP > maxQ || maxP < minQ
}

// TrianglesIntersect is a separating axis test over the two face normals
// and the nine edge cross products. Coplanar triangles fall back to the
// in-plane edge normals. Touching triangles count as intersecting.
func TrianglesIntersect(t1, t2 Triangle) bool {
	a0 := t1.A
	e0 := t1.B.Sub(a0)
	e1 := t1.C.Sub(a0)
	e2 := e1.Sub(e0)
	n := e0.Cross(e1)

	b0 := t2.A
	f0 := t2.B.Sub(b0)
	f1 := t2.C.Sub(b0)
	f2 := f1.Sub(f0)
	m := f0.Cross(f1)

	d := b0.Sub(a0)

	if n.LenSqr() == 0 || m.LenSqr() == 0 {
		return false
	}

	// axis: n
	{
		q0 := n.Dot(d)
		if projectionsSeparated(0, 0, 0, q0, q0+n.Dot(f0), q0+n.Dot(f1)) {
			return false
		}
	}

	if coplanar(n, m) {
		return coplanarTrianglesIntersect(t1, t2, n)
	}

	// axis: m
	{
		q0 := m.Dot(d)
		if projectionsSeparated(0, m.Dot(e0), m.Dot(e1), q0, q0, q0) {
			return false
		}
	}

	// axes: e0 x f0, e0 x f1, e0 x f2
	{
		q0 := e0.Cross(f0).Dot(d)
		if projectionsSeparated(0, 0, -n.Dot(f0), q0, q0, q0+m.Dot(e0)) {
			return false
		}
	}
	{
		q0 := e0.Cross(f1).Dot(d)
		if projectionsSeparated(0, 0, -n.Dot(f1), q0, q0-m.Dot(e0), q0) {
			return false
		}
	}
	{
		q0 := e0.Cross(f2).Dot(d)
		q1 := q0 - m.Dot(e0)
		if projectionsSeparated(0, 0, -n.Dot(f2), q0, q1, q1) {
			return false
		}
	}

	// axes: e1 x f0, e1 x f1, e1 x f2
	{
		q0 := e1.Cross(f0).Dot(d)
		if projectionsSeparated(0, n.Dot(f0), 0, q0, q0, q0+m.Dot(e1)) {
			return false
		}
	}
	{
		q0 := e1.Cross(f1).Dot(d)
		if projectionsSeparated(0, n.Dot(f1), 0, q0, q0-m.Dot(e1), q0) {
			return false
		}
	}
	{
		q0 := e1.Cross(f2).Dot(d)
		q1 := q0 - m.Dot(e1)
		if projectionsSeparated(0, n.Dot(f2), 0, q0, q1, q1) {
			return false
		}
	}

	// axes: e2 x f0, e2 x f1, e2 x f2
	{
		p1 := n.Dot(f0)
		q0 := e2.Cross(f0).Dot(d)
		if projectionsSeparated(0, p1, p1, q0, q0, q0+m.Dot(e2)) {
			return false
		}
	}
	{
		p1 := n.Dot(f1)
		q0 := e2.Cross(f1).Dot(d)
		if projectionsSeparated(0, p1, p1, q0, q0-m.Dot(e2), q0) {
			return false
		}
	}
	{
		p1 := n.Dot(f2)
		q0 := e2.Cross(f2).Dot(d)
		q1 := q0 - m.Dot(e2)
		if projectionsSeparated(0, p1, p1, q0, q1, q1) {
			return false
		}
	}

	return true
}

func coplanar(n, m mgl64.Vec3) bool {
	const eps = 1e-12
	return n.Cross(m).LenSqr() <= eps*n.LenSqr()*m.LenSqr()
}

func coplanarTrianglesIntersect(t1, t2 Triangle, n mgl64.Vec3) bool {
	p := [3]mgl64.Vec3{t1.A, t1.B, t1.C}
	q := [3]mgl64.Vec3{t2.A, t2.B, t2.C}

	for _, tri := range [2][3]mgl64.Vec3{p, q} {
		for i := 0; i < 3; i++ {
			axis := n.Cross(tri[(i+1)%3].Sub(tri[i]))
			if projectionsSeparated(
				axis.Dot(p[0]), axis.Dot(p[1]), axis.Dot(p[2]),
				axis.Dot(q[0]), axis.Dot(q[1]), axis.Dot(q[2])) {
				return false
			}
		}
	}
	return true
}
