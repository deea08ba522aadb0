package partindex

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Plane is the set of points p with Normal·p + Constant == 0. Points with a
// positive distance are on the inside.
type Plane struct {
	Normal   mgl64.Vec3
	Constant float64
}

func NewPlane(a, b, c, d float64) Plane {
	return Plane{Normal: mgl64.Vec3{a, b, c}, Constant: d}
}

func NewPlaneFromNormalAndPoint(normal, point mgl64.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Constant: -point.Dot(n)}
}

// Normalize scales the plane so the normal has unit length.
func (p Plane) Normalize() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	inv := 1 / l
	return Plane{Normal: p.Normal.Mul(inv), Constant: p.Constant * inv}
}

// DistanceToPoint is signed; negative means outside.
func (p Plane) DistanceToPoint(pt mgl64.Vec3) float64 {
	return p.Normal.Dot(pt) + p.Constant
}

func (p Plane) coplanarPoint() mgl64.Vec3 {
	return p.Normal.Mul(-p.Constant)
}

// IntersectSegment returns where segment ab crosses the plane. A segment
// lying in the plane reports a.
func (p Plane) IntersectSegment(a, b mgl64.Vec3) (mgl64.Vec3, bool) {
	dir := b.Sub(a)
	denom := p.Normal.Dot(dir)
	if denom == 0 {
		if p.DistanceToPoint(a) == 0 {
			return a, true
		}
		return mgl64.Vec3{}, false
	}

	t := -(a.Dot(p.Normal) + p.Constant) / denom
	if t < 0 || t > 1 {
		return mgl64.Vec3{}, false
	}
	return a.Add(dir.Mul(t)), true
}

// ApplyMatrix4 expects a unit-length normal.
func (p Plane) ApplyMatrix4(m mgl64.Mat4) Plane {
	ref := TransformPoint(m, p.coplanarPoint())
	n := normalMatrix(m).Mul3x1(p.Normal).Normalize()
	return Plane{Normal: n, Constant: -ref.Dot(n)}
}
