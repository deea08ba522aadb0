package partindex

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Frustum is a convex volume bounded by six inward facing planes.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustumFromMatrix extracts the clip planes of a combined
// projection * view matrix (OpenGL clip space, -w <= z <= w).
func NewFrustumFromMatrix(m mgl64.Mat4) Frustum {
	row := func(i int) mgl64.Vec4 { return m.Row(i) }
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	fromRow := func(v mgl64.Vec4) Plane {
		return NewPlane(v[0], v[1], v[2], v[3]).Normalize()
	}

	return Frustum{Planes: [6]Plane{
		fromRow(r3.Sub(r0)), // right
		fromRow(r3.Add(r0)), // left
		fromRow(r3.Add(r1)), // bottom
		fromRow(r3.Sub(r1)), // top
		fromRow(r3.Sub(r2)), // far
		fromRow(r3.Add(r2)), // near
	}}
}

func (f Frustum) ContainsPoint(p mgl64.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsBox is conservative: it can report true for a box that sits
// just outside a corner of the frustum.
func (f Frustum) IntersectsBox(b Box3) bool {
	if b.IsEmpty() {
		return false
	}

	for _, plane := range f.Planes {
		// corner furthest along the plane normal
		var p mgl64.Vec3
		for axis := 0; axis < 3; axis++ {
			if plane.Normal[axis] > 0 {
				p[axis] = b.Max[axis]
			} else {
				p[axis] = b.Min[axis]
			}
		}

		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// ClipSegment clips ab against each plane in turn and reports whether a
// part of non-zero length is left inside.
func (f Frustum) ClipSegment(a, b mgl64.Vec3) bool {
	t0, t1 := 0.0, 1.0

	for _, plane := range f.Planes {
		da := plane.DistanceToPoint(a)
		db := plane.DistanceToPoint(b)

		if da < 0 && db < 0 {
			return false
		}
		if da >= 0 && db >= 0 {
			continue
		}

		t := da / (da - db)
		if da < 0 {
			if t > t0 {
				t0 = t
			}
		} else if t < t1 {
			t1 = t
		}

		if t0 >= t1 {
			return false
		}
	}

	return t0 < t1
}

// ApplyMatrix4 transforms every plane by m.
func (f Frustum) ApplyMatrix4(m mgl64.Mat4) Frustum {
	var out Frustum
	for i, plane := range f.Planes {
		out.Planes[i] = plane.ApplyMatrix4(m)
	}
	return out
}
