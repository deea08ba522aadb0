package partindex

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ApplyMatrix4 transforms the ray as a point plus a direction and
// re-normalises the direction.
func (r Ray) ApplyMatrix4(m mgl64.Mat4) Ray {
	origin := TransformPoint(m, r.Origin)
	tip := TransformPoint(m, r.Origin.Add(r.Direction))
	return Ray{Origin: origin, Direction: tip.Sub(origin).Normalize()}
}

// IntersectBox returns the point where the ray enters b. When the origin
// is inside b the origin itself is returned.
func (r Ray) IntersectBox(b Box3) (mgl64.Vec3, bool) {
	if b.IsEmpty() {
		return mgl64.Vec3{}, false
	}

	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o := r.Origin[axis]
		d := r.Direction[axis]

		if d == 0 {
			if o < b.Min[axis] || o > b.Max[axis] {
				return mgl64.Vec3{}, false
			}
			continue
		}

		inv := 1 / d
		t0 := (b.Min[axis] - o) * inv
		t1 := (b.Max[axis] - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return mgl64.Vec3{}, false
		}
	}

	// box is behind the ray
	if tMax < 0 {
		return mgl64.Vec3{}, false
	}

	if tMin >= 0 {
		return r.At(tMin), true
	}
	return r.Origin, true
}

// IntersectTriangle tests the ray against triangle abc. With cullBackfaces
// set, triangles whose counter-clockwise normal faces along the ray are
// ignored.
func (r Ray) IntersectTriangle(a, b, c mgl64.Vec3, cullBackfaces bool) (mgl64.Vec3, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	normal := edge1.Cross(edge2)

	// Solve Q + t*D = b1*E1 + b2*E2 (Q = origin - a, D = direction)
	ddn := r.Direction.Dot(normal)
	var sign float64
	switch {
	case ddn > 0:
		if cullBackfaces {
			return mgl64.Vec3{}, false
		}
		sign = 1
	case ddn < 0:
		sign = -1
		ddn = -ddn
	default:
		return mgl64.Vec3{}, false
	}

	diff := r.Origin.Sub(a)
	ddqxe2 := sign * r.Direction.Dot(diff.Cross(edge2))
	if ddqxe2 < 0 {
		return mgl64.Vec3{}, false
	}

	dde1xq := sign * r.Direction.Dot(edge1.Cross(diff))
	if dde1xq < 0 {
		return mgl64.Vec3{}, false
	}

	if ddqxe2+dde1xq > ddn {
		return mgl64.Vec3{}, false
	}

	qdn := -sign * diff.Dot(normal)
	if qdn < 0 {
		return mgl64.Vec3{}, false
	}

	return r.At(qdn / ddn), true
}
