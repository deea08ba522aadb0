package partindex

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

func NewBox3(min, max mgl64.Vec3) Box3 {
	return Box3{Min: min, Max: max}
}

// EmptyBox3 returns a box that contains nothing; expanding it by any point
// or box yields that point or box.
func EmptyBox3() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

func (b *Box3) ExpandByPoint(p mgl64.Vec3) {
	b.Min = minVec(b.Min, p)
	b.Max = maxVec(b.Max, p)
}

func (b Box3) Union(other Box3) Box3 {
	return Box3{Min: minVec(b.Min, other.Min), Max: maxVec(b.Max, other.Max)}
}

func (b Box3) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func (b Box3) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box3) ContainsPoint(p mgl64.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// IntersectsBox reports whether the boxes overlap. Touching faces count.
func (b Box3) IntersectsBox(other Box3) bool {
	return !(other.Max[0] < b.Min[0] || other.Min[0] > b.Max[0] ||
		other.Max[1] < b.Min[1] || other.Min[1] > b.Max[1] ||
		other.Max[2] < b.Min[2] || other.Min[2] > b.Max[2])
}

// ApplyMatrix4 transforms the eight corners and returns their bounds.
func (b Box3) ApplyMatrix4(m mgl64.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}

	out := EmptyBox3()
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&4 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&1 != 0 {
			corner[2] = b.Max[2]
		}
		out.ExpandByPoint(TransformPoint(m, corner))
	}
	return out
}
