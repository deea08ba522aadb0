package partindex

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func DistanceSq(a, b mgl64.Vec3) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return dx*dx + dy*dy + dz*dz
}

func minVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func maxVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

func floorVec(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Floor(v[0]), math.Floor(v[1]), math.Floor(v[2])}
}
