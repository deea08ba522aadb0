package partindex

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	ROTX = 0
	ROTY = 1
	ROTZ = 2
)

// YAxisInvert maps LDraw model space (-Y is up) to render space and back.
// It is its own inverse.
var YAxisInvert = mgl64.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, -1, 0,
	0, 0, 0, 1,
}

func NewRotationMatrix(aRotation int, theta float64) mgl64.Mat4 {
	switch aRotation {
	case ROTX:
		return mgl64.HomogRotate3DX(theta)
	case ROTY:
		return mgl64.HomogRotate3DY(theta)
	case ROTZ:
		return mgl64.HomogRotate3DZ(theta)
	}
	return mgl64.Ident4()
}

// NewPlacementMatrix builds translate * rotZ * rotY * rotX, with the
// rotation given in degrees.
func NewPlacementMatrix(position, rotationDeg mgl64.Vec3) mgl64.Mat4 {
	rx := NewRotationMatrix(ROTX, mgl64.DegToRad(rotationDeg[0]))
	ry := NewRotationMatrix(ROTY, mgl64.DegToRad(rotationDeg[1]))
	rz := NewRotationMatrix(ROTZ, mgl64.DegToRad(rotationDeg[2]))

	t := mgl64.Translate3D(position[0], position[1], position[2])
	return t.Mul4(rz).Mul4(ry).Mul4(rx)
}

// TransformPoint applies m to p including translation.
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, m)
}

// normalMatrix is the inverse transpose of the upper 3x3 of m.
func normalMatrix(m mgl64.Mat4) mgl64.Mat3 {
	return m.Mat3().Inv().Transpose()
}
