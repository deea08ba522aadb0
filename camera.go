package partindex

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera looking from Eye at Target. FovY is in
// degrees.
type Camera struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3

	FovY   float64
	Aspect float64
	Near   float64
	Far    float64
}

func NewCamera(eye, target mgl64.Vec3, aspect float64) *Camera {
	return &Camera{
		Eye:    eye,
		Target: target,
		Up:     mgl64.Vec3{0, 1, 0},
		FovY:   45,
		Aspect: aspect,
		Near:   1,
		Far:    10000,
	}
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Target, c.Up)
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

func (c *Camera) unproject(ndc mgl64.Vec3) mgl64.Vec3 {
	return TransformPoint(c.ViewProjection().Inv(), ndc)
}

// PickRay is the ray from the eye through a point given in normalised
// device coordinates.
func (c *Camera) PickRay(ndcX, ndcY float64) Ray {
	far := c.unproject(mgl64.Vec3{ndcX, ndcY, 1})
	return NewRay(c.Eye, far.Sub(c.Eye))
}

func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjection())
}

// SelectionFrustum is the part of the view frustum behind a rectangle
// given in normalised device coordinates. The corners may come in any
// order.
func (c *Camera) SelectionFrustum(x0, y0, x1, y1 float64) Frustum {
	const minExtent = 1e-6

	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if x1-x0 < minExtent {
		x1 = x0 + minExtent
	}
	if y1-y0 < minExtent {
		y1 = y0 + minExtent
	}

	// maps [x0,x1]x[y0,y1] onto the full clip square
	sx := 2 / (x1 - x0)
	sy := 2 / (y1 - y0)
	rect := mgl64.Mat4{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, 1, 0,
		-(x1 + x0) / (x1 - x0), -(y1 + y0) / (y1 - y0), 0, 1,
	}

	return NewFrustumFromMatrix(rect.Mul4(c.ViewProjection()))
}

// Project returns the normalised device coordinates of p. It reports false
// for points behind the eye.
func (c *Camera) Project(p mgl64.Vec3) (mgl64.Vec3, bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return mgl64.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip[3]), true
}

// Orbit turns the eye around the target. Yaw turns around the up axis and
// pitch tilts towards it; both are in radians. The pitch stops just short
// of the poles.
func (c *Camera) Orbit(yaw, pitch float64) {
	const limit = 0.01

	offset := c.Eye.Sub(c.Target)
	r := offset.Len()
	if r == 0 {
		return
	}

	theta := math.Atan2(offset[0], offset[2]) + yaw
	phi := math.Acos(mgl64.Clamp(offset[1]/r, -1, 1)) - pitch
	phi = mgl64.Clamp(phi, limit, math.Pi-limit)

	c.Eye = c.Target.Add(mgl64.Vec3{
		r * math.Sin(phi) * math.Sin(theta),
		r * math.Cos(phi),
		r * math.Sin(phi) * math.Cos(theta),
	})
}

// Zoom scales the eye distance by factor, keeping the eye past the near
// plane.
func (c *Camera) Zoom(factor float64) {
	offset := c.Eye.Sub(c.Target).Mul(factor)
	if offset.Len() < c.Near*2 {
		return
	}
	c.Eye = c.Target.Add(offset)
}

// Frame points the camera at the centre of b from far enough away for all
// of b to fit, keeping the current viewing direction.
func (c *Camera) Frame(b Box3) {
	if b.IsEmpty() {
		return
	}

	dir := c.Eye.Sub(c.Target)
	if dir.Len() == 0 {
		dir = mgl64.Vec3{0, 0, 1}
	}

	radius := b.Size().Len() / 2
	dist := radius / math.Sin(mgl64.DegToRad(c.FovY)/2)

	c.Target = b.Center()
	c.Eye = c.Target.Add(dir.Normalize().Mul(dist))
	if c.Far < dist+radius {
		c.Far = (dist + radius) * 2
	}
}
