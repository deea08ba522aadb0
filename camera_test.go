package partindex

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func testCamera() *Camera {
	return NewCamera(mgl64.Vec3{0, 0, 100}, mgl64.Vec3{}, 1)
}

func TestCameraPickRayThroughCentre(t *testing.T) {
	c := testCamera()

	ray := c.PickRay(0, 0)
	requireVecAlmostEqual(t, c.Eye, ray.Origin)
	requireVecAlmostEqual(t, mgl64.Vec3{0, 0, -1}, ray.Direction)
}

func TestCameraPickRayOffCentre(t *testing.T) {
	c := testCamera()

	// a point on the right edge of the view at the target's depth
	halfWidth := 100 * math.Tan(mgl64.DegToRad(c.FovY)/2)
	ray := c.PickRay(1, 0)
	expected := mgl64.Vec3{halfWidth, 0, -100}.Normalize()
	requireVecAlmostEqual(t, expected, ray.Direction)
}

func TestCameraProject(t *testing.T) {
	c := testCamera()

	ndc, ok := c.Project(mgl64.Vec3{})
	require.True(t, ok)
	require.True(t, almostEqual(0, ndc[0]))
	require.True(t, almostEqual(0, ndc[1]))
	require.Greater(t, ndc[2], -1.0)
	require.Less(t, ndc[2], 1.0)

	right, ok := c.Project(mgl64.Vec3{10, 0, 0})
	require.True(t, ok)
	require.Greater(t, right[0], 0.0)

	_, ok = c.Project(mgl64.Vec3{0, 0, 200})
	require.False(t, ok)
}

func TestCameraFrustum(t *testing.T) {
	c := testCamera()
	f := c.Frustum()

	testCases := []struct {
		name   string
		point  mgl64.Vec3
		inside bool
	}{
		{name: "target", point: mgl64.Vec3{}, inside: true},
		{name: "behind the eye", point: mgl64.Vec3{0, 0, 200}, inside: false},
		{name: "closer than near", point: mgl64.Vec3{0, 0, 99.5}, inside: false},
		{name: "beyond far", point: mgl64.Vec3{0, 0, -20000}, inside: false},
		{name: "far off to the side", point: mgl64.Vec3{500, 0, 0}, inside: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.inside, f.ContainsPoint(tc.point))
		})
	}
}

func TestCameraSelectionFrustum(t *testing.T) {
	c := testCamera()

	f := c.SelectionFrustum(-0.1, -0.1, 0.1, 0.1)
	require.True(t, f.ContainsPoint(mgl64.Vec3{}))
	require.False(t, f.ContainsPoint(mgl64.Vec3{30, 0, 0}))
	require.False(t, f.ContainsPoint(mgl64.Vec3{0, -30, 0}))

	// corner order does not matter
	swapped := c.SelectionFrustum(0.1, 0.1, -0.1, -0.1)
	require.True(t, swapped.ContainsPoint(mgl64.Vec3{}))
	require.False(t, swapped.ContainsPoint(mgl64.Vec3{30, 0, 0}))

	// right half of the screen only
	right := c.SelectionFrustum(0, -1, 1, 1)
	require.True(t, right.ContainsPoint(mgl64.Vec3{20, 0, 0}))
	require.False(t, right.ContainsPoint(mgl64.Vec3{-20, 0, 0}))

	// a click still yields a usable frustum
	require.NotPanics(t, func() {
		c.SelectionFrustum(0.5, 0.5, 0.5, 0.5)
	})
}

func TestCameraOrbit(t *testing.T) {
	c := testCamera()

	c.Orbit(0.5, 0.2)
	require.True(t, almostEqual(100, c.Eye.Sub(c.Target).Len()))
	require.Greater(t, c.Eye[0], 0.0)
	require.Greater(t, c.Eye[1], 0.0)

	// pitch stops short of the pole
	c.Orbit(0, 10)
	require.True(t, almostEqual(100, c.Eye.Sub(c.Target).Len()))
	require.Less(t, c.Eye[1], 100.0)
	require.Greater(t, c.Eye[1], 99.0)
}

func TestCameraZoom(t *testing.T) {
	c := testCamera()

	c.Zoom(0.5)
	requireVecAlmostEqual(t, mgl64.Vec3{0, 0, 50}, c.Eye)

	// too close to the target
	c.Zoom(0.0001)
	requireVecAlmostEqual(t, mgl64.Vec3{0, 0, 50}, c.Eye)
}

func TestCameraFrame(t *testing.T) {
	c := testCamera()
	box := NewBox3(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10})

	c.Frame(box)
	requireVecAlmostEqual(t, mgl64.Vec3{5, 5, 5}, c.Target)
	require.True(t, almostEqual(c.Eye[0], 5))
	require.True(t, almostEqual(c.Eye[1], 5))
	require.Greater(t, c.Eye[2], 10.0)

	f := c.Frustum()
	for i := 0; i < 8; i++ {
		corner := box.Min
		if i&4 != 0 {
			corner[0] = box.Max[0]
		}
		if i&2 != 0 {
			corner[1] = box.Max[1]
		}
		if i&1 != 0 {
			corner[2] = box.Max[2]
		}
		require.True(t, f.ContainsPoint(corner), "corner %v", corner)
	}

	before := *c
	c.Frame(EmptyBox3())
	require.Equal(t, before, *c)
}
