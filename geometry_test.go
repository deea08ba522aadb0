package partindex

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestBox3Basics(t *testing.T) {
	b := EmptyBox3()
	require.True(t, b.IsEmpty())
	require.Equal(t, mgl64.Vec3{}, b.Size())

	b.ExpandByPoint(mgl64.Vec3{1, 2, 3})
	require.False(t, b.IsEmpty())
	require.Equal(t, mgl64.Vec3{}, b.Size())

	b.ExpandByPoint(mgl64.Vec3{-1, 4, 0})
	require.Equal(t, mgl64.Vec3{-1, 2, 0}, b.Min)
	require.Equal(t, mgl64.Vec3{1, 4, 3}, b.Max)
	require.Equal(t, mgl64.Vec3{0, 3, 1.5}, b.Center())

	u := EmptyBox3().Union(b)
	require.Equal(t, b, u)
}

func TestBox3IntersectsBox(t *testing.T) {
	b := NewBox3(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10})

	testCases := []struct {
		name     string
		other    Box3
		expected bool
	}{
		{name: "inside", other: NewBox3(mgl64.Vec3{2, 2, 2}, mgl64.Vec3{3, 3, 3}), expected: true},
		{name: "overlapping", other: NewBox3(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{15, 15, 15}), expected: true},
		{name: "touching face", other: NewBox3(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{20, 10, 10}), expected: true},
		{name: "apart on x", other: NewBox3(mgl64.Vec3{11, 0, 0}, mgl64.Vec3{20, 10, 10}), expected: false},
		{name: "apart on z", other: NewBox3(mgl64.Vec3{0, 0, -5}, mgl64.Vec3{10, 10, -1}), expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, b.IntersectsBox(tc.other))
			require.Equal(t, tc.expected, tc.other.IntersectsBox(b))
		})
	}
}

func TestBox3ApplyMatrix4(t *testing.T) {
	b := NewBox3(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 20, 30})

	moved := b.ApplyMatrix4(mgl64.Translate3D(5, 5, 5))
	require.Equal(t, mgl64.Vec3{5, 5, 5}, moved.Min)
	require.Equal(t, mgl64.Vec3{15, 25, 35}, moved.Max)

	inverted := b.ApplyMatrix4(YAxisInvert)
	requireVecAlmostEqual(t, mgl64.Vec3{0, -20, -30}, inverted.Min)
	requireVecAlmostEqual(t, mgl64.Vec3{10, 0, 0}, inverted.Max)

	turned := b.ApplyMatrix4(NewPlacementMatrix(mgl64.Vec3{}, mgl64.Vec3{0, 90, 0}))
	requireVecAlmostEqual(t, mgl64.Vec3{0, 0, -10}, turned.Min)
	requireVecAlmostEqual(t, mgl64.Vec3{30, 20, 0}, turned.Max)

	require.True(t, EmptyBox3().ApplyMatrix4(YAxisInvert).IsEmpty())
}

func TestRayIntersectBox(t *testing.T) {
	b := NewBox3(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10})

	testCases := []struct {
		name  string
		ray   Ray
		ok    bool
		entry mgl64.Vec3
	}{
		{
			name:  "from outside",
			ray:   NewRay(mgl64.Vec3{-5, 5, 5}, mgl64.Vec3{1, 0, 0}),
			ok:    true,
			entry: mgl64.Vec3{0, 5, 5},
		},
		{
			name:  "from inside",
			ray:   NewRay(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{1, 0, 0}),
			ok:    true,
			entry: mgl64.Vec3{5, 5, 5},
		},
		{
			name: "pointing away",
			ray:  NewRay(mgl64.Vec3{-5, 5, 5}, mgl64.Vec3{-1, 0, 0}),
			ok:   false,
		},
		{
			name: "parallel outside slab",
			ray:  NewRay(mgl64.Vec3{-5, 20, 5}, mgl64.Vec3{1, 0, 0}),
			ok:   false,
		},
		{
			name:  "diagonal",
			ray:   NewRay(mgl64.Vec3{-10, -10, 5}, mgl64.Vec3{1, 1, 0}),
			ok:    true,
			entry: mgl64.Vec3{0, 0, 5},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok := tc.ray.IntersectBox(b)
			require.Equal(t, tc.ok, ok)
			if ok {
				requireVecAlmostEqual(t, tc.entry, entry)
			}
		})
	}
}

func TestRayIntersectTriangle(t *testing.T) {
	// counter-clockwise seen from +z, so the normal is +z
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{10, 0, 0}
	c := mgl64.Vec3{0, 10, 0}

	testCases := []struct {
		name  string
		ray   Ray
		cull  bool
		ok    bool
		point mgl64.Vec3
	}{
		{
			name:  "front face",
			ray:   NewRay(mgl64.Vec3{2, 2, 10}, mgl64.Vec3{0, 0, -1}),
			ok:    true,
			point: mgl64.Vec3{2, 2, 0},
		},
		{
			name:  "back face",
			ray:   NewRay(mgl64.Vec3{2, 2, -10}, mgl64.Vec3{0, 0, 1}),
			ok:    true,
			point: mgl64.Vec3{2, 2, 0},
		},
		{
			name: "back face culled",
			ray:  NewRay(mgl64.Vec3{2, 2, -10}, mgl64.Vec3{0, 0, 1}),
			cull: true,
			ok:   false,
		},
		{
			name: "outside the triangle",
			ray:  NewRay(mgl64.Vec3{8, 8, 10}, mgl64.Vec3{0, 0, -1}),
			ok:   false,
		},
		{
			name: "behind the origin",
			ray:  NewRay(mgl64.Vec3{2, 2, 10}, mgl64.Vec3{0, 0, 1}),
			ok:   false,
		},
		{
			name: "parallel",
			ray:  NewRay(mgl64.Vec3{2, 2, 0}, mgl64.Vec3{1, 0, 0}),
			ok:   false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			point, ok := tc.ray.IntersectTriangle(a, b, c, tc.cull)
			require.Equal(t, tc.ok, ok)
			if ok {
				requireVecAlmostEqual(t, tc.point, point)
			}
		})
	}
}

func TestRayApplyMatrix4(t *testing.T) {
	r := NewRay(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 1, 0})

	inverted := r.ApplyMatrix4(YAxisInvert)
	requireVecAlmostEqual(t, mgl64.Vec3{1, -2, -3}, inverted.Origin)
	requireVecAlmostEqual(t, mgl64.Vec3{0, -1, 0}, inverted.Direction)

	back := inverted.ApplyMatrix4(YAxisInvert)
	requireVecAlmostEqual(t, r.Origin, back.Origin)
	requireVecAlmostEqual(t, r.Direction, back.Direction)
}

func TestPlane(t *testing.T) {
	p := NewPlaneFromNormalAndPoint(mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 0, 5})
	require.True(t, almostEqual(1, p.DistanceToPoint(mgl64.Vec3{3, 3, 6})))
	require.True(t, almostEqual(-5, p.DistanceToPoint(mgl64.Vec3{0, 0, 0})))

	scaled := NewPlane(0, 0, 2, -10).Normalize()
	require.True(t, almostEqual(p.Constant, scaled.Constant))
	requireVecAlmostEqual(t, p.Normal, scaled.Normal)

	hit, ok := p.IntersectSegment(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, 1, 10})
	require.True(t, ok)
	requireVecAlmostEqual(t, mgl64.Vec3{1, 1, 5}, hit)

	_, ok = p.IntersectSegment(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, 1, 4})
	require.False(t, ok)

	moved := p.ApplyMatrix4(mgl64.Translate3D(0, 0, 5))
	require.True(t, almostEqual(0, moved.DistanceToPoint(mgl64.Vec3{0, 0, 10})))

	inverted := p.ApplyMatrix4(YAxisInvert)
	requireVecAlmostEqual(t, mgl64.Vec3{0, 0, -1}, inverted.Normal)
	require.True(t, almostEqual(0, inverted.DistanceToPoint(mgl64.Vec3{0, 0, -5})))
}

// unitCubeFrustum is the box [-1,1]^3 with inward normals.
func unitCubeFrustum() Frustum {
	return NewFrustumFromMatrix(mgl64.Ident4())
}

func TestFrustumFromIdentity(t *testing.T) {
	f := unitCubeFrustum()

	testCases := []struct {
		name     string
		point    mgl64.Vec3
		expected bool
	}{
		{name: "centre", point: mgl64.Vec3{0, 0, 0}, expected: true},
		{name: "on a face", point: mgl64.Vec3{1, 0, 0}, expected: true},
		{name: "outside x", point: mgl64.Vec3{1.5, 0, 0}, expected: false},
		{name: "outside y", point: mgl64.Vec3{0, -1.5, 0}, expected: false},
		{name: "outside z", point: mgl64.Vec3{0, 0, 2}, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, f.ContainsPoint(tc.point))
		})
	}
}

func TestFrustumIntersectsBox(t *testing.T) {
	f := unitCubeFrustum()

	require.True(t, f.IntersectsBox(NewBox3(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{3, 3, 3})))
	require.True(t, f.IntersectsBox(NewBox3(mgl64.Vec3{-5, -5, -5}, mgl64.Vec3{5, 5, 5})))
	require.False(t, f.IntersectsBox(NewBox3(mgl64.Vec3{2, 2, 2}, mgl64.Vec3{3, 3, 3})))
	require.False(t, f.IntersectsBox(EmptyBox3()))
}

func TestFrustumClipSegment(t *testing.T) {
	f := unitCubeFrustum()

	testCases := []struct {
		name     string
		a, b     mgl64.Vec3
		expected bool
	}{
		{name: "inside", a: mgl64.Vec3{-0.5, 0, 0}, b: mgl64.Vec3{0.5, 0, 0}, expected: true},
		{name: "crossing", a: mgl64.Vec3{-5, 0, 0}, b: mgl64.Vec3{5, 0, 0}, expected: true},
		{name: "one end inside", a: mgl64.Vec3{0, 0, 0}, b: mgl64.Vec3{0, 5, 0}, expected: true},
		{name: "outside one plane", a: mgl64.Vec3{2, -5, 0}, b: mgl64.Vec3{2, 5, 0}, expected: false},
		// each end is inside one plane but the segment passes the corner
		{name: "past a corner", a: mgl64.Vec3{0, 3, 0}, b: mgl64.Vec3{3, 0, 0}, expected: false},
		{name: "through a corner region", a: mgl64.Vec3{-1, 2.5, 0}, b: mgl64.Vec3{2.5, -1, 0}, expected: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, f.ClipSegment(tc.a, tc.b))
			require.Equal(t, tc.expected, f.ClipSegment(tc.b, tc.a))
		})
	}
}

func TestFrustumApplyMatrix4(t *testing.T) {
	f := unitCubeFrustum().ApplyMatrix4(mgl64.Translate3D(10, 0, 0))

	require.True(t, f.ContainsPoint(mgl64.Vec3{10, 0, 0}))
	require.False(t, f.ContainsPoint(mgl64.Vec3{0, 0, 0}))
}

func TestTrianglesIntersect(t *testing.T) {
	base := NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 10, 0})

	testCases := []struct {
		name     string
		other    Triangle
		expected bool
	}{
		{
			name:     "piercing",
			other:    NewTriangle(mgl64.Vec3{2, 2, -5}, mgl64.Vec3{2, 2, 5}, mgl64.Vec3{3, 3, 5}),
			expected: true,
		},
		{
			name:     "above",
			other:    NewTriangle(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{10, 0, 1}, mgl64.Vec3{0, 10, 1}),
			expected: false,
		},
		{
			name:     "beside",
			other:    NewTriangle(mgl64.Vec3{20, 0, -5}, mgl64.Vec3{20, 0, 5}, mgl64.Vec3{20, 5, 0}),
			expected: false,
		},
		{
			name:     "past the hypotenuse",
			other:    NewTriangle(mgl64.Vec3{8, 8, -5}, mgl64.Vec3{8, 8, 5}, mgl64.Vec3{9, 9, 0}),
			expected: false,
		},
		{
			name:     "coplanar overlapping",
			other:    NewTriangle(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{5, 1, 0}, mgl64.Vec3{1, 5, 0}),
			expected: true,
		},
		{
			name:     "coplanar apart",
			other:    NewTriangle(mgl64.Vec3{6, 6, 0}, mgl64.Vec3{9, 6, 0}, mgl64.Vec3{6, 9, 0}),
			expected: false,
		},
		{
			name:     "degenerate",
			other:    NewTriangle(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{2, 2, 0}, mgl64.Vec3{3, 3, 0}),
			expected: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, TrianglesIntersect(base, tc.other))
			require.Equal(t, tc.expected, TrianglesIntersect(tc.other, base))
		})
	}
}

func TestCeilPow2(t *testing.T) {
	testCases := []struct {
		in, out float64
	}{
		{in: 0, out: 1},
		{in: 0.5, out: 1},
		{in: 1, out: 1},
		{in: 2, out: 2},
		{in: 2.5, out: 4},
		{in: 3, out: 4},
		{in: 8, out: 8},
		{in: 8.1, out: 16},
		{in: 210, out: 256},
	}
	for _, tc := range testCases {
		require.Equalf(t, tc.out, ceilPow2(tc.in), "ceilPow2(%v)", tc.in)
	}
}

func TestNewPlacementMatrix(t *testing.T) {
	m := NewPlacementMatrix(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 0, 90})
	requireVecAlmostEqual(t, mgl64.Vec3{10, 1, 0}, TransformPoint(m, mgl64.Vec3{1, 0, 0}))

	requireVecAlmostEqual(t, mgl64.Vec3{1, -2, -3}, TransformPoint(YAxisInvert, mgl64.Vec3{1, 2, 3}))
	require.Equal(t, mgl64.Ident4(), YAxisInvert.Mul4(YAxisInvert))
}
