package main

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/smasonuk/partindex"
)

func newSceneCamera(scene *partindex.Scene, width, height int) *partindex.Camera {
	cam := partindex.NewCamera(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, float64(width)/float64(height))
	cam.Frame(scene.BoundingBox())
	return cam
}

// runHeadless casts a grid of pick rays across the view and runs one full
// view frustum query.
func runHeadless(scene *partindex.Scene, conf config) {
	cam := newSceneCamera(scene, conf.Width, conf.Height)

	n := conf.PickGrid
	if n < 1 {
		n = 1
	}

	start := time.Now()
	hits := make(map[string]int)
	misses := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x := (float64(i)+0.5)/float64(n)*2 - 1
			y := (float64(j)+0.5)/float64(n)*2 - 1

			hit, ok := scene.RayHit(cam.PickRay(x, y))
			if !ok {
				misses++
				continue
			}
			hits[hit.Part.Name]++
			logs.WithTag("x", x).
				WithTag("y", y).
				WithTag("part", hit.Part.Name).
				WithTag("point", hit.Point).
				Debug("pick ray hit")
		}
	}
	logs.WithTag("rays", n*n).
		WithTag("misses", misses).
		WithTag("hits", hits).
		WithTag("duration", time.Since(start)).
		Info("pick rays cast")

	start = time.Now()
	visible := scene.FrustumIntersect(cam.Frustum())
	names := make([]string, 0, len(visible))
	for _, p := range visible {
		names = append(names, p.Name)
	}
	scene.ResetSelection()
	logs.WithTag("visible", len(visible)).
		WithTag("parts", names).
		WithTag("duration", time.Since(start)).
		Info("frustum query done")

	collisions, triangles := 0, 0
	for _, p := range scene.Parts() {
		triangles += p.TriangleCount()
		for _, other := range scene.IntersectingParts(p) {
			collisions++
			logs.WithTag("part", p.Name).
				WithTag("other", other.Name).
				Debug("parts intersect")
		}
	}

	stats := scene.Octree().Stats()
	logs.WithTag("nodes", stats.Nodes).
		WithTag("leaves", stats.Leaves).
		WithTag("depth", stats.MaxDepth).
		WithTag("part_refs", stats.PartRefs).
		WithTag("triangles", triangles).
		WithTag("intersecting_pairs", collisions).
		Info("octree stats")
}
