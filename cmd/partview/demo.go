package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smasonuk/partindex"
)

var demoColors = []partindex.ColorCode{1, 2, 4, 14, 15, 71}

// demoParts lays out a grid of bricks on a base plate. Every third brick
// is turned a quarter turn.
func demoParts() []*partindex.Part {
	const (
		grid    = 6
		spacing = 40.0
	)

	parts := []*partindex.Part{
		partindex.NewBoxPart("base", 7,
			mgl64.Vec3{grid * spacing, 8, grid * spacing},
			partindex.NewPlacementMatrix(mgl64.Vec3{-10, 0, -10}, mgl64.Vec3{})),
	}

	for i := 0; i < grid; i++ {
		for j := 0; j < grid; j++ {
			n := i*grid + j
			rotation := mgl64.Vec3{}
			if n%3 == 0 {
				rotation[1] = 90
			}

			// -Y is up
			position := mgl64.Vec3{float64(i) * spacing, -24, float64(j) * spacing}
			m := partindex.NewPlacementMatrix(position, rotation)

			parts = append(parts, partindex.NewBoxPart(
				fmt.Sprintf("brick-%d-%d", i, j),
				demoColors[n%len(demoColors)],
				mgl64.Vec3{20, 24, 20},
				m,
			))
		}
	}
	return parts
}
