package main

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/smasonuk/partindex"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// DrawTriangles takes 16-bit indexes.
const maxBatchVertices = math.MaxUint16 - 2

type screenTriangle struct {
	x, y  [3]float32
	depth float64
	clr   color.RGBA
}

type projector struct {
	cam           *partindex.Camera
	viewProj      mgl64.Mat4
	width, height float64
}

func newProjector(cam *partindex.Camera, width, height int) projector {
	return projector{
		cam:      cam,
		viewProj: cam.ViewProjection().Mul4(partindex.YAxisInvert),
		width:    float64(width),
		height:   float64(height),
	}
}

// toScreen projects a scene space point. It reports false for points
// outside the depth range.
func (p projector) toScreen(v mgl64.Vec3) (float32, float32, float64, bool) {
	clip := p.viewProj.Mul4x1(v.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	if ndc[2] < -1 || ndc[2] > 1 {
		return 0, 0, 0, false
	}

	x := (ndc[0] + 1) / 2 * p.width
	y := (1 - ndc[1]) / 2 * p.height
	return float32(x), float32(y), ndc[2], true
}

func shade(clr color.RGBA, tri partindex.Triangle, eye mgl64.Vec3) color.RGBA {
	n := tri.Normal()
	view := eye.Sub(tri.A)
	if n.Len() == 0 || view.Len() == 0 {
		return clr
	}

	light := 0.35 + 0.65*math.Abs(n.Dot(view.Normalize()))
	return color.RGBA{
		R: uint8(float64(clr.R) * light),
		G: uint8(float64(clr.G) * light),
		B: uint8(float64(clr.B) * light),
		A: clr.A,
	}
}

// drawTriangles paints back to front.
func drawTriangles(screen *ebiten.Image, tris []screenTriangle) {
	sort.Slice(tris, func(i, j int) bool {
		return tris[i].depth > tris[j].depth
	})

	vertices := make([]ebiten.Vertex, 0, 3*len(tris))
	indices := make([]uint16, 0, 3*len(tris))

	flush := func() {
		if len(vertices) == 0 {
			return
		}
		op := &ebiten.DrawTrianglesOptions{}
		op.AntiAlias = true
		screen.DrawTriangles(vertices, indices, whiteSub, op)
		vertices = vertices[:0]
		indices = indices[:0]
	}

	for _, t := range tris {
		if len(vertices)+3 > maxBatchVertices {
			flush()
		}

		cr := float32(t.clr.R) / 255.0
		cg := float32(t.clr.G) / 255.0
		cb := float32(t.clr.B) / 255.0
		ca := float32(t.clr.A) / 255.0

		base := uint16(len(vertices))
		for k := 0; k < 3; k++ {
			vertices = append(vertices, ebiten.Vertex{
				DstX:   t.x[k],
				DstY:   t.y[k],
				SrcX:   1,
				SrcY:   1,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			})
		}
		indices = append(indices, base, base+1, base+2)
	}
	flush()
}

func drawLine(screen *ebiten.Image, p projector, a, b mgl64.Vec3, width float32, clr color.Color) {
	x0, y0, _, ok := p.toScreen(a)
	if !ok {
		return
	}
	x1, y1, _, ok := p.toScreen(b)
	if !ok {
		return
	}
	vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, false)
}

func vec3At(buf []float32, i int) mgl64.Vec3 {
	return mgl64.Vec3{float64(buf[3*i]), float64(buf[3*i+1]), float64(buf[3*i+2])}
}

// drawOptionalLines draws the optional lines whose control points land on
// the same side of the line on screen.
func drawOptionalLines(screen *ebiten.Image, p projector, lines partindex.OptionalLineBuffers, clr color.Color) {
	for i := 0; i+1 < lines.Len(); i += 2 {
		a, b := vec3At(lines.Vertex1, i), vec3At(lines.Vertex1, i+1)
		c, d := vec3At(lines.Control1, i), vec3At(lines.Control2, i)

		ax, ay, _, ok1 := p.toScreen(a)
		bx, by, _, ok2 := p.toScreen(b)
		cx, cy, _, ok3 := p.toScreen(c)
		dx, dy, _, ok4 := p.toScreen(d)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}

		ex, ey := bx-ax, by-ay
		sideC := ex*(cy-ay) - ey*(cx-ax)
		sideD := ex*(dy-ay) - ey*(dx-ax)
		if sideC*sideD <= 0 {
			continue
		}
		vector.StrokeLine(screen, ax, ay, bx, by, 1, clr, false)
	}
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func drawBox(screen *ebiten.Image, p projector, b partindex.Box3, clr color.Color) {
	var corners [8]mgl64.Vec3
	for i := range corners {
		c := b.Min
		if i&4 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&1 != 0 {
			c[2] = b.Max[2]
		}
		corners[i] = c
	}

	for _, e := range boxEdges {
		drawLine(screen, p, corners[e[0]], corners[e[1]], 1, clr)
	}
}

// drawRubberBand outlines the selection rectangle being dragged.
func drawRubberBand(screen *ebiten.Image, x0, y0, x1, y1 int) {
	left, right := math.Min(float64(x0), float64(x1)), math.Max(float64(x0), float64(x1))
	top, bottom := math.Min(float64(y0), float64(y1)), math.Max(float64(y0), float64(y1))

	vector.StrokeRect(screen,
		float32(left), float32(top),
		float32(right-left), float32(bottom-top),
		1, color.RGBA{R: 255, G: 255, A: 255}, false)
}
