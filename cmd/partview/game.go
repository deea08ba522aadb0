package main

import (
	"context"
	"fmt"
	"image/color"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/smasonuk/partindex"
)

const (
	// drags shorter than this many pixels are clicks
	dragThreshold = 4
	orbitStep     = 0.03
	moveStep      = 20.0
)

var (
	backgroundColor = color.RGBA{R: 0xcd, G: 0xd2, B: 0xe0, A: 0xff}
	selectedColor   = color.RGBA{R: 255, G: 200, A: 255}
	visitedColor    = color.RGBA{R: 255, A: 255}
	nodeColor       = color.RGBA{G: 255, A: 255}
)

type Game struct {
	ctx    context.Context
	scene  *partindex.Scene
	colors partindex.ColorTable
	cam    *partindex.Camera

	width, height int
	showOctree    bool

	pressed        bool
	startX, startY int
	lastX, lastY   int
	dragged        bool
}

func newGame(ctx context.Context, scene *partindex.Scene, colors partindex.ColorTable, conf config) *Game {
	logs.Info("initializing viewer")

	return &Game{
		ctx:        ctx,
		scene:      scene,
		colors:     colors,
		cam:        newSceneCamera(scene, conf.Width, conf.Height),
		width:      conf.Width,
		height:     conf.Height,
		showOctree: conf.Octree,
	}
}

func (g *Game) ndc(x, y int) (float64, float64) {
	return 2*float64(x)/float64(g.width) - 1, 1 - 2*float64(y)/float64(g.height)
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	g.updateCamera()
	g.updateSelection()

	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.showOctree = !g.showOctree
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if selected := g.scene.SelectedParts(); len(selected) > 0 {
			g.scene.DeleteParts(selected)
			logs.WithTag("parts", len(selected)).Info("parts deleted")
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		if selected := g.scene.SelectedParts(); len(selected) > 0 {
			g.scene.MoveParts(selected, mgl64.Translate3D(moveStep, 0, 0))
			logs.WithTag("parts", len(selected)).Info("parts moved")
		}
	}
	return nil
}

func (g *Game) updateCamera() {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.Orbit(-orbitStep, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.Orbit(orbitStep, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.Orbit(0, orbitStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.Orbit(0, -orbitStep)
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		if dy > 0 {
			g.cam.Zoom(0.9)
		} else {
			g.cam.Zoom(1.1)
		}
	}

	// right drag orbits
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.lastX, g.lastY = ebiten.CursorPosition()
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		x, y := ebiten.CursorPosition()
		dx := float64(x-g.lastX) / 200.0
		dy := float64(y-g.lastY) / 200.0
		g.cam.Orbit(-dx, dy)
		g.lastX, g.lastY = x, y
	}
}

func (g *Game) updateSelection() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pressed = true
		g.dragged = false
		g.startX, g.startY = ebiten.CursorPosition()
	}

	if g.pressed {
		x, y := ebiten.CursorPosition()
		if abs(x-g.startX) > dragThreshold || abs(y-g.startY) > dragThreshold {
			g.dragged = true
		}
	}

	if !inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		return
	}
	g.pressed = false

	x, y := ebiten.CursorPosition()
	if !g.dragged {
		g.pick(x, y)
		return
	}

	x0, y0 := g.ndc(g.startX, g.startY)
	x1, y1 := g.ndc(x, y)

	g.scene.ResetSelection()
	parts := g.scene.FrustumIntersect(g.cam.SelectionFrustum(x0, y0, x1, y1))
	g.scene.SetSelection(parts)
	logs.WithTag("parts", len(parts)).Debug("rubber band selection")
}

func (g *Game) pick(x, y int) {
	nx, ny := g.ndc(x, y)

	hit, ok := g.scene.RayHit(g.cam.PickRay(nx, ny))
	if !ok {
		g.scene.SetSelection(nil)
		return
	}

	g.scene.SetSelection([]*partindex.Part{hit.Part})
	logs.WithTag("part", hit.Part.Name).
		WithTag("id", hit.Part.ID).
		WithTag("point", hit.Point).
		Debug("part picked")
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	p := newProjector(g.cam, g.width, g.height)
	buffers := g.scene.Buffers()
	eye := partindex.TransformPoint(partindex.YAxisInvert, g.cam.Eye)

	var tris []screenTriangle
	for code, list := range g.scene.DrawLists() {
		clr := g.colors.Lookup(code).Value

		for i := 0; i+2 < list.Triangles.Len(); i += 3 {
			idx := []uint32{list.Triangles.At(i), list.Triangles.At(i + 1), list.Triangles.At(i + 2)}
			tri, ok := buffers.Triangle(code, idx, 0)
			if !ok {
				continue
			}

			var st screenTriangle
			visible := true
			for k, v := range [3]mgl64.Vec3{tri.A, tri.B, tri.C} {
				sx, sy, depth, ok := p.toScreen(v)
				if !ok {
					visible = false
					break
				}
				st.x[k], st.y[k] = sx, sy
				st.depth += depth / 3
			}
			if !visible {
				continue
			}
			st.clr = shade(clr, tri, eye)
			tris = append(tris, st)
		}
	}
	drawTriangles(screen, tris)

	for code, list := range g.scene.DrawLists() {
		edge := g.colors.Lookup(code).Value
		for i := 0; i+1 < list.Lines.Len(); i += 2 {
			a, aok := buffers.Vertex(code, list.Lines.At(i))
			b, bok := buffers.Vertex(code, list.Lines.At(i+1))
			if aok && bok {
				drawLine(screen, p, a, b, 1, edge)
			}
		}
	}

	for code, list := range g.scene.DrawLists() {
		drawOptionalLines(screen, p, list.OptionalLines, g.colors.Lookup(code).Value)
	}

	for _, part := range g.scene.SelectedParts() {
		drawBox(screen, p, part.TransformedBoundingBox, selectedColor)
	}

	if g.showOctree {
		g.scene.Octree().Walk(func(n partindex.NodeInfo) bool {
			clr := nodeColor
			if n.Visited {
				clr = visitedColor
			}
			drawBox(screen, p, n.Box, clr)
			return true
		})
	}

	if g.pressed && g.dragged {
		x, y := ebiten.CursorPosition()
		drawRubberBand(screen, g.startX, g.startY, x, y)
	}

	stats := g.scene.VertexStats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %0.2f parts: %d selected: %d vertices: %d",
		ebiten.ActualFPS(),
		len(g.scene.Parts()),
		len(g.scene.SelectedParts()),
		stats.Vertices,
	))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
		g.cam.Aspect = float64(outsideWidth) / float64(outsideHeight)
	}
	return g.width, g.height
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
