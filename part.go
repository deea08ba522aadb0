package partindex

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Part is one drawable item of the scene: untransformed geometry grouped
// by color, the matrix that places it, and the indexes the VertexManager
// handed out for its transformed vertices.
type Part struct {
	ID    uuid.UUID
	Name  string
	Color ColorCode

	// Multiply the untransformed vertices by Matrix to get the vertices to
	// be displayed.
	Matrix mgl64.Mat4

	BoundingBox            Box3
	TransformedBoundingBox Box3

	LineVertices         map[ColorCode][]mgl64.Vec3
	TriangleVertices     map[ColorCode][]mgl64.Vec3
	OptionalLineVertices map[ColorCode][]OptionalLine

	// Indexes into the per-color vertex buffers, stride 2 for lines and 3
	// for triangles. Only the VertexManager writes these.
	LineIndices     map[ColorCode][]uint32
	TriangleIndices map[ColorCode][]uint32

	// Optional lines are not shared between parts, so they are kept as
	// transformed positions rather than indexes. Only the VertexManager
	// writes these.
	OptionalLineBuffers map[ColorCode]OptionalLineBuffers
}

// OptionalLine is an edge drawn only when its control points C and D lie
// on the same side of AB on screen.
type OptionalLine struct {
	A, B mgl64.Vec3
	C, D mgl64.Vec3
}

// OptionalLineBuffers holds flat xyz positions, two vertices per line.
// Vertex1 runs A to B, Vertex2 runs B to A, and the control buffers repeat
// C and D for both vertices.
type OptionalLineBuffers struct {
	Vertex1  []float32
	Vertex2  []float32
	Control1 []float32
	Control2 []float32
}

// Len is the number of vertices, two per line.
func (b OptionalLineBuffers) Len() int {
	return len(b.Vertex1) / 3
}

func (b OptionalLineBuffers) add(l OptionalLine, m mgl64.Mat4) OptionalLineBuffers {
	start := TransformPoint(m, l.A)
	end := TransformPoint(m, l.B)
	c := TransformPoint(m, l.C)
	d := TransformPoint(m, l.D)

	b.Vertex1 = appendVec3(b.Vertex1, start, end)
	b.Vertex2 = appendVec3(b.Vertex2, end, start)
	b.Control1 = appendVec3(b.Control1, c, c)
	b.Control2 = appendVec3(b.Control2, d, d)
	return b
}

func (b OptionalLineBuffers) appendBuffers(other OptionalLineBuffers) OptionalLineBuffers {
	b.Vertex1 = append(b.Vertex1, other.Vertex1...)
	b.Vertex2 = append(b.Vertex2, other.Vertex2...)
	b.Control1 = append(b.Control1, other.Control1...)
	b.Control2 = append(b.Control2, other.Control2...)
	return b
}

func (b OptionalLineBuffers) truncate() OptionalLineBuffers {
	return OptionalLineBuffers{
		Vertex1:  b.Vertex1[:0],
		Vertex2:  b.Vertex2[:0],
		Control1: b.Control1[:0],
		Control2: b.Control2[:0],
	}
}

func appendVec3(buf []float32, vs ...mgl64.Vec3) []float32 {
	for _, v := range vs {
		buf = append(buf, float32(v[0]), float32(v[1]), float32(v[2]))
	}
	return buf
}

func NewPart(name string, color ColorCode, matrix mgl64.Mat4) *Part {
	return &Part{
		ID:                     uuid.New(),
		Name:                   name,
		Color:                  color,
		Matrix:                 matrix,
		BoundingBox:            EmptyBox3(),
		TransformedBoundingBox: EmptyBox3(),
		LineVertices:           make(map[ColorCode][]mgl64.Vec3),
		TriangleVertices:       make(map[ColorCode][]mgl64.Vec3),
		OptionalLineVertices:   make(map[ColorCode][]OptionalLine),
		LineIndices:            make(map[ColorCode][]uint32),
		TriangleIndices:        make(map[ColorCode][]uint32),
		OptionalLineBuffers:    make(map[ColorCode]OptionalLineBuffers),
	}
}

func (p *Part) resolve(color ColorCode) ColorCode {
	if color == MainColor {
		return p.Color
	}
	return color
}

func (p *Part) AddLine(color ColorCode, a, b mgl64.Vec3) {
	color = p.resolve(color)
	p.LineVertices[color] = append(p.LineVertices[color], a, b)
	p.BoundingBox.ExpandByPoint(a)
	p.BoundingBox.ExpandByPoint(b)
}

func (p *Part) AddTriangle(color ColorCode, a, b, c mgl64.Vec3) {
	color = p.resolve(color)
	p.TriangleVertices[color] = append(p.TriangleVertices[color], a, b, c)
	p.BoundingBox.ExpandByPoint(a)
	p.BoundingBox.ExpandByPoint(b)
	p.BoundingBox.ExpandByPoint(c)
}

// AddOptionalLine adds the line ab with control points c and d. Only the
// end points count towards the bounding box.
func (p *Part) AddOptionalLine(color ColorCode, a, b, c, d mgl64.Vec3) {
	color = p.resolve(color)
	p.OptionalLineVertices[color] = append(p.OptionalLineVertices[color], OptionalLine{A: a, B: b, C: c, D: d})
	p.BoundingBox.ExpandByPoint(a)
	p.BoundingBox.ExpandByPoint(b)
}

// AddQuad splits abcd into the triangles abc and acd.
func (p *Part) AddQuad(color ColorCode, a, b, c, d mgl64.Vec3) {
	p.AddTriangle(color, a, b, c)
	p.AddTriangle(color, a, c, d)
}

func (p *Part) UpdateTransformedBoundingBox() {
	p.TransformedBoundingBox = p.BoundingBox.ApplyMatrix4(p.Matrix)
}

// Colors lists every color the part has geometry in, in ascending order.
func (p *Part) Colors() []ColorCode {
	seen := make(map[ColorCode]struct{})
	for c := range p.LineVertices {
		seen[c] = struct{}{}
	}
	for c := range p.TriangleVertices {
		seen[c] = struct{}{}
	}
	for c := range p.OptionalLineVertices {
		seen[c] = struct{}{}
	}

	colors := make([]ColorCode, 0, len(seen))
	for c := range seen {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })
	return colors
}

func (p *Part) TriangleCount() int {
	n := 0
	for _, vs := range p.TriangleVertices {
		n += len(vs) / 3
	}
	return n
}

// NewBoxPart builds a closed box from the origin to size with outward
// facing triangles and edge lines around every face.
func NewBoxPart(name string, color ColorCode, size mgl64.Vec3, matrix mgl64.Mat4) *Part {
	p := NewPart(name, color, matrix)

	x, y, z := size[0], size[1], size[2]
	v := [8]mgl64.Vec3{
		{0, 0, 0}, {x, 0, 0}, {x, y, 0}, {0, y, 0},
		{0, 0, z}, {x, 0, z}, {x, y, z}, {0, y, z},
	}

	// counter-clockwise seen from outside
	faces := [6][4]int{
		{0, 3, 2, 1}, // -z
		{4, 5, 6, 7}, // +z
		{0, 1, 5, 4}, // -y
		{3, 7, 6, 2}, // +y
		{0, 4, 7, 3}, // -x
		{1, 2, 6, 5}, // +x
	}
	for _, f := range faces {
		p.AddQuad(MainColor, v[f[0]], v[f[1]], v[f[2]], v[f[3]])
	}

	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		p.AddLine(EdgeColor, v[e[0]], v[e[1]])
	}

	p.UpdateTransformedBoundingBox()
	return p
}
