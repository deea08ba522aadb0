package partindex

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// VertexManager keeps one VertexMap per color, so every color's points can
// be uploaded as their own buffer.
type VertexManager struct {
	maps map[ColorCode]*VertexMap
}

func NewVertexManager() *VertexManager {
	return &VertexManager{
		maps: make(map[ColorCode]*VertexMap),
	}
}

// ColorAccumulator appends the vertices of one part in one color.
type ColorAccumulator struct {
	vertices *VertexMap
	part     *Part
	color    ColorCode
}

// ColorAccumulator creates the color's VertexMap and the part's index
// lists on first use.
func (m *VertexManager) ColorAccumulator(color ColorCode, part *Part) *ColorAccumulator {
	vm, ok := m.maps[color]
	if !ok {
		vm = NewVertexMap()
		m.maps[color] = vm
	}

	if _, ok := part.LineIndices[color]; !ok {
		part.LineIndices[color] = []uint32{}
	}
	if _, ok := part.TriangleIndices[color]; !ok {
		part.TriangleIndices[color] = []uint32{}
	}

	return &ColorAccumulator{
		vertices: vm,
		part:     part,
		color:    color,
	}
}

func (a *ColorAccumulator) AddLine(point mgl64.Vec3, matrix mgl64.Mat4) {
	index := a.vertices.Add(TransformPoint(matrix, point))
	a.part.LineIndices[a.color] = append(a.part.LineIndices[a.color], index)
}

func (a *ColorAccumulator) AddTriangle(point mgl64.Vec3, matrix mgl64.Mat4) {
	index := a.vertices.Add(TransformPoint(matrix, point))
	a.part.TriangleIndices[a.color] = append(a.part.TriangleIndices[a.color], index)
}

// AddPart transforms every vertex of the part by its matrix and records
// the resulting indexes on the part.
func (m *VertexManager) AddPart(part *Part) {
	for _, color := range part.Colors() {
		acc := m.ColorAccumulator(color, part)
		for _, v := range part.LineVertices[color] {
			acc.AddLine(v, part.Matrix)
		}
		for _, v := range part.TriangleVertices[color] {
			acc.AddTriangle(v, part.Matrix)
		}

		lines := part.OptionalLineVertices[color]
		if len(lines) == 0 {
			continue
		}
		buffers := part.OptionalLineBuffers[color]
		for _, l := range lines {
			buffers = buffers.add(l, part.Matrix)
		}
		part.OptionalLineBuffers[color] = buffers
	}
}

// Remove releases the part's references and empties its index lists and
// optional line buffers. Call
// it before SnapshotBuffers when a part changed.
func (m *VertexManager) Remove(part *Part) {
	for color, indices := range part.LineIndices {
		if vm, ok := m.maps[color]; ok {
			vm.Remove(indices)
		}
		part.LineIndices[color] = indices[:0]
	}
	for color, indices := range part.TriangleIndices {
		if vm, ok := m.maps[color]; ok {
			vm.Remove(indices)
		}
		part.TriangleIndices[color] = indices[:0]
	}
	for color, buffers := range part.OptionalLineBuffers {
		part.OptionalLineBuffers[color] = buffers.truncate()
	}
}

// VertexMap returns the map of one color, nil when the color was never
// used.
func (m *VertexManager) VertexMap(color ColorCode) *VertexMap {
	return m.maps[color]
}

// SnapshotBuffers copies every color's positions. The result does not
// change when the manager is modified afterwards.
func (m *VertexManager) SnapshotBuffers() VertexBuffers {
	buffers := make(VertexBuffers, len(m.maps))
	for color, vm := range m.maps {
		buffers[color] = vm.Snapshot()
	}
	return buffers
}

type VertexStats struct {
	Colors    int
	Vertices  int
	Slots     int
	FreeSlots int
}

func (m *VertexManager) Stats() VertexStats {
	s := VertexStats{Colors: len(m.maps)}
	for _, vm := range m.maps {
		s.Vertices += vm.Len()
		s.Slots += vm.Cap()
		s.FreeSlots += vm.FreeSlots()
	}
	return s
}

// VertexBuffers holds flat xyz positions per color.
type VertexBuffers map[ColorCode][]float32

func (b VertexBuffers) Vertex(color ColorCode, index uint32) (mgl64.Vec3, bool) {
	buf := b[color]
	i := int(index) * 3
	if i+2 >= len(buf) {
		return mgl64.Vec3{}, false
	}
	return mgl64.Vec3{float64(buf[i]), float64(buf[i+1]), float64(buf[i+2])}, true
}

// Triangle resolves the i-th triangle of a stride 3 index list.
func (b VertexBuffers) Triangle(color ColorCode, indices []uint32, i int) (Triangle, bool) {
	if 3*i+2 >= len(indices) {
		return Triangle{}, false
	}
	va, ok := b.Vertex(color, indices[3*i])
	if !ok {
		return Triangle{}, false
	}
	vb, ok := b.Vertex(color, indices[3*i+1])
	if !ok {
		return Triangle{}, false
	}
	vc, ok := b.Vertex(color, indices[3*i+2])
	if !ok {
		return Triangle{}, false
	}
	return NewTriangle(va, vb, vc), true
}

// Segment resolves the i-th segment of a stride 2 index list.
func (b VertexBuffers) Segment(color ColorCode, indices []uint32, i int) (mgl64.Vec3, mgl64.Vec3, bool) {
	if 2*i+1 >= len(indices) {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	va, ok := b.Vertex(color, indices[2*i])
	if !ok {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	vb, ok := b.Vertex(color, indices[2*i+1])
	if !ok {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return va, vb, true
}

// Colors lists the colors present, ascending.
func (b VertexBuffers) Colors() []ColorCode {
	colors := make([]ColorCode, 0, len(b))
	for c := range b {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })
	return colors
}
