package partindex

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// MaxShortIndex is the largest vertex count a 16-bit index buffer can
// address.
const MaxShortIndex = 65535

// IndexBuffer holds either 16-bit or 32-bit indexes, never both.
type IndexBuffer struct {
	U16 []uint16
	U32 []uint32
}

func (b IndexBuffer) Wide() bool {
	return b.U32 != nil
}

func (b IndexBuffer) Len() int {
	if b.U32 != nil {
		return len(b.U32)
	}
	return len(b.U16)
}

func (b IndexBuffer) At(i int) uint32 {
	if b.U32 != nil {
		return b.U32[i]
	}
	return uint32(b.U16[i])
}

func newIndexBuffer(vertexCount, size int) IndexBuffer {
	if vertexCount > MaxShortIndex {
		return IndexBuffer{U32: make([]uint32, 0, size)}
	}
	return IndexBuffer{U16: make([]uint16, 0, size)}
}

func (b *IndexBuffer) append(indices []uint32) {
	if b.U32 != nil {
		b.U32 = append(b.U32, indices...)
		return
	}
	for _, i := range indices {
		b.U16 = append(b.U16, uint16(i))
	}
}

// DrawList is what gets uploaded for one color: the edge and optional
// lines of every part and the triangles of the parts that are not
// selected.
type DrawList struct {
	Lines         IndexBuffer
	Triangles     IndexBuffer
	OptionalLines OptionalLineBuffers
}

func newOptionalLineBuffers(size int) OptionalLineBuffers {
	return OptionalLineBuffers{
		Vertex1:  make([]float32, 0, size),
		Vertex2:  make([]float32, 0, size),
		Control1: make([]float32, 0, size),
		Control2: make([]float32, 0, size),
	}
}

type SceneOption func(*Scene)

// WithCullBackfaces sets Octree.CullBackfaces for ray queries.
func WithCullBackfaces(cull bool) SceneOption {
	return func(s *Scene) {
		s.octree.CullBackfaces = cull
	}
}

// Scene owns a set of parts together with the vertex buffers, octree and
// draw lists derived from them. Every edit rebuilds the derived state.
//
// Parts live in LDraw space where -Y is up. Query inputs and BoundingBox
// are in render space.
type Scene struct {
	parts    []*Part
	selected map[*Part]struct{}

	vertices *VertexManager
	octree   *Octree
	buffers  VertexBuffers
	lists    map[ColorCode]DrawList
}

func NewScene(parts []*Part, opts ...SceneOption) *Scene {
	s := &Scene{
		parts:    append([]*Part(nil), parts...),
		selected: make(map[*Part]struct{}),
		vertices: NewVertexManager(),
		octree:   NewOctree(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range s.parts {
		s.vertices.AddPart(p)
	}
	s.rebuild()
	return s
}

func (s *Scene) rebuild() {
	s.buffers = s.vertices.SnapshotBuffers()
	instrumentVertices(s.vertices)

	for _, p := range s.parts {
		p.UpdateTransformedBoundingBox()
	}

	start := time.Now()
	s.octree.Generate(s.parts)
	stats := s.octree.Stats()
	logs.WithTag("parts", len(s.parts)).
		WithTag("nodes", stats.Nodes).
		WithTag("leaves", stats.Leaves).
		WithTag("depth", stats.MaxDepth).
		WithTag("duration", time.Since(start)).
		Debug("octree generated")

	s.mergeDrawLists()
}

func (s *Scene) AddPart(p *Part) {
	s.AddParts([]*Part{p})
}

func (s *Scene) AddParts(parts []*Part) {
	for _, p := range parts {
		s.parts = append(s.parts, p)
		s.vertices.AddPart(p)
	}
	s.rebuild()
}

// DeleteParts removes the given parts. Parts that are not in the scene are
// ignored.
func (s *Scene) DeleteParts(parts []*Part) {
	remove := make(map[*Part]struct{}, len(parts))
	for _, p := range parts {
		remove[p] = struct{}{}
	}

	kept := make([]*Part, 0, len(s.parts))
	for _, p := range s.parts {
		if _, ok := remove[p]; ok {
			s.vertices.Remove(p)
			delete(s.selected, p)
			continue
		}
		kept = append(kept, p)
	}
	s.parts = kept

	s.rebuild()
}

// MoveParts premultiplies each part's matrix by m. Parts that are not in
// the scene are ignored.
func (s *Scene) MoveParts(parts []*Part, m mgl64.Mat4) {
	members := make(map[*Part]struct{}, len(s.parts))
	for _, p := range s.parts {
		members[p] = struct{}{}
	}

	for _, p := range parts {
		if _, ok := members[p]; !ok {
			continue
		}
		// moved once even when listed twice
		delete(members, p)

		s.vertices.Remove(p)
		p.Matrix = m.Mul4(p.Matrix)
		s.vertices.AddPart(p)
	}
	s.rebuild()
}

// SetSelection replaces the selection. Selected parts are drawn without
// their triangles.
func (s *Scene) SetSelection(parts []*Part) {
	s.selected = make(map[*Part]struct{}, len(parts))
	for _, p := range parts {
		s.selected[p] = struct{}{}
	}
	s.mergeDrawLists()
}

func (s *Scene) SelectedParts() []*Part {
	var parts []*Part
	for _, p := range s.parts {
		if _, ok := s.selected[p]; ok {
			parts = append(parts, p)
		}
	}
	return parts
}

func (s *Scene) IsSelected(p *Part) bool {
	_, ok := s.selected[p]
	return ok
}

func (s *Scene) mergeDrawLists() {
	start := time.Now()
	lists := make(map[ColorCode]DrawList, len(s.buffers))

	lines, triangles, optional := 0, 0, 0
	for _, color := range s.buffers.Colors() {
		lineCount, triangleCount, optionalCount := 0, 0, 0
		for _, p := range s.parts {
			lineCount += len(p.LineIndices[color])
			triangleCount += len(p.TriangleIndices[color])
			optionalCount += len(p.OptionalLineBuffers[color].Vertex1)
		}

		vertexCount := len(s.buffers[color]) / 3
		list := DrawList{
			Lines:         newIndexBuffer(vertexCount, lineCount),
			Triangles:     newIndexBuffer(vertexCount, triangleCount),
			OptionalLines: newOptionalLineBuffers(optionalCount),
		}

		for _, p := range s.parts {
			list.Lines.append(p.LineIndices[color])
			list.OptionalLines = list.OptionalLines.appendBuffers(p.OptionalLineBuffers[color])
			if _, ok := s.selected[p]; ok {
				continue
			}
			list.Triangles.append(p.TriangleIndices[color])
		}

		if list.Lines.Len() == 0 && list.Triangles.Len() == 0 && list.OptionalLines.Len() == 0 {
			continue
		}
		lists[color] = list
		lines += list.Lines.Len()
		triangles += list.Triangles.Len()
		optional += list.OptionalLines.Len()
	}
	s.lists = lists

	instrumentDrawLists(start)
	logs.WithTag("colors", len(lists)).
		WithTag("selected", len(s.selected)).
		WithTag("line_indices", lines).
		WithTag("triangle_indices", triangles).
		WithTag("optional_line_vertices", optional).
		WithTag("duration", time.Since(start)).
		Debug("draw lists merged")
}

func (s *Scene) DrawLists() map[ColorCode]DrawList {
	return s.lists
}

// RayIntersect takes a render space ray.
func (s *Scene) RayIntersect(ray Ray) *Part {
	return s.octree.RayIntersect(ray.ApplyMatrix4(YAxisInvert), s.buffers)
}

// RayHit is RayIntersect with the hit details. The hit point is in render
// space.
func (s *Scene) RayHit(ray Ray) (Hit, bool) {
	hit, ok := s.octree.RayHit(ray.ApplyMatrix4(YAxisInvert), s.buffers)
	if !ok {
		return hit, false
	}
	hit.Point = TransformPoint(YAxisInvert, hit.Point)
	return hit, true
}

// FrustumIntersect takes a render space frustum.
func (s *Scene) FrustumIntersect(f Frustum) []*Part {
	return s.octree.FrustumIntersect(f.ApplyMatrix4(YAxisInvert), s.buffers)
}

func (s *Scene) IntersectingParts(p *Part) []*Part {
	return s.octree.IntersectingParts(p, s.buffers)
}

func (s *Scene) ResetSelection() {
	s.octree.ResetSelection()
}

// BoundingBox covers every part, in render space.
func (s *Scene) BoundingBox() Box3 {
	box := EmptyBox3()
	for _, p := range s.parts {
		box = box.Union(p.TransformedBoundingBox)
	}
	return box.ApplyMatrix4(YAxisInvert)
}

func (s *Scene) Buffers() VertexBuffers {
	return s.buffers
}

func (s *Scene) Octree() *Octree {
	return s.octree
}

func (s *Scene) VertexStats() VertexStats {
	return s.vertices.Stats()
}

// Parts returns a copy of the scene's part list.
func (s *Scene) Parts() []*Part {
	return append([]*Part(nil), s.parts...)
}

func (s *Scene) Part(id uuid.UUID) (*Part, bool) {
	for _, p := range s.parts {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
