package partindex

import (
	"github.com/go-gl/mathgl/mgl64"
)

type vertexEntry struct {
	index uint32
	count int
}

// VertexMap stores each distinct point once in a flat position buffer and
// reference counts it. Slots released by Remove are chained on a free list
// and handed out again by Add before the buffer grows.
//
// Points are matched by exact float equality.
type VertexMap struct {
	root     map[float64]map[float64]map[float64]*vertexEntry
	vertices []float64

	// nextFree[i] is the slot after i on the free list, -1 terminated.
	// Live slots hold liveSlot.
	nextFree []int32
	freeHead int32
	live     int
}

const (
	endOfFreeList = int32(-1)
	liveSlot      = int32(-2)
)

func NewVertexMap() *VertexMap {
	return &VertexMap{
		root:     make(map[float64]map[float64]map[float64]*vertexEntry),
		freeHead: endOfFreeList,
	}
}

// Add returns the index of p, storing it first if it is not known yet.
func (vm *VertexMap) Add(p mgl64.Vec3) uint32 {
	x, y, z := p[0], p[1], p[2]

	xMap, ok := vm.root[x]
	if !ok {
		xMap = make(map[float64]map[float64]*vertexEntry)
		vm.root[x] = xMap
	}

	yMap, ok := xMap[y]
	if !ok {
		yMap = make(map[float64]*vertexEntry)
		xMap[y] = yMap
	}

	if e, ok := yMap[z]; ok {
		e.count++
		return e.index
	}

	var index uint32
	if vm.freeHead == endOfFreeList {
		index = uint32(len(vm.nextFree))
		vm.vertices = append(vm.vertices, x, y, z)
		vm.nextFree = append(vm.nextFree, liveSlot)
	} else {
		index = uint32(vm.freeHead)
		vm.freeHead = vm.nextFree[index]
		vm.nextFree[index] = liveSlot

		i := index * 3
		vm.vertices[i] = x
		vm.vertices[i+1] = y
		vm.vertices[i+2] = z
	}

	yMap[z] = &vertexEntry{index: index, count: 1}
	vm.live++
	return index
}

// Remove drops one reference for every index. Indexes that are out of
// range, already free or not tracked under their coordinate are ignored.
func (vm *VertexMap) Remove(indices []uint32) {
	for _, index := range indices {
		if int(index) >= len(vm.nextFree) || vm.nextFree[index] != liveSlot {
			continue
		}

		i := index * 3
		x, y, z := vm.vertices[i], vm.vertices[i+1], vm.vertices[i+2]

		xMap, ok := vm.root[x]
		if !ok {
			continue
		}
		yMap, ok := xMap[y]
		if !ok {
			continue
		}
		e, ok := yMap[z]
		if !ok || e.index != index {
			continue
		}

		if e.count > 1 {
			e.count--
			continue
		}

		delete(yMap, z)
		if len(yMap) == 0 {
			delete(xMap, y)
			if len(xMap) == 0 {
				delete(vm.root, x)
			}
		}

		vm.nextFree[index] = vm.freeHead
		vm.freeHead = int32(index)
		vm.live--
	}
}

// Get returns the index of p without changing its reference count.
func (vm *VertexMap) Get(p mgl64.Vec3) (uint32, bool) {
	xMap, ok := vm.root[p[0]]
	if !ok {
		return 0, false
	}
	yMap, ok := xMap[p[1]]
	if !ok {
		return 0, false
	}
	e, ok := yMap[p[2]]
	if !ok {
		return 0, false
	}
	return e.index, true
}

// RefCount is 0 for points that are not stored.
func (vm *VertexMap) RefCount(p mgl64.Vec3) int {
	if _, ok := vm.Get(p); !ok {
		return 0
	}
	return vm.root[p[0]][p[1]][p[2]].count
}

// Len is the number of distinct live points.
func (vm *VertexMap) Len() int {
	return vm.live
}

// Cap is the number of slots in the buffer, live or free.
func (vm *VertexMap) Cap() int {
	return len(vm.nextFree)
}

func (vm *VertexMap) FreeSlots() int {
	return len(vm.nextFree) - vm.live
}

// Positions exposes the backing buffer. Free slots keep whatever point
// they last held. The slice must not be modified.
func (vm *VertexMap) Positions() []float64 {
	return vm.vertices
}

// Vertex returns the point stored in a live slot.
func (vm *VertexMap) Vertex(index uint32) (mgl64.Vec3, bool) {
	if int(index) >= len(vm.nextFree) || vm.nextFree[index] != liveSlot {
		return mgl64.Vec3{}, false
	}
	i := index * 3
	return mgl64.Vec3{vm.vertices[i], vm.vertices[i+1], vm.vertices[i+2]}, true
}

// Snapshot copies the buffer into a new float32 slice ready for upload.
func (vm *VertexMap) Snapshot() []float32 {
	out := make([]float32, len(vm.vertices))
	for i, v := range vm.vertices {
		out[i] = float32(v)
	}
	return out
}
