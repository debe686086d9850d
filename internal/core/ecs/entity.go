package ecs

import "fmt"

// EntityID packs a 32-bit slot index in the lower bits and a 32-bit
// generation in the upper bits. Index 0 / generation 0 is never handed out,
// so the zero EntityID always means "no entity".
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

func (id EntityID) String() string {
	return fmt.Sprintf("%d:%d", id.Index(), id.Generation())
}

// EntityPool hands out dense slot indices. Destroyed slots are recycled
// through a free list with their generation bumped so stale IDs stop
// resolving.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	live        int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		// Slot 0 is reserved for the zero EntityID.
		generations: make([]uint32, 1, 256),
		freeList:    make([]uint32, 0, 32),
	}
}

func (p *EntityPool) Create() EntityID {
	p.live++
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return NewEntityID(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 0)
	return NewEntityID(idx, 0)
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || int(idx) >= len(p.generations) {
		return false
	}
	return p.generations[idx] == id.Generation()
}

func (p *EntityPool) Destroy(id EntityID) {
	if !p.Alive(id) {
		return // stale or unknown
	}
	idx := id.Index()
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
	p.live--
}

// Len returns the number of live entities.
func (p *EntityPool) Len() int { return p.live }
