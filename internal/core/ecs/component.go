package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

const absent = -1

// Store is a sparse set: components are packed densely in insertion order,
// and sparse maps an entity slot index to its dense position. Lookups check
// the stored EntityID so a recycled slot never resolves for a stale ID.
// No reflect, no interface{}, pure generics.
type Store[T any] struct {
	sparse []int32
	ids    []EntityID
	dense  []T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		sparse: make([]int32, 0, 64),
		ids:    make([]EntityID, 0, 64),
		dense:  make([]T, 0, 64),
	}
}

func (s *Store[T]) slot(id EntityID) int {
	idx := int(id.Index())
	if idx >= len(s.sparse) {
		return absent
	}
	d := int(s.sparse[idx])
	if d == absent || s.ids[d] != id {
		return absent
	}
	return d
}

// Set attaches c to id, overwriting any existing value.
func (s *Store[T]) Set(id EntityID, c T) {
	if d := s.slot(id); d != absent {
		s.dense[d] = c
		return
	}
	idx := int(id.Index())
	for len(s.sparse) <= idx {
		s.sparse = append(s.sparse, absent)
	}
	s.sparse[idx] = int32(len(s.dense))
	s.ids = append(s.ids, id)
	s.dense = append(s.dense, c)
}

// Get returns a pointer into the dense array. The pointer is only valid
// until the next Set or Remove on this store.
func (s *Store[T]) Get(id EntityID) (*T, bool) {
	d := s.slot(id)
	if d == absent {
		return nil, false
	}
	return &s.dense[d], true
}

// Remove swaps the last element into the hole, so dense order is not
// preserved across removals.
func (s *Store[T]) Remove(id EntityID) {
	d := s.slot(id)
	if d == absent {
		return
	}
	last := len(s.dense) - 1
	if d != last {
		s.dense[d] = s.dense[last]
		s.ids[d] = s.ids[last]
		s.sparse[s.ids[d].Index()] = int32(d)
	}
	var zero T
	s.dense[last] = zero
	s.dense = s.dense[:last]
	s.ids = s.ids[:last]
	s.sparse[id.Index()] = absent
}

func (s *Store[T]) Has(id EntityID) bool {
	return s.slot(id) != absent
}

func (s *Store[T]) Len() int {
	return len(s.dense)
}

// Each visits every component in dense order.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i := range s.dense {
		fn(s.ids[i], &s.dense[i])
	}
}

// Reader returns a read-only handle to the store.
func (s *Store[T]) Reader() Reader[T] {
	return Reader[T]{s: s}
}

// Reader is a read-only view of a Store. It hands out copies, never
// pointers into the dense array.
type Reader[T any] struct {
	s *Store[T]
}

func (r Reader[T]) Get(id EntityID) (T, bool) {
	if d := r.s.slot(id); d != absent {
		return r.s.dense[d], true
	}
	var zero T
	return zero, false
}

func (r Reader[T]) Has(id EntityID) bool { return r.s.Has(id) }
func (r Reader[T]) Len() int             { return r.s.Len() }

// First returns the earliest-attached component, for singleton types.
func (r Reader[T]) First() (EntityID, T, bool) {
	if len(r.s.dense) == 0 {
		var zero T
		return 0, zero, false
	}
	return r.s.ids[0], r.s.dense[0], true
}

func (r Reader[T]) Each(fn func(EntityID, T)) {
	for i := range r.s.dense {
		fn(r.s.ids[i], r.s.dense[i])
	}
}
