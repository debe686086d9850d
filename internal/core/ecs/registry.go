package ecs

// Registry tracks every component store so an entity can be stripped from
// all of them at once when it is destroyed.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 8),
	}
}

// Register adds a component store to the registry.
func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// Len returns the number of registered stores.
func (r *Registry) Len() int { return len(r.stores) }

// RegisterStore creates a store for T and registers it with w.
func RegisterStore[T any](w *World) *Store[T] {
	s := NewStore[T]()
	w.registry.Register(s)
	return s
}
