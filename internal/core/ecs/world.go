package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and the deferred create/destroy queues that MaintainSystem flushes
// between ticks.
type World struct {
	pool         *EntityPool
	registry     *Registry
	createQueue  []func(EntityID)
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		createQueue:  make([]func(EntityID), 0, 16),
		destroyQueue: make([]EntityID, 0, 16),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// DeferCreate queues an entity creation. At flush time a fresh entity is
// allocated and passed to attach so it can set its components.
func (w *World) DeferCreate(attach func(EntityID)) {
	w.createQueue = append(w.createQueue, attach)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending reports the number of queued structural changes.
func (w *World) Pending() int {
	return len(w.createQueue) + len(w.destroyQueue)
}

// Flush applies queued creations, then queued destructions. Creations queued
// by an attach callback during the flush run in the same flush.
func (w *World) Flush() {
	for i := 0; i < len(w.createQueue); i++ {
		attach := w.createQueue[i]
		w.createQueue[i] = nil
		attach(w.pool.Create())
	}
	w.createQueue = w.createQueue[:0]

	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}
