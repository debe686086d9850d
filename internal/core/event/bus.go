package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted during a tick sit in the
// back buffer until SwapBuffers, which EventSystem calls in the observe phase,
// so every event is delivered in the same tick it was raised and never
// reaches systems that already ran.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
	order    []reflect.Type // first-seen order, keeps dispatch deterministic
	seen     map[reflect.Type]bool
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
		seen:     make(map[reflect.Type]bool),
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (b *Bus) track(t reflect.Type) {
	if b.seen[t] {
		return
	}
	b.seen[t] = true
	b.order = append(b.order, t)
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	t := typeKey[T]()
	b.track(t)
	b.back[t] = append(b.back[t], event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeKey[T]()
	b.track(t)
	b.handlers[t] = append(b.handlers[t], fn)
}

// Pending returns how many events of type T wait in the back buffer.
func Pending[T any](b *Bus) int {
	return len(b.back[typeKey[T]()])
}

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers all front-buffer events to their subscribed handlers,
// grouped by type in the order types were first seen.
func (b *Bus) DispatchAll() {
	for _, t := range b.order {
		events := b.front[t]
		if len(events) == 0 {
			continue
		}
		handlers := b.handlers[t]
		for _, ev := range events {
			for _, h := range handlers {
				callHandler(h, ev)
			}
		}
	}
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
