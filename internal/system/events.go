package system

import (
	"time"

	"github.com/l1jgo/cuesim/internal/core/event"
	coresys "github.com/l1jgo/cuesim/internal/core/system"
)

// EventSystem swaps the bus buffers and delivers the events raised earlier in
// the tick. Phase 3 (Observe); register it before ObserveSystem.
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseObserve }

func (s *EventSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
