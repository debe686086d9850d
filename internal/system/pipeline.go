package system

import (
	"github.com/l1jgo/cuesim/internal/core/event"
	coresys "github.com/l1jgo/cuesim/internal/core/system"
	"github.com/l1jgo/cuesim/internal/world"
	"go.uber.org/zap"
)

// Pipeline is the per-tick system set for one world.
type Pipeline struct {
	Runner    *coresys.Runner
	Bus       *event.Bus
	Collision *CollisionSystem
	Observe   *ObserveSystem
	Stats     *ContactStats
}

// NewPipeline registers the core systems: integrate, collide, event dispatch,
// observation and the end-of-tick flush. Optional systems (script, record)
// are registered by the caller on p.Runner.
func NewPipeline(ws *world.State, log *zap.Logger, observers ...Observer) *Pipeline {
	bus := event.NewBus()
	p := &Pipeline{
		Runner:    coresys.NewRunner(),
		Bus:       bus,
		Collision: NewCollisionSystem(ws, bus),
		Observe:   NewObserveSystem(ws, observers...),
		Stats:     NewContactStats(bus, log),
	}
	p.Runner.Register(NewIntegrateSystem(ws))
	p.Runner.Register(p.Collision)
	p.Runner.Register(NewEventSystem(bus))
	p.Runner.Register(p.Observe)
	p.Runner.Register(NewMaintainSystem(ws.ECS, log))
	return p
}
