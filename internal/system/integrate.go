package system

import (
	"time"

	"github.com/l1jgo/cuesim/internal/component"
	"github.com/l1jgo/cuesim/internal/core/ecs"
	coresys "github.com/l1jgo/cuesim/internal/core/system"
	"github.com/l1jgo/cuesim/internal/physics"
	"github.com/l1jgo/cuesim/internal/world"
)

// IntegrateSystem moves every entity that has a Velocity by velocity·dt.
// Phase 1 (Integrate). Writes Position, reads Velocity.
type IntegrateSystem struct {
	positions  *ecs.Store[component.Position]
	velocities ecs.Reader[component.Velocity]
}

func NewIntegrateSystem(ws *world.State) *IntegrateSystem {
	return &IntegrateSystem{
		positions:  ws.Positions,
		velocities: ws.Velocities.Reader(),
	}
}

func (s *IntegrateSystem) Phase() coresys.Phase { return coresys.PhaseIntegrate }

func (s *IntegrateSystem) Update(dt time.Duration) {
	s.Step(dt.Seconds())
}

// Step integrates with dt given in seconds.
func (s *IntegrateSystem) Step(dt float64) {
	ecs.Each2(s.positions, s.velocities, func(_ ecs.EntityID, p *component.Position, v component.Velocity) {
		physics.Integrate(p, v, dt)
	})
}
