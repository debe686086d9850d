package system

import (
	"time"

	"github.com/l1jgo/cuesim/internal/component"
	coresys "github.com/l1jgo/cuesim/internal/core/system"
	"github.com/l1jgo/cuesim/internal/world"
)

// TickScript is the part of scripting.Engine the simulation loop drives.
type TickScript interface {
	OnTick(step int) error
}

// ScriptSystem calls the scenario script's on_tick before the tick's physics.
// Phase 0 (Input). Errors are logged by the engine and do not stop the run.
type ScriptSystem struct {
	script TickScript
	step   int
	errors int
}

func NewScriptSystem(script TickScript) *ScriptSystem {
	return &ScriptSystem{script: script}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *ScriptSystem) Update(_ time.Duration) {
	if err := s.script.OnTick(s.step); err != nil {
		s.errors++
	}
	s.step++
}

// Errors returns how many on_tick calls failed.
func (s *ScriptSystem) Errors() int { return s.errors }

// ScriptHost lets scripts queue balls into a world. Spawned balls share the
// scene's ball properties and appear when MaintainSystem flushes.
type ScriptHost struct {
	world *world.State
	props component.Ball
}

func NewScriptHost(ws *world.State, props component.Ball) *ScriptHost {
	return &ScriptHost{world: ws, props: props}
}

func (h *ScriptHost) SpawnBall(x, y, vx, vy float64) {
	h.world.QueueBall(component.Position{X: x, Y: y}, component.Velocity{X: vx, Y: vy}, h.props)
}

func (h *ScriptHost) BallCount() int { return h.world.BallCount() }
