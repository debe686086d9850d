package system

import (
	"math"
	"time"

	"github.com/l1jgo/cuesim/internal/component"
	"github.com/l1jgo/cuesim/internal/core/ecs"
	"github.com/l1jgo/cuesim/internal/core/event"
	coresys "github.com/l1jgo/cuesim/internal/core/system"
	"github.com/l1jgo/cuesim/internal/physics"
	"github.com/l1jgo/cuesim/internal/world"
)

// CollisionSystem resolves contacts in two passes every tick. Phase 2 (Collide).
//
//  1. Cushions: balls whose edge crossed a table edge are clamped back onto
//     it and the matching velocity component is reflected.
//  2. Ball pairs: every pair i<j of a snapshot taken after the cushion pass
//     is tested; impulses are added to the live velocities, so a ball in
//     several contacts accumulates all of them, but no pair sees an impulse
//     applied earlier in the same tick.
//
// Positions of overlapping pairs are left alone. A pair that still overlaps
// after its impulse stays overlapping until the velocities carry it apart.
type CollisionSystem struct {
	positions  *ecs.Store[component.Position]
	velocities *ecs.Store[component.Velocity]
	balls      ecs.Reader[component.Ball]
	tables     ecs.Reader[component.Table]
	bus        *event.Bus // nil: no events

	bodies []physics.Body // snapshot buffer, reused every tick
}

func NewCollisionSystem(ws *world.State, bus *event.Bus) *CollisionSystem {
	return &CollisionSystem{
		positions:  ws.Positions,
		velocities: ws.Velocities,
		balls:      ws.Balls.Reader(),
		tables:     ws.Tables.Reader(),
		bus:        bus,
	}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollide }

func (s *CollisionSystem) Update(_ time.Duration) {
	s.ResolveCushions()
	s.ResolveContacts()
}

// ResolveCushions runs the cushion pass. Without a table it does nothing.
func (s *CollisionSystem) ResolveCushions() {
	_, table, ok := s.tables.First()
	if !ok {
		return
	}
	ecs.Each3(s.positions, s.velocities, s.balls, func(id ecs.EntityID, p *component.Position, v *component.Velocity, b component.Ball) {
		np, nv, hit := physics.ReflectCushions(*p, *v, b, table)
		*p, *v = np, nv
		if hit != 0 && s.bus != nil {
			event.Emit(s.bus, event.CushionHit{
				Entity: id,
				Sides:  hit,
				Speed:  math.Hypot(nv.X, nv.Y),
			})
		}
	})
}

// ResolveContacts runs the pairwise pass and returns the number of impulses
// applied.
func (s *CollisionSystem) ResolveContacts() int {
	s.bodies = s.bodies[:0]
	ecs.Join3(s.positions.Reader(), s.velocities.Reader(), s.balls, func(id ecs.EntityID, p component.Position, v component.Velocity, b component.Ball) {
		s.bodies = append(s.bodies, physics.NewBody(id, p, v, b))
	})

	applied := 0
	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			a, b := &s.bodies[i], &s.bodies[j]
			imp, ok := physics.ContactImpulse(*a, *b)
			if !ok {
				continue
			}
			if va, ok := s.velocities.Get(a.ID); ok {
				va.X += imp.X() / a.Mass
				va.Y += imp.Y() / a.Mass
			}
			if vb, ok := s.velocities.Get(b.ID); ok {
				vb.X -= imp.X() / b.Mass
				vb.Y -= imp.Y() / b.Mass
			}
			applied++
			if s.bus != nil {
				event.Emit(s.bus, event.BallContact{A: a.ID, B: b.ID, Impulse: imp.Magnitude})
			}
		}
	}
	return applied
}
