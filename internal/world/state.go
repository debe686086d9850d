package world

import (
	"github.com/l1jgo/cuesim/internal/component"
	"github.com/l1jgo/cuesim/internal/core/ecs"
	"github.com/l1jgo/cuesim/internal/data"
)

// State owns the ECS world and one store per component type.
// Accessed only from the simulation goroutine; no locks needed.
type State struct {
	ECS        *ecs.World
	Positions  *ecs.Store[component.Position]
	Velocities *ecs.Store[component.Velocity]
	Balls      *ecs.Store[component.Ball]
	Tables     *ecs.Store[component.Table]
}

func NewState() *State {
	w := ecs.NewWorld()
	return &State{
		ECS:        w,
		Positions:  ecs.RegisterStore[component.Position](w),
		Velocities: ecs.RegisterStore[component.Velocity](w),
		Balls:      ecs.RegisterStore[component.Ball](w),
		Tables:     ecs.RegisterStore[component.Table](w),
	}
}

// CreateTable creates the table entity.
func (s *State) CreateTable(t component.Table) ecs.EntityID {
	id := s.ECS.CreateEntity()
	s.Tables.Set(id, t)
	return id
}

// CreateBall creates a ball entity immediately.
func (s *State) CreateBall(p component.Position, v component.Velocity, b component.Ball) ecs.EntityID {
	id := s.ECS.CreateEntity()
	s.attachBall(id, p, v, b)
	return id
}

// QueueBall defers ball creation to the next flush, so it can be called from
// inside a tick without changing the entity set mid-phase.
func (s *State) QueueBall(p component.Position, v component.Velocity, b component.Ball) {
	s.ECS.DeferCreate(func(id ecs.EntityID) {
		s.attachBall(id, p, v, b)
	})
}

func (s *State) attachBall(id ecs.EntityID, p component.Position, v component.Velocity, b component.Ball) {
	s.Positions.Set(id, p)
	s.Velocities.Set(id, v)
	s.Balls.Set(id, b)
}

// Table returns the table, if one exists.
func (s *State) Table() (component.Table, bool) {
	_, t, ok := s.Tables.Reader().First()
	return t, ok
}

// BallCount returns the number of entities carrying a Ball.
func (s *State) BallCount() int {
	return s.Balls.Len()
}

// Bootstrap is the result of populating a State from a scene.
type Bootstrap struct {
	Table       ecs.EntityID
	CueBall     ecs.EntityID
	ObjectBalls []ecs.EntityID
}

// Populate creates the table, the cue ball and the object balls described by
// scene, in that order. The cue velocity is converted from m/s to cm/s;
// object balls start at rest.
func Populate(s *State, scene *data.Scene) Bootstrap {
	props := BallProps(scene)

	out := Bootstrap{
		Table: s.CreateTable(component.Table{
			Width:  scene.Table.Width,
			Height: scene.Table.Height,
		}),
	}

	out.CueBall = s.CreateBall(
		component.Position{X: scene.CueBall.X, Y: scene.CueBall.Y},
		component.Velocity{
			X: scene.CueBall.VX * data.CueVelocityScale,
			Y: scene.CueBall.VY * data.CueVelocityScale,
		},
		props,
	)

	out.ObjectBalls = make([]ecs.EntityID, 0, len(scene.ObjectBalls.Positions))
	for _, p := range scene.ObjectBalls.Positions {
		id := s.CreateBall(component.Position{X: p.X, Y: p.Y}, component.Velocity{}, props)
		out.ObjectBalls = append(out.ObjectBalls, id)
	}
	return out
}

// BallProps returns the ball properties shared by every ball in scene.
func BallProps(scene *data.Scene) component.Ball {
	return component.Ball{
		Radius:      scene.Ball.Radius,
		Mass:        scene.Ball.Mass,
		Restitution: scene.Ball.Restitution,
	}
}
