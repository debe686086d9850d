package world

import (
	"github.com/l1jgo/cuesim/internal/component"
	"github.com/l1jgo/cuesim/internal/core/ecs"
)

// BallView is a copy of one ball's observable state.
type BallView struct {
	ID     ecs.EntityID
	X, Y   float64
	Radius float64
}

// Frame is what observers see after the collide phase of a tick. Balls is
// reused between ticks; observers must copy anything they keep.
type Frame struct {
	Step     int
	Table    component.Table
	HasTable bool
	Balls    []BallView
}

// Capture fills f from s. Balls are listed in Position insertion order.
func (s *State) Capture(step int, f *Frame) {
	f.Step = step
	f.Table, f.HasTable = s.Table()
	f.Balls = f.Balls[:0]
	ecs.Join(s.Positions.Reader(), s.Balls.Reader(), func(id ecs.EntityID, p component.Position, b component.Ball) {
		f.Balls = append(f.Balls, BallView{ID: id, X: p.X, Y: p.Y, Radius: b.Radius})
	})
}
