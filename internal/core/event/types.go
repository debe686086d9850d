package event

import (
	"github.com/l1jgo/cuesim/internal/core/ecs"
	"github.com/l1jgo/cuesim/internal/physics"
)

// CushionHit is raised when the cushion pass pushes a ball back inside the
// table. Speed is the ball's speed after reflection.
type CushionHit struct {
	Entity ecs.EntityID
	Sides  physics.Cushion
	Speed  float64
}

// BallContact is raised for every impulse applied between two balls.
type BallContact struct {
	A, B    ecs.EntityID
	Impulse float64 // magnitude, g·cm/s
}
