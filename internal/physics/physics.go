// Package physics holds the pure per-ball and per-pair kernels used by the
// integrate and collide systems. Nothing here touches the ECS stores; the
// systems feed component values in and write the results back.
package physics

import (
	"math"

	"github.com/l1jgo/cuesim/internal/component"
	"github.com/l1jgo/cuesim/internal/core/ecs"
)

// Integrate advances p by v over dt seconds (explicit Euler, one step).
func Integrate(p *component.Position, v component.Velocity, dt float64) {
	p.X += v.X * dt
	p.Y += v.Y * dt
}

// Cushion is a bit set of the table edges a ball was pushed back from.
type Cushion uint8

const (
	CushionLeft Cushion = 1 << iota
	CushionRight
	CushionBottom
	CushionTop
)

func (c Cushion) Has(side Cushion) bool { return c&side != 0 }

func (c Cushion) String() string {
	if c == 0 {
		return "none"
	}
	s := ""
	for _, side := range [...]struct {
		bit  Cushion
		name string
	}{
		{CushionLeft, "left"},
		{CushionRight, "right"},
		{CushionBottom, "bottom"},
		{CushionTop, "top"},
	} {
		if c&side.bit == 0 {
			continue
		}
		if s != "" {
			s += "+"
		}
		s += side.name
	}
	return s
}

// ReflectCushions clamps a ball whose edge crossed a table edge back onto that
// edge and reflects the matching velocity component, scaled by the ball's
// restitution. Each edge is checked independently in the order left, right,
// bottom, top, so a corner hit corrects both axes.
func ReflectCushions(p component.Position, v component.Velocity, b component.Ball, t component.Table) (component.Position, component.Velocity, Cushion) {
	var hit Cushion

	if p.X-b.Radius < 0 {
		p.X = b.Radius
		v.X = -v.X * b.Restitution
		hit |= CushionLeft
	}
	if p.X+b.Radius > t.Width {
		p.X = t.Width - b.Radius
		v.X = -v.X * b.Restitution
		hit |= CushionRight
	}
	if p.Y-b.Radius < 0 {
		p.Y = b.Radius
		v.Y = -v.Y * b.Restitution
		hit |= CushionBottom
	}
	if p.Y+b.Radius > t.Height {
		p.Y = t.Height - b.Radius
		v.Y = -v.Y * b.Restitution
		hit |= CushionTop
	}

	return p, v, hit
}

// Body is the frozen per-ball state the contact pass reads from.
type Body struct {
	ID          ecs.EntityID
	X, Y        float64
	VX, VY      float64
	Mass        float64
	Restitution float64
	Radius      float64
}

// NewBody packs component values into a Body.
func NewBody(id ecs.EntityID, p component.Position, v component.Velocity, b component.Ball) Body {
	return Body{
		ID:          id,
		X:           p.X,
		Y:           p.Y,
		VX:          v.X,
		VY:          v.Y,
		Mass:        b.Mass,
		Restitution: b.Restitution,
		Radius:      b.Radius,
	}
}

// Impulse is the momentum exchanged by one contact. N is the unit contact
// normal pointing from B's centre to A's; A receives +J/massA·N and B
// receives -J/massB·N.
type Impulse struct {
	NX, NY    float64 // unit normal
	Magnitude float64
}

// X and Y return the impulse vector components.
func (i Impulse) X() float64 { return i.Magnitude * i.NX }
func (i Impulse) Y() float64 { return i.Magnitude * i.NY }

// ContactImpulse computes the frictionless impulse between two overlapping
// balls. ok is false when the balls do not overlap, share a centre, or are
// already separating along the normal.
//
// With N pointing from B to A, vn = (vA-vB)·N is negative while the balls
// close and positive once they move apart.
func ContactImpulse(a, b Body) (imp Impulse, ok bool) {
	dx := a.X - b.X
	dy := a.Y - b.Y
	distSq := dx*dx + dy*dy
	r := a.Radius + b.Radius

	if distSq >= r*r || distSq == 0 {
		return Impulse{}, false
	}

	dist := math.Sqrt(distSq)
	nx, ny := dx/dist, dy/dist

	vn := (a.VX-b.VX)*nx + (a.VY-b.VY)*ny
	if vn > 0 {
		return Impulse{}, false
	}

	e := math.Min(a.Restitution, b.Restitution)
	j := -(1 + e) * vn / (1/a.Mass + 1/b.Mass)

	return Impulse{NX: nx, NY: ny, Magnitude: j}, true
}

// KineticEnergy returns ½·m·|v|².
func KineticEnergy(mass float64, v component.Velocity) float64 {
	return 0.5 * mass * (v.X*v.X + v.Y*v.Y)
}
