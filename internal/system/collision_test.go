package system

import (
	"math"
	"testing"
	"time"

	"github.com/l1jgo/cuesim/internal/component"
	"github.com/l1jgo/cuesim/internal/core/ecs"
	"github.com/l1jgo/cuesim/internal/core/event"
	"github.com/l1jgo/cuesim/internal/physics"
	"github.com/l1jgo/cuesim/internal/world"
	"go.uber.org/zap"
)

var unitBall = component.Ball{Radius: 1, Mass: 1, Restitution: 1}

func newTableWorld(w, h float64) *world.State {
	ws := world.NewState()
	ws.CreateTable(component.Table{Width: w, Height: h})
	return ws
}

func velocity(t *testing.T, ws *world.State, id ecs.EntityID) component.Velocity {
	t.Helper()
	v, ok := ws.Velocities.Get(id)
	if !ok {
		t.Fatalf("entity %v has no velocity", id)
	}
	return *v
}

func position(t *testing.T, ws *world.State, id ecs.EntityID) component.Position {
	t.Helper()
	p, ok := ws.Positions.Get(id)
	if !ok {
		t.Fatalf("entity %v has no position", id)
	}
	return *p
}

func TestEndToEndCushionScenario(t *testing.T) {
	ws := newTableWorld(200, 100)
	id := ws.CreateBall(
		component.Position{X: 0.5, Y: 50},
		component.Velocity{X: -10, Y: 0},
		component.Ball{Radius: 2, Mass: 1, Restitution: 1},
	)

	p := NewPipeline(ws, zap.NewNop())
	p.Runner.Tick(time.Second)

	if got := position(t, ws, id); got.X != 2 || got.Y != 50 {
		t.Errorf("Expected clamp to (2,50), got %+v", got)
	}
	if got := velocity(t, ws, id); got.X != 10 || got.Y != 0 {
		t.Errorf("Expected velocity (10,0), got %+v", got)
	}
	if p.Stats.CushionHits != 1 {
		t.Errorf("Expected 1 cushion hit, got %d", p.Stats.CushionHits)
	}
}

func TestEndToEndNoCrossing(t *testing.T) {
	ws := newTableWorld(200, 100)
	id := ws.CreateBall(
		component.Position{X: 1, Y: 50},
		component.Velocity{X: 10, Y: 0},
		component.Ball{Radius: 2, Mass: 1, Restitution: 1},
	)
	NewPipeline(ws, zap.NewNop()).Runner.Tick(time.Second)

	// x=1 starts overlapping the left cushion but the cushion pass only runs
	// after integration, by which point the ball is at x=11.
	if got := position(t, ws, id); got.X != 11 {
		t.Errorf("Expected x=11, got %+v", got)
	}
	if got := velocity(t, ws, id); got.X != 10 {
		t.Errorf("Expected vx unchanged at 10, got %+v", got)
	}
}

func TestCushionsWithoutTableIsNoop(t *testing.T) {
	ws := world.NewState()
	id := ws.CreateBall(component.Position{X: -50, Y: -50}, component.Velocity{X: -1, Y: -1}, unitBall)

	c := NewCollisionSystem(ws, nil)
	c.Update(time.Second)

	if got := position(t, ws, id); got.X != -50 || got.Y != -50 {
		t.Errorf("ball moved without a table: %+v", got)
	}
	if got := velocity(t, ws, id); got.X != -1 || got.Y != -1 {
		t.Errorf("velocity changed without a table: %+v", got)
	}
}

func TestContactsUseSnapshotAndAccumulate(t *testing.T) {
	ws := newTableWorld(200, 100)
	a := ws.CreateBall(component.Position{X: 50, Y: 50}, component.Velocity{X: 1}, unitBall)
	b := ws.CreateBall(component.Position{X: 51.5, Y: 50}, component.Velocity{}, unitBall)
	c := ws.CreateBall(component.Position{X: 53, Y: 50}, component.Velocity{X: -1}, unitBall)

	applied := NewCollisionSystem(ws, nil).ResolveContacts()
	if applied != 2 {
		t.Fatalf("Expected 2 contacts (a-b, b-c), got %d", applied)
	}

	// (a,b) gives b +1; (b,c) is evaluated on b's snapshot velocity 0 and
	// gives b -1. Had b's new velocity been used, b would end at -1 and c at +1.
	for _, tc := range []struct {
		name string
		id   ecs.EntityID
	}{{"a", a}, {"b", b}, {"c", c}} {
		if v := velocity(t, ws, tc.id); math.Abs(v.X) > 1e-12 || v.Y != 0 {
			t.Errorf("%s: expected rest, got %+v", tc.name, v)
		}
	}
}

func TestContactSeesCushionCorrectedVelocity(t *testing.T) {
	ws := newTableWorld(100, 100)
	a := ws.CreateBall(component.Position{X: -1, Y: 50}, component.Velocity{X: -5}, unitBall)
	b := ws.CreateBall(component.Position{X: 2.5, Y: 50}, component.Velocity{}, unitBall)

	NewCollisionSystem(ws, nil).Update(time.Second)

	// Cushion puts a at x=1 moving +5, overlapping b. The contact pass sees
	// that and hands a's speed to b.
	if got := position(t, ws, a); got.X != 1 {
		t.Errorf("Expected a clamped to x=1, got %+v", got)
	}
	if va, vb := velocity(t, ws, a), velocity(t, ws, b); math.Abs(va.X) > 1e-12 || math.Abs(vb.X-5) > 1e-12 {
		t.Errorf("Expected a=0, b=5, got a=%+v b=%+v", va, vb)
	}
}

func TestContactSkipsSeparatingAndCoincident(t *testing.T) {
	ws := newTableWorld(200, 100)
	a := ws.CreateBall(component.Position{X: 50, Y: 50}, component.Velocity{X: -2}, unitBall)
	b := ws.CreateBall(component.Position{X: 51, Y: 50}, component.Velocity{X: 2}, unitBall)
	c := ws.CreateBall(component.Position{X: 150, Y: 50}, component.Velocity{X: 3, Y: 1}, unitBall)
	d := ws.CreateBall(component.Position{X: 150, Y: 50}, component.Velocity{X: -3}, unitBall)

	if n := NewCollisionSystem(ws, nil).ResolveContacts(); n != 0 {
		t.Errorf("Expected no contacts, got %d", n)
	}

	want := map[ecs.EntityID]component.Velocity{
		a: {X: -2}, b: {X: 2}, c: {X: 3, Y: 1}, d: {X: -3},
	}
	for id, w := range want {
		v := velocity(t, ws, id)
		if v != w {
			t.Errorf("%v: expected %+v, got %+v", id, w, v)
		}
		if math.IsNaN(v.X) || math.IsNaN(v.Y) {
			t.Errorf("%v: NaN velocity", id)
		}
	}
}

func TestElasticHeadOnExchangeInPipeline(t *testing.T) {
	ws := newTableWorld(200, 100)
	a := ws.CreateBall(component.Position{X: 99, Y: 50}, component.Velocity{X: 4}, unitBall)
	b := ws.CreateBall(component.Position{X: 101.5, Y: 50}, component.Velocity{X: -4}, unitBall)

	p := NewPipeline(ws, zap.NewNop())
	// dt=0.1 s moves both 0.4 cm inwards: centres 1.7 apart, overlapping.
	p.Runner.Tick(100 * time.Millisecond)

	if va, vb := velocity(t, ws, a), velocity(t, ws, b); math.Abs(va.X+4) > 1e-9 || math.Abs(vb.X-4) > 1e-9 {
		t.Errorf("Expected exchange to (-4, 4), got (%v, %v)", va.X, vb.X)
	}
	if p.Stats.BallContacts != 1 {
		t.Errorf("Expected 1 contact event, got %d", p.Stats.BallContacts)
	}
	if math.Abs(p.Stats.MaxImpulse-8) > 1e-9 {
		t.Errorf("Expected max impulse 8, got %v", p.Stats.MaxImpulse)
	}
}

func TestCollisionEventsWaitForObservePhase(t *testing.T) {
	ws := newTableWorld(10, 10)
	ws.CreateBall(component.Position{X: 0, Y: 0}, component.Velocity{X: -1, Y: -1}, unitBall)

	bus := event.NewBus()
	var hits []event.CushionHit
	event.Subscribe(bus, func(ev event.CushionHit) { hits = append(hits, ev) })

	NewCollisionSystem(ws, bus).Update(time.Second)
	if len(hits) != 0 {
		t.Fatal("event delivered during the collide phase")
	}
	if event.Pending[event.CushionHit](bus) != 1 {
		t.Fatalf("Expected 1 pending cushion event, got %d", event.Pending[event.CushionHit](bus))
	}

	NewEventSystem(bus).Update(time.Second)
	if len(hits) != 1 {
		t.Fatalf("Expected 1 delivered event, got %d", len(hits))
	}
	if hits[0].Sides != physics.CushionLeft|physics.CushionBottom {
		t.Errorf("Expected left+bottom, got %s", hits[0].Sides)
	}
	if math.Abs(hits[0].Speed-math.Sqrt2) > 1e-12 {
		t.Errorf("Expected speed sqrt(2), got %v", hits[0].Speed)
	}
}

func TestIntegrateIndependentOfOrder(t *testing.T) {
	type ball struct{ p, v component.Position }
	balls := []ball{
		{component.Position{X: 1, Y: 1}, component.Position{X: 3, Y: -2}},
		{component.Position{X: 5, Y: 9}, component.Position{X: -1, Y: 0.5}},
		{component.Position{X: 7, Y: 2}, component.Position{X: 0, Y: 0}},
	}

	run := func(order []int) map[int]component.Position {
		ws := world.NewState()
		ids := make(map[int]ecs.EntityID)
		for _, i := range order {
			ids[i] = ws.CreateBall(balls[i].p, component.Velocity(balls[i].v), unitBall)
		}
		NewIntegrateSystem(ws).Step(0.5)
		out := make(map[int]component.Position)
		for i, id := range ids {
			out[i] = position(t, ws, id)
		}
		return out
	}

	forward := run([]int{0, 1, 2})
	reverse := run([]int{2, 1, 0})
	for i, b := range balls {
		want := component.Position{X: b.p.X + b.v.X*0.5, Y: b.p.Y + b.v.Y*0.5}
		if forward[i] != want || reverse[i] != want {
			t.Errorf("ball %d: expected %+v, got %+v / %+v", i, want, forward[i], reverse[i])
		}
	}
}

func TestIntegrateZeroDT(t *testing.T) {
	ws := world.NewState()
	id := ws.CreateBall(component.Position{X: 3, Y: 4}, component.Velocity{X: 100, Y: 100}, unitBall)
	NewIntegrateSystem(ws).Update(0)
	if got := position(t, ws, id); got.X != 3 || got.Y != 4 {
		t.Errorf("zero dt moved the ball to %+v", got)
	}
}
