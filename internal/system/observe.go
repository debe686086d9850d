package system

import (
	"math"
	"time"

	"github.com/l1jgo/cuesim/internal/core/event"
	coresys "github.com/l1jgo/cuesim/internal/core/system"
	"github.com/l1jgo/cuesim/internal/world"
	"go.uber.org/zap"
)

// Observer receives the ball positions once per tick, after both collision
// passes.
type Observer interface {
	Observe(f *world.Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *world.Frame)

func (fn ObserverFunc) Observe(f *world.Frame) { fn(f) }

// ObserveSystem captures a Frame each tick and hands it to every observer.
// Phase 3 (Observe).
type ObserveSystem struct {
	world     *world.State
	observers []Observer
	frame     world.Frame
	step      int
}

func NewObserveSystem(ws *world.State, observers ...Observer) *ObserveSystem {
	return &ObserveSystem{world: ws, observers: observers}
}

func (s *ObserveSystem) Phase() coresys.Phase { return coresys.PhaseObserve }

func (s *ObserveSystem) Update(_ time.Duration) {
	s.world.Capture(s.step, &s.frame)
	for _, o := range s.observers {
		o.Observe(&s.frame)
	}
	s.step++
}

// LogObserver logs every ball position at Info.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) Observe(f *world.Frame) {
	for _, b := range f.Balls {
		o.log.Info("ball position",
			zap.Stringer("entity", b.ID),
			zap.Float64("x", round2(b.X)),
			zap.Float64("y", round2(b.Y)),
		)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ContactStats counts collision events for the end-of-run summary.
type ContactStats struct {
	CushionHits  int
	BallContacts int
	MaxImpulse   float64
}

// NewContactStats subscribes a counter to bus. When log is non-nil every
// event is also logged at Debug.
func NewContactStats(bus *event.Bus, log *zap.Logger) *ContactStats {
	st := &ContactStats{}
	event.Subscribe(bus, func(ev event.CushionHit) {
		st.CushionHits++
		if log != nil {
			log.Debug("cushion hit",
				zap.Stringer("entity", ev.Entity),
				zap.Stringer("sides", ev.Sides),
				zap.Float64("speed", round2(ev.Speed)),
			)
		}
	})
	event.Subscribe(bus, func(ev event.BallContact) {
		st.BallContacts++
		st.MaxImpulse = math.Max(st.MaxImpulse, ev.Impulse)
		if log != nil {
			log.Debug("ball contact",
				zap.Stringer("a", ev.A),
				zap.Stringer("b", ev.B),
				zap.Float64("impulse", round2(ev.Impulse)),
			)
		}
	})
	return st
}

// Fields returns the counters as zap fields.
func (st *ContactStats) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("cushion_hits", st.CushionHits),
		zap.Int("ball_contacts", st.BallContacts),
		zap.Float64("max_impulse", round2(st.MaxImpulse)),
	}
}
