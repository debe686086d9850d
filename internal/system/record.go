package system

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/cuesim/internal/component"
	"github.com/l1jgo/cuesim/internal/core/ecs"
	coresys "github.com/l1jgo/cuesim/internal/core/system"
	"github.com/l1jgo/cuesim/internal/persist"
	"github.com/l1jgo/cuesim/internal/world"
	"go.uber.org/zap"
)

// TrajectorySink stores recorded runs. *persist.TrajectoryRepo implements it.
type TrajectorySink interface {
	CreateRun(ctx context.Context, run persist.Run) error
	WriteSamples(ctx context.Context, runID uuid.UUID, samples []persist.Sample) error
	FinishRun(ctx context.Context, runID uuid.UUID, ticks int) error
}

const recordWriteTimeout = 5 * time.Second

// RecordSystem samples every ball's position and velocity at tick end and
// writes them in batches. Phase 4 (Persist).
//
// A failed write is logged and the batch dropped; recording never stops the
// simulation.
type RecordSystem struct {
	sink       TrajectorySink
	runID      uuid.UUID
	positions  ecs.Reader[component.Position]
	velocities ecs.Reader[component.Velocity]
	balls      ecs.Reader[component.Ball]
	log        *zap.Logger

	buf       []persist.Sample
	interval  int // flush every N ticks
	tickCount int
	step      int
	dropped   int
}

func NewRecordSystem(ws *world.State, sink TrajectorySink, runID uuid.UUID, log *zap.Logger, intervalTicks int) *RecordSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	return &RecordSystem{
		sink:       sink,
		runID:      runID,
		positions:  ws.Positions.Reader(),
		velocities: ws.Velocities.Reader(),
		balls:      ws.Balls.Reader(),
		log:        log,
		buf:        make([]persist.Sample, 0, intervalTicks*ws.BallCount()),
		interval:   intervalTicks,
	}
}

func (s *RecordSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *RecordSystem) Update(_ time.Duration) {
	ecs.Join3(s.positions, s.velocities, s.balls, func(id ecs.EntityID, p component.Position, v component.Velocity, _ component.Ball) {
		s.buf = append(s.buf, persist.Sample{
			Step:   s.step,
			Entity: uint64(id),
			X:      p.X,
			Y:      p.Y,
			VX:     v.X,
			VY:     v.Y,
		})
	})
	s.step++

	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0

	ctx, cancel := context.WithTimeout(context.Background(), recordWriteTimeout)
	defer cancel()
	s.flush(ctx)
}

func (s *RecordSystem) flush(ctx context.Context) {
	if len(s.buf) == 0 {
		return
	}
	if err := s.sink.WriteSamples(ctx, s.runID, s.buf); err != nil {
		s.dropped += len(s.buf)
		s.log.Error("trajectory write failed",
			zap.String("run", s.runID.String()),
			zap.Int("samples", len(s.buf)),
			zap.Error(err),
		)
	} else {
		s.log.Debug("trajectory batch written", zap.Int("samples", len(s.buf)))
	}
	s.buf = s.buf[:0]
}

// Close writes any buffered samples and marks the run finished.
func (s *RecordSystem) Close(ctx context.Context) error {
	s.flush(ctx)
	return s.sink.FinishRun(ctx, s.runID, s.step)
}

// Dropped returns how many samples were lost to failed writes.
func (s *RecordSystem) Dropped() int { return s.dropped }
