package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Run describes one simulation run.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
	Scene     string
	DT        float64
	Steps     int
	Balls     int
}

// Sample is one ball's state at the end of one tick.
type Sample struct {
	Step   int
	Entity uint64
	X, Y   float64
	VX, VY float64
}

var sampleColumns = []string{"run_id", "step", "entity", "x", "y", "vx", "vy"}

type TrajectoryRepo struct {
	db *DB
}

func NewTrajectoryRepo(db *DB) *TrajectoryRepo {
	return &TrajectoryRepo{db: db}
}

// CreateRun inserts the run header. Samples reference it by ID.
func (r *TrajectoryRepo) CreateRun(ctx context.Context, run Run) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO sim_runs (id, started_at, scene, dt, steps, balls)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		[16]byte(run.ID), run.StartedAt, run.Scene, run.DT, run.Steps, run.Balls,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// WriteSamples bulk-loads a batch of samples with COPY.
func (r *TrajectoryRepo) WriteSamples(ctx context.Context, runID uuid.UUID, samples []Sample) error {
	if len(samples) == 0 {
		return nil
	}
	id := [16]byte(runID)
	n, err := r.db.Pool.CopyFrom(ctx,
		pgx.Identifier{"ball_samples"},
		sampleColumns,
		pgx.CopyFromSlice(len(samples), func(i int) ([]any, error) {
			s := samples[i]
			return []any{id, int32(s.Step), int64(s.Entity), s.X, s.Y, s.VX, s.VY}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy samples: %w", err)
	}
	if int(n) != len(samples) {
		return fmt.Errorf("copy samples: wrote %d of %d rows", n, len(samples))
	}
	return nil
}

// FinishRun stamps the completion time and the number of ticks executed.
func (r *TrajectoryRepo) FinishRun(ctx context.Context, runID uuid.UUID, ticks int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE sim_runs SET finished_at = NOW(), ticks = $2 WHERE id = $1`,
		[16]byte(runID), ticks,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}
