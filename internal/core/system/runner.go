package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
	ticks   int
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every registered system once.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
	r.ticks++
}

// Run executes exactly steps ticks. before, when non-nil, is called with the
// zero-based step index ahead of each tick.
func (r *Runner) Run(steps int, dt time.Duration, before func(step int)) {
	for step := 0; step < steps; step++ {
		if before != nil {
			before(step)
		}
		r.Tick(dt)
	}
}

// Ticks returns how many ticks have completed.
func (r *Runner) Ticks() int { return r.ticks }

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
