package system

import (
	"testing"
	"time"
)

type recordingSystem struct {
	name  string
	phase Phase
	log   *[]string
	dts   []time.Duration
}

func (s *recordingSystem) Phase() Phase { return s.phase }

func (s *recordingSystem) Update(dt time.Duration) {
	*s.log = append(*s.log, s.name)
	s.dts = append(s.dts, dt)
}

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{name: "maintain", phase: PhaseMaintain, log: &log})
	r.Register(&recordingSystem{name: "events", phase: PhaseObserve, log: &log})
	r.Register(&recordingSystem{name: "collide", phase: PhaseCollide, log: &log})
	r.Register(&recordingSystem{name: "observe", phase: PhaseObserve, log: &log})
	r.Register(&recordingSystem{name: "integrate", phase: PhaseIntegrate, log: &log})

	r.Tick(time.Second)

	want := []string{"integrate", "collide", "events", "observe", "maintain"}
	if len(log) != len(want) {
		t.Fatalf("Expected %d updates, got %d: %v", len(want), len(log), log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], log[i])
		}
	}
}

func TestRunnerRunsFixedStepCount(t *testing.T) {
	var log []string
	sys := &recordingSystem{name: "integrate", phase: PhaseIntegrate, log: &log}
	r := NewRunner()
	r.Register(sys)

	var steps []int
	r.Run(10, 100*time.Millisecond, func(step int) {
		steps = append(steps, step)
	})

	if r.Ticks() != 10 {
		t.Errorf("Expected 10 ticks, got %d", r.Ticks())
	}
	if len(steps) != 10 || steps[0] != 0 || steps[9] != 9 {
		t.Errorf("Expected steps 0..9, got %v", steps)
	}
	for _, dt := range sys.dts {
		if dt != 100*time.Millisecond {
			t.Errorf("Expected dt 100ms, got %v", dt)
		}
	}

	r.Run(0, time.Second, nil)
	if r.Ticks() != 10 {
		t.Errorf("zero-step run changed tick count to %d", r.Ticks())
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseCollide.String() != "collide" {
		t.Errorf("Expected collide, got %s", PhaseCollide)
	}
	if Phase(42).String() != "unknown" {
		t.Errorf("Expected unknown, got %s", Phase(42))
	}
}
