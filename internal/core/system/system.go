package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput     Phase = iota // 0: scripted input, queued spawns
	PhaseIntegrate              // 1: advance positions
	PhaseCollide                // 2: cushion reflection, then ball contacts
	PhaseObserve                // 3: dispatch events, log and render state
	PhasePersist                // 4: trajectory recording
	PhaseMaintain               // 5: flush deferred entity changes
)

var phaseNames = [...]string{"input", "integrate", "collide", "observe", "persist", "maintain"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
