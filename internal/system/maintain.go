package system

import (
	"time"

	"github.com/l1jgo/cuesim/internal/core/ecs"
	coresys "github.com/l1jgo/cuesim/internal/core/system"
	"go.uber.org/zap"
)

// MaintainSystem applies queued entity creations and destructions at tick
// end. Phase 5 (Maintain).
type MaintainSystem struct {
	world *ecs.World
	log   *zap.Logger
}

func NewMaintainSystem(world *ecs.World, log *zap.Logger) *MaintainSystem {
	return &MaintainSystem{world: world, log: log}
}

func (s *MaintainSystem) Phase() coresys.Phase { return coresys.PhaseMaintain }

func (s *MaintainSystem) Update(_ time.Duration) {
	if n := s.world.Pending(); n > 0 {
		s.log.Debug("flushing entity changes", zap.Int("pending", n))
	}
	s.world.Flush()
}
