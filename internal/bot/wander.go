package bot

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

func init() {
	Register("wander", func() Strategy {
		return &wander{
			rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
			move: core.DirHold,
		}
	})
}

// wander is a pacifist sightseer: it strolls the maze along open roads,
// faces where it walks, and never pulls the trigger. Useful as a
// harmless load generator and as the simplest possible strategy.
type wander struct {
	rng  *rand.Rand
	move int
}

func (s *wander) Name() string { return "wander" }

func (s *wander) Act(v *View) core.Command {
	if v.GridFresh() && (s.move == core.DirHold || v.WallStep(s.move) || s.rng.Intn(12) == 0) {
		s.move = s.pickMove(v)
	}
	angle := v.Hero().Angle
	if s.move != core.DirHold {
		dx, dy := core.Command{Direction: s.move}.Vector()
		angle = core.Deg(math.Atan2(float64(dy), float64(dx)))
	}
	return core.Command{Direction: s.move, Angle: angle}
}

func (s *wander) pickMove(v *View) int {
	open := make([]int, 0, len(around))
	for _, m := range around {
		if !v.WallStep(m) {
			open = append(open, m)
		}
	}
	if len(open) == 0 {
		return core.DirHold
	}
	return open[s.rng.Intn(len(open))]
}
