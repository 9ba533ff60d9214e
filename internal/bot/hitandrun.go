package bot

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

// around lists the eight movement directions as a ring, counterclockwise
// on screen starting due right.
var around = [8]int{
	core.DirRight, core.DirUpRight, core.DirUp, core.DirUpLeft,
	core.DirLeft, core.DirDownLeft, core.DirDown, core.DirDownRight,
}

func ringIndex(dir int) int {
	for i, d := range around {
		if d == dir {
			return i
		}
	}
	return -1
}

// ringDist is the circular distance between two ring positions.
func ringDist(a, b int) int {
	d := core.Abs(a-b) % 8
	if d > 4 {
		d = 8 - d
	}
	return d
}

func mod8(i int) int {
	i %= 8
	if i < 0 {
		i += 8
	}
	return i
}

func init() {
	Register("hit-and-run", func() Strategy {
		return &hitAndRun{
			rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
			move: core.DirHold,
		}
	})
}

// hitAndRun keeps the hero rolling: it holds its heading while the road
// ahead is open, trades shots with the nearest enemy from range, and
// sidesteps out of point-blank brawls.
type hitAndRun struct {
	rng  *rand.Rand
	move int
}

func (s *hitAndRun) Name() string { return "hit-and-run" }

func (s *hitAndRun) Act(v *View) core.Command {
	if v.GridFresh() {
		s.move = s.pickMove(v)
	}
	h := v.Hero()
	angle := h.Angle
	enemy, shortest, seen := v.NearestEnemy()
	if seen {
		angle = core.Deg(math.Atan2(float64(enemy.Y-h.Y), float64(enemy.X-h.X)))
	}

	switch {
	case h.Wounds >= 3 && h.CanRegen:
		// Too hurt to trade: stand still and hold fire until the wounds close.
		return core.Command{Direction: core.DirHold, Angle: h.Angle}
	case !seen:
		attack := 0
		if h.CanAttack && h.Wounds < 3 && s.rng.Intn(3) > 0 {
			// Pot shots at the walls stir up fresh enemies to farm.
			attack = 1
		}
		return core.Command{Direction: s.move, Angle: angle, Attack: attack}
	case shortest < 160:
		// Point blank: slip along the ring instead of standing in the slash.
		k := int(math.Round(float64(angle)/45 - 0.5))
		return core.Command{Direction: around[mod8(k-4)], Angle: h.Angle, Attack: 1}
	default:
		return core.Command{Direction: s.move, Angle: angle, Attack: 1}
	}
}

// pickMove keeps the current heading while its tile is open; otherwise
// it walks the ring outward from the current heading (or in random
// order when standing still) and takes the first direction whose tile
// and both ring neighbors are open, so diagonals do not clip corners.
func (s *hitAndRun) pickMove(v *View) int {
	if s.move != core.DirHold && !v.WallStep(s.move) {
		return s.move
	}
	order := make([]int, len(around))
	copy(order, around[:])
	if s.move == core.DirHold {
		s.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	} else {
		cur := ringIndex(s.move)
		sort.SliceStable(order, func(i, j int) bool {
			return ringDist(ringIndex(order[i]), cur) < ringDist(ringIndex(order[j]), cur)
		})
	}
	for _, m := range order {
		i := ringIndex(m)
		if !v.WallStep(m) && !v.WallStep(around[mod8(i-1)]) && !v.WallStep(around[mod8(i+1)]) {
			return m
		}
	}
	return core.DirHold
}
