package game

import (
	"math/rand"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

// The maze is an infinite plane tiled with cells of cellWidth x cellWidth
// grids. Each cell has a wall block in the middle and four road arms
// around it; two or three arms are walled shut, picked from the cell's
// own deterministic random stream. Because every cell's layout depends
// only on the seed and the cell coordinates, any part of the plane can
// be recomputed on demand and the maze never needs to be stored.
const (
	roadWidth = 3
	wallWidth = 4
	cellWidth = roadWidth*2 + wallWidth

	mazeSize = 10
	// Middle is the grid the hero starts on.
	Middle = mazeSize / 2 * cellWidth
)

type maze struct {
	seed int64
	salt int64
}

// sideMask holds which of the four arms of a cell are walled: bit 0
// east, bit 1 south, bit 2 west, bit 3 north.
type sideMask uint8

func (m *maze) sides(cx, cy int64) sideMask {
	rng := rand.New(rand.NewSource(m.seed ^ m.salt ^ cx*0x9e3779b9 ^ cy*0x7f4a7c15))
	var mask sideMask
	// Two distinct closed sides plus a third that may repeat, so a cell
	// ends up with two or three walled arms.
	a := rng.Intn(4)
	b := (a + 1 + rng.Intn(3)) % 4
	mask |= 1<<a | 1<<b
	mask |= 1 << rng.Intn(4)
	return mask
}

// Wall reports whether the grid (gx, gy) is a wall.
func (m *maze) Wall(gx, gy int) bool {
	lx, ly := mod(gx, cellWidth), mod(gy, cellWidth)
	inX := lx >= roadWidth && lx < roadWidth+wallWidth
	inY := ly >= roadWidth && ly < roadWidth+wallWidth
	switch {
	case inX && inY:
		return true
	case !inX && !inY: // corner, always road
		return false
	}
	cx, cy := floorDiv(gx, cellWidth), floorDiv(gy, cellWidth)
	mask := m.sides(cx, cy)
	if inY { // east or west arm
		if lx >= roadWidth+wallWidth {
			return mask&1 != 0
		}
		return mask&4 != 0
	}
	// north or south arm
	if ly >= roadWidth+wallWidth {
		return mask&2 != 0
	}
	return mask&8 != 0
}

// openAround reports whether the hero's starting grid connects to the
// edge of the given window. A trapped start means the salt must change
// and the maze regenerate.
func (m *maze) openAround(gx, gy, viewW, viewH int) bool {
	if m.Wall(gx, gy) {
		return false
	}
	x0, y0 := gx-viewW/2, gy-viewH/2
	type point struct{ x, y int }
	queue := []point{{gx, gy}}
	visited := map[point]bool{{gx, gy}: true}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p.x <= x0 || p.x >= x0+viewW-1 || p.y <= y0 || p.y >= y0+viewH-1 {
			return true
		}
		for _, d := range [4]point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			n := point{p.x + d.x, p.y + d.y}
			if !visited[n] && !m.Wall(n.x, n.y) {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}

// rows renders the window of the maze as wire tile rows. Walls carry
// the lightest Aluminium shade, roads the empty code.
func (m *maze) rows(x0, y0, viewW, viewH int) []string {
	wall := core.Aluminium.Code(0)
	rows := make([]string, viewH)
	line := make([]byte, viewW)
	for y := 0; y < viewH; y++ {
		for x := 0; x < viewW; x++ {
			if m.Wall(x0+x, y0+y) {
				line[x] = wall
			} else {
				line[x] = core.EmptyCode
			}
		}
		rows[y] = string(line)
	}
	return rows
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

func floorDiv(a, n int) int64 {
	q := a / n
	if a%n < 0 {
		q--
	}
	return int64(q)
}
