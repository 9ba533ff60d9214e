package bot

import (
	"math"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

// View is the client-side picture of the world. Frames omit the maze
// while the grid stays put, so the view keeps the last received grid
// and strategies always see a complete window.
type View struct {
	frame     core.Frame
	grid      []string
	gridFresh bool
}

// Absorb folds the next frame into the view.
func (v *View) Absorb(f core.Frame) {
	v.frame = f
	v.gridFresh = f.HasMaze()
	if v.gridFresh {
		v.grid = f.Maze
	}
}

// Hero returns the hero line of the current frame.
func (v *View) Hero() core.Hero {
	return v.frame.Hero
}

// Enemies returns the visible enemies of the current frame.
func (v *View) Enemies() []core.Entity {
	return v.frame.Enemies
}

// Score returns the score reported by the current frame.
func (v *View) Score() int {
	return v.frame.Score
}

// GridFresh reports whether the current frame carried the maze, which
// means the window slid onto new ground.
func (v *View) GridFresh() bool {
	return v.gridFresh
}

// WallStep reports whether stepping one tile in the given keypad
// direction from the hero's tile runs into a wall. The hero sits on
// the exact center tile of the window. Without a grid yet, everything
// counts as a wall.
func (v *View) WallStep(dir int) bool {
	if len(v.grid) == 0 {
		return true
	}
	dx, dy := core.Command{Direction: dir}.Vector()
	row := len(v.grid)/2 + dy
	col := len(v.grid[0])/2 + dx
	if row < 0 || row >= len(v.grid) || col < 0 || col >= len(v.grid[row]) {
		return true
	}
	return v.grid[row][col] != core.EmptyCode
}

// NearestEnemy returns the closest visible enemy, its distance to the
// hero in hundredths of a grid, and whether any enemy is visible.
func (v *View) NearestEnemy() (core.Entity, float64, bool) {
	h := v.frame.Hero
	best := core.Entity{}
	shortest := math.Inf(1)
	for _, e := range v.frame.Enemies {
		d := math.Hypot(float64(e.X-h.X), float64(e.Y-h.Y))
		if d < shortest {
			shortest = d
			best = e
		}
	}
	return best, shortest, len(v.frame.Enemies) > 0
}
