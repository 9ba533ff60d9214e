package core

// Positions in a frame are fixed-point: hundredths of a grid unit,
// measured across the visible window. Angles are integer degrees in
// [0, 360), where 0 points right and y grows downward.

// Hero is the exported state of the player avatar.
type Hero struct {
	Color     byte
	X, Y      int
	Angle     int
	CanAttack bool
	CanRegen  bool
	Wounds    int
}

// Entity is the exported state of an enemy or a flying bullet. The color
// code carries the remaining durability: sprites step through their
// family's shades as they wear down.
type Entity struct {
	Color byte
	X, Y  int
	Angle int
}

// Frame is one complete snapshot of the visible world. A nil Maze means
// the grid was omitted because it has not shifted since the previous
// frame; consumers keep using the last grid they saw.
type Frame struct {
	Maze    []string
	Hero    Hero
	Enemies []Entity
	Bullets []Entity
	Score   int
	Delay   int // milliseconds since the previous frame, recordings only
}

// HasMaze reports whether this frame carries a grid of its own.
func (f *Frame) HasMaze() bool {
	return f.Maze != nil
}

// Clone returns a deep copy, so a stored frame cannot be mutated through
// slices shared with the engine.
func (f *Frame) Clone() Frame {
	c := *f
	if f.Maze != nil {
		c.Maze = append([]string(nil), f.Maze...)
	}
	if f.Enemies != nil {
		c.Enemies = append([]Entity(nil), f.Enemies...)
	}
	if f.Bullets != nil {
		c.Bullets = append([]Entity(nil), f.Bullets...)
	}
	return c
}
