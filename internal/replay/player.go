package replay

import (
	"context"
	"time"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

// Player walks a decoded replay frame by frame. Records omit the maze
// while the grid stayed put, so the player carries the last seen grid
// forward and every frame it hands out is self-contained.
type Player struct {
	frames []core.Frame
	pos    int
	maze   []string
}

// NewPlayer wraps decoded frames for playback.
func NewPlayer(frames []core.Frame) *Player {
	return &Player{frames: frames}
}

// Len returns the total number of frames.
func (p *Player) Len() int {
	return len(p.frames)
}

// Pos returns how many frames Next has handed out.
func (p *Player) Pos() int {
	return p.pos
}

// Next returns the next frame with the inherited maze filled in, or
// false when the replay is exhausted. The returned frame is a copy.
func (p *Player) Next() (core.Frame, bool) {
	if p.pos >= len(p.frames) {
		return core.Frame{}, false
	}
	f := p.frames[p.pos].Clone()
	p.pos++
	if f.HasMaze() {
		p.maze = f.Maze
	} else {
		f.Maze = p.maze
	}
	return f, true
}

// Rewind restarts playback from the first frame.
func (p *Player) Rewind() {
	p.pos = 0
	p.maze = nil
}

// Play renders every remaining frame in order, waiting each frame's
// recorded delay after rendering it, exactly as the live session paced
// them. It stops early when ctx is canceled or render fails.
func (p *Player) Play(ctx context.Context, render func(core.Frame) error) error {
	for {
		f, ok := p.Next()
		if !ok {
			return nil
		}
		if err := render(f); err != nil {
			return err
		}
		if f.Delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(f.Delay) * time.Millisecond):
		}
	}
}
