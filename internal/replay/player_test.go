package replay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

func playerFrames() []core.Frame {
	hero := core.Hero{Color: 'v', X: 150, Y: 150, Angle: 225}
	return []core.Frame{
		{Delay: 0, Hero: hero, Maze: []string{"vvv", "v0v", "vvv"}},
		{Delay: 20, Hero: hero},
		{Delay: 20, Hero: hero, Maze: []string{"vvv", "00v", "vvv"}},
		{Delay: 20, Hero: hero},
	}
}

func TestPlayerInheritsMaze(t *testing.T) {
	p := NewPlayer(playerFrames())

	want := [][]string{
		{"vvv", "v0v", "vvv"},
		{"vvv", "v0v", "vvv"},
		{"vvv", "00v", "vvv"},
		{"vvv", "00v", "vvv"},
	}
	for i := range want {
		f, ok := p.Next()
		if !ok {
			t.Fatalf("Next gave up at frame %d", i)
		}
		if len(f.Maze) != len(want[i]) {
			t.Fatalf("Frame %d carries %d rows, want %d", i, len(f.Maze), len(want[i]))
		}
		for j, row := range want[i] {
			if f.Maze[j] != row {
				t.Errorf("Frame %d row %d = %q, want %q", i, j, f.Maze[j], row)
			}
		}
	}
	if _, ok := p.Next(); ok {
		t.Error("Next past the end must report exhaustion")
	}
}

func TestPlayerRewind(t *testing.T) {
	p := NewPlayer(playerFrames())
	for i := 0; i < 3; i++ {
		p.Next()
	}
	p.Rewind()
	if p.Pos() != 0 {
		t.Fatalf("Pos after Rewind = %d, want 0", p.Pos())
	}
	f, ok := p.Next()
	if !ok || !f.HasMaze() {
		t.Error("First frame after Rewind must carry its own maze again")
	}
}

func TestPlayPacesByRecordedDelay(t *testing.T) {
	p := NewPlayer(playerFrames())
	rendered := 0
	start := time.Now()
	err := p.Play(context.Background(), func(core.Frame) error {
		rendered++
		return nil
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if rendered != 4 {
		t.Fatalf("Rendered %d frames, want 4", rendered)
	}
	// Three frames carry 20ms each; generous upper bound for slow CI.
	if elapsed < 60*time.Millisecond {
		t.Errorf("Play took %v, must wait at least the recorded 60ms", elapsed)
	}
}

func TestPlayStopsOnCancel(t *testing.T) {
	frames := playerFrames()
	frames[1].Delay = 10000
	p := NewPlayer(frames)

	ctx, cancel := context.WithCancel(context.Background())
	rendered := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Play(ctx, func(core.Frame) error {
			rendered++
			return nil
		})
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Play returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Play did not unblock after cancel")
	}
	if rendered == 0 {
		t.Error("Nothing rendered before cancel")
	}
}

func TestPlayStopsOnRenderError(t *testing.T) {
	p := NewPlayer(playerFrames())
	boom := errors.New("terminal gone")
	rendered := 0
	err := p.Play(context.Background(), func(core.Frame) error {
		rendered++
		if rendered == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Play returned %v, want the render error", err)
	}
	if rendered != 2 {
		t.Errorf("Rendered %d frames after the error, want 2", rendered)
	}
}
