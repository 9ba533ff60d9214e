package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

func renderTestFrame() *core.Frame {
	return &core.Frame{
		Maze:    []string{"vvv", "v0v", "vvv"},
		Hero:    core.Hero{Color: 'v', X: 150, Y: 150, Angle: 225},
		Enemies: []core.Entity{{Color: 'a', X: 250, Y: 50}},
		Bullets: []core.Entity{{Color: 'x', X: 50, Y: 150}},
		Score:   3,
	}
}

func TestFrameSizeIncludesStatusLine(t *testing.T) {
	f := renderTestFrame()
	w, h := FrameSize(f.Maze)
	if w != 3*tileWidth || h != 4 {
		t.Errorf("FrameSize = (%d, %d), want (%d, 4)", w, h, 3*tileWidth)
	}
	if w, h := FrameSize(nil); w != 0 || h != 0 {
		t.Errorf("FrameSize(nil) = (%d, %d), want (0, 0)", w, h)
	}
}

func TestDrawFramePlacesSprites(t *testing.T) {
	f := renderTestFrame()
	w, h := FrameSize(f.Maze)
	s := core.NewScreen(w, h)
	DrawFrame(s, f)

	if got := s.Get(0, 0); got != '█' {
		t.Errorf("Wall tile = %q, want a solid block", got)
	}
	if got := s.Get(3, 1); got != heroGlyph {
		t.Errorf("Hero cell = %q, want %q", got, heroGlyph)
	}
	if got := s.Get(5, 0); got != enemyGlyph {
		t.Errorf("Enemy cell = %q, want %q", got, enemyGlyph)
	}
	if got := s.Get(1, 1); got != bulletGlyph {
		t.Errorf("Bullet cell = %q, want %q", got, bulletGlyph)
	}
	if row := s.Row(3); !strings.Contains(row, "score 3") {
		t.Errorf("Status row = %q, want the score in it", row)
	}
}

func TestDrawFrameSpritesKeepTheirColors(t *testing.T) {
	f := renderTestFrame()
	w, h := FrameSize(f.Maze)
	s := core.NewScreen(w, h)
	DrawFrame(s, f)

	if got := s.At(5, 0).Code; got != 'a' {
		t.Errorf("Enemy code = %q, want 'a'", got)
	}
	if got := s.At(1, 1).Code; got != 'x' {
		t.Errorf("Bullet code = %q, want 'x'", got)
	}
}

func TestRenderScreenKeepsRowCount(t *testing.T) {
	f := renderTestFrame()
	w, h := FrameSize(f.Maze)
	s := core.NewScreen(w, h)
	DrawFrame(s, f)

	out := RenderScreen(s)
	if rows := strings.Count(out, "\n") + 1; rows != h {
		t.Errorf("RenderScreen produced %d rows, want %d", rows, h)
	}
}
