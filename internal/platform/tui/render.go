// Package tui renders replays in the terminal: a lipgloss/Bubble Tea
// viewer that paints frames as colored tiles, a table-based browser
// over the replay directory, and a Wish server that exposes the
// browser over SSH.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

// Terminal cells are about twice as tall as wide, so every maze tile
// spans two columns and one row.
const tileWidth = 2

const (
	heroGlyph   = '@'
	enemyGlyph  = '&'
	bulletGlyph = '*'
)

// codeStyles caches one lipgloss style per palette code. Codes outside
// the palette fall back to the terminal default.
var codeStyles = func() map[byte]lipgloss.Style {
	styles := make(map[byte]lipgloss.Style, len(core.Alphabet))
	for i := 0; i < len(core.Alphabet); i++ {
		code := core.Alphabet[i]
		if hex := core.HexOf(code); hex != "" {
			styles[code] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
		}
	}
	return styles
}()

var defaultStyle = lipgloss.NewStyle()

func styleFor(code byte) lipgloss.Style {
	if s, ok := codeStyles[code]; ok {
		return s
	}
	return defaultStyle
}

// RenderScreen converts a screen buffer to a styled string. Adjacent
// cells with the same palette code are grouped into one styled run to
// keep the ANSI overhead down.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < s.Width() {
			start := s.At(x, y).Code
			var run strings.Builder
			for x < s.Width() {
				cell := s.At(x, y)
				if cell.Code != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(styleFor(start).Render(run.String()))
		}
	}
	return sb.String()
}

// DrawFrame paints one frame into the screen buffer: maze tiles as
// solid blocks, then bullets, enemies and the hero on top, and a
// status line underneath. The frame must carry its maze; the replay
// player materializes inherited grids before handing frames out.
func DrawFrame(dst *core.Screen, f *core.Frame) {
	dst.Clear()

	for row, tiles := range f.Maze {
		for col := 0; col < len(tiles); col++ {
			if tiles[col] == core.EmptyCode {
				continue
			}
			dst.DrawRect(core.NewRect(col*tileWidth, row, tileWidth, 1), '█', tiles[col])
		}
	}

	for _, b := range f.Bullets {
		x, y := cellPos(b.X, b.Y)
		dst.SetCell(x, y, bulletGlyph, b.Color)
	}
	for _, e := range f.Enemies {
		x, y := cellPos(e.X, e.Y)
		dst.SetCell(x, y, enemyGlyph, e.Color)
	}
	hx, hy := cellPos(f.Hero.X, f.Hero.Y)
	dst.SetCell(hx, hy, heroGlyph, f.Hero.Color)

	status := fmt.Sprintf(" score %d  wounds %d/3  angle %d°", f.Score, f.Hero.Wounds, f.Hero.Angle)
	dst.DrawTextColored(0, len(f.Maze), status, core.Aluminium.Code(1))
}

// cellPos converts a wire position (hundredths of a grid unit across
// the window) to screen cell coordinates.
func cellPos(x, y int) (int, int) {
	return x * tileWidth / 100, y / 100
}

// FrameSize returns the screen dimensions a frame with the given grid
// needs, including the status line.
func FrameSize(maze []string) (w, h int) {
	if len(maze) == 0 {
		return 0, 0
	}
	return len(maze[0]) * tileWidth, len(maze) + 1
}
