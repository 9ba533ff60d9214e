package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mazebrawl/internal/core"
	"github.com/vovakirdan/mazebrawl/internal/replay"
)

// frameMsg asks the viewer to advance to the next replay frame.
type frameMsg struct{}

// ViewerModel plays a replay frame by frame, pacing each frame by its
// recorded delay.
type ViewerModel struct {
	player *replay.Player
	frame  core.Frame
	screen *core.Screen
	keys   ViewerKeyMap
	help   help.Model

	hasFrame  bool
	done      bool
	goingBack bool
	quitting  bool
}

// NewViewerModel wraps a player for playback.
func NewViewerModel(player *replay.Player) ViewerModel {
	return ViewerModel{
		player: player,
		keys:   DefaultViewerKeyMap(),
		help:   help.New(),
	}
}

// advance delivers the next frameMsg after the given recorded delay.
func advance(delayMS int) tea.Cmd {
	if delayMS <= 0 {
		return func() tea.Msg { return frameMsg{} }
	}
	return tea.Tick(time.Duration(delayMS)*time.Millisecond, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// Init starts playback.
func (m ViewerModel) Init() tea.Cmd {
	return advance(0)
}

// Update handles messages for the viewer.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Restart):
			m.player.Rewind()
			m.done = false
			return m, advance(0)
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case frameMsg:
		if m.done {
			return m, nil
		}
		f, ok := m.player.Next()
		if !ok {
			m.done = true
			return m, nil
		}
		m.frame = f
		m.hasFrame = true
		if w, h := FrameSize(f.Maze); m.screen == nil {
			m.screen = core.NewScreen(w, h)
		} else if m.screen.Width() != w || m.screen.Height() != h {
			m.screen.Resize(w, h)
		}
		return m, advance(f.Delay)
	}
	return m, nil
}

// View renders the current frame.
func (m ViewerModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}
	if !m.hasFrame {
		return "loading replay..."
	}
	DrawFrame(m.screen, &m.frame)
	out := RenderScreen(m.screen)
	if m.done {
		doneStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
		out += "\n" + doneStyle.Render("replay over")
	}
	return out + "\n" + m.help.View(m.keys)
}

// GoingBack reports whether the user left the viewer toward the browser.
func (m ViewerModel) GoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user quit entirely.
func (m ViewerModel) IsQuitting() bool {
	return m.quitting
}

// RunViewer plays a replay in the terminal and blocks until the user
// leaves.
func RunViewer(frames []core.Frame) error {
	p := tea.NewProgram(NewViewerModel(replay.NewPlayer(frames)), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
