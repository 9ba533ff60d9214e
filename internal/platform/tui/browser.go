package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mazebrawl/internal/replay"
	"github.com/vovakirdan/mazebrawl/internal/storage"
)

// Browser layout constants
const (
	maxBrowserRows = 200 // Max replays to list
)

// browserEntry is one replay file, joined with its stored session row
// when the database knows about it.
type browserEntry struct {
	name     string
	path     string
	modified time.Time
	score    *int
	duration time.Duration
	reason   string
}

// BrowserModel is the Bubble Tea model for the replay browser: a table
// of recorded sessions, newest first, that plays the selected replay in
// an embedded viewer.
type BrowserModel struct {
	dir     string
	store   *storage.Store
	entries []browserEntry
	table   table.Model
	help    help.Model
	keys    BrowserKeyMap
	width   int
	height  int

	viewer   *ViewerModel
	loadErr  string
	quitting bool
}

// NewBrowserModel creates a browser over the given replay directory.
// store may be nil; scores and end reasons are then left blank.
func NewBrowserModel(dir string, store *storage.Store, width, height int) BrowserModel {
	h := help.New()
	h.ShowAll = false

	m := BrowserModel{
		dir:    dir,
		store:  store,
		keys:   DefaultBrowserKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *BrowserModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Replay", Width: 24},
		{Title: "Score", Width: 8},
		{Title: "Length", Width: 8},
		{Title: "End", Width: 8},
		{Title: "Recorded", Width: 14},
	}

	height := m.height - 6 // Leave room for title, help, and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// reload rescans the replay directory and rebuilds the table rows.
func (m *BrowserModel) reload() {
	m.entries = nil
	m.loadErr = ""

	files, err := os.ReadDir(m.dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		m.loadErr = fmt.Sprintf("cannot list %s: %v", m.dir, err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		fi, err := f.Info()
		if err != nil {
			continue
		}
		e := browserEntry{
			name:     f.Name(),
			path:     filepath.Join(m.dir, f.Name()),
			modified: fi.ModTime(),
		}
		if m.store != nil {
			if stored, err := m.store.ByReplayPath(e.path); err == nil && stored != nil {
				e.score = &stored.Score
				e.duration = stored.Duration
				e.reason = stored.EndReason
			}
		}
		m.entries = append(m.entries, e)
		if len(m.entries) >= maxBrowserRows {
			break
		}
	}

	// Replay names are timestamps, so name order is record order.
	sort.Slice(m.entries, func(i, j int) bool { return m.entries[i].name > m.entries[j].name })

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		score, reason := "-", "-"
		length := "-"
		if e.score != nil {
			score = fmt.Sprintf("%d", *e.score)
			length = e.duration.Round(time.Second).String()
			reason = e.reason
		}
		rows[i] = table.Row{
			strings.TrimSuffix(e.name, ".json"),
			score,
			length,
			reason,
			e.modified.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the browser model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.viewer != nil {
		return m.updateViewer(msg)
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Reload):
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Play):
			return m.openSelected()

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.reload()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// openSelected loads the highlighted replay and switches to the viewer.
func (m BrowserModel) openSelected() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return m, nil
	}
	frames, err := replay.Load(m.entries[idx].path)
	if err != nil {
		m.loadErr = err.Error()
		return m, nil
	}
	if len(frames) == 0 {
		m.loadErr = "replay is empty"
		return m, nil
	}
	v := NewViewerModel(replay.NewPlayer(frames))
	m.viewer = &v
	m.loadErr = ""
	return m, v.Init()
}

// updateViewer forwards messages while a replay plays.
func (m BrowserModel) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.viewer.Update(msg)
	if v, ok := newModel.(ViewerModel); ok {
		m.viewer = &v
	}

	if m.viewer.GoingBack() {
		m.viewer = nil
		return m, nil
	}
	if m.viewer.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the browser or the embedded viewer.
func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}
	if m.viewer != nil {
		return m.viewer.View()
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("REPLAYS"))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2)
		b.WriteString(emptyStyle.Render("No replays recorded yet.\nPlay a session with recording enabled first."))
	} else {
		b.WriteString(m.table.View())
	}

	if m.loadErr != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.loadErr))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// IsQuitting returns true if the user left the browser.
func (m BrowserModel) IsQuitting() bool {
	return m.quitting
}

// RunBrowser runs the replay browser in the local terminal.
func RunBrowser(dir string, store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewBrowserModel(dir, store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
