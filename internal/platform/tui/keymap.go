package tui

import "github.com/charmbracelet/bubbles/key"

// ViewerKeyMap defines the key bindings while a replay plays.
type ViewerKeyMap struct {
	Restart key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ViewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ViewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Restart, k.Back, k.Quit}}
}

// DefaultViewerKeyMap returns default viewer key bindings.
func DefaultViewerKeyMap() ViewerKeyMap {
	return ViewerKeyMap{
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "replay again"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BrowserKeyMap defines the key bindings for the replay browser.
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Play   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Play, k.Reload, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Play}, {k.Reload, k.Quit}}
}

// DefaultBrowserKeyMap returns default browser key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
