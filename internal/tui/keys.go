package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Refresh key.Binding
	Dismiss key.Binding
	Facts   key.Binding
	Quit    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Dismiss, k.Facts, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "dismiss message"),
		),
		Facts: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle facts"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
