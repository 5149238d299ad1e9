package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Genre       key.Binding
	Rating      key.Binding
	Toggle      key.Binding
	Close       key.Binding
	ClearFilter key.Binding
	EditTitle   key.Binding
	Logout      key.Binding
	Quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Genre:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genres")),
		Rating:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "ratings")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		ClearFilter: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		EditTitle:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "title")),
		Logout:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "change key")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Genre, k.Rating, k.ClearFilter, k.EditTitle, k.Logout, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Genre, k.Rating, k.Toggle, k.Close, k.ClearFilter},
		{k.EditTitle, k.Logout, k.Quit},
	}
}
