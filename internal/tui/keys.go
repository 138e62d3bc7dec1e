package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	NextAlbum    key.Binding
	PrevAlbum    key.Binding
	Toggle       key.Binding
	Open         key.Binding
	Preview      key.Binding
	Back         key.Binding
	Reload       key.Binding
	Confirm      key.Binding
	OpenExternal key.Binding
	Copy         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h", "left")),
		Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l", "right")),
		PageUp:       key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdown", "page down")),
		NextAlbum:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next album")),
		PrevAlbum:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous album")),
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
		Preview:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview picks")),
		Back:         key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Confirm:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm")),
		OpenExternal: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Copy:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
