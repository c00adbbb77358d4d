package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	PrevMonth key.Binding
	NextMonth key.Binding
	PrevDay   key.Binding
	NextDay   key.Binding
	Enter     key.Binding
	Add       key.Binding
	Back      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevMonth: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next month"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next day"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open day"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add entry"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
