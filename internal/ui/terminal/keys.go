package terminal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle key.Binding
	Lap    key.Binding
	Split  key.Binding
	Reset  key.Binding
	Track  key.Binding
	Up     key.Binding
	Down   key.Binding
	Delete key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Lap:    key.NewBinding(key.WithKeys("l", "enter"), key.WithHelp("l", "lap")),
		Split:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "split")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Track:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "track")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "select lap")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↑/↓", "select lap")),
		Delete: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete lap")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Lap, k.Split, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Lap, k.Split},
		{k.Track, k.Reset},
		{k.Up, k.Delete},
		{k.Help, k.Quit},
	}
}
