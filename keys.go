package main

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings of the viewer; it also feeds the help bar.
type keyMap struct {
	Replay   key.Binding
	Edit     key.Binding
	Settings key.Binding
	Help     key.Binding
	Quit     key.Binding

	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Confirm key.Binding
	Back    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Replay:   key.NewBinding(key.WithKeys("r", " "), key.WithHelp("r/space", "replay")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit word")),
		Settings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "less")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "more")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "apply")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Replay, k.Edit, k.Settings, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Replay, k.Edit, k.Settings},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Confirm, k.Back, k.Help, k.Quit},
	}
}
