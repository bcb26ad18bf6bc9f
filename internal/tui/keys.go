package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Back    key.Binding
	Enter   key.Binding
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Toggle  key.Binding
	Refine  key.Binding
	Retry   key.Binding
	Restart key.Binding
}

// Letter keys are only bound on screens without text entry.
var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	Refine: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refine"),
	),
	Retry: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "try again"),
	),
	Restart: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new gift"),
	),
}
