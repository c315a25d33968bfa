package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding of the labeler
type KeyMap struct {
	HighQuality key.Binding
	LowQuality  key.Binding
	Skip        key.Binding
	Undo        key.Binding
	Export      key.Binding
	Open        key.Binding
	NextTask    key.Binding
	PrevTask    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var Keys = KeyMap{
	HighQuality: key.NewBinding(
		key.WithKeys("h"),
		key.WithHelp("h", "high quality"),
	),
	LowQuality: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "low quality"),
	),
	Skip: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "skip"),
	),
	Undo: key.NewBinding(
		key.WithKeys("ctrl+z", "u"),
		key.WithHelp("u/^z", "undo"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export results"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in viewer"),
	),
	NextTask: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next task"),
	),
	PrevTask: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "prev task"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.HighQuality, k.LowQuality, k.Skip, k.Undo, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.HighQuality, k.LowQuality, k.Skip, k.Undo},
		{k.Open, k.Export, k.NextTask, k.PrevTask},
		{k.Help, k.Quit},
	}
}
