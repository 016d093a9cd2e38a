package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Pick     key.Binding
	Cancel   key.Binding
	Earlier  key.Binding
	Later    key.Binding
	PrevYear key.Binding
	NextYear key.Binding
	Today    key.Binding
	Project  key.Binding
	Name     key.Binding
	Desc     key.Binding
	Status   key.Binding
	Handler  key.Binding
	Save     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Pick:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up / drop")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Earlier:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "week -1")),
		Later:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "week +1")),
		PrevYear: key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "prev year")),
		NextYear: key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "next year")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "this week")),
		Project:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "project filter")),
		Name:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit name")),
		Desc:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "edit description")),
		Status:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle status")),
		Handler:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "cycle handler")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Pick, k.Earlier, k.Later, k.PrevYear, k.NextYear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Select, k.Cancel},
		{k.Pick, k.Earlier, k.Later, k.PrevYear, k.NextYear, k.Today},
		{k.Project, k.Name, k.Desc, k.Status, k.Handler},
		{k.Save, k.Reload, k.Help, k.Quit},
	}
}
