package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"taskfactory/internal/config"
)

type keyMap struct {
	Up              key.Binding
	Down            key.Binding
	Add             key.Binding
	Toggle          key.Binding
	Delete          key.Binding
	Confirm         key.Binding
	Cancel          key.Binding
	Priority        key.Binding
	FilterNext      key.Binding
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	Help            key.Binding
	Quit            key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Up:              binding("move up", k.Up, "up"),
		Down:            binding("move down", k.Down, "down"),
		Add:             binding("add", k.Add),
		Toggle:          binding("toggle", k.Toggle),
		Delete:          binding("delete", k.Delete),
		Confirm:         binding("save", k.Confirm),
		Cancel:          binding("cancel", k.Cancel),
		Priority:        binding("priority", k.Priority),
		FilterNext:      binding("next filter", k.FilterNext),
		FilterAll:       binding("all", k.FilterAll),
		FilterActive:    binding("active", k.FilterActive),
		FilterCompleted: binding("completed", k.FilterCompleted),
		Help:            binding("help", k.Help),
		Quit:            binding("quit", k.Quit, "ctrl+c"),
	}
}

// binding skips empty keys so an unset config entry never matches.
func binding(desc string, keys ...string) key.Binding {
	var set []string
	for _, k := range keys {
		if k != "" {
			set = append(set, k)
		}
	}
	if len(set) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(set...),
		key.WithHelp(helpLabel(set[0]), desc),
	)
}

func helpLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.FilterNext, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete},
		{k.Add, k.Priority, k.Confirm, k.Cancel},
		{k.FilterNext, k.FilterAll, k.FilterActive, k.FilterCompleted},
		{k.Help, k.Quit},
	}
}
