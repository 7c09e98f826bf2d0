package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Strategies key.Binding
	MonteCarlo key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Strategies: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "strategies")),
		MonteCarlo: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "monte carlo")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Strategies, k.MonteCarlo, k.Back, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Strategies, k.MonteCarlo},
		{k.Back, k.Help, k.Quit},
	}
}
