package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Reset key.Binding
	Retry key.Binding
	Next  key.Binding
	Quit  key.Binding
}

func newKeyMap(canRenew bool) keyMap {
	km := keyMap{
		Reset: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Retry: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "try again")),
		Next:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new passage")),
		Quit:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
	km.Retry.SetEnabled(false)
	km.Next.SetEnabled(canRenew)
	return km
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Reset, k.Next, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
