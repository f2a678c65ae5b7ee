package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines key bindings for the scope browser.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Search      key.Binding
	Increase    key.Binding
	Decrease    key.Binding
	Copy        key.Binding
	Refresh     key.Binding
	Clear       key.Binding
	Quit        key.Binding
}

var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Expand: key.NewBinding(
		key.WithKeys("l", "right", "enter"),
		key.WithHelp("l/enter", "expand"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h", "collapse"),
	),
	ExpandAll: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "expand all"),
	),
	CollapseAll: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "collapse all"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Increase: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "progress +5"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "progress -5"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy code"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear search"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Collapse, k.Search, k.Increase, k.Decrease, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse},
		{k.ExpandAll, k.CollapseAll, k.Search, k.Clear},
		{k.Increase, k.Decrease, k.Copy, k.Refresh, k.Quit},
	}
}
