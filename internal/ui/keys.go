package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Reload     key.Binding

	// Selection
	PrevFormat key.Binding
	NextFormat key.Binding
	Up         key.Binding
	Down       key.Binding
	Send       key.Binding

	// Output
	CycleOutput   key.Binding
	ToggleHeaders key.Binding
	Older         key.Binding
	Newer         key.Binding
	PageUp        key.Binding
	PageDown      key.Binding

	// Logs
	ToggleLogs key.Binding
	LogLevel   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Cycle theme"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload catalog"),
		),

		PrevFormat: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("←", "Previous format"),
		),
		NextFormat: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("→", "Next format"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Previous pattern"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Next pattern"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Send"),
		),

		CycleOutput: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Cycle json/yaml/raw"),
		),
		ToggleHeaders: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Toggle headers"),
		),
		Older: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Older result"),
		),
		Newer: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Newer result"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Scroll output up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Scroll output down"),
		),

		ToggleLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle log pane"),
		),
		LogLevel: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Cycle log level"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.PrevFormat, k.NextFormat, k.CycleOutput, k.ToggleLogs, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevFormat, k.NextFormat, k.Up, k.Down, k.Send},
		{k.CycleOutput, k.ToggleHeaders, k.Older, k.Newer, k.PageUp, k.PageDown},
		{k.ToggleLogs, k.LogLevel},
		{k.Reload, k.CycleTheme, k.Help, k.Quit},
	}
}
