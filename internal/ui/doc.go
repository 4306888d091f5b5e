// Package ui provides the courier terminal user interface.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds the catalog selection, the
// output viewport and the log pane; everything on screen is derived from it
// in View.
//
//   - app.go: Model, Update loop, messages and commands, Run
//   - view.go: layout and rendering
//   - keys.go: key bindings (bubbles/key), shared with the help views
//   - theme.go: Dracula and Slate palettes as lipgloss styles
//
// # Dispatch Flow
//
// Enter starts a dispatch for the selected format and pattern inside a
// tea.Cmd. The command records the outcome in state.Store and returns it as
// a message; Update then takes a fresh snapshot. Several dispatches may be in
// flight at once and the spinner runs while any are pending.
//
// # Catalog Reload
//
// The catalog itself is immutable. A reload (key r, or ReloadRequested sent by
// the file watcher) calls Options.Reload to build a new catalog and dispatcher
// and swaps them in, keeping the selected format and pattern when they still
// exist.
//
// # Preferences
//
// Theme, output mode and last format are written back to prefs.toml whenever
// they change.
package ui
