package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Views
	ViewAll       key.Binding
	ViewFavorites key.Binding
	ViewMine      key.Binding
	Refresh       key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Story actions
	ToggleFavorite key.Binding
	Delete         key.Binding
	Submit         key.Binding
	ConfirmDelete  key.Binding

	// Account
	Login  key.Binding
	Signup key.Binding
	Logout key.Binding

	// Forms
	NextField key.Binding
	PrevField key.Binding
	Confirm   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel / all stories"),
		),

		ViewAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "All stories (reload)"),
		),
		ViewFavorites: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Favorites"),
		),
		ViewMine: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "My stories"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		ToggleFavorite: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space/s", "Toggle favorite"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete own story"),
		),
		Submit: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Submit story"),
		),
		ConfirmDelete: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Confirm delete"),
		),

		Login: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Log in"),
		),
		Signup: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Create account"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Log out"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewAll, k.ViewFavorites, k.ViewMine, k.Refresh, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp},
		{k.ToggleFavorite, k.Submit, k.Delete},
		{k.Login, k.Signup, k.Logout},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
