package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewLogin ViewID = iota
	ViewCalendar
	ViewDay
	ViewCard
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// viewCapturesInput reports whether v reads raw keys itself, bypassing the
// global q and esc bindings.
func viewCapturesInput(v View) bool {
	return v != nil && v.ID() == ViewLogin
}
