package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/klazic/trigo/internal/service"
	"github.com/klazic/trigo/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ResumedMsg is delivered to a screen when it becomes active again after
// the screens above it were popped. Screens that show stored state reload
// on it.
type ResumedMsg struct{}

// OverviewMsg carries a fresh overview snapshot. The app broadcasts it to
// every screen on the stack.
type OverviewMsg struct {
	Overview *service.Overview
}
