package screen

import (
	"sync/atomic"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trailhead/internal/ui/layout"
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

// Closer is implemented by screens with background work that must stop
// once the screen leaves the stack. The router calls Close on pop.
type Closer interface {
	Close()
}

// BackHandler lets a screen take over the Esc key.
type BackHandler interface {
	Back() tea.Cmd
}

var lastID atomic.Int64

// NextID returns a process-unique screen identifier. Screens stamp their
// async messages with it so results addressed to another instance are
// ignored.
func NextID() int64 {
	return lastID.Add(1)
}
