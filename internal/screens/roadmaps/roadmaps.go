// Package roadmaps implements the roadmap picker. Choosing a roadmap opens
// its detail screen.
package roadmaps

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trailhead/internal/api"
	"github.com/abhisek/trailhead/internal/logger"
	"github.com/abhisek/trailhead/internal/router"
	"github.com/abhisek/trailhead/internal/screen"
	"github.com/abhisek/trailhead/internal/ui/components"
	"github.com/abhisek/trailhead/internal/ui/layout"
	"github.com/abhisek/trailhead/internal/ui/theme"
)

// Lister returns the roadmaps to pick from.
type Lister interface {
	Roadmaps(ctx context.Context) ([]api.Roadmap, error)
}

// Opener builds the screen for a chosen roadmap.
type Opener func(roadmapID string) screen.Screen

type loadedMsg struct {
	owner    int64
	roadmaps []api.Roadmap
	err      error
}

// Screen implements screen.Screen for the roadmap list.
type Screen struct {
	id       int64
	lister   Lister
	open     Opener
	log      *logger.Logger
	loading  bool
	closed   bool
	err      error
	roadmaps []api.Roadmap
	menu     components.Menu
	spinner  spinner.Model
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates the picker.
func New(lister Lister, open Opener, log *logger.Logger) *Screen {
	if log == nil {
		log = logger.Nop()
	}
	return &Screen{
		id:      screen.NextID(),
		lister:  lister,
		open:    open,
		log:     log,
		loading: true,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Pending)),
	}
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.load())
}

func (s *Screen) Title() string {
	return "Roadmaps"
}

func (s *Screen) Close() {
	s.closed = true
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.err != nil {
		return []layout.KeyHint{{Key: "R", Description: "Retry"}}
	}
	if s.loading || len(s.roadmaps) == 0 {
		return nil
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
	}
}

func (s *Screen) load() tea.Cmd {
	id, lister := s.id, s.lister
	return func() tea.Msg {
		rms, err := lister.Roadmaps(context.Background())
		return loadedMsg{owner: id, roadmaps: rms, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if s.closed || msg.owner != s.id {
			return s, nil
		}
		s.loading = false
		s.err = msg.err
		if msg.err != nil {
			s.log.Warn("list roadmaps failed", "error", msg.err)
			return s, nil
		}
		s.log.Debug("roadmaps loaded", "count", len(msg.roadmaps))
		s.roadmaps = msg.roadmaps
		s.menu = components.NewMenu(s.menuItems())
		return s, nil

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.err != nil {
			if msg.String() == "r" {
				s.err = nil
				s.loading = true
				return s, tea.Batch(s.spinner.Tick, s.load())
			}
			return s, nil
		}
		if s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(s.roadmaps))
	for _, rm := range s.roadmaps {
		id := rm.ID
		items = append(items, components.MenuItem{
			Label: rm.Title,
			Hint:  rm.Description,
			Action: func() tea.Cmd {
				return router.Push(s.open(id))
			},
		})
	}
	return items
}

func (s *Screen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Height(height).Align(lipgloss.Center, lipgloss.Center)
	switch {
	case s.loading:
		return center.Foreground(theme.TextDim).Render(s.spinner.View() + " Loading roadmaps...")
	case s.err != nil:
		return center.Render(theme.Incorrect.Render("Could not load roadmaps.") + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.err.Error()+"\n\nPress r to try again"))
	case len(s.roadmaps) == 0:
		return center.Foreground(theme.TextDim).Render("No roadmaps yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d roadmaps. Pick one to follow.", len(s.roadmaps))))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	return b.String()
}
