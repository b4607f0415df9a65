// Package resources lists the learning resources of a milestone, filtered
// by type and difficulty.
package resources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trailhead/internal/api"
	"github.com/abhisek/trailhead/internal/logger"
	"github.com/abhisek/trailhead/internal/screen"
	"github.com/abhisek/trailhead/internal/ui/layout"
	"github.com/abhisek/trailhead/internal/ui/theme"
)

// Filter values, in cycling order.
var (
	Types        = []string{"all", "video", "article", "book", "course"}
	Difficulties = []string{"all", "beginner", "intermediate", "advanced"}
)

// Lister returns a milestone with its resources.
type Lister interface {
	Resources(ctx context.Context, milestoneID string) (*api.MilestoneResources, error)
}

type loadedMsg struct {
	owner int64
	data  *api.MilestoneResources
	err   error
}

// Screen implements screen.Screen for a milestone's resources.
type Screen struct {
	id          int64
	milestoneID string
	lister      Lister
	log         *logger.Logger
	timeout     time.Duration

	loading bool
	closed  bool
	err     error
	data    *api.MilestoneResources

	kind, difficulty int
	shown            []api.Resource
	cursor           int
	spinner          spinner.Model
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates the resource list for milestoneID.
func New(milestoneID string, lister Lister, timeout time.Duration, log *logger.Logger) *Screen {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Screen{
		id:          screen.NextID(),
		milestoneID: milestoneID,
		lister:      lister,
		log:         log.With("milestone", milestoneID),
		timeout:     timeout,
		loading:     true,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Pending)),
	}
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.load())
}

func (s *Screen) Title() string {
	if s.data != nil && s.data.Milestone.Title != "" {
		return "Resources: " + s.data.Milestone.Title
	}
	return "Resources"
}

func (s *Screen) Close() {
	s.closed = true
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.err != nil {
		return []layout.KeyHint{{Key: "R", Description: "Retry"}}
	}
	if s.loading {
		return nil
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "F", Description: "Type: " + Types[s.kind]},
		{Key: "D", Description: "Difficulty: " + Difficulties[s.difficulty]},
	}
}

// Shown returns the resources passing the current filters.
func (s *Screen) Shown() []api.Resource {
	return s.shown
}

func (s *Screen) load() tea.Cmd {
	id, milestoneID, lister, timeout := s.id, s.milestoneID, s.lister, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		data, err := lister.Resources(ctx, milestoneID)
		return loadedMsg{owner: id, data: data, err: err}
	}
}

func (s *Screen) refilter() {
	var all []api.Resource
	if s.data != nil {
		all = s.data.Resources
	}
	s.shown = api.FilterResources(all, Types[s.kind], Difficulties[s.difficulty])
	if s.cursor >= len(s.shown) {
		s.cursor = max(0, len(s.shown)-1)
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
			s.log.Warn("load resources failed", "error", msg.err)
			return s, nil
		}
		s.data = msg.data
		s.refilter()
		s.log.Debug("resources loaded", "count", len(s.data.Resources))
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
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.shown)-1 {
				s.cursor++
			}
		case "f", "tab":
			s.kind = (s.kind + 1) % len(Types)
			s.refilter()
		case "d":
			s.difficulty = (s.difficulty + 1) % len(Difficulties)
			s.refilter()
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Height(height).Align(lipgloss.Center, lipgloss.Center)
	switch {
	case s.loading:
		return center.Foreground(theme.TextDim).Render(s.spinner.View() + " Loading resources...")
	case s.err != nil:
		return center.Render(theme.Incorrect.Render("Could not load resources.") + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.err.Error()+"\n\nPress r to try again or Esc to go back"))
	}

	inner := max(width-4, 20)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	m := s.data.Milestone

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + theme.Title.Render(m.Title) + "\n")
	if m.Description != "" {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Text).Width(inner).Render(m.Description) + "\n")
	}
	b.WriteString("  " + dim.Render(fmt.Sprintf("Type: %s   Difficulty: %s   %d of %d shown",
		Types[s.kind], Difficulties[s.difficulty], len(s.shown), len(s.data.Resources))) + "\n")
	b.WriteString("  " + layout.Divider(inner) + "\n")

	switch {
	case len(s.data.Resources) == 0:
		b.WriteString("\n  " + dim.Render("No resources for this milestone yet.") + "\n")
		return b.String()
	case len(s.shown) == 0:
		b.WriteString("\n  " + dim.Render("No resources match these filters.") + "\n")
		return b.String()
	}

	for i, r := range s.shown {
		line := fmt.Sprintf("%d. %s  [%s · %s", r.Step, r.Title, r.Type, r.Difficulty)
		if r.Duration != "" {
			line += " · " + r.Duration
		}
		line += "]"
		if r.IsOptional {
			line += " (optional)"
		}
		if i != s.cursor {
			b.WriteString(theme.Unselected.Render("    "+line) + "\n")
			continue
		}
		b.WriteString(theme.Selected.Render("  ▸ "+line) + "\n")
		detail := lipgloss.NewStyle().Foreground(theme.TextDim).Width(inner - 6)
		if r.Description != "" {
			b.WriteString(detail.Italic(true).Render("      "+r.Description) + "\n")
		}
		if r.Author != "" {
			b.WriteString(detail.Render("      by "+r.Author) + "\n")
		}
		if r.URL != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render("      "+r.URL) + "\n")
		}
		if len(r.Tags) > 0 {
			b.WriteString(detail.Render("      #"+strings.Join(r.Tags, " #")) + "\n")
		}
	}
	return b.String()
}
