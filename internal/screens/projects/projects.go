// Package projects asks the backend for practice project ideas for a
// roadmap.
package projects

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

// Mixed asks for ideas of every difficulty.
const Mixed = "Mixed"

// Difficulties in cycling order.
var Difficulties = append([]string{Mixed}, api.ProjectDifficulties...)

// failureText is shown whatever the cause; the error itself is logged.
const failureText = "Failed to generate project ideas. Please try again."

// Generator produces project ideas.
type Generator interface {
	ProjectIdeas(ctx context.Context, roadmapName, difficulty string) ([]api.Project, error)
}

type generatedMsg struct {
	owner    int64
	request  int
	projects []api.Project
	err      error
}

// Screen implements screen.Screen for project ideas.
type Screen struct {
	id       int64
	roadmap  string
	gen      Generator
	log      *logger.Logger
	timeout  time.Duration
	closed   bool
	request  int
	pending  bool
	failed   bool
	level    int
	projects []api.Project
	spinner  spinner.Model
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates the screen for roadmapName. Nothing is requested until the
// learner asks.
func New(roadmapName string, gen Generator, timeout time.Duration, log *logger.Logger) *Screen {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Screen{
		id:      screen.NextID(),
		roadmap: roadmapName,
		gen:     gen,
		log:     log.With("roadmap", roadmapName),
		timeout: timeout,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Pending)),
	}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Project ideas"
}

func (s *Screen) Close() {
	s.closed = true
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "D", Description: "Difficulty: " + s.Difficulty()},
		{Key: "Enter", Description: "Generate"},
	}
}

// Difficulty is the selected difficulty.
func (s *Screen) Difficulty() string {
	return Difficulties[s.level]
}

// Projects returns the ideas of the last successful request.
func (s *Screen) Projects() []api.Project {
	return s.projects
}

// generate starts a request. Results of earlier requests are dropped.
func (s *Screen) generate() tea.Cmd {
	s.request++
	s.pending = true
	s.failed = false

	id, req, gen, timeout, name := s.id, s.request, s.gen, s.timeout, s.roadmap
	difficulty := s.Difficulty()
	if difficulty == Mixed {
		difficulty = ""
	}
	s.log.Debug("generating project ideas", "difficulty", s.Difficulty())
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ps, err := gen.ProjectIdeas(ctx, name, difficulty)
		return generatedMsg{owner: id, request: req, projects: ps, err: err}
	})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		if s.closed || msg.owner != s.id || msg.request != s.request {
			return s, nil
		}
		s.pending = false
		if msg.err != nil {
			s.failed = true
			s.log.Warn("project ideas failed", "error", msg.err)
			return s, nil
		}
		s.projects = msg.projects
		s.log.Info("project ideas generated", "count", len(msg.projects))
		return s, nil

	case spinner.TickMsg:
		if !s.pending {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "d":
			s.level = (s.level + 1) % len(Difficulties)
		case "enter", "g":
			return s, s.generate()
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	inner := max(width-4, 20)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + theme.Title.Render("Project ideas for "+s.roadmap) + "\n")
	b.WriteString("  " + dim.Render("Difficulty: "+s.Difficulty()) + "\n")
	b.WriteString("  " + layout.Divider(inner) + "\n\n")

	switch {
	case s.pending:
		b.WriteString("  " + dim.Render(s.spinner.View()+" Generating project ideas...") + "\n")
		return b.String()
	case s.failed:
		b.WriteString("  " + theme.Incorrect.Render(failureText) + "\n")
		return b.String()
	case s.projects == nil:
		b.WriteString("  " + dim.Render("Press Enter to generate project ideas.") + "\n")
		return b.String()
	case len(s.projects) == 0:
		b.WriteString("  " + dim.Render("No project ideas for this difficulty.") + "\n")
		return b.String()
	}

	body := lipgloss.NewStyle().Foreground(theme.Text).Width(inner - 4)
	for i, p := range s.projects {
		b.WriteString("  " + theme.Selected.Render(fmt.Sprintf("%d. %s", i+1, p.Title)))
		b.WriteString("  " + dim.Render(fmt.Sprintf("%s · %s", p.Difficulty, p.Duration)) + "\n")
		if p.Description != "" {
			b.WriteString(body.Render("    "+p.Description) + "\n")
		}
		if len(p.RequiredSkills) > 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).
				Render("    Skills: "+strings.Join(p.RequiredSkills, ", ")) + "\n")
		}
		for _, f := range p.KeyFeatures {
			b.WriteString(dim.Render("    • "+f) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
