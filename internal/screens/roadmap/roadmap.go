// Package roadmap implements the roadmap detail screen: the roadmap's
// milestones and the learner's progress, with links to the quiz, the
// milestone resources and project ideas.
package roadmap

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/trailhead/internal/api"
	"github.com/abhisek/trailhead/internal/logger"
	"github.com/abhisek/trailhead/internal/router"
	"github.com/abhisek/trailhead/internal/screen"
	"github.com/abhisek/trailhead/internal/ui/layout"
	"github.com/abhisek/trailhead/internal/ui/theme"
)

// Client is the part of the backend the screen talks to.
type Client interface {
	Roadmap(ctx context.Context, id string) (*api.RoadmapDetail, error)
	RoadmapProgress(ctx context.Context, id string) (*api.Progress, error)
	CompleteMilestone(ctx context.Context, roadmapID, milestoneID string) error
	UndoMilestone(ctx context.Context, roadmapID, milestoneID string) error
}

// Deps wires the screen. Nil openers disable their key.
type Deps struct {
	Client Client
	// Quiz opens the quiz of a roadmap.
	Quiz func(roadmapID string) screen.Screen
	// Resources opens the resources of a milestone.
	Resources func(milestoneID string) screen.Screen
	// Projects opens project ideas for a roadmap, by title.
	Projects func(roadmapTitle string) screen.Screen
	Log      *logger.Logger
	Timeout  time.Duration
}

type loadedMsg struct {
	owner    int64
	detail   *api.RoadmapDetail
	progress *api.Progress
	err      error
}

type toggledMsg struct {
	owner     int64
	milestone string
	completed bool
	err       error
}

// Screen implements screen.Screen for one roadmap.
type Screen struct {
	id        int64
	roadmapID string
	deps      Deps
	log       *logger.Logger

	loading bool
	closed  bool
	err     error
	// toggling is the milestone whose state change is in flight.
	toggling string
	notice   string

	detail   *api.RoadmapDetail
	progress *api.Progress
	cursor   int
	spinner  spinner.Model
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates the detail screen for roadmapID.
func New(roadmapID string, deps Deps) *Screen {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = 15 * time.Second
	}
	return &Screen{
		id:        screen.NextID(),
		roadmapID: roadmapID,
		deps:      deps,
		log:       log.With("roadmap", roadmapID),
		loading:   true,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Pending)),
	}
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.load())
}

func (s *Screen) Title() string {
	if s.detail != nil && s.detail.Roadmap.Title != "" {
		return s.detail.Roadmap.Title
	}
	return "Roadmap"
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
	var hints []layout.KeyHint
	if len(s.detail.Milestones) > 0 {
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Navigate"},
			layout.KeyHint{Key: "Space", Description: "Done/undo"},
		)
		if s.deps.Resources != nil {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Resources"})
		}
	}
	if s.deps.Quiz != nil {
		hints = append(hints, layout.KeyHint{Key: "T", Description: "Take quiz"})
	}
	if s.deps.Projects != nil {
		hints = append(hints, layout.KeyHint{Key: "P", Description: "Projects"})
	}
	return hints
}

// load fetches the roadmap and the progress summary together.
func (s *Screen) load() tea.Cmd {
	id, roadmapID, client, timeout := s.id, s.roadmapID, s.deps.Client, s.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msg := loadedMsg{owner: id}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			d, err := client.Roadmap(gctx, roadmapID)
			msg.detail = d
			return err
		})
		g.Go(func() error {
			p, err := client.RoadmapProgress(gctx, roadmapID)
			msg.progress = p
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

func (s *Screen) toggle(m api.Milestone) tea.Cmd {
	id, roadmapID, client, timeout := s.id, s.roadmapID, s.deps.Client, s.deps.Timeout
	complete := !m.Completed()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var err error
		if complete {
			err = client.CompleteMilestone(ctx, roadmapID, m.ID)
		} else {
			err = client.UndoMilestone(ctx, roadmapID, m.ID)
		}
		return toggledMsg{owner: id, milestone: m.ID, completed: complete, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if s.closed || msg.owner != s.id {
			return s, nil
		}
		s.loading = false
		s.toggling = ""
		if msg.err != nil {
			s.err = msg.err
			s.log.Warn("load roadmap failed", "error", msg.err)
			return s, nil
		}
		s.err = nil
		s.detail, s.progress = msg.detail, msg.progress
		if s.cursor >= len(s.detail.Milestones) {
			s.cursor = max(0, len(s.detail.Milestones)-1)
		}
		s.log.Debug("roadmap loaded", "milestones", len(s.detail.Milestones))
		return s, nil

	case toggledMsg:
		if s.closed || msg.owner != s.id {
			return s, nil
		}
		if msg.err != nil {
			s.toggling = ""
			s.notice = "Could not update the milestone: " + msg.err.Error()
			s.log.Warn("update milestone failed", "milestone", msg.milestone, "error", msg.err)
			return s, nil
		}
		s.log.Info("milestone updated", "milestone", msg.milestone, "completed", msg.completed)
		return s, s.load()

	case spinner.TickMsg:
		if !s.loading && s.toggling == "" {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg.String())
	}
	return s, nil
}

func (s *Screen) handleKey(key string) (screen.Screen, tea.Cmd) {
	if s.err != nil {
		if key == "r" {
			s.err = nil
			s.loading = true
			return s, tea.Batch(s.spinner.Tick, s.load())
		}
		return s, nil
	}
	if s.loading {
		return s, nil
	}

	milestones := s.detail.Milestones
	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(milestones)-1 {
			s.cursor++
		}
	case "space", "c":
		if len(milestones) == 0 || s.toggling != "" {
			return s, nil
		}
		m := milestones[s.cursor]
		s.toggling = m.ID
		s.notice = ""
		return s, tea.Batch(s.spinner.Tick, s.toggle(m))
	case "enter":
		if len(milestones) > 0 && s.deps.Resources != nil {
			return s, router.Push(s.deps.Resources(milestones[s.cursor].ID))
		}
	case "t":
		if s.deps.Quiz != nil {
			return s, router.Push(s.deps.Quiz(s.roadmapID))
		}
	case "p":
		if s.deps.Projects != nil {
			return s, router.Push(s.deps.Projects(s.detail.Roadmap.Title))
		}
	}
	return s, nil
}
