// Package results implements the screen shown after a quiz is completed:
// the score, each question with the learner's answer, and on-demand
// explanations.
package results

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trailhead/internal/explain"
	"github.com/abhisek/trailhead/internal/logger"
	"github.com/abhisek/trailhead/internal/quiz"
	"github.com/abhisek/trailhead/internal/router"
	"github.com/abhisek/trailhead/internal/screen"
	"github.com/abhisek/trailhead/internal/store"
	"github.com/abhisek/trailhead/internal/ui/layout"
	"github.com/abhisek/trailhead/internal/ui/theme"
)

// Deps are the collaborators of the results screen. Explainer and Events
// may be nil; the screen then offers no explanations or records nothing.
type Deps struct {
	Explainer  explain.Source
	SourceName string
	Events     store.EventRepo
	Log        *logger.Logger
	// Timeout bounds a single explanation request. Zero means no limit.
	Timeout time.Duration
}

// Screen implements screen.Screen for a completed quiz.
type Screen struct {
	id      int64
	owner   int64
	epoch   int
	res     *quiz.Results
	deps    Deps
	tracker *explain.Tracker
	cursor  int
	spinner spinner.Model
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)
var _ screen.BackHandler = (*Screen)(nil)

// New creates the results screen for res. owner and epoch identify the
// quiz screen and session that produced it.
func New(res *quiz.Results, owner int64, epoch int, deps Deps) *Screen {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &Screen{
		id:      screen.NextID(),
		owner:   owner,
		epoch:   epoch,
		res:     res,
		deps:    deps,
		tracker: explain.NewTracker(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Pending)),
	}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Results"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Question"}}
	if s.deps.Explainer != nil {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain"})
	}
	return append(hints, layout.KeyHint{Key: "R", Description: "Restart"})
}

// Close drops every explanation still in flight.
func (s *Screen) Close() {
	s.tracker.Close()
}

// Back dismisses the results and the quiz behind them.
func (s *Screen) Back() tea.Cmd {
	s.tracker.Close()
	owner := s.owner
	return tea.Sequence(router.Pop, func() tea.Msg { return ClosedMsg{Owner: owner} })
}

// Entry returns the explanation state of questionID.
func (s *Screen) Entry(questionID string) explain.Entry {
	return s.tracker.Get(questionID)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainedMsg:
		return s.handleExplained(msg)

	case spinner.TickMsg:
		if s.tracker.Pending() == 0 {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.res.Items)-1 {
			s.cursor++
		}
	case "e":
		return s, s.requestExplanation()
	case "r":
		return s, s.restart()
	}
	return s, nil
}

func (s *Screen) restart() tea.Cmd {
	s.tracker.Close()
	owner, epoch := s.owner, s.epoch
	return tea.Sequence(router.Pop, func() tea.Msg { return RestartMsg{Owner: owner, Epoch: epoch} })
}

// requestExplanation fetches an explanation for the highlighted question.
// Requests for a question that is pending or already explained are
// suppressed by the tracker.
func (s *Screen) requestExplanation() tea.Cmd {
	if s.deps.Explainer == nil || len(s.res.Items) == 0 {
		return nil
	}
	item := s.res.Items[s.cursor]
	qid := item.Question.ID
	idle := s.tracker.Pending() == 0
	if !s.tracker.Begin(qid) {
		return nil
	}
	s.deps.Log.Debug("explanation requested", "quiz", s.res.QuizID, "question", qid, "source", s.deps.SourceName)

	id, src, timeout := s.id, s.deps.Explainer, s.deps.Timeout
	req := explain.RequestFor(item)
	fetch := func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		text, err := src.Explain(ctx, req)
		return explainedMsg{owner: id, questionID: qid, text: text, err: err, latency: time.Since(start)}
	}
	if idle {
		return tea.Batch(s.spinner.Tick, fetch)
	}
	return fetch
}

func (s *Screen) handleExplained(msg explainedMsg) (screen.Screen, tea.Cmd) {
	if msg.owner != s.id {
		return s, nil
	}
	if !s.tracker.Resolve(msg.questionID, msg.text, msg.err) {
		return s, nil
	}
	entry := s.tracker.Get(msg.questionID)
	if entry.Err != nil {
		s.deps.Log.Warn("explanation failed", "quiz", s.res.QuizID, "question", msg.questionID, "error", entry.Err)
	} else {
		s.deps.Log.Info("explanation received", "quiz", s.res.QuizID, "question", msg.questionID, "latency_ms", msg.latency.Milliseconds())
	}
	return s, s.recordExplanation(msg.questionID, entry, msg.latency)
}

func (s *Screen) recordExplanation(questionID string, entry explain.Entry, latency time.Duration) tea.Cmd {
	repo := s.deps.Events
	if repo == nil {
		return nil
	}
	data := store.ExplanationEventData{
		QuizID:     s.res.QuizID,
		QuestionID: questionID,
		Source:     s.deps.SourceName,
		Success:    entry.Err == nil,
		LatencyMs:  latency.Milliseconds(),
	}
	if entry.Err != nil {
		data.ErrorMessage = entry.Err.Error()
	}
	log := s.deps.Log
	return func() tea.Msg {
		if err := repo.AppendExplanation(context.Background(), data); err != nil {
			log.Warn("record explanation", "question", questionID, "error", err)
		}
		return nil
	}
}
