// Package take implements the quiz-taking screen: it loads a quiz, walks
// the learner through its questions and hands a completed session to the
// results screen.
package take

import (
	"context"
	"errors"
	"strconv"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/trailhead/internal/explain"
	"github.com/abhisek/trailhead/internal/logger"
	"github.com/abhisek/trailhead/internal/quiz"
	"github.com/abhisek/trailhead/internal/router"
	"github.com/abhisek/trailhead/internal/screen"
	"github.com/abhisek/trailhead/internal/screens/results"
	"github.com/abhisek/trailhead/internal/store"
	"github.com/abhisek/trailhead/internal/ui/layout"
	"github.com/abhisek/trailhead/internal/ui/theme"
)

// Deps are the collaborators of the quiz screen. Quizzes is required;
// the rest may be zero.
type Deps struct {
	Quizzes quiz.Source

	// Explainer and ExplainerName are handed to the results screen.
	Explainer     explain.Source
	ExplainerName string

	Events store.EventRepo
	Log    *logger.Logger

	// Timeout bounds a single load or explanation request. Zero means no
	// limit.
	Timeout time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Screen implements screen.Screen for one quiz session.
type Screen struct {
	id      int64
	quizID  string
	deps    Deps
	state   quiz.State
	epoch   int
	cursor  int
	jumping bool
	jumpBuf string
	closed  bool
	started time.Time
	spinner spinner.Model
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates a quiz screen for quizID. Loading starts in Init.
func New(quizID string, deps Deps) *Screen {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Screen{
		id:      screen.NextID(),
		quizID:  quizID,
		deps:    deps,
		state:   quiz.Loading(quizID),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Pending)),
	}
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.load())
}

func (s *Screen) Title() string {
	if s.state.Quiz != nil && s.state.Quiz.Title != "" {
		return s.state.Quiz.Title
	}
	return "Quiz"
}

// State returns the current session snapshot.
func (s *Screen) State() quiz.State {
	return s.state
}

// Close stops the screen from applying late results.
func (s *Screen) Close() {
	s.closed = true
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.state.Status {
	case quiz.StatusError:
		return []layout.KeyHint{{Key: "R", Description: "Retry"}}
	case quiz.StatusCompleted:
		return []layout.KeyHint{{Key: "Enter", Description: "Results"}}
	case quiz.StatusInProgress:
		next := "Next"
		if s.state.IsLast() {
			next = "Finish"
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter/1-6", Description: "Answer"},
			{Key: "←→", Description: "Prev/" + next},
			{Key: "G+#", Description: "Jump"},
		}
	}
	return nil
}

// load fetches the quiz for the current epoch.
func (s *Screen) load() tea.Cmd {
	id, epoch, quizID := s.id, s.epoch, s.quizID
	src, timeout := s.deps.Quizzes, s.deps.Timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		st, err := quiz.Load(ctx, src, quizID)
		return loadedMsg{owner: id, epoch: epoch, state: st, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)

	case spinner.TickMsg:
		if s.state.Status != quiz.StatusLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case results.RestartMsg:
		if msg.Owner != s.id || msg.Epoch != s.epoch {
			return s, nil
		}
		return s, s.restart()

	case results.ClosedMsg:
		if msg.Owner != s.id {
			return s, nil
		}
		return s, router.Pop

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if s.closed || msg.owner != s.id || msg.epoch != s.epoch {
		return s, nil
	}
	s.state = msg.state
	if msg.err != nil {
		s.deps.Log.Warn("quiz load failed", "quiz", s.quizID, "not_found", errors.Is(msg.err, quiz.ErrNotFound), "error", msg.err)
		return s, nil
	}
	s.deps.Log.Info("quiz loaded", "quiz", s.quizID, "questions", s.state.Quiz.Len())
	s.started = s.deps.Now()
	s.syncCursor()
	return s, nil
}

// reload issues a fresh load under a new epoch.
func (s *Screen) reload() tea.Cmd {
	s.epoch++
	s.state = quiz.Loading(s.quizID)
	return tea.Batch(s.spinner.Tick, s.load())
}

func (s *Screen) restart() tea.Cmd {
	next, err := s.state.Restart()
	if err != nil {
		s.deps.Log.Debug("restart rejected", "quiz", s.quizID, "error", err)
		return nil
	}
	s.epoch++
	s.state = next
	s.started = s.deps.Now()
	s.jumping, s.jumpBuf = false, ""
	s.syncCursor()
	s.deps.Log.Info("quiz restarted", "quiz", s.quizID)
	return nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.state.Status {
	case quiz.StatusError:
		if key == "r" {
			return s, s.reload()
		}
		return s, nil
	case quiz.StatusCompleted:
		if key == "enter" {
			return s, router.Push(s.resultsScreen())
		}
		return s, nil
	case quiz.StatusInProgress:
	default:
		return s, nil
	}

	if s.jumping {
		s.handleJumpKey(key)
		return s, nil
	}

	q, _ := s.state.CurrentQuestion()
	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(q.Options)-1 {
			s.cursor++
		}
	case "enter", "space":
		s.apply(s.state.Answer(q.ID, s.cursor))
	case "backspace", "delete", "x":
		s.apply(s.state.ClearAnswer(q.ID))
	case "right", "n", "l", "tab":
		return s, s.advance()
	case "left", "p", "h", "shift+tab":
		s.apply(s.state.Retreat())
		s.syncCursor()
	case "g":
		s.jumping, s.jumpBuf = true, ""
	default:
		if n, ok := digit(key); ok {
			if s.apply(s.state.Answer(q.ID, n-1)) {
				s.cursor = n - 1
			}
		}
	}
	return s, nil
}

// handleJumpKey collects the digits of a question number after g. The
// jump happens on enter, or as soon as no further digit could name a
// question. Any other key cancels.
func (s *Screen) handleJumpKey(key string) {
	switch {
	case key == "enter":
		s.jump()
	case key == "backspace":
		if s.jumpBuf == "" {
			s.jumping = false
			return
		}
		s.jumpBuf = s.jumpBuf[:len(s.jumpBuf)-1]
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		if s.jumpBuf == "" && key == "0" {
			return
		}
		s.jumpBuf += key
		if n, _ := strconv.Atoi(s.jumpBuf); n*10 > s.state.Quiz.Len() {
			s.jump()
		}
	default:
		s.jumping, s.jumpBuf = false, ""
	}
}

func (s *Screen) jump() {
	n, err := strconv.Atoi(s.jumpBuf)
	s.jumping, s.jumpBuf = false, ""
	if err != nil {
		return
	}
	s.apply(s.state.JumpTo(n - 1))
	s.syncCursor()
}

// apply installs a transition result. Rejected transitions leave the
// state untouched and are only logged.
func (s *Screen) apply(next quiz.State, err error) bool {
	if err != nil {
		s.deps.Log.Debug("transition rejected", "quiz", s.quizID, "error", err)
		return false
	}
	s.state = next
	return true
}

func (s *Screen) advance() tea.Cmd {
	if !s.apply(s.state.Advance()) {
		return nil
	}
	if s.state.Status != quiz.StatusCompleted {
		s.syncCursor()
		return nil
	}
	res := quiz.BuildResults(s.state)
	s.deps.Log.Info("quiz completed", "quiz", s.quizID, "score", res.Score, "total", res.Total)
	return tea.Batch(s.recordAttempt(res), router.Push(s.resultsScreen()))
}

func (s *Screen) resultsScreen() *results.Screen {
	return results.New(quiz.BuildResults(s.state), s.id, s.epoch, results.Deps{
		Explainer:  s.deps.Explainer,
		SourceName: s.deps.ExplainerName,
		Events:     s.deps.Events,
		Log:        s.deps.Log,
		Timeout:    s.deps.Timeout,
	})
}

// recordAttempt appends one attempt event for a completed session.
func (s *Screen) recordAttempt(res *quiz.Results) tea.Cmd {
	repo := s.deps.Events
	if repo == nil {
		return nil
	}
	data := store.AttemptEventData{
		AttemptID:    uuid.NewString(),
		QuizID:       res.QuizID,
		Title:        res.Title,
		Score:        res.Score,
		Total:        res.Total,
		Answered:     res.Answered,
		DurationSecs: int(s.deps.Now().Sub(s.started).Seconds()),
	}
	log := s.deps.Log
	return func() tea.Msg {
		if err := repo.AppendAttempt(context.Background(), data); err != nil {
			log.Warn("record attempt", "quiz", data.QuizID, "error", err)
		}
		return nil
	}
}

// syncCursor puts the option cursor on the recorded answer of the current
// question, or the first option.
func (s *Screen) syncCursor() {
	s.cursor = 0
	if q, ok := s.state.CurrentQuestion(); ok {
		if sel, ok := s.state.Selected(q.ID); ok {
			s.cursor = sel
		}
	}
}

// digit parses a single key 1-9.
func digit(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}
