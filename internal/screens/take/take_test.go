package take

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/trailhead/internal/quiz"
	"github.com/abhisek/trailhead/internal/router"
	"github.com/abhisek/trailhead/internal/screens/results"
	"github.com/abhisek/trailhead/internal/store"
)

// recordingRepo captures attempt events. Other EventRepo methods are not
// used by the screen.
type recordingRepo struct {
	store.EventRepo
	mu       sync.Mutex
	attempts []store.AttemptEventData
}

func (r *recordingRepo) AppendAttempt(_ context.Context, data store.AttemptEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, data)
	return nil
}

func sampleQuiz() *quiz.Quiz {
	return &quiz.Quiz{ID: "go-backend", Title: "Go Backend", Questions: []quiz.Question{
		{ID: "q1", Prompt: "Which keyword starts a goroutine?", Options: []string{"defer", "go", "async"}, CorrectIndex: 1},
		{ID: "q2", Prompt: "Zero value of a map?", Options: []string{"nil", "empty map"}, CorrectIndex: 0},
		{ID: "q3", Prompt: "Built-in for length?", Options: []string{"size", "count", "len"}, CorrectIndex: 2},
	}}
}

func staticSource(q *quiz.Quiz, err error) quiz.Source {
	return quiz.SourceFunc(func(context.Context, string) (*quiz.Quiz, error) {
		return q, err
	})
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// collect runs cmd and every batch or sequence it expands to, returning
// the leaf messages in order.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if v := reflect.ValueOf(msg); v.IsValid() && v.Kind() == reflect.Slice && v.Type().Elem() == reflect.TypeOf(tea.Cmd(nil)) {
		var out []tea.Msg
		for i := 0; i < v.Len(); i++ {
			out = append(out, collect(v.Index(i).Interface().(tea.Cmd))...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func loaded(t *testing.T, msgs []tea.Msg) loadedMsg {
	t.Helper()
	for _, m := range msgs {
		if lm, ok := m.(loadedMsg); ok {
			return lm
		}
	}
	t.Fatalf("no loadedMsg in %v", msgs)
	return loadedMsg{}
}

// started returns a screen with sampleQuiz loaded.
func started(t *testing.T, deps Deps) *Screen {
	t.Helper()
	if deps.Quizzes == nil {
		deps.Quizzes = staticSource(sampleQuiz(), nil)
	}
	s := New("go-backend", deps)
	s.Update(loaded(t, collect(s.Init())))
	if s.State().Status != quiz.StatusInProgress {
		t.Fatalf("status = %v, want in-progress", s.State().Status)
	}
	return s
}

func view(s *Screen) string {
	return ansi.Strip(s.View(100, 30))
}

func TestLoadSuccess(t *testing.T) {
	s := New("go-backend", Deps{Quizzes: staticSource(sampleQuiz(), nil)})
	if !strings.Contains(view(s), "Loading quiz") {
		t.Error("loading view not shown")
	}

	s.Update(loaded(t, collect(s.Init())))

	if s.Title() != "Go Backend" {
		t.Errorf("title = %q", s.Title())
	}
	v := view(s)
	for _, want := range []string{"Question 1 of 3", "Which keyword starts a goroutine?", "A)  defer", "C)  async", "0%"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLoadNotFound(t *testing.T) {
	s := New("nope", Deps{Quizzes: staticSource(&quiz.Quiz{Title: "Empty"}, nil)})
	s.Update(loaded(t, collect(s.Init())))

	st := s.State()
	if st.Status != quiz.StatusError || !errors.Is(st.Err, quiz.ErrNotFound) {
		t.Fatalf("state = %v / %v, want error/NotFound", st.Status, st.Err)
	}
	if !strings.Contains(view(s), `No quiz found for "nope"`) {
		t.Errorf("view = %q", view(s))
	}
}

func TestLoadFailureAndRetry(t *testing.T) {
	fail := true
	src := quiz.SourceFunc(func(context.Context, string) (*quiz.Quiz, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return sampleQuiz(), nil
	})
	s := New("go-backend", Deps{Quizzes: src})
	first := loaded(t, collect(s.Init()))
	s.Update(first)

	if s.State().Status != quiz.StatusError {
		t.Fatalf("status = %v, want error", s.State().Status)
	}
	if v := view(s); !strings.Contains(v, "Could not load the quiz.") || !strings.Contains(v, "connection refused") {
		t.Errorf("error view = %q", v)
	}

	// Answer keys do nothing on the error page.
	s.Update(keyPress('1'))
	if s.State().Status != quiz.StatusError {
		t.Error("key changed state on error page")
	}

	fail = false
	_, cmd := s.Update(keyPress('r'))
	if s.State().Status != quiz.StatusLoading {
		t.Fatalf("status after retry = %v, want loading", s.State().Status)
	}

	// The stale result of the first attempt is ignored.
	s.Update(first)
	if s.State().Status != quiz.StatusLoading {
		t.Error("stale load result applied")
	}

	s.Update(loaded(t, collect(cmd)))
	if s.State().Status != quiz.StatusInProgress {
		t.Errorf("status = %v, want in-progress", s.State().Status)
	}
}

func TestLateLoadAfterClose(t *testing.T) {
	s := New("go-backend", Deps{Quizzes: staticSource(sampleQuiz(), nil)})
	msg := loaded(t, collect(s.Init()))

	s.Close()
	s.Update(msg)
	if s.State().Status != quiz.StatusLoading {
		t.Errorf("status = %v, want loading after close", s.State().Status)
	}
}

func TestAnswerKeys(t *testing.T) {
	s := started(t, Deps{})

	s.Update(keyPress('2'))
	if sel, ok := s.State().Selected("q1"); !ok || sel != 1 {
		t.Fatalf("selected = %d/%v, want 1", sel, ok)
	}
	if s.cursor != 1 {
		t.Errorf("cursor = %d, want to follow the answer", s.cursor)
	}

	// Out of range options are rejected without a state change.
	before := s.State()
	s.Update(keyPress('6'))
	if sel, _ := s.State().Selected("q1"); sel != 1 || s.State().Current != before.Current {
		t.Error("invalid option changed state")
	}

	s.Update(key(tea.KeyDown))
	s.Update(key(tea.KeyEnter))
	if sel, _ := s.State().Selected("q1"); sel != 2 {
		t.Errorf("selected = %d, want 2 after down+enter", sel)
	}

	if got := s.State().ProgressPercentage(); got < 33.3 || got > 33.4 {
		t.Errorf("progress = %v, want ~33.3", got)
	}
	if !strings.Contains(view(s), "33%") {
		t.Error("progress bar not updated")
	}

	s.Update(key(tea.KeyBackspace))
	if _, ok := s.State().Selected("q1"); ok {
		t.Error("backspace did not clear the answer")
	}
}

func TestNavigation(t *testing.T) {
	s := started(t, Deps{})

	s.Update(key(tea.KeyLeft))
	if s.State().Current != 0 {
		t.Errorf("retreat at first question moved to %d", s.State().Current)
	}

	s.Update(keyPress('1'))
	s.Update(key(tea.KeyRight))
	if s.State().Current != 1 {
		t.Fatalf("current = %d, want 1", s.State().Current)
	}
	if s.cursor != 0 {
		t.Errorf("cursor = %d on unanswered question, want 0", s.cursor)
	}

	s.Update(keyPress('p'))
	if s.State().Current != 0 || s.cursor != 0 {
		t.Errorf("after p: current=%d cursor=%d", s.State().Current, s.cursor)
	}

	s.Update(keyPress('g'))
	if !strings.Contains(view(s), "Jump to question") {
		t.Error("jump prompt not shown")
	}
	s.Update(keyPress('3'))
	if s.State().Current != 2 {
		t.Errorf("jump landed on %d, want 2", s.State().Current)
	}
	if !strings.Contains(view(s), "Last question") {
		t.Error("last question hint not shown")
	}

	s.Update(keyPress('g'))
	s.Update(keyPress('9'))
	if s.State().Current != 2 {
		t.Errorf("out of range jump moved to %d", s.State().Current)
	}
	if _, ok := s.State().Selected("q3"); ok {
		t.Error("digit after g was treated as an answer")
	}
}

func longQuiz(n int) *quiz.Quiz {
	q := &quiz.Quiz{ID: "long", Title: "Long"}
	for i := 1; i <= n; i++ {
		q.Questions = append(q.Questions, quiz.Question{
			ID:      fmt.Sprintf("q%d", i),
			Prompt:  fmt.Sprintf("Question %d", i),
			Options: []string{"a", "b"},
		})
	}
	return q
}

func TestJumpPastNine(t *testing.T) {
	s := started(t, Deps{Quizzes: staticSource(longQuiz(12), nil)})

	tests := []struct {
		name string
		keys []tea.KeyPressMsg
		want int
	}{
		{"two digits", []tea.KeyPressMsg{keyPress('g'), keyPress('1'), keyPress('2')}, 11},
		{"ten", []tea.KeyPressMsg{keyPress('g'), keyPress('1'), keyPress('0')}, 9},
		{"single digit needs enter", []tea.KeyPressMsg{keyPress('g'), keyPress('1'), key(tea.KeyEnter)}, 0},
		{"unambiguous digit jumps at once", []tea.KeyPressMsg{keyPress('g'), keyPress('5')}, 4},
		{"backspace edits", []tea.KeyPressMsg{keyPress('g'), keyPress('1'), key(tea.KeyBackspace), keyPress('7')}, 6},
		{"out of range", []tea.KeyPressMsg{keyPress('g'), keyPress('1'), keyPress('3')}, 6},
	}
	for _, tt := range tests {
		for _, k := range tt.keys {
			s.Update(k)
		}
		if got := s.State().Current; got != tt.want {
			t.Errorf("%s: current = %d, want %d", tt.name, got, tt.want)
		}
		if s.jumping {
			t.Errorf("%s: still in jump mode", tt.name)
		}
	}
	if s.State().AnsweredCount() != 0 {
		t.Errorf("jump digits recorded answers: %d", s.State().AnsweredCount())
	}

	s.Update(keyPress('g'))
	s.Update(keyPress('1'))
	if !strings.Contains(view(s), "Jump to question (1-12): 1_") {
		t.Errorf("jump prompt missing typed digits:\n%s", view(s))
	}
	s.Update(keyPress('q'))
	if s.jumping || s.State().Current != 6 {
		t.Errorf("other key should cancel the jump: jumping=%v current=%d", s.jumping, s.State().Current)
	}
}

func TestCompletionRecordsAttemptAndShowsResults(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	repo := &recordingRepo{}
	s := started(t, Deps{Events: repo, Now: clock})

	s.Update(keyPress('2')) // correct
	s.Update(keyPress('n'))
	s.Update(keyPress('2')) // wrong
	s.Update(keyPress('n'))
	now = now.Add(42 * time.Second)
	_, cmd := s.Update(keyPress('n'))

	if s.State().Status != quiz.StatusCompleted {
		t.Fatalf("status = %v, want completed", s.State().Status)
	}

	var pushed *results.Screen
	for _, m := range collect(cmd) {
		if p, ok := m.(router.PushScreenMsg); ok {
			pushed, _ = p.Screen.(*results.Screen)
		}
	}
	if pushed == nil {
		t.Fatal("results screen not pushed")
	}
	if v := ansi.Strip(pushed.View(100, 30)); !strings.Contains(v, "1 / 3 correct") {
		t.Errorf("results view = %q", v)
	}

	if len(repo.attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(repo.attempts))
	}
	a := repo.attempts[0]
	if a.AttemptID == "" || a.QuizID != "go-backend" || a.Score != 1 || a.Total != 3 || a.Answered != 2 || a.DurationSecs != 42 {
		t.Errorf("attempt = %+v", a)
	}

	// Completed sessions reject answers and navigation.
	s.Update(keyPress('1'))
	s.Update(key(tea.KeyLeft))
	if _, ok := s.State().Selected("q3"); ok || s.State().Status != quiz.StatusCompleted {
		t.Error("completed session accepted a transition")
	}
}

func TestRestartFromResults(t *testing.T) {
	s := started(t, Deps{})
	s.Update(keyPress('1'))
	s.Update(keyPress('g'))
	s.Update(keyPress('3'))
	s.Update(keyPress('n'))
	if s.State().Status != quiz.StatusCompleted {
		t.Fatalf("status = %v", s.State().Status)
	}

	// Messages for another screen are ignored.
	s.Update(results.RestartMsg{Owner: s.id + 1000, Epoch: s.epoch})
	if s.State().Status != quiz.StatusCompleted {
		t.Fatal("restart for another screen applied")
	}

	restart := results.RestartMsg{Owner: s.id, Epoch: s.epoch}
	s.Update(restart)
	st := s.State()
	if st.Status != quiz.StatusInProgress || st.Current != 0 || st.AnsweredCount() != 0 {
		t.Fatalf("after restart: status=%v current=%d answered=%d", st.Status, st.Current, st.AnsweredCount())
	}
	if st.Quiz.Title != "Go Backend" {
		t.Error("restart lost the quiz")
	}

	// A duplicate restart for the old session is ignored.
	s.Update(keyPress('2'))
	s.Update(restart)
	if s.State().AnsweredCount() != 1 {
		t.Error("stale restart cleared the new session")
	}
}

func TestClosedResultsPopsQuiz(t *testing.T) {
	s := started(t, Deps{})

	_, cmd := s.Update(results.ClosedMsg{Owner: s.id + 1000})
	if cmd != nil {
		t.Error("close for another screen produced a command")
	}

	_, cmd = s.Update(results.ClosedMsg{Owner: s.id})
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("msgs = %v", msgs)
	}
	if _, ok := msgs[0].(router.PopScreenMsg); !ok {
		t.Errorf("got %T, want PopScreenMsg", msgs[0])
	}
}

func TestKeyHintsFollowStatus(t *testing.T) {
	s := New("go-backend", Deps{Quizzes: staticSource(nil, errors.New("boom"))})
	if len(s.KeyHints()) != 0 {
		t.Error("loading screen should have no hints")
	}
	s.Update(loaded(t, collect(s.Init())))
	if h := s.KeyHints(); len(h) != 1 || h[0].Key != "R" {
		t.Errorf("error hints = %+v", h)
	}
}
