package roadmap

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/trailhead/internal/api"
	"github.com/abhisek/trailhead/internal/router"
	"github.com/abhisek/trailhead/internal/screen"
)

// fakeClient keeps milestone state in memory.
type fakeClient struct {
	mu        sync.Mutex
	done      map[string]bool
	loadErr   error
	toggleErr error
	loads     int
	calls     []string
}

func newFake() *fakeClient { return &fakeClient{done: map[string]bool{}} }

var milestones = []api.Milestone{
	{ID: "m1", Title: "Language basics", Duration: "2 weeks", Description: "Types and slices"},
	{ID: "m2", Title: "Concurrency", Duration: "3 weeks"},
}

func (f *fakeClient) Roadmap(_ context.Context, id string) (*api.RoadmapDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	d := &api.RoadmapDetail{Roadmap: api.Roadmap{
		ID: id, Title: "Go Backend", Description: "Services in Go",
		Skills: []string{"Go", "SQL"}, Duration: "12 weeks", Difficulty: "Intermediate", Learners: 1840,
	}}
	for i, m := range milestones {
		m.Order = i + 1
		m.Status = api.MilestoneNotStarted
		if f.done[m.ID] {
			m.Status = api.MilestoneCompleted
		}
		d.Milestones = append(d.Milestones, m)
	}
	return d, nil
}

func (f *fakeClient) RoadmapProgress(context.Context, string) (*api.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.done)
	return &api.Progress{Percentage: float64(n * 100 / len(milestones)), Completed: n, Remaining: len(milestones) - n}, nil
}

func (f *fakeClient) CompleteMilestone(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "complete "+id)
	if f.toggleErr != nil {
		return f.toggleErr
	}
	f.done[id] = true
	return nil
}

func (f *fakeClient) UndoMilestone(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "undo "+id)
	delete(f.done, id)
	return nil
}

type named struct{ name string }

func (n *named) Init() tea.Cmd                           { return nil }
func (n *named) Update(tea.Msg) (screen.Screen, tea.Cmd) { return n, nil }
func (n *named) View(int, int) string                    { return n.name }
func (n *named) Title() string                           { return n.name }

func opener(prefix string) func(string) screen.Screen {
	return func(arg string) screen.Screen { return &named{name: prefix + ":" + arg} }
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
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

// deliver feeds s every message of the given types found in msgs and
// returns the commands s produced.
func deliver[T tea.Msg](s *Screen, msgs []tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for _, m := range msgs {
		if _, ok := m.(T); ok {
			_, cmd := s.Update(m)
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func started(t *testing.T, f *fakeClient) *Screen {
	t.Helper()
	s := New("go-backend", Deps{
		Client:    f,
		Quiz:      opener("quiz"),
		Resources: opener("resources"),
		Projects:  opener("projects"),
	})
	if len(deliver[loadedMsg](s, collect(s.Init()))) != 1 {
		t.Fatal("Init produced no load")
	}
	if s.loading || s.err != nil {
		t.Fatalf("loading=%v err=%v after load", s.loading, s.err)
	}
	return s
}

func view(s *Screen) string {
	return ansi.Strip(s.View(100, 30))
}

// pushed returns the screen name a command pushes.
func pushed(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	if cmd == nil {
		t.Fatal("no command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", cmd())
	}
	return push.Screen.(*named).name
}

func TestLoadShowsRoadmap(t *testing.T) {
	s := New("go-backend", Deps{Client: newFake()})
	if !strings.Contains(view(s), "Loading roadmap") {
		t.Error("loading view not shown")
	}
	deliver[loadedMsg](s, collect(s.Init()))

	v := view(s)
	for _, want := range []string{
		"Go Backend", "Services in Go", "12 weeks · Intermediate · 1840 learners",
		"Skills: Go, SQL", "0 completed, 2 remaining", "1. Language basics", "Types and slices", "2. Concurrency",
	} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s.Title() != "Go Backend" {
		t.Errorf("Title() = %q", s.Title())
	}
}

func TestToggleMilestone(t *testing.T) {
	f := newFake()
	s := started(t, f)

	s.Update(keyPress('j'))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if s.toggling != "m2" {
		t.Fatalf("toggling = %q, want m2", s.toggling)
	}
	// A second press while the first is in flight is ignored.
	if _, again := s.Update(keyPress('c')); again != nil {
		t.Error("toggle accepted while another is pending")
	}

	reload := deliver[toggledMsg](s, collect(cmd))
	if len(reload) != 1 || reload[0] == nil {
		t.Fatal("successful toggle should reload")
	}
	deliver[loadedMsg](s, collect(reload[0]))

	if !s.detail.Milestones[1].Completed() {
		t.Error("m2 not completed after reload")
	}
	if s.cursor != 1 {
		t.Errorf("cursor = %d, want it kept on m2", s.cursor)
	}
	if v := view(s); !strings.Contains(v, "✓ 2. Concurrency") || !strings.Contains(v, "1 completed, 1 remaining") {
		t.Errorf("view does not reflect completion:\n%s", v)
	}

	_, cmd = s.Update(keyPress('c'))
	reload = deliver[toggledMsg](s, collect(cmd))
	deliver[loadedMsg](s, collect(reload[0]))
	if s.detail.Milestones[1].Completed() {
		t.Error("m2 still completed after undo")
	}

	want := []string{"complete m2", "undo m2"}
	if !reflect.DeepEqual(f.calls, want) {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
}

func TestToggleFailureShowsNotice(t *testing.T) {
	f := newFake()
	f.toggleErr = errors.New("backend down")
	s := started(t, f)

	_, cmd := s.Update(keyPress('c'))
	if reload := deliver[toggledMsg](s, collect(cmd)); reload[0] != nil {
		t.Error("failed toggle should not reload")
	}
	if s.toggling != "" {
		t.Error("toggle still pending after failure")
	}
	if !strings.Contains(view(s), "Could not update the milestone: backend down") {
		t.Error("failure notice not shown")
	}
}

func TestOpenLinkedScreens(t *testing.T) {
	s := started(t, newFake())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := pushed(t, cmd); got != "resources:m2" {
		t.Errorf("enter opened %q", got)
	}
	_, cmd = s.Update(keyPress('t'))
	if got := pushed(t, cmd); got != "quiz:go-backend" {
		t.Errorf("t opened %q", got)
	}
	_, cmd = s.Update(keyPress('p'))
	if got := pushed(t, cmd); got != "projects:Go Backend" {
		t.Errorf("p opened %q", got)
	}
}

func TestMissingOpenersDisableKeys(t *testing.T) {
	s := New("go-backend", Deps{Client: newFake()})
	deliver[loadedMsg](s, collect(s.Init()))

	for _, k := range []tea.KeyPressMsg{keyPress('t'), keyPress('p'), {Code: tea.KeyEnter}} {
		if _, cmd := s.Update(k); cmd != nil {
			t.Errorf("%s produced a command without an opener", k.String())
		}
	}
	for _, h := range s.KeyHints() {
		if h.Description == "Take quiz" || h.Description == "Projects" || h.Description == "Resources" {
			t.Errorf("hint %q shown without an opener", h.Description)
		}
	}
}

func TestLoadErrorAndRetry(t *testing.T) {
	f := newFake()
	f.loadErr = errors.New("backend unreachable")
	s := New("go-backend", Deps{Client: f})
	deliver[loadedMsg](s, collect(s.Init()))

	if !strings.Contains(view(s), "backend unreachable") {
		t.Error("error not shown")
	}
	if _, cmd := s.Update(keyPress('c')); cmd != nil {
		t.Error("toggle accepted in the error state")
	}

	f.loadErr = nil
	_, cmd := s.Update(keyPress('r'))
	deliver[loadedMsg](s, collect(cmd))
	if s.err != nil || len(s.detail.Milestones) != 2 {
		t.Errorf("retry did not load: err=%v", s.err)
	}
}

func TestLateMessagesIgnored(t *testing.T) {
	f := newFake()
	s := New("go-backend", Deps{Client: f})
	msgs := collect(s.Init())
	s.Close()
	deliver[loadedMsg](s, msgs)
	if !s.loading {
		t.Error("load applied after close")
	}

	other := started(t, f)
	_, cmd := other.Update(keyPress('c'))
	toggled := collect(cmd)
	other.Close()
	if reload := deliver[toggledMsg](other, toggled); reload[0] != nil {
		t.Error("closed screen reloaded after a toggle")
	}
}
