package roadmaps

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/trailhead/internal/api"
	"github.com/abhisek/trailhead/internal/router"
	"github.com/abhisek/trailhead/internal/screen"
)

type listerFunc func(ctx context.Context) ([]api.Roadmap, error)

func (f listerFunc) Roadmaps(ctx context.Context) ([]api.Roadmap, error) { return f(ctx) }

type openedScreen struct{ id string }

func (o *openedScreen) Init() tea.Cmd                           { return nil }
func (o *openedScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return o, nil }
func (o *openedScreen) View(int, int) string                    { return o.id }
func (o *openedScreen) Title() string                           { return o.id }

func sample() []api.Roadmap {
	return []api.Roadmap{
		{ID: "go-backend", Title: "Go Backend", Description: "Services in Go"},
		{ID: "devops", Title: "DevOps", Description: "Shipping and running them"},
	}
}

func open(id string) screen.Screen { return &openedScreen{id: id} }

func loadedFrom(t *testing.T, cmd tea.Cmd) loadedMsg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("Init should batch the spinner and the load")
	}
	for _, c := range batch {
		if lm, ok := c().(loadedMsg); ok {
			return lm
		}
	}
	t.Fatal("no loadedMsg")
	return loadedMsg{}
}

func TestPickRoadmap(t *testing.T) {
	s := New(listerFunc(func(context.Context) ([]api.Roadmap, error) { return sample(), nil }), open, nil)
	if !strings.Contains(ansi.Strip(s.View(100, 20)), "Loading roadmaps") {
		t.Error("loading view not shown")
	}

	s.Update(loadedFrom(t, s.Init()))
	v := ansi.Strip(s.View(100, 20))
	for _, want := range []string{"Go Backend", "DevOps", "Services in Go"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", cmd())
	}
	if got := push.Screen.(*openedScreen).id; got != "devops" {
		t.Errorf("opened %q, want devops", got)
	}
}

func TestLoadErrorAndRetry(t *testing.T) {
	calls := 0
	s := New(listerFunc(func(context.Context) ([]api.Roadmap, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("backend unreachable")
		}
		return sample(), nil
	}), open, nil)

	s.Update(loadedFrom(t, s.Init()))
	if !strings.Contains(ansi.Strip(s.View(100, 20)), "backend unreachable") {
		t.Error("error not shown")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	s.Update(loadedFrom(t, cmd))
	if len(s.roadmaps) != 2 {
		t.Errorf("roadmaps = %d after retry, want 2", len(s.roadmaps))
	}
}

func TestLateLoadIgnored(t *testing.T) {
	s := New(listerFunc(func(context.Context) ([]api.Roadmap, error) { return sample(), nil }), open, nil)
	msg := loadedFrom(t, s.Init())
	s.Close()
	s.Update(msg)
	if !s.loading {
		t.Error("load applied after close")
	}
}
