package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trailhead/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	closed  int
	seen    []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) Close()               { s.closed++ }

type ping struct{}

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPopClosesScreen(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
	if s2.closed != 1 {
		t.Errorf("popped screen closed %d times, want 1", s2.closed)
	}
	if s1.closed != 0 {
		t.Error("remaining screen should not be closed")
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
	if s1.closed != 0 {
		t.Error("bottom screen should not be closed by pop")
	}
}

func TestCloseAll(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	s2 := &stubScreen{title: "second"}
	r := New(s1)
	r.Push(s2)

	r.CloseAll()

	if s1.closed != 1 || s2.closed != 1 {
		t.Errorf("closed = %d, %d; want 1, 1", s1.closed, s2.closed)
	}
	if r.Depth() != 2 {
		t.Errorf("CloseAll changed depth to %d", r.Depth())
	}
}

func TestNavigationMessages(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(Push(s2)())
	if r.Active() != s2 || !s2.initRan {
		t.Fatal("PushScreenMsg did not push and init the screen")
	}

	r.Update(Pop())
	if r.Active() != s1 {
		t.Fatal("PopScreenMsg did not pop")
	}
	if len(s1.seen) != 0 {
		t.Errorf("navigation messages leaked to screen: %v", s1.seen)
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	s2 := &stubScreen{title: "second"}
	r := New(s1)
	r.Push(s2)

	r.Update(ping{})

	if len(s2.seen) != 1 {
		t.Errorf("active screen saw %d messages, want 1", len(s2.seen))
	}
	if len(s1.seen) != 0 {
		t.Errorf("inactive screen saw %d messages, want 0", len(s1.seen))
	}
	if got := r.View(80, 24); got != "second" {
		t.Errorf("View = %q, want second", got)
	}
}
