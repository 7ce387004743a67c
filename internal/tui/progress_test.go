package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gridsearch/internal/search"
	"github.com/san-kum/gridsearch/internal/trial"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func TestModel_TracksEvents(t *testing.T) {
	m := New("quick")
	best := &search.Best{Key: "lr-0.1", MeanTime: 0.25}
	accepted := &trial.Outcome{Accepted: true, Results: []trial.Result{{Time: 250 * time.Millisecond}}}

	events := []search.Event{
		{State: search.Sampling, Index: 0, Total: 2},
		{State: search.RunningCombo, Index: 0, Total: 2, Key: "lr-0.1"},
		{State: search.Accepted, Index: 0, Total: 2, Key: "lr-0.1", Outcome: accepted, Best: best},
		{State: search.Sampling, Index: 1, Total: 2, Best: best},
		{State: search.RunningCombo, Index: 1, Total: 2, Key: "lr-0.2", Best: best},
	}
	for _, e := range events {
		m, _ = update(t, m, EventMsg(e))
	}

	if m.done != 1 || m.accepted != 1 || m.rejected != 0 {
		t.Errorf("got done=%d accepted=%d rejected=%d", m.done, m.accepted, m.rejected)
	}
	view := m.View()
	for _, want := range []string{"grid search: quick", "1/2", "lr-0.2", "lr-0.1", "0.2500s", "q to stop"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = update(t, m, EventMsg{State: search.Rejected, Index: 1, Total: 2, Key: "lr-0.2", Best: best})
	m, _ = update(t, m, EventMsg{State: search.Done, Index: 2, Total: 2, Best: best})
	if m.done != 2 || m.rejected != 1 || m.current != "" {
		t.Errorf("after done: done=%d rejected=%d current=%q", m.done, m.rejected, m.current)
	}
}

func TestModel_DoneQuits(t *testing.T) {
	m, cmd := update(t, New("x"), DoneMsg{})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("DoneMsg did not quit")
	}
	if m.Canceled() {
		t.Error("finished search reported as canceled")
	}
	if !strings.Contains(m.View(), "search completed") {
		t.Errorf("view:\n%s", m.View())
	}

	m, _ = update(t, New("x"), DoneMsg{Err: errors.New("trainer crashed")})
	if !strings.Contains(m.View(), "trainer crashed") {
		t.Errorf("view missing error:\n%s", m.View())
	}
}

func TestModel_QuitKeyCancels(t *testing.T) {
	m, cmd := update(t, New("x"), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !m.Canceled() {
		t.Error("q did not cancel")
	}
}

type recorder struct{ msgs []tea.Msg }

func (r *recorder) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestObserver(t *testing.T) {
	r := &recorder{}
	Observer(r).OnEvent(search.Event{State: search.Done, Total: 3})

	if len(r.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(r.msgs))
	}
	msg, ok := r.msgs[0].(EventMsg)
	if !ok || msg.Total != 3 {
		t.Errorf("unexpected message %#v", r.msgs[0])
	}
}
