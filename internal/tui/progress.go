// Package tui shows a live progress view of a running search.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gridsearch/internal/grid"
	"github.com/san-kum/gridsearch/internal/search"
	"github.com/san-kum/gridsearch/internal/viz"
)

const (
	barWidth   = 40
	sparkWidth = 40
)

// EventMsg carries a search event into the program.
type EventMsg search.Event

// DoneMsg ends the program once the search has returned.
type DoneMsg struct {
	Err error
}

type Model struct {
	title    string
	total    int
	done     int
	accepted int
	rejected int
	current  grid.Key
	best     *search.Best
	times    []float64
	finished bool
	canceled bool
	err      error
}

func New(title string) Model {
	return Model{title: title}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		}
	case EventMsg:
		m = m.apply(search.Event(msg))
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) apply(e search.Event) Model {
	m.total = e.Total
	m.best = e.Best
	switch e.State {
	case search.RunningCombo:
		m.current = e.Key
	case search.Accepted:
		m.done = e.Index + 1
		m.accepted++
		if e.Outcome != nil {
			m.times = append(m.times, e.Outcome.MeanTime())
		}
	case search.Rejected:
		m.done = e.Index + 1
		m.rejected++
	case search.Done:
		m.done = e.Index
		m.current = ""
	}
	return m
}

// Canceled reports whether the user quit before the search finished.
func (m Model) Canceled() bool { return m.canceled && !m.finished }

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(viz.HeaderStyle.Render("grid search: " + m.title))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s\n\n",
		viz.ProgressBar(m.done, m.total, barWidth),
		viz.MetricValue.Render(fmt.Sprintf("%d/%d", m.done, m.total)),
	)

	fmt.Fprintf(&b, "%s %s   %s %s\n",
		viz.MetricLabel.Render("accepted"), viz.AcceptedStyle.Render(fmt.Sprint(m.accepted)),
		viz.MetricLabel.Render("rejected"), viz.RejectedStyle.Render(fmt.Sprint(m.rejected)),
	)

	if m.current != "" {
		fmt.Fprintf(&b, "%s %s\n", viz.MetricLabel.Render("running "), string(m.current))
	}
	if m.best != nil {
		fmt.Fprintf(&b, "%s %s %s\n",
			viz.MetricLabel.Render("best    "),
			string(m.best.Key),
			viz.MetricValue.Render(fmt.Sprintf("(%.4fs)", m.best.MeanTime)),
		)
	}
	if len(m.times) > 0 {
		fmt.Fprintf(&b, "%s %s\n", viz.MetricLabel.Render("times   "), viz.SparklineChart(m.times, sparkWidth))
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(viz.RejectedStyle.Render("error: " + m.err.Error()))
	case m.finished:
		b.WriteString(viz.AcceptedStyle.Render("search completed"))
	default:
		b.WriteString(viz.HintStyle.Render("q to stop"))
	}
	b.WriteString("\n")
	return b.String()
}

// Sender is the part of *tea.Program the observer needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Observer forwards search events to p.
func Observer(p Sender) search.Observer {
	return search.ObserverFunc(func(e search.Event) {
		p.Send(EventMsg(e))
	})
}
