package search

import (
	"github.com/san-kum/gridsearch/internal/grid"
	"github.com/san-kum/gridsearch/internal/trial"
)

type State int

const (
	Sampling State = iota
	RunningCombo
	Accepted
	Rejected
	Done
)

func (s State) String() string {
	switch s {
	case Sampling:
		return "sampling"
	case RunningCombo:
		return "running"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Event describes one state transition of a running search. Index is the
// number of combinations completed before this one.
type Event struct {
	State   State
	Index   int
	Total   int
	Key     grid.Key
	Outcome *trial.Outcome
	Best    *Best
}

type Observer interface {
	OnEvent(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }
