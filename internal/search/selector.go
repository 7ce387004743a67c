package search

import (
	"fmt"

	"github.com/san-kum/gridsearch/internal/grid"
)

// Best is the accepted combination with the lowest mean trial time.
type Best struct {
	Key      grid.Key    `json:"key"`
	Params   string      `json:"params"`
	Choice   grid.Choice `json:"-"`
	MeanTime float64     `json:"mean_time"`
}

// Selector tracks the best accepted combination.
type Selector struct {
	best *Best
}

// Consider records key as the best when nothing is recorded yet or meanTime
// is strictly lower than the current best. It reports whether it replaced.
func (s *Selector) Consider(key grid.Key, choice grid.Choice, meanTime float64) bool {
	if s.best != nil && meanTime >= s.best.MeanTime {
		return false
	}
	s.best = &Best{
		Key:      key,
		Params:   fmt.Sprintf("choice_str=%s", key),
		Choice:   choice,
		MeanTime: meanTime,
	}
	return true
}

// Best returns a copy of the current best, or nil.
func (s *Selector) Best() *Best {
	if s.best == nil {
		return nil
	}
	b := *s.best
	return &b
}
