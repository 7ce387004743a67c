// Package trialtest provides scripted collaborators for testing code that
// drives a trial.Runner.
package trialtest

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/gridsearch/internal/grid"
	"github.com/san-kum/gridsearch/internal/trial"
)

// Solution records every choice applied to it.
type Solution struct {
	Names    []string
	Iters    int
	ApplyErr error

	Current grid.Choice
	Applied []grid.Choice
}

func (s *Solution) Parameters() []string { return s.Names }
func (s *Solution) Iterations() int      { return s.Iters }

func (s *Solution) Apply(c grid.Choice) error {
	if s.ApplyErr != nil {
		return s.ApplyErr
	}
	s.Current = c
	s.Applied = append(s.Applied, c)
	return nil
}

// DefaultTime is reported for combinations without a scripted time.
const DefaultTime = time.Second

type model struct {
	key       grid.Key
	iteration int
}

// Script implements every collaborator of trial.Runner. Behaviour is keyed by
// the encoded choice currently applied to the Solution passed to Train.
type Script struct {
	// Times per combination; the last entry repeats for later iterations.
	Times map[grid.Key][]time.Duration
	// Reject marks the iteration at which a combination is rejected.
	Reject map[grid.Key]int
	// TrainErr makes Train fail for a combination.
	TrainErr map[grid.Key]error
	CaseErr  error

	Seeds      []int64
	Iterations []int
	Evaluated  []grid.Key

	current grid.Key
}

func (s *Script) CreateCaseData(_ context.Context, iteration int) (*trial.CaseData, error) {
	if s.CaseErr != nil {
		return nil, s.CaseErr
	}
	s.Iterations = append(s.Iterations, iteration)
	return &trial.CaseData{
		Number:      iteration,
		Description: fmt.Sprintf("case %d", iteration),
		Train:       trial.Dataset{Inputs: [][]float64{{1}}, Labels: []float64{1}},
		Test:        trial.Dataset{Inputs: [][]float64{{2}}, Labels: []float64{2}},
	}, nil
}

func (s *Script) Train(_ context.Context, seed int64, sol trial.Solution, _ *trial.CaseData) (trial.TrainOutcome, error) {
	ts, ok := sol.(*Solution)
	if !ok {
		return trial.TrainOutcome{}, fmt.Errorf("trialtest: unexpected solution %T", sol)
	}
	s.current = grid.Encode(ts.Current)
	if err := s.TrainErr[s.current]; err != nil {
		return trial.TrainOutcome{}, err
	}
	s.Seeds = append(s.Seeds, seed)

	iteration := int(seed) - 1
	elapsed := DefaultTime
	if times := s.Times[s.current]; len(times) > 0 {
		elapsed = times[min(iteration, len(times)-1)]
	}
	return trial.TrainOutcome{
		Steps:   10 * int(seed),
		Elapsed: elapsed,
		Model:   model{key: s.current, iteration: iteration},
	}, nil
}

func (s *Script) ModelSize(m trial.Model) int { return 3 }

func (s *Script) ModelStats(_ context.Context, m trial.Model, _ [][]float64, labels []float64) (trial.Stats, error) {
	return trial.Stats{"n": float64(len(labels))}, nil
}

func (s *Script) Evaluate(_ context.Context, _ *trial.CaseData, r trial.Result, _ bool) (trial.Result, error) {
	s.Evaluated = append(s.Evaluated, s.current)
	at, rejects := s.Reject[s.current]
	r.Accepted = !rejects || r.Iteration != at
	if !r.Accepted {
		r.RejectReason = "scripted rejection"
	}
	return r, nil
}

// Runner returns a runner wired to s.
func (s *Script) Runner() *trial.Runner {
	return &trial.Runner{
		Cases:     s,
		Trainer:   s,
		Stats:     s,
		Evaluator: s,
	}
}

// Notices collects notifier messages.
type Notices struct {
	Hints, Accepts, Rejects []string
}

func (n *Notices) Hint(msg string)     { n.Hints = append(n.Hints, msg) }
func (n *Notices) Accepted(msg string) { n.Accepts = append(n.Accepts, msg) }
func (n *Notices) Rejected(msg string) { n.Rejects = append(n.Rejects, msg) }
