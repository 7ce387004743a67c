package demo

import (
	"errors"
	"fmt"

	"github.com/san-kum/gridsearch/internal/grid"
)

const (
	ParamLearningRate = "learning_rate"
	ParamBatchSize    = "batch_size"
	ParamMomentum     = "momentum"
	ParamL2           = "l2"
)

var ErrInvalidParam = errors.New("demo: invalid parameter value")

type Solution struct {
	LearningRate float64
	BatchSize    int
	Momentum     float64
	L2           float64

	iterations int
}

func NewSolution(iterations int) *Solution {
	return &Solution{
		LearningRate: 0.05,
		BatchSize:    16,
		iterations:   iterations,
	}
}

func (s *Solution) Parameters() []string {
	return []string{ParamLearningRate, ParamBatchSize, ParamMomentum, ParamL2}
}

func (s *Solution) Iterations() int { return s.iterations }

// GridAttributes declares the grid searched when no parameters are configured.
func (s *Solution) GridAttributes() []grid.Attribute {
	return []grid.Attribute{
		{Name: ParamLearningRate + grid.ListSuffix, Values: []any{0.01, 0.05, 0.1}},
		{Name: ParamBatchSize + grid.ListSuffix, Values: []any{8, 32}},
	}
}

// Apply assigns c atomically: on error the solution is left unchanged.
func (s *Solution) Apply(c grid.Choice) error {
	next := *s
	for _, a := range c {
		var err error
		switch a.Name {
		case ParamLearningRate:
			next.LearningRate, err = c.Float64(a.Name)
		case ParamBatchSize:
			next.BatchSize, err = c.Int(a.Name)
		case ParamMomentum:
			next.Momentum, err = c.Float64(a.Name)
		case ParamL2:
			next.L2, err = c.Float64(a.Name)
		default:
			err = fmt.Errorf("%w: %s", grid.ErrUnknownAttribute, a.Name)
		}
		if err != nil {
			return err
		}
	}
	if err := next.validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *Solution) validate() error {
	switch {
	case s.LearningRate <= 0:
		return fmt.Errorf("%w: learning_rate %v must be positive", ErrInvalidParam, s.LearningRate)
	case s.BatchSize <= 0:
		return fmt.Errorf("%w: batch_size %d must be positive", ErrInvalidParam, s.BatchSize)
	case s.Momentum < 0 || s.Momentum >= 1:
		return fmt.Errorf("%w: momentum %v must be in [0, 1)", ErrInvalidParam, s.Momentum)
	case s.L2 < 0:
		return fmt.Errorf("%w: l2 %v must not be negative", ErrInvalidParam, s.L2)
	}
	return nil
}
