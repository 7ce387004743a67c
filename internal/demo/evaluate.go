package demo

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gridsearch/internal/logging"
	"github.com/san-kum/gridsearch/internal/trial"
)

// Stat names reported by Stats.
const (
	StatMSE = "mse"
	StatMAE = "mae"
	StatR2  = "r2"
)

type Stats struct{}

// ModelSize is the parameter count: one weight per feature plus the bias.
func (Stats) ModelSize(m trial.Model) int {
	model, ok := m.(*Model)
	if !ok || model.Weights == nil {
		return 0
	}
	return model.Weights.Len() + 1
}

func (Stats) ModelStats(_ context.Context, m trial.Model, inputs [][]float64, labels []float64) (trial.Stats, error) {
	model, ok := m.(*Model)
	if !ok {
		return nil, fmt.Errorf("demo: unsupported model %T", m)
	}
	if len(inputs) == 0 || len(inputs) != len(labels) {
		return nil, fmt.Errorf("demo: %d inputs for %d labels", len(inputs), len(labels))
	}

	pred := model.Predict(inputs)
	var sq, abs float64
	for i := range pred {
		d := pred[i] - labels[i]
		sq += d * d
		abs += math.Abs(d)
	}
	n := float64(len(pred))
	return trial.Stats{
		StatMSE: sq / n,
		StatMAE: abs / n,
		StatR2:  stat.RSquaredFrom(pred, labels, nil),
	}, nil
}

// Evaluator accepts a result when training finished without a reject reason
// and the test R^2 is at least AcceptR2. R^2 is relative to the label
// variance, so a constant predictor never passes a positive threshold.
type Evaluator struct {
	AcceptR2 float64
	Logger   *slog.Logger
}

func (e *Evaluator) Evaluate(_ context.Context, data *trial.CaseData, r trial.Result, verbose bool) (trial.Result, error) {
	testR2, ok := r.TestStats[StatR2]
	if !ok {
		return r, fmt.Errorf("demo: result for case %d has no test %s", data.Number, StatR2)
	}

	r.Accepted = r.RejectReason == "" && testR2 >= e.AcceptR2
	if !r.Accepted && r.RejectReason == "" {
		r.RejectReason = fmt.Sprintf("test r2 %.4f below %.4f", testR2, e.AcceptR2)
	}

	if verbose {
		logging.OrDiscard(e.Logger).Info("evaluated case",
			"case", data.Number,
			"steps", r.Steps,
			"test_r2", testR2,
			"test_mse", r.TestStats[StatMSE],
			"accepted", r.Accepted,
		)
	}
	return r, nil
}
