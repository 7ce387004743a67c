package demo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gridsearch/internal/trial"
)

const (
	RejectStepLimit = "step limit reached"
	RejectDiverged  = "loss diverged"

	divergenceLoss = 1e12
)

type Model struct {
	Weights *mat.VecDense
	Bias    float64
}

func (m *Model) Predict(inputs [][]float64) []float64 {
	out := make([]float64, len(inputs))
	for i, row := range inputs {
		out[i] = mat.Dot(mat.NewVecDense(len(row), row), m.Weights) + m.Bias
	}
	return out
}

type Trainer struct {
	MaxSteps int
	// TargetLoss is relative to the label variance: training stops once the
	// train MSE is at most TargetLoss * Var(labels), i.e. 1 - R^2 <= TargetLoss.
	TargetLoss float64
}

// Train runs mini-batch SGD until the relative train MSE drops to TargetLoss.
// Hitting MaxSteps or a diverging loss sets the reject reason instead of
// failing.
func (t *Trainer) Train(ctx context.Context, seed int64, sol trial.Solution, data *trial.CaseData) (trial.TrainOutcome, error) {
	s, ok := sol.(*Solution)
	if !ok {
		return trial.TrainOutcome{}, fmt.Errorf("demo: unsupported solution %T", sol)
	}
	train := data.Train
	if len(train.Inputs) == 0 {
		return trial.TrainOutcome{}, fmt.Errorf("demo: empty training set")
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(seed))
	n, f := len(train.Inputs), len(train.Inputs[0])

	x := mat.NewDense(n, f, nil)
	for i, row := range train.Inputs {
		x.SetRow(i, row)
	}
	y := mat.NewVecDense(n, append([]float64(nil), train.Labels...))

	target := t.TargetLoss
	if v := stat.Variance(train.Labels, nil); v > 0 && !math.IsNaN(v) {
		target *= v
	}

	w := mat.NewVecDense(f, nil)
	for i := 0; i < f; i++ {
		w.SetVec(i, 0.01*rng.NormFloat64())
	}
	model := &Model{Weights: w}

	velocity := mat.NewVecDense(f, nil)
	grad := mat.NewVecDense(f, nil)
	var biasVelocity float64
	batch := min(s.BatchSize, n)

	out := trial.TrainOutcome{Model: model}
	for step := 1; ; step++ {
		if step%100 == 0 {
			if err := ctx.Err(); err != nil {
				return trial.TrainOutcome{}, err
			}
		}

		grad.Zero()
		var biasGrad float64
		for b := 0; b < batch; b++ {
			i := rng.Intn(n)
			row := x.RowView(i)
			residual := mat.Dot(row, w) + model.Bias - y.AtVec(i)
			grad.AddScaledVec(grad, residual, row)
			biasGrad += residual
		}
		grad.ScaleVec(1/float64(batch), grad)
		grad.AddScaledVec(grad, s.L2, w)
		biasGrad /= float64(batch)

		velocity.ScaleVec(s.Momentum, velocity)
		velocity.AddScaledVec(velocity, -s.LearningRate, grad)
		w.AddVec(w, velocity)
		biasVelocity = s.Momentum*biasVelocity - s.LearningRate*biasGrad
		model.Bias += biasVelocity

		out.Steps = step
		loss := mse(x, y, model)
		switch {
		case math.IsNaN(loss) || loss > divergenceLoss:
			out.RejectReason = RejectDiverged
		case loss <= target:
		case step >= t.MaxSteps:
			out.RejectReason = RejectStepLimit
		default:
			continue
		}
		break
	}

	out.Elapsed = time.Since(start)
	return out, nil
}

func mse(x *mat.Dense, y *mat.VecDense, m *Model) float64 {
	n, _ := x.Dims()
	var pred mat.VecDense
	pred.MulVec(x, m.Weights)
	var sum float64
	for i := 0; i < n; i++ {
		d := pred.AtVec(i) + m.Bias - y.AtVec(i)
		sum += d * d
	}
	return sum / float64(n)
}
