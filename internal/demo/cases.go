package demo

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/gridsearch/internal/trial"
)

// Cases generates y = Xw + b + noise with X uniform in [-1, 1]. The true
// weights depend on the case number and iteration only, and are scaled so the
// noise-free signal has unit variance. Noise is then the noise-to-signal
// standard deviation ratio.
type Cases struct {
	CaseNumber int
	Samples    int
	Features   int
	Noise      float64
}

const testFraction = 0.2

func (c *Cases) CreateCaseData(ctx context.Context, iteration int) (*trial.CaseData, error) {
	if c.Samples < 2 || c.Features <= 0 {
		return nil, fmt.Errorf("demo: need at least 2 samples and 1 feature, got %d and %d", c.Samples, c.Features)
	}

	rng := rand.New(rand.NewSource(int64(c.CaseNumber)*1_000_003 + int64(iteration)))

	weights := make([]float64, c.Features)
	var norm float64
	for i := range weights {
		weights[i] = rng.NormFloat64()
		norm += weights[i] * weights[i]
	}
	// Var(x) = 1/3 per feature, so |w|^2 = 3 gives unit signal variance.
	scale := math.Sqrt(3 / norm)
	for i := range weights {
		weights[i] *= scale
	}
	bias := rng.NormFloat64()

	inputs := make([][]float64, c.Samples)
	labels := make([]float64, c.Samples)
	for i := range inputs {
		row := make([]float64, c.Features)
		y := bias
		for j := range row {
			row[j] = 2*rng.Float64() - 1
			y += weights[j] * row[j]
		}
		inputs[i] = row
		labels[i] = y + c.Noise*rng.NormFloat64()
	}

	nTest := max(1, int(float64(c.Samples)*testFraction))
	split := c.Samples - nTest

	return &trial.CaseData{
		Number:      iteration,
		Description: fmt.Sprintf("linear regression, %d features, %d samples, noise %.2f", c.Features, c.Samples, c.Noise),
		Train:       trial.Dataset{Inputs: inputs[:split], Labels: labels[:split]},
		Test:        trial.Dataset{Inputs: inputs[split:], Labels: labels[split:]},
	}, nil
}
