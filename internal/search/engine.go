package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/gridsearch/internal/grid"
	"github.com/san-kum/gridsearch/internal/logging"
	"github.com/san-kum/gridsearch/internal/results"
	"github.com/san-kum/gridsearch/internal/telemetry"
	"github.com/san-kum/gridsearch/internal/trial"
)

type Engine struct {
	Space    *grid.Space
	Sampler  grid.Sampler
	Runner   *trial.Runner
	Notifier trial.Notifier
	Observer Observer
	Metrics  *telemetry.Metrics
	Logger   *slog.Logger
	// TrimWorst drops the largest values of each cached series before the
	// per-combination statistics are computed. Selection is never trimmed.
	TrimWorst int
}

// ComboSummary is the trial record of one sampled combination.
type ComboSummary struct {
	Index           int            `json:"index"`
	Key             grid.Key       `json:"key"`
	Choice          grid.Choice    `json:"-"`
	Accepted        bool           `json:"accepted"`
	FailedIteration int            `json:"failed_iteration"`
	MeanTime        float64        `json:"mean_time"`
	Stats           *ComboStats    `json:"stats,omitempty"`
	Results         []trial.Result `json:"results"`
}

// ComboStats summarises the cached time and steps series of a combination
// after trimming. Std fields are nil when fewer than two values remain.
type ComboStats struct {
	TrimWorst int      `json:"trim_worst"`
	MeanTime  float64  `json:"mean_time"`
	StdTime   *float64 `json:"std_time,omitempty"`
	MeanSteps float64  `json:"mean_steps"`
	StdSteps  *float64 `json:"std_steps,omitempty"`
}

type Report struct {
	Best         *Best          `json:"best,omitempty"`
	Size         int            `json:"grid_size"`
	Iterations   int            `json:"iterations"`
	Combinations []ComboSummary `json:"combinations"`
}

// Run searches the whole space. On error the partial report is returned
// alongside it.
func (e *Engine) Run(ctx context.Context, sol trial.Solution) (*Report, error) {
	if e.Space == nil || e.Sampler == nil || e.Runner == nil {
		return nil, fmt.Errorf("%w: space, sampler and runner are required", ErrMissingDependency)
	}
	if err := ValidateParameters(e.Space, sol); err != nil {
		return nil, err
	}

	logger := logging.OrDiscard(e.Logger)
	notifier := e.Notifier
	if notifier == nil {
		notifier = trial.NopNotifier{}
	}

	size := e.Space.Size()
	history := grid.NewHistory()
	selector := &Selector{}
	rep := &Report{
		Size:         size,
		Iterations:   trial.IterationCount(sol),
		Combinations: make([]ComboSummary, 0, size),
	}

	logger.Info("grid search started", "grid_size", size, "iterations", rep.Iterations)

	for history.Len() < size {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		index := history.Len()
		notifier.Hint(fmt.Sprintf("Running %d iteration out of %d", index, size))
		e.emit(Event{State: Sampling, Index: index, Total: size, Best: selector.Best()})

		key, choice, err := e.Sampler.Next(e.Space, history)
		if err != nil {
			return rep, fmt.Errorf("sample combination %d: %w", index, err)
		}

		e.emit(Event{State: RunningCombo, Index: index, Total: size, Key: key, Best: selector.Best()})
		logger.Debug("running combination", "combo", string(key), "index", index)

		out, err := e.Runner.Run(ctx, sol, key, choice)
		if err != nil {
			return rep, fmt.Errorf("combination %q: %w", key, err)
		}

		summary := ComboSummary{
			Index:           index,
			Key:             key,
			Choice:          choice,
			Accepted:        out.Accepted,
			FailedIteration: out.FailedIteration,
			Results:         out.Results,
		}

		summary.Stats = e.comboStats(key, logger)

		state := Rejected
		if out.Accepted {
			state = Accepted
			summary.MeanTime = out.MeanTime()
			if selector.Consider(key, choice, summary.MeanTime) {
				e.Metrics.SetBest(summary.MeanTime)
				logger.Info("new best combination", "combo", string(key), "mean_time", summary.MeanTime)
			}
		} else {
			logger.Info("combination rejected", "combo", string(key), "iteration", out.FailedIteration)
		}
		e.Metrics.ObserveCombination(out.Accepted)

		history.Add(key)
		rep.Combinations = append(rep.Combinations, summary)
		e.emit(Event{State: state, Index: index, Total: size, Key: key, Outcome: &out, Best: selector.Best()})
	}

	rep.Best = selector.Best()
	e.emit(Event{State: Done, Index: history.Len(), Total: size, Best: rep.Best})

	if rep.Best != nil {
		logger.Info("grid search completed", "best", string(rep.Best.Key), "mean_time", rep.Best.MeanTime)
	} else {
		logger.Info("grid search completed", "best", "none")
	}
	return rep, nil
}

func (e *Engine) comboStats(key grid.Key, logger *slog.Logger) *ComboStats {
	cache := e.Runner.Cache
	if cache == nil {
		return nil
	}

	meanTime, stdTime, err := cache.Stats(results.Time, key, e.TrimWorst)
	if err != nil {
		logger.Debug("no time statistics", "combo", string(key), "error", err)
		return nil
	}
	meanSteps, stdSteps, err := cache.Stats(results.Steps, key, e.TrimWorst)
	if err != nil {
		logger.Debug("no steps statistics", "combo", string(key), "error", err)
		return nil
	}

	return &ComboStats{
		TrimWorst: e.TrimWorst,
		MeanTime:  meanTime,
		StdTime:   finite(stdTime),
		MeanSteps: meanSteps,
		StdSteps:  finite(stdSteps),
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (e *Engine) emit(ev Event) {
	if e.Observer != nil {
		e.Observer.OnEvent(ev)
	}
}

// ValidateParameters checks that sol accepts every attribute of space.
func ValidateParameters(space *grid.Space, sol trial.Solution) error {
	known := make(map[string]struct{})
	for _, p := range sol.Parameters() {
		known[p] = struct{}{}
	}
	for _, name := range space.Names() {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
		}
	}
	return nil
}
