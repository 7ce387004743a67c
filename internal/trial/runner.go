// Package trial drives the train/evaluate iterations of one grid combination.
package trial

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/montanaflynn/stats"

	"github.com/san-kum/gridsearch/internal/grid"
	"github.com/san-kum/gridsearch/internal/logging"
	"github.com/san-kum/gridsearch/internal/results"
	"github.com/san-kum/gridsearch/internal/telemetry"
)

type Runner struct {
	Cases     CaseProvider
	Trainer   Trainer
	Stats     StatsService
	Evaluator Evaluator
	Notifier  Notifier
	Cache     *results.Cache
	Metrics   *telemetry.Metrics
	Logger    *slog.Logger
	Verbose   bool
}

// Outcome is the trial record of one combination. FailedIteration is -1 when
// every iteration was accepted.
type Outcome struct {
	Results         []Result
	Accepted        bool
	FailedIteration int
}

// MeanTime is the mean training time of the results, in seconds.
func (o Outcome) MeanTime() float64 {
	secs := make(stats.Float64Data, len(o.Results))
	for i, r := range o.Results {
		secs[i] = r.Time.Seconds()
	}
	mean, err := secs.Mean()
	if err != nil {
		return 0
	}
	return mean
}

// IterationCount resolves the configured iteration count of sol.
func IterationCount(sol Solution) int {
	if n := sol.Iterations(); n > 0 {
		return n
	}
	return 1
}

// Run applies choice to sol and trains it once per iteration. The first
// rejected iteration ends the run; its result is the last one returned.
// Collaborator errors abort the run and are returned as *IterationError.
func (r *Runner) Run(ctx context.Context, sol Solution, key grid.Key, choice grid.Choice) (Outcome, error) {
	logger := logging.OrDiscard(r.Logger).With("combo", string(key))
	notifier := r.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}

	if err := sol.Apply(choice); err != nil {
		return Outcome{}, &IterationError{Iteration: -1, Stage: StageApply, Err: err}
	}

	n := IterationCount(sol)
	out := Outcome{Results: make([]Result, 0, n), Accepted: true, FailedIteration: -1}

	for i := 0; i < n; i++ {
		if r.Verbose {
			logger.Info("running iteration", "iteration", i)
		}

		res, err := r.iterate(ctx, sol, i)
		if err != nil {
			return out, err
		}
		r.record(key, res)
		out.Results = append(out.Results, res)

		if !res.Accepted {
			out.Accepted = false
			out.FailedIteration = i
			logger.Debug("iteration rejected", "iteration", i, "reason", res.RejectReason)
			notifier.Rejected(fmt.Sprintf("choice_str=%s iter=%d", key, i))
			return out, nil
		}
	}

	notifier.Accepted(fmt.Sprintf("choice_str=%s", key))
	return out, nil
}

func (r *Runner) iterate(ctx context.Context, sol Solution, i int) (Result, error) {
	data, err := r.Cases.CreateCaseData(ctx, i+1)
	if err != nil {
		return Result{}, &IterationError{Iteration: i, Stage: StageCase, Err: err}
	}

	trained, err := r.Trainer.Train(ctx, int64(i+1), sol, data)
	if err != nil {
		return Result{}, &IterationError{Iteration: i, Stage: StageTrain, Err: err}
	}

	trainStats, err := r.Stats.ModelStats(ctx, trained.Model, data.Train.Inputs, data.Train.Labels)
	if err != nil {
		return Result{}, &IterationError{Iteration: i, Stage: StageStats, Err: err}
	}
	testStats, err := r.Stats.ModelStats(ctx, trained.Model, data.Test.Inputs, data.Test.Labels)
	if err != nil {
		return Result{}, &IterationError{Iteration: i, Stage: StageStats, Err: err}
	}

	res := Result{
		Case:         data.Number,
		Iteration:    i,
		Steps:        trained.Steps,
		Time:         trained.Elapsed,
		RejectReason: trained.RejectReason,
		Size:         r.Stats.ModelSize(trained.Model),
		TrainStats:   trainStats,
		TestStats:    testStats,
		Description:  data.Description,
	}

	res, err = r.Evaluator.Evaluate(ctx, data, res, r.Verbose)
	if err != nil {
		return Result{}, &IterationError{Iteration: i, Stage: StageEvaluate, Err: err}
	}
	return res, nil
}

func (r *Runner) record(key grid.Key, res Result) {
	r.Metrics.ObserveTrial(res.Time)
	if r.Cache == nil {
		return
	}
	r.Cache.Record(results.Time, key, res.Time.Seconds())
	r.Cache.Record(results.Steps, key, float64(res.Steps))
	r.Cache.Record(results.Size, key, float64(res.Size))
}
