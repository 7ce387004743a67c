package search

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/gridsearch/internal/config"
	"github.com/san-kum/gridsearch/internal/grid"
	"github.com/san-kum/gridsearch/internal/results"
	"github.com/san-kum/gridsearch/internal/telemetry"
	"github.com/san-kum/gridsearch/internal/trial"
)

// Deps bundles the collaborators of a search run.
type Deps struct {
	Solution  trial.Solution
	Cases     trial.CaseProvider
	Trainer   trial.Trainer
	Stats     trial.StatsService
	Evaluator trial.Evaluator

	Notifier trial.Notifier
	Cache    *results.Cache
	Observer Observer
	Metrics  *telemetry.Metrics
	Logger   *slog.Logger
}

// Run searches the space declared by cfg. When cfg declares no parameters
// and the solution implements grid.Declarer, its declared grid lists are
// used instead.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*Report, error) {
	if deps.Solution == nil || deps.Cases == nil || deps.Trainer == nil || deps.Stats == nil || deps.Evaluator == nil {
		return nil, fmt.Errorf("%w: solution and trial collaborators are required", ErrMissingDependency)
	}

	space, err := SpaceFor(cfg, deps.Solution)
	if err != nil {
		return nil, err
	}

	cache := deps.Cache
	if cache == nil {
		cache = results.NewCache()
	}

	engine := &Engine{
		Space:     space,
		Sampler:   grid.NewSampler(cfg.RandomOrder, rand.New(rand.NewSource(cfg.Seed))),
		Notifier:  deps.Notifier,
		Observer:  deps.Observer,
		Metrics:   deps.Metrics,
		Logger:    deps.Logger,
		TrimWorst: cfg.TrimWorst,
		Runner: &trial.Runner{
			Cases:     deps.Cases,
			Trainer:   deps.Trainer,
			Stats:     deps.Stats,
			Evaluator: deps.Evaluator,
			Notifier:  deps.Notifier,
			Cache:     cache,
			Metrics:   deps.Metrics,
			Logger:    deps.Logger,
			Verbose:   cfg.Verbose,
		},
	}
	return engine.Run(ctx, deps.Solution)
}

// SpaceFor resolves the search space for cfg and sol.
func SpaceFor(cfg *config.Config, sol trial.Solution) (*grid.Space, error) {
	if len(cfg.Params) == 0 {
		if d, ok := sol.(grid.Declarer); ok {
			return grid.Extract(d)
		}
	}
	return cfg.Space()
}
