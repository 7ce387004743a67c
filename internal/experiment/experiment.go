// Package experiment binds a configuration to the collaborators of its
// solution family and runs the search over it.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/gridsearch/internal/config"
	"github.com/san-kum/gridsearch/internal/grid"
	"github.com/san-kum/gridsearch/internal/logging"
	"github.com/san-kum/gridsearch/internal/results"
	"github.com/san-kum/gridsearch/internal/search"
	"github.com/san-kum/gridsearch/internal/telemetry"
	"github.com/san-kum/gridsearch/internal/trial"
)

// Hooks are the optional outputs of a run.
type Hooks struct {
	Notifier trial.Notifier
	Observer search.Observer
	Metrics  *telemetry.Metrics
}

type Experiment struct {
	cfg    *config.Config
	collab *Collaborators
	cache  *results.Cache
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	return &Experiment{
		cfg:    cfg,
		cache:  results.NewCache(),
		logger: logging.OrDiscard(logger),
	}
}

func (e *Experiment) Setup(reg *Registry) error {
	collab, err := reg.Get(e.cfg.Solution, e.cfg, e.logger)
	if err != nil {
		return err
	}
	e.collab = &collab
	return nil
}

// Space is the grid the run will search.
func (e *Experiment) Space() (*grid.Space, error) {
	if e.collab == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return search.SpaceFor(e.cfg, e.collab.Solution)
}

func (e *Experiment) Run(ctx context.Context, hooks Hooks) (*search.Report, error) {
	if e.collab == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	return search.Run(ctx, e.cfg, search.Deps{
		Solution:  e.collab.Solution,
		Cases:     e.collab.Cases,
		Trainer:   e.collab.Trainer,
		Stats:     e.collab.Stats,
		Evaluator: e.collab.Evaluator,
		Notifier:  hooks.Notifier,
		Cache:     e.cache,
		Observer:  hooks.Observer,
		Metrics:   hooks.Metrics,
		Logger:    e.logger,
	})
}

// Cache holds the per-trial values recorded by Run.
func (e *Experiment) Cache() *results.Cache {
	return e.cache
}
