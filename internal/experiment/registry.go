package experiment

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/gridsearch/internal/config"
	"github.com/san-kum/gridsearch/internal/demo"
	"github.com/san-kum/gridsearch/internal/trial"
)

// Collaborators are the pieces a search needs from a solution family.
type Collaborators struct {
	Solution  trial.Solution
	Cases     trial.CaseProvider
	Trainer   trial.Trainer
	Stats     trial.StatsService
	Evaluator trial.Evaluator
}

type Factory func(cfg *config.Config, logger *slog.Logger) Collaborators

type Registry struct {
	solutions map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{solutions: make(map[string]Factory)}

	r.solutions["linear"] = func(cfg *config.Config, logger *slog.Logger) Collaborators {
		return Collaborators{
			Solution: demo.NewSolution(cfg.Iterations),
			Cases: &demo.Cases{
				CaseNumber: cfg.CaseNumber,
				Samples:    cfg.Demo.Samples,
				Features:   cfg.Demo.Features,
				Noise:      cfg.Demo.Noise,
			},
			Trainer:   &demo.Trainer{MaxSteps: cfg.Demo.MaxSteps, TargetLoss: cfg.Demo.TargetLoss},
			Stats:     demo.Stats{},
			Evaluator: &demo.Evaluator{AcceptR2: cfg.Demo.AcceptR2, Logger: logger},
		}
	}

	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.solutions[name] = f
}

func (r *Registry) Get(name string, cfg *config.Config, logger *slog.Logger) (Collaborators, error) {
	fn, ok := r.solutions[name]
	if !ok {
		return Collaborators{}, fmt.Errorf("unknown solution: %s (available: %v)", name, r.ListSolutions())
	}
	return fn(cfg, logger), nil
}

func (r *Registry) ListSolutions() []string {
	names := make([]string, 0, len(r.solutions))
	for name := range r.solutions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
