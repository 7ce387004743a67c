package experiment

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gridsearch/internal/config"
	"github.com/san-kum/gridsearch/internal/results"
	"github.com/san-kum/gridsearch/internal/search"
	"github.com/san-kum/gridsearch/internal/trial/trialtest"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.GetPreset("linear", "quick")
	require.NotNil(t, cfg)
	cfg.Demo.Samples = 40
	cfg.Demo.MaxSteps = 200
	return cfg
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"linear"}, r.ListSolutions())

	_, err := r.Get("nope", config.DefaultConfig(), nil)
	assert.ErrorContains(t, err, "unknown solution: nope")

	c, err := r.Get("linear", config.DefaultConfig(), nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Solution)
	assert.NotNil(t, c.Trainer)
}

func TestExperiment_RunLinear(t *testing.T) {
	cfg := smallConfig(t)
	exp := New(cfg, nil)
	require.NoError(t, exp.Setup(NewRegistry()))

	space, err := exp.Space()
	require.NoError(t, err)
	assert.Equal(t, 6, space.Size())

	var events int
	rep, err := exp.Run(context.Background(), Hooks{
		Observer: search.ObserverFunc(func(search.Event) { events++ }),
	})
	require.NoError(t, err)
	assert.Equal(t, 6, rep.Size)
	assert.Len(t, rep.Combinations, 6)
	assert.Positive(t, events)

	for _, combo := range rep.Combinations {
		assert.NotEmpty(t, exp.Cache().Values(results.Time, combo.Key), combo.Key)
	}
}

func TestExperiment_CustomSolution(t *testing.T) {
	script := &trialtest.Script{}
	sol := &trialtest.Solution{Names: []string{"a"}, Iters: 2}

	r := NewRegistry()
	r.Register("scripted", func(*config.Config, *slog.Logger) Collaborators {
		return Collaborators{Solution: sol, Cases: script, Trainer: script, Stats: script, Evaluator: script}
	})

	cfg := config.DefaultConfig()
	cfg.Solution = "scripted"
	cfg.Params = config.ParamSpace{{Name: "a", Values: []any{1, 2, 3}}}

	exp := New(cfg, nil)
	require.NoError(t, exp.Setup(r))
	rep, err := exp.Run(context.Background(), Hooks{})
	require.NoError(t, err)
	require.NotNil(t, rep.Best)
	assert.Equal(t, "a-1", string(rep.Best.Key))
}

func TestExperiment_NotSetup(t *testing.T) {
	exp := New(config.DefaultConfig(), nil)
	_, err := exp.Run(context.Background(), Hooks{})
	assert.Error(t, err)
	_, err = exp.Space()
	assert.Error(t, err)
}
