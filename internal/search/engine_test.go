package search_test

import (
	"context"
	"errors"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gridsearch/internal/config"
	"github.com/san-kum/gridsearch/internal/grid"
	"github.com/san-kum/gridsearch/internal/results"
	"github.com/san-kum/gridsearch/internal/search"
	"github.com/san-kum/gridsearch/internal/trial"
	"github.com/san-kum/gridsearch/internal/trial/trialtest"
)

func key(lr float64, batch int) grid.Key {
	return grid.Encode(grid.Choice{{Name: "lr", Value: lr}, {Name: "batch", Value: batch}})
}

var _ = Describe("Engine", func() {
	var (
		space  *grid.Space
		script *trialtest.Script
		sol    *trialtest.Solution
		cache  *results.Cache
		events []search.Event
		engine *search.Engine
	)

	BeforeEach(func() {
		var err error
		space, err = grid.NewSpace(
			grid.Attribute{Name: "lr", Values: []any{0.1, 0.2}},
			grid.Attribute{Name: "batch", Values: []any{8, 16}},
		)
		Expect(err).NotTo(HaveOccurred())

		script = &trialtest.Script{}
		sol = &trialtest.Solution{Names: []string{"lr", "batch"}, Iters: 1}
		cache = results.NewCache()
		events = nil

		runner := script.Runner()
		runner.Cache = cache
		engine = &search.Engine{
			Space:    space,
			Sampler:  grid.Sequential{},
			Runner:   runner,
			Observer: search.ObserverFunc(func(e search.Event) { events = append(events, e) }),
		}
	})

	It("selects the accepted combination with the lowest mean time", func() {
		script.Times = map[grid.Key][]time.Duration{
			key(0.1, 8):  {time.Second},
			key(0.2, 8):  {2 * time.Second},
			key(0.1, 16): {1500 * time.Millisecond},
			key(0.2, 16): {3 * time.Second},
		}

		rep, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())

		Expect(rep.Size).To(Equal(4))
		Expect(rep.Combinations).To(HaveLen(4))
		Expect(rep.Best).NotTo(BeNil())
		Expect(rep.Best.Key).To(Equal(key(0.1, 8)))
		Expect(rep.Best.MeanTime).To(BeNumerically("~", 1.0, 1e-9))
		Expect(rep.Best.Params).To(Equal("choice_str=lr-0.1 batch-8"))
	})

	It("enumerates in mixed-radix order and applies every choice", func() {
		_, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())

		var applied []grid.Key
		for _, c := range sol.Applied {
			applied = append(applied, grid.Encode(c))
		}
		Expect(applied).To(Equal([]grid.Key{key(0.1, 8), key(0.2, 8), key(0.1, 16), key(0.2, 16)}))
	})

	It("keeps the earliest combination on ties", func() {
		rep, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Best.Key).To(Equal(key(0.1, 8)))
	})

	It("reports no best when every combination is rejected at iteration 0", func() {
		script.Reject = map[grid.Key]int{
			key(0.1, 8): 0, key(0.2, 8): 0, key(0.1, 16): 0, key(0.2, 16): 0,
		}

		rep, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Best).To(BeNil())
		Expect(rep.Combinations).To(HaveLen(4))
		for _, c := range rep.Combinations {
			Expect(c.Accepted).To(BeFalse())
			Expect(c.Results).To(HaveLen(1))
		}
	})

	It("excludes a combination rejected after earlier iterations succeeded", func() {
		sol.Iters = 3
		script.Times = map[grid.Key][]time.Duration{
			key(0.1, 8):  {100 * time.Millisecond},
			key(0.2, 8):  {time.Second},
			key(0.1, 16): {time.Second},
			key(0.2, 16): {time.Second},
		}
		script.Reject = map[grid.Key]int{key(0.1, 8): 2}

		rep, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())

		first := rep.Combinations[0]
		Expect(first.Key).To(Equal(key(0.1, 8)))
		Expect(first.Accepted).To(BeFalse())
		Expect(first.FailedIteration).To(Equal(2))
		Expect(first.Results).To(HaveLen(3))
		Expect(rep.Best.Key).To(Equal(key(0.2, 8)))
		Expect(cache.Values(results.Time, key(0.1, 8))).To(HaveLen(3))
	})

	It("emits the state machine transitions", func() {
		script.Reject = map[grid.Key]int{key(0.2, 8): 0}

		_, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())

		var states []search.State
		for _, e := range events {
			states = append(states, e.State)
		}
		Expect(states).To(Equal([]search.State{
			search.Sampling, search.RunningCombo, search.Accepted,
			search.Sampling, search.RunningCombo, search.Rejected,
			search.Sampling, search.RunningCombo, search.Accepted,
			search.Sampling, search.RunningCombo, search.Accepted,
			search.Done,
		}))
		Expect(events[len(events)-1].Index).To(Equal(4))
	})

	It("reports trimmed statistics while selecting on the untrimmed mean", func() {
		sol.Iters = 3
		engine.TrimWorst = 1
		script.Times = map[grid.Key][]time.Duration{
			key(0.1, 8): {400 * time.Millisecond, 600 * time.Millisecond, 9 * time.Second},
		}

		rep, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())

		first := rep.Combinations[0]
		Expect(first.Key).To(Equal(key(0.1, 8)))
		Expect(first.MeanTime).To(BeNumerically("~", 10.0/3, 1e-9))
		Expect(first.Stats).NotTo(BeNil())
		Expect(first.Stats.TrimWorst).To(Equal(1))
		Expect(first.Stats.MeanTime).To(BeNumerically("~", 0.5, 1e-9))
		Expect(first.Stats.StdTime).NotTo(BeNil())
		Expect(*first.Stats.StdTime).To(BeNumerically("~", 0.141421356, 1e-6))
		Expect(first.Stats.MeanSteps).To(BeNumerically("~", 15, 1e-9))
		Expect(*first.Stats.StdSteps).To(BeNumerically("~", 7.0710678, 1e-6))

		Expect(rep.Best.Key).To(Equal(key(0.2, 8)))
		Expect(rep.Best.MeanTime).To(BeNumerically("~", 1.0, 1e-9))
	})

	It("leaves statistics out when trimming removes every value", func() {
		engine.TrimWorst = 1

		rep, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())
		for _, c := range rep.Combinations {
			Expect(c.Stats).To(BeNil())
		}
		Expect(rep.Best).NotTo(BeNil())
	})

	It("omits the deviation of a single value", func() {
		rep, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())

		stats := rep.Combinations[0].Stats
		Expect(stats).NotTo(BeNil())
		Expect(stats.MeanTime).To(BeNumerically("~", 1.0, 1e-9))
		Expect(stats.StdTime).To(BeNil())
	})

	It("visits every combination once in random order", func() {
		engine.Sampler = grid.NewRandom(rand.New(rand.NewSource(11)))

		rep, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())

		seen := map[grid.Key]bool{}
		for _, c := range rep.Combinations {
			Expect(seen).NotTo(HaveKey(c.Key))
			seen[c.Key] = true
		}
		Expect(seen).To(HaveLen(4))
	})

	It("rejects parameters the solution does not accept before running", func() {
		sol.Names = []string{"lr"}

		_, err := engine.Run(context.Background(), sol)
		Expect(err).To(MatchError(search.ErrUnknownParameter))
		Expect(sol.Applied).To(BeEmpty())
	})

	It("aborts the search on collaborator errors", func() {
		boom := errors.New("trainer crashed")
		script.TrainErr = map[grid.Key]error{key(0.2, 8): boom}

		rep, err := engine.Run(context.Background(), sol)
		Expect(errors.Is(err, boom)).To(BeTrue())

		var iterErr *trial.IterationError
		Expect(errors.As(err, &iterErr)).To(BeTrue())
		Expect(rep.Combinations).To(HaveLen(1))
	})

	It("stops between combinations when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		engine.Observer = search.ObserverFunc(func(e search.Event) {
			if e.State == search.Accepted {
				cancel()
			}
		})

		rep, err := engine.Run(ctx, sol)
		Expect(err).To(MatchError(context.Canceled))
		Expect(rep.Combinations).To(HaveLen(1))
	})

	It("runs a single combination for an empty space", func() {
		empty, err := grid.NewSpace()
		Expect(err).NotTo(HaveOccurred())
		engine.Space = empty

		rep, err := engine.Run(context.Background(), sol)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Combinations).To(HaveLen(1))
		Expect(rep.Best).NotTo(BeNil())
		Expect(rep.Best.Key).To(Equal(grid.Key("")))
	})

	It("requires a space, a sampler and a runner", func() {
		_, err := (&search.Engine{}).Run(context.Background(), sol)
		Expect(err).To(MatchError(search.ErrMissingDependency))
	})
})

var _ = Describe("Selector", func() {
	It("replaces only on a strictly lower mean", func() {
		s := &search.Selector{}
		Expect(s.Best()).To(BeNil())

		Expect(s.Consider("a-1", nil, 2.0)).To(BeTrue())
		Expect(s.Consider("a-2", nil, 2.0)).To(BeFalse())
		Expect(s.Consider("a-3", nil, 3.0)).To(BeFalse())
		Expect(s.Consider("a-4", nil, 1.0)).To(BeTrue())
		Expect(s.Best().Key).To(Equal(grid.Key("a-4")))
	})

	It("hands out copies", func() {
		s := &search.Selector{}
		s.Consider("a-1", nil, 1.0)
		s.Best().MeanTime = 99
		Expect(s.Best().MeanTime).To(Equal(1.0))
	})
})

type declaringSolution struct {
	trialtest.Solution
}

func (declaringSolution) GridAttributes() []grid.Attribute {
	return []grid.Attribute{
		{Name: "lr_grid", Values: []any{0.1, 0.2}},
		{Name: "batch_grid", Values: []any{8, 16}},
	}
}

var _ = Describe("Run", func() {
	var (
		script *trialtest.Script
		cfg    *config.Config
	)

	BeforeEach(func() {
		script = &trialtest.Script{}
		cfg = config.DefaultConfig()
		cfg.Params = config.ParamSpace{
			{Name: "lr", Values: []any{0.1, 0.2}},
			{Name: "batch", Values: []any{8, 16}},
		}
	})

	deps := func(sol trial.Solution) search.Deps {
		return search.Deps{Solution: sol, Cases: script, Trainer: script, Stats: script, Evaluator: script}
	}

	It("searches the configured space", func() {
		script.Times = map[grid.Key][]time.Duration{key(0.2, 16): {time.Millisecond}}
		sol := &trialtest.Solution{Names: []string{"lr", "batch"}}

		rep, err := search.Run(context.Background(), cfg, deps(sol))
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Best.Key).To(Equal(key(0.2, 16)))
		Expect(sol.Applied).To(HaveLen(4))
	})

	It("falls back to the solution's declared grid lists", func() {
		cfg.Params = nil
		sol := &declaringSolution{Solution: trialtest.Solution{Names: []string{"lr", "batch"}}}

		space, err := search.SpaceFor(cfg, sol)
		Expect(err).NotTo(HaveOccurred())
		Expect(space.Names()).To(Equal([]string{"lr", "batch"}))
	})

	It("visits every combination in random order mode", func() {
		cfg.RandomOrder = true
		cfg.Seed = 5
		sol := &trialtest.Solution{Names: []string{"lr", "batch"}}

		rep, err := search.Run(context.Background(), cfg, deps(sol))
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Combinations).To(HaveLen(4))
	})

	It("records per-iteration results into the supplied cache", func() {
		cache := results.NewCache()
		d := deps(&trialtest.Solution{Names: []string{"lr", "batch"}, Iters: 2})
		d.Cache = cache

		_, err := search.Run(context.Background(), cfg, d)
		Expect(err).NotTo(HaveOccurred())
		Expect(cache.All(results.Time)).To(HaveLen(4))
		for _, v := range cache.All(results.Time) {
			Expect(v).To(HaveLen(2))
		}
	})

	It("applies the configured trim to the reported statistics", func() {
		cfg.TrimWorst = 1
		sol := &trialtest.Solution{Names: []string{"lr", "batch"}, Iters: 2}
		script.Times = map[grid.Key][]time.Duration{
			key(0.1, 8): {time.Second, 3 * time.Second},
		}

		rep, err := search.Run(context.Background(), cfg, deps(sol))
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Combinations[0].Stats.MeanTime).To(BeNumerically("~", 1.0, 1e-9))
		Expect(rep.Combinations[0].MeanTime).To(BeNumerically("~", 2.0, 1e-9))
	})

	It("requires the trial collaborators", func() {
		_, err := search.Run(context.Background(), cfg, search.Deps{})
		Expect(err).To(MatchError(search.ErrMissingDependency))
	})
})
