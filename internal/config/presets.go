package config

import "sort"

var Presets = map[string]map[string]*Config{
	"linear": {
		"quick": {
			Name: "quick", Solution: "linear", Iterations: 1,
			Params: ParamSpace{
				{Name: "learning_rate", Values: []any{0.01, 0.05, 0.1}},
				{Name: "batch_size", Values: []any{8, 32}},
			},
		},
		"momentum": {
			Name: "momentum", Solution: "linear", Iterations: 3,
			Params: ParamSpace{
				{Name: "learning_rate", Values: []any{0.01, 0.05}},
				{Name: "batch_size", Values: []any{16, 64}},
				{Name: "momentum", Values: []any{0.0, 0.5, 0.9}},
			},
		},
		"wide": {
			Name: "wide", Solution: "linear", Iterations: 2, RandomOrder: true,
			Params: ParamSpace{
				{Name: "learning_rate", Values: []any{0.001, 0.005, 0.01, 0.05, 0.1, 0.2}},
				{Name: "batch_size", Values: []any{4, 8, 16, 32, 64}},
				{Name: "momentum", Values: []any{0.0, 0.9}},
				{Name: "l2", Values: []any{0.0, 0.001, 0.01}},
			},
		},
	},
}

// GetPreset returns a copy of the named preset layered over the defaults, or
// nil when it does not exist.
func GetPreset(solution, preset string) *Config {
	solutionPresets, ok := Presets[solution]
	if !ok {
		return nil
	}
	p, ok := solutionPresets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Name = p.Name
	cfg.Solution = p.Solution
	cfg.Iterations = p.Iterations
	cfg.RandomOrder = p.RandomOrder
	cfg.Params = append(ParamSpace(nil), p.Params...)
	return cfg
}

func ListPresets(solution string) []string {
	solutionPresets, ok := Presets[solution]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(solutionPresets))
	for name := range solutionPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
