package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gridsearch/internal/grid"
)

const (
	DefaultSolution   = "linear"
	DefaultIterations = 1
	DefaultMaxSteps   = 2000
	DefaultTargetLoss = 0.02
	DefaultAcceptR2   = 0.9
	DefaultSamples    = 256
	DefaultFeatures   = 4
	DefaultNoise      = 0.1
	DefaultReportDir  = ".gridsearch"
)

type Config struct {
	Name        string       `yaml:"name"`
	Solution    string       `yaml:"solution"`
	CaseNumber  int          `yaml:"case_number"`
	RandomOrder bool         `yaml:"random_order"`
	Seed        int64        `yaml:"seed"`
	Verbose     bool         `yaml:"verbose"`
	Iterations  int          `yaml:"iterations"`
	TrimWorst   int          `yaml:"trim_worst"`
	Params      ParamSpace   `yaml:"params"`
	Log         LogConfig    `yaml:"log"`
	Report      ReportConfig `yaml:"report"`
	Demo        DemoConfig   `yaml:"demo"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ReportConfig struct {
	Dir  string `yaml:"dir"`
	Plot bool   `yaml:"plot"`
}

// DemoConfig tunes the bundled linear regression collaborators.
type DemoConfig struct {
	MaxSteps   int     `yaml:"max_steps"`
	TargetLoss float64 `yaml:"target_loss"`
	AcceptR2   float64 `yaml:"accept_r2"`
	Samples    int     `yaml:"samples"`
	Features   int     `yaml:"features"`
	Noise      float64 `yaml:"noise"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "default",
		Solution:   DefaultSolution,
		Iterations: DefaultIterations,
		Log:        LogConfig{Level: "info"},
		Report:     ReportConfig{Dir: DefaultReportDir},
		Demo: DemoConfig{
			MaxSteps:   DefaultMaxSteps,
			TargetLoss: DefaultTargetLoss,
			AcceptR2:   DefaultAcceptR2,
			Samples:    DefaultSamples,
			Features:   DefaultFeatures,
			Noise:      DefaultNoise,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto overlays the file at path onto base. Keys missing from the file
// keep base's values; a params mapping replaces base's params as a whole.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", c.Iterations)
	}
	if c.TrimWorst < 0 {
		return fmt.Errorf("trim_worst must not be negative, got %d", c.TrimWorst)
	}
	if c.CaseNumber < 0 {
		return fmt.Errorf("case_number must not be negative, got %d", c.CaseNumber)
	}
	if c.Demo.MaxSteps <= 0 {
		return fmt.Errorf("demo.max_steps must be positive, got %d", c.Demo.MaxSteps)
	}
	if c.Demo.TargetLoss < 0 {
		return fmt.Errorf("demo.target_loss must not be negative, got %g", c.Demo.TargetLoss)
	}
	if c.Demo.AcceptR2 > 1 {
		return fmt.Errorf("demo.accept_r2 must be at most 1, got %g", c.Demo.AcceptR2)
	}
	if c.Demo.Samples < 2 {
		return fmt.Errorf("demo.samples must be at least 2, got %d", c.Demo.Samples)
	}
	if c.Demo.Features <= 0 {
		return fmt.Errorf("demo.features must be positive, got %d", c.Demo.Features)
	}
	if _, err := c.Space(); err != nil {
		return err
	}
	return nil
}

// Space returns the declared parameters as a grid space, in file order.
func (c *Config) Space() (*grid.Space, error) {
	attrs := make([]grid.Attribute, len(c.Params))
	for i, p := range c.Params {
		attrs[i] = grid.Attribute{Name: p.Name, Values: p.Values}
	}
	return grid.NewSpace(attrs...)
}
