// Package results caches per-iteration trial values keyed by result name and
// combination key, and summarises them.
package results

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/san-kum/gridsearch/internal/grid"
)

var (
	ErrNoResults    = errors.New("results: no values recorded")
	ErrTrimTooLarge = errors.New("results: trim removes every value")
)

// Well-known result names recorded by the trial runner.
const (
	Time  = "time"
	Steps = "steps"
	Size  = "size"
)

// Cache is append-only for the lifetime of one search. It is not safe for
// concurrent use.
type Cache struct {
	values map[string]map[grid.Key][]float64
}

func NewCache() *Cache {
	return &Cache{values: make(map[string]map[grid.Key][]float64)}
}

// Record appends value to the sequence for (name, key).
func (c *Cache) Record(name string, key grid.Key, value float64) {
	byKey, ok := c.values[name]
	if !ok {
		byKey = make(map[grid.Key][]float64)
		c.values[name] = byKey
	}
	byKey[key] = append(byKey[key], value)
}

// Values returns a copy of the sequence recorded for (name, key).
func (c *Cache) Values(name string, key grid.Key) []float64 {
	src := c.values[name][key]
	if len(src) == 0 {
		return nil
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// Stats returns the mean and sample standard deviation of the values recorded
// for (name, key). When trimWorst > 0 the values are sorted ascending and the
// trimWorst largest are dropped first. A single remaining value has NaN
// deviation.
func (c *Cache) Stats(name string, key grid.Key, trimWorst int) (mean, std float64, err error) {
	data := c.Values(name, key)
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("%w: %s for %q", ErrNoResults, name, key)
	}
	if trimWorst > 0 {
		if trimWorst >= len(data) {
			return 0, 0, fmt.Errorf("%w: %d of %d", ErrTrimTooLarge, trimWorst, len(data))
		}
		sort.Float64s(data)
		data = data[:len(data)-trimWorst]
	}

	mean, err = stats.Mean(data)
	if err != nil {
		return 0, 0, err
	}
	if len(data) < 2 {
		return mean, math.NaN(), nil
	}
	std, err = stats.StandardDeviationSample(data)
	if err != nil {
		return 0, 0, err
	}
	return mean, std, nil
}

// All returns a deep copy of every sequence recorded under name.
func (c *Cache) All(name string) map[grid.Key][]float64 {
	byKey := c.values[name]
	out := make(map[grid.Key][]float64, len(byKey))
	for k, v := range byKey {
		cp := make([]float64, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// Names returns the recorded result names, sorted.
func (c *Cache) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
