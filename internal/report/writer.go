// Package report writes the outcome of a search run to disk.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/gridsearch/internal/grid"
	"github.com/san-kum/gridsearch/internal/results"
	"github.com/san-kum/gridsearch/internal/search"
	"github.com/san-kum/gridsearch/internal/trial"
)

const (
	SummaryFile = "summary.json"
	TrialsFile  = "trials.csv"
)

type Writer struct {
	BaseDir string
	Name    string
	Seed    int64
}

type Summary struct {
	ID        string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Seed      int64          `json:"seed"`
	Report    *search.Report `json:"report"`
}

// Write stores rep and the per-trial values of cache under a fresh run
// directory and returns its ID.
func (w Writer) Write(rep *search.Report, cache *results.Cache) (string, error) {
	if rep == nil {
		return "", fmt.Errorf("report: nil search report")
	}

	runID := uuid.NewString()
	runDir := filepath.Join(w.BaseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	summary := Summary{
		ID:        runID,
		Name:      w.Name,
		Timestamp: time.Now(),
		Seed:      w.Seed,
		Report:    finite(rep),
	}
	if err := writeJSON(filepath.Join(runDir, SummaryFile), summary); err != nil {
		return "", err
	}

	if cache == nil {
		cache = results.NewCache()
	}
	if err := writeTrials(filepath.Join(runDir, TrialsFile), rep, cache); err != nil {
		return "", err
	}
	return runID, nil
}

// finite returns rep with non-finite stats dropped, since JSON cannot carry
// them. Diverged trials routinely produce NaN or Inf losses.
func finite(rep *search.Report) *search.Report {
	out := *rep
	out.Combinations = make([]search.ComboSummary, len(rep.Combinations))
	for i, combo := range rep.Combinations {
		combo.Results = append([]trial.Result(nil), combo.Results...)
		for j := range combo.Results {
			combo.Results[j].TrainStats = finiteStats(combo.Results[j].TrainStats)
			combo.Results[j].TestStats = finiteStats(combo.Results[j].TestStats)
		}
		out.Combinations[i] = combo
	}
	return &out
}

func finiteStats(s trial.Stats) trial.Stats {
	if s == nil {
		return nil
	}
	out := make(trial.Stats, len(s))
	for k, v := range s {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// writeTrials emits rows in combination order, then by result name.
func writeTrials(path string, rep *search.Report, cache *results.Cache) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "key", "index", "value"}); err != nil {
		return err
	}

	names := cache.Names()
	all := make(map[string]map[grid.Key][]float64, len(names))
	for _, name := range names {
		all[name] = cache.All(name)
	}

	for _, combo := range rep.Combinations {
		for _, name := range names {
			for i, v := range all[name][combo.Key] {
				row := []string{
					name,
					string(combo.Key),
					strconv.Itoa(i),
					strconv.FormatFloat(v, 'f', 6, 64),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
