package trial

import (
	"context"
	"encoding/json"
	"time"

	"github.com/san-kum/gridsearch/internal/grid"
)

// Solution is the trainable object whose parameters are searched.
type Solution interface {
	// Parameters lists the names Apply accepts.
	Parameters() []string
	// Apply assigns every value of c to the solution.
	Apply(c grid.Choice) error
	// Iterations is the trial count per combination; values <= 0 mean 1.
	Iterations() int
}

type Dataset struct {
	Inputs [][]float64
	Labels []float64
}

type CaseData struct {
	Number      int
	Description string
	Train       Dataset
	Test        Dataset
}

type CaseProvider interface {
	CreateCaseData(ctx context.Context, iteration int) (*CaseData, error)
}

// Model is whatever a Trainer produces; the runner only hands it back to the
// StatsService.
type Model any

type TrainOutcome struct {
	Steps        int
	Elapsed      time.Duration
	RejectReason string
	Model        Model
}

type Trainer interface {
	Train(ctx context.Context, seed int64, sol Solution, data *CaseData) (TrainOutcome, error)
}

type Stats map[string]float64

type StatsService interface {
	ModelSize(m Model) int
	ModelStats(ctx context.Context, m Model, inputs [][]float64, labels []float64) (Stats, error)
}

type Evaluator interface {
	// Evaluate returns r with Accepted set.
	Evaluate(ctx context.Context, data *CaseData, r Result, verbose bool) (Result, error)
}

// Notifier receives human-facing progress notices.
type Notifier interface {
	Hint(msg string)
	Accepted(msg string)
	Rejected(msg string)
}

type NopNotifier struct{}

func (NopNotifier) Hint(string)     {}
func (NopNotifier) Accepted(string) {}
func (NopNotifier) Rejected(string) {}

// Result is one iteration of one combination.
type Result struct {
	Case         int           `json:"case"`
	Iteration    int           `json:"iteration"`
	Steps        int           `json:"step"`
	Time         time.Duration `json:"time"`
	RejectReason string        `json:"reject_reason,omitempty"`
	Size         int           `json:"size"`
	TrainStats   Stats         `json:"train_stat"`
	TestStats    Stats         `json:"test_stat"`
	Accepted     bool          `json:"accepted"`
	Description  string        `json:"description"`
}

// MarshalJSON writes Time in seconds, the unit of every other reported time.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		plain
		Time float64 `json:"time"`
	}{plain(r), r.Time.Seconds()})
}
