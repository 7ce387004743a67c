package trial

import "fmt"

// Stages reported by IterationError.
const (
	StageApply    = "apply"
	StageCase     = "case"
	StageTrain    = "train"
	StageStats    = "stats"
	StageEvaluate = "evaluate"
)

// IterationError wraps a collaborator failure with the iteration it hit.
type IterationError struct {
	Iteration int
	Stage     string
	Err       error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("iteration %d: %s: %v", e.Iteration, e.Stage, e.Err)
}

func (e *IterationError) Unwrap() error {
	return e.Err
}
