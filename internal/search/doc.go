// Package search runs a combinatorial grid search over a trial.Solution.
//
// One combination is sampled, fully trialed and recorded before the next is
// sampled:
//
//	Sampling -> RunningCombo -> Accepted | Rejected -> Sampling ... -> Done
//
// The loop ends when every combination of the space has been sampled. The
// best combination is the accepted one with the lowest mean trial time; ties
// keep the earliest. A Report without Best means no combination was accepted.
//
// Rejections are normal outcomes. Errors from the trial collaborators abort
// the whole search and are returned unchanged in the chain.
//
// # Example
//
//	engine := &search.Engine{
//		Space:   space,
//		Sampler: grid.Sequential{},
//		Runner:  runner,
//	}
//	rep, err := engine.Run(ctx, solution)
//
// # Thread Safety
//
// An Engine mutates the solution in place and must not be shared between
// goroutines. Parallel searches need one solution and one cache per worker.
package search
