package matbench

import "maps"

// FoldResult is the recorded outcome for a single fold: the predictions
// keyed by sample identifier, the parameters used to produce them, and the
// fold's computed scores. A result is created whole by Record and never
// mutated afterwards; re-recording a fold replaces the result.
type FoldResult struct {
	// Parameters is the open hyperparameter record supplied at record time.
	Parameters Params

	// Scores maps metric names to the fold's computed values.
	Scores map[string]float64

	// Data maps sample identifiers to predictions: float64 for regression
	// tasks, bool for classification tasks.
	Data map[string]any
}

// Prediction returns the recorded prediction for a sample identifier.
func (r *FoldResult) Prediction(id string) (any, bool) {
	v, ok := r.Data[id]
	return v, ok
}

// clone returns a deep-enough copy so callers cannot mutate recorded state
// through a returned result.
func (r *FoldResult) clone() *FoldResult {
	copied := &FoldResult{
		Parameters: r.Parameters.Clone(),
		Scores:     make(map[string]float64, len(r.Scores)),
		Data:       make(map[string]any, len(r.Data)),
	}
	maps.Copy(copied.Scores, r.Scores)
	maps.Copy(copied.Data, r.Data)
	return copied
}
