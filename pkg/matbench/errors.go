package matbench

import "errors"

// Usage errors: the caller invoked an operation in the wrong state or with
// an out-of-range fold number.
var (
	// ErrNotLoaded indicates a data operation on a task whose dataset has
	// not been loaded yet.
	ErrNotLoaded = errors.New("task dataset is not loaded")

	// ErrAlreadyLoaded indicates a second Load call on the same task.
	ErrAlreadyLoaded = errors.New("task dataset is already loaded")

	// ErrInvalidFold indicates a fold number outside 0..NumFolds-1.
	ErrInvalidFold = errors.New("fold number out of range")

	// ErrFoldNotRecorded indicates access to results of a fold that has not
	// been recorded.
	ErrFoldNotRecorded = errors.New("fold has no recorded result")
)

// Shape and type errors: recorded or ingested predictions do not match the
// expected test-fold layout.
var (
	// ErrShapeMismatch indicates a prediction count or identifier set that
	// differs from the fold's expected test identifiers.
	ErrShapeMismatch = errors.New("predictions do not match expected test indices")

	// ErrTypeMismatch indicates a prediction value whose type is wrong for
	// the task (numeric for regression, bool for classification).
	ErrTypeMismatch = errors.New("prediction type does not match task type")
)

// Document and registry errors.
var (
	// ErrMissingKey indicates a results document without a required
	// top-level or per-fold key.
	ErrMissingKey = errors.New("required document key is missing")

	// ErrUnknownDataset indicates a dataset name the registry does not know.
	ErrUnknownDataset = errors.New("dataset is not registered")

	// ErrInvalidSplits indicates fold splits that do not partition the
	// dataset's identifier set into near-equal disjoint folds.
	ErrInvalidSplits = errors.New("fold splits do not partition the dataset")
)
