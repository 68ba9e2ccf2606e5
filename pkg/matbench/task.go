package matbench

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/noidvan/matbench/pkg/dataset"
	"github.com/noidvan/matbench/pkg/scoring"
)

// DefaultBenchmarkName is the benchmark version tag attached to tasks and
// their serialized documents unless overridden.
const DefaultBenchmarkName = "matbench_v0.1"

// ErrNilLoader indicates task construction without a dataset loader.
var ErrNilLoader = errors.New("task requires a dataset loader")

// Task owns one dataset's full table, its fixed fold assignments, and the
// per-fold recorded results. A task is created unloaded; Load fetches the
// table through the loader exactly once, and every data operation before
// that fails with ErrNotLoaded.
//
// A Task is not safe for concurrent use; each instance owns its state
// exclusively.
type Task struct {
	datasetName   string
	benchmarkName string
	meta          Metadata
	splits        FoldSplits
	loader        dataset.Loader
	logger        *slog.Logger

	table   *dataset.Table
	results [NumFolds]*FoldResult
}

// TaskOption configures optional task behavior.
type TaskOption func(*Task)

// WithLogger attaches a structured logger to the task. Without it the task
// is silent.
func WithLogger(logger *slog.Logger) TaskOption {
	return func(t *Task) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithBenchmarkName overrides the benchmark version tag.
func WithBenchmarkName(name string) TaskOption {
	return func(t *Task) {
		if name != "" {
			t.benchmarkName = name
		}
	}
}

// NewTask creates an unloaded task for a registered dataset. The registry
// supplies metadata and fold splits; the loader supplies the raw table at
// Load time.
func NewTask(reg *Registry, datasetName string, loader dataset.Loader, opts ...TaskOption) (*Task, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	meta, err := reg.Metadata(datasetName)
	if err != nil {
		return nil, err
	}
	splits, err := reg.Splits(datasetName)
	if err != nil {
		return nil, err
	}

	t := &Task{
		datasetName:   datasetName,
		benchmarkName: DefaultBenchmarkName,
		meta:          meta,
		splits:        splits,
		loader:        loader,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// DatasetName returns the dataset identifier this task wraps.
func (t *Task) DatasetName() string { return t.datasetName }

// BenchmarkName returns the benchmark version tag.
func (t *Task) BenchmarkName() string { return t.benchmarkName }

// Metadata returns the task's static metadata.
func (t *Task) Metadata() Metadata { return t.meta }

// Loaded reports whether the dataset table has been loaded.
func (t *Task) Loaded() bool { return t.table != nil }

// Folds returns the valid fold numbers in order.
func (t *Task) Folds() []int {
	folds := make([]int, NumFolds)
	for i := range folds {
		folds[i] = i
	}
	return folds
}

// Load fetches the dataset table through the loader and verifies it against
// the task's static metadata: row count, identifier coverage of the fold
// splits, and input types. Loading twice fails with ErrAlreadyLoaded.
func (t *Task) Load() error {
	if t.table != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyLoaded, t.datasetName)
	}

	tbl, err := t.loader.Load(t.datasetName, t.meta.TaskType.TargetKind())
	if err != nil {
		return fmt.Errorf("load dataset %q: %w", t.datasetName, err)
	}

	if tbl.Len() != t.meta.NumSamples {
		return fmt.Errorf("%w: dataset %q has %d rows, metadata declares %d",
			ErrShapeMismatch, t.datasetName, tbl.Len(), t.meta.NumSamples)
	}
	if err := t.splits.Validate(tbl.IDs()); err != nil {
		return fmt.Errorf("dataset %q: %w", t.datasetName, err)
	}
	if t.meta.InputType == InputComposition {
		for _, id := range tbl.IDs() {
			v, _ := tbl.Input(id)
			if _, ok := v.(string); !ok {
				return fmt.Errorf("%w: sample %q input is %T, want composition string",
					ErrTypeMismatch, id, v)
			}
		}
	}

	t.table = tbl
	t.logger.Info("dataset loaded",
		"dataset", t.datasetName,
		"rows", tbl.Len(),
		"task_type", string(t.meta.TaskType))
	return nil
}

// checkLoaded guards operations that need the dataset table.
func (t *Task) checkLoaded(op string) error {
	if t.table == nil {
		return fmt.Errorf("%w: call Load before %s", ErrNotLoaded, op)
	}
	return nil
}

// dataSelection carries optional train/validation data behavior.
type dataSelection struct {
	shuffle bool
	seed    int64
}

// DataOption configures GetTrainAndValData.
type DataOption func(*dataSelection)

// WithShuffleSeed shuffles the training rows deterministically: the same
// seed always yields the same order. Without this option rows keep their
// original table order.
func WithShuffleSeed(seed int64) DataOption {
	return func(s *dataSelection) {
		s.shuffle = true
		s.seed = seed
	}
}

// GetTrainAndValData returns the training/validation rows for a fold: the
// complement of the fold's test identifiers, as a table with inputs and
// targets, in original table order unless WithShuffleSeed is given.
func (t *Task) GetTrainAndValData(fold int, opts ...DataOption) (*dataset.Table, error) {
	if err := t.checkLoaded("GetTrainAndValData"); err != nil {
		return nil, err
	}
	testIDs, err := t.splits.TestIDs(fold)
	if err != nil {
		return nil, err
	}

	train, err := t.table.Without(testIDs)
	if err != nil {
		return nil, fmt.Errorf("fold %d train split: %w", fold, err)
	}

	var sel dataSelection
	for _, opt := range opts {
		opt(&sel)
	}
	if sel.shuffle {
		train = train.Shuffled(sel.seed)
	}
	return train, nil
}

// GetTestData returns the fold's held-out rows in split order. When
// includeTarget is false the target column is withheld so predictions are
// produced blind.
func (t *Task) GetTestData(fold int, includeTarget bool) (*dataset.Table, error) {
	if err := t.checkLoaded("GetTestData"); err != nil {
		return nil, err
	}
	testIDs, err := t.splits.TestIDs(fold)
	if err != nil {
		return nil, err
	}

	test, err := t.table.Subset(testIDs)
	if err != nil {
		return nil, fmt.Errorf("fold %d test split: %w", fold, err)
	}
	if !includeTarget {
		test = test.WithoutTargets()
	}
	return test, nil
}

// Record validates and stores the predictions for a fold, then computes the
// fold's scores. Predictions must match the test fold's identifier order
// and length exactly, and every value must be numeric for regression tasks
// or bool for classification tasks. The call either fully succeeds or
// leaves the task unchanged; recording the same fold again replaces the
// previous result.
func (t *Task) Record(fold int, predictions []any, params Params) error {
	if err := t.checkLoaded("Record"); err != nil {
		return err
	}
	testIDs, err := t.splits.TestIDs(fold)
	if err != nil {
		return err
	}
	if len(predictions) != len(testIDs) {
		return fmt.Errorf("%w: fold %d expects %d predictions, got %d",
			ErrShapeMismatch, fold, len(testIDs), len(predictions))
	}

	kind := t.meta.TaskType.TargetKind()
	data := make(map[string]any, len(testIDs))
	coerced := make([]any, len(testIDs))
	for i, p := range predictions {
		v, err := dataset.CoerceTarget(p, kind)
		if err != nil {
			return fmt.Errorf("%w: prediction %d for sample %q: %v",
				ErrTypeMismatch, i, testIDs[i], err)
		}
		coerced[i] = v
		data[testIDs[i]] = v
	}

	scores, err := t.scoreFold(testIDs, coerced, kind)
	if err != nil {
		return fmt.Errorf("score fold %d: %w", fold, err)
	}

	t.results[fold] = &FoldResult{
		Parameters: params.Clone(),
		Scores:     scores,
		Data:       data,
	}
	t.logger.Info("fold recorded",
		"dataset", t.datasetName, "fold", fold, "predictions", len(data))
	return nil
}

// scoreFold matches predictions with ground truth by identifier and
// computes the task-type metric set.
func (t *Task) scoreFold(testIDs []string, predictions []any, kind dataset.TargetKind) (map[string]float64, error) {
	switch kind {
	case dataset.TargetBoolean:
		yTrue := make([]bool, len(testIDs))
		yPred := make([]bool, len(testIDs))
		for i, id := range testIDs {
			truth, _ := t.table.Target(id)
			yTrue[i] = truth.(bool)
			yPred[i] = predictions[i].(bool)
		}
		return scoring.Classification(yTrue, yPred)
	default:
		yTrue := make([]float64, len(testIDs))
		yPred := make([]float64, len(testIDs))
		for i, id := range testIDs {
			truth, _ := t.table.Target(id)
			yTrue[i] = truth.(float64)
			yPred[i] = predictions[i].(float64)
		}
		return scoring.Regression(yTrue, yPred)
	}
}

// Result returns a copy of the recorded result for a fold.
func (t *Task) Result(fold int) (*FoldResult, error) {
	if fold < 0 || fold >= NumFolds {
		return nil, fmt.Errorf("%w: %d (valid folds are 0-%d)", ErrInvalidFold, fold, NumFolds-1)
	}
	res := t.results[fold]
	if res == nil {
		return nil, fmt.Errorf("%w: fold %d", ErrFoldNotRecorded, fold)
	}
	return res.clone(), nil
}

// AllFoldsRecorded reports whether every fold has a recorded result.
func (t *Task) AllFoldsRecorded() bool {
	for _, res := range t.results {
		if res == nil {
			return false
		}
	}
	return true
}

// Scores returns the per-metric cross-fold distributions (mean, max, min,
// std). The distributions are computed on demand from the current recorded
// state, never cached. Until every fold is recorded the call fails with
// ErrFoldNotRecorded.
func (t *Task) Scores() (map[string]scoring.Distribution, error) {
	perFold := make([]map[string]float64, 0, NumFolds)
	for fold, res := range t.results {
		if res == nil {
			return nil, fmt.Errorf("%w: fold %d", ErrFoldNotRecorded, fold)
		}
		perFold = append(perFold, res.Scores)
	}
	return scoring.AggregateByMetric(perFold)
}
