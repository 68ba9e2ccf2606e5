package matbench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/noidvan/matbench/pkg/dataset"
)

// Document tags identifying the serialized task schema. The values match
// the reference leaderboard format so documents interchange cleanly.
const (
	DocModule = "matbench.task"
	DocClass  = "MatbenchTask"
)

// Document is the serialized form of a task: schema tags, benchmark and
// dataset identifiers, and the per-fold recorded results.
type Document struct {
	Module        string                  `json:"@module" validate:"required"`
	Class         string                  `json:"@class" validate:"required"`
	BenchmarkName string                  `json:"benchmark_name" validate:"required"`
	DatasetName   string                  `json:"dataset_name" validate:"required"`
	Results       map[string]FoldDocument `json:"results" validate:"required"`
}

// FoldDocument is one fold's serialized results. All three mappings are
// required keys; an unrecorded fold carries empty (but present) mappings.
type FoldDocument struct {
	Parameters map[string]any     `json:"parameters"`
	Scores     map[string]float64 `json:"scores"`
	Data       map[string]any     `json:"data"`
}

// AsDocument serializes the task's recorded state. Every fold key is
// present; folds without a recorded result carry empty mappings.
func (t *Task) AsDocument() *Document {
	results := make(map[string]FoldDocument, NumFolds)
	for fold := 0; fold < NumFolds; fold++ {
		fd := FoldDocument{
			Parameters: map[string]any{},
			Scores:     map[string]float64{},
			Data:       map[string]any{},
		}
		if res := t.results[fold]; res != nil {
			copied := res.clone()
			if copied.Parameters != nil {
				fd.Parameters = copied.Parameters
			}
			fd.Scores = copied.Scores
			fd.Data = copied.Data
		}
		results[FoldKey(fold)] = fd
	}

	return &Document{
		Module:        DocModule,
		Class:         DocClass,
		BenchmarkName: t.benchmarkName,
		DatasetName:   t.datasetName,
		Results:       results,
	}
}

// ToFile writes the task's document as indented JSON. Paths ending in .xz
// are xz-compressed.
func (t *Task) ToFile(path string) error {
	raw, err := json.MarshalIndent(t.AsDocument(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task %q: %w", t.datasetName, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var xw *xz.Writer
	if strings.HasSuffix(path, ".xz") {
		xw, err = xz.NewWriter(f)
		if err != nil {
			return fmt.Errorf("compress %q: %w", path, err)
		}
		w = xw
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	if xw != nil {
		if err := xw.Close(); err != nil {
			return fmt.Errorf("finish %q: %w", path, err)
		}
	}
	return f.Close()
}

// FromDocument reconstructs a task from a serialized document. The document
// is validated against the registry's expectations before anything is
// recorded: required keys must be present (ErrMissingKey), each recorded
// fold's identifier set must equal the expected test identifiers exactly
// (ErrShapeMismatch), and every prediction must have the task's output type
// (ErrTypeMismatch). Scores are recomputed from the ingested predictions,
// so identical data reproduces identical scores.
func FromDocument(reg *Registry, loader dataset.Loader, doc *Document) (*Task, error) {
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingKey, err)
	}
	if doc.Module != DocModule || doc.Class != DocClass {
		return nil, fmt.Errorf("%w: document tagged %q/%q, want %q/%q",
			ErrShapeMismatch, doc.Module, doc.Class, DocModule, DocClass)
	}
	for key := range doc.Results {
		if !validFoldKey(key) {
			return nil, fmt.Errorf("%w: unexpected fold key %q", ErrShapeMismatch, key)
		}
	}

	task, err := NewTask(reg, doc.DatasetName, loader, WithBenchmarkName(doc.BenchmarkName))
	if err != nil {
		return nil, err
	}
	if err := task.Load(); err != nil {
		return nil, err
	}

	for fold := 0; fold < NumFolds; fold++ {
		fd, ok := doc.Results[FoldKey(fold)]
		if !ok {
			return nil, fmt.Errorf("%w: results lack %q", ErrMissingKey, FoldKey(fold))
		}
		if fd.Parameters == nil {
			return nil, fmt.Errorf("%w: %s lacks \"parameters\"", ErrMissingKey, FoldKey(fold))
		}
		if fd.Scores == nil {
			return nil, fmt.Errorf("%w: %s lacks \"scores\"", ErrMissingKey, FoldKey(fold))
		}
		if fd.Data == nil {
			return nil, fmt.Errorf("%w: %s lacks \"data\"", ErrMissingKey, FoldKey(fold))
		}
		if len(fd.Data) == 0 {
			// Fold was never recorded.
			continue
		}

		testIDs, err := task.splits.TestIDs(fold)
		if err != nil {
			return nil, err
		}
		predictions, err := orderedPredictions(fold, fd.Data, testIDs)
		if err != nil {
			return nil, err
		}
		if err := task.Record(fold, predictions, Params(fd.Parameters)); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// FromFile reads a document written by ToFile (optionally xz-compressed)
// and reconstructs the task.
func FromFile(reg *Registry, loader dataset.Loader, path string) (*Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompress %q: %w", path, err)
		}
		r = xr
	}

	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return FromDocument(reg, loader, &doc)
}

// orderedPredictions checks the predicted identifier set against the
// expected test identifiers and returns the predictions in test order.
func orderedPredictions(fold int, data map[string]any, testIDs []string) ([]any, error) {
	expected := make(map[string]struct{}, len(testIDs))
	for _, id := range testIDs {
		expected[id] = struct{}{}
	}
	for id := range data {
		if _, ok := expected[id]; !ok {
			return nil, fmt.Errorf("%w: fold %d data has unexpected id %q",
				ErrShapeMismatch, fold, id)
		}
	}

	predictions := make([]any, len(testIDs))
	for i, id := range testIDs {
		v, ok := data[id]
		if !ok {
			return nil, fmt.Errorf("%w: fold %d data lacks id %q",
				ErrShapeMismatch, fold, id)
		}
		predictions[i] = v
	}
	return predictions, nil
}

// validFoldKey reports whether key is one of the canonical fold names.
func validFoldKey(key string) bool {
	for fold := 0; fold < NumFolds; fold++ {
		if key == FoldKey(fold) {
			return true
		}
	}
	return false
}
