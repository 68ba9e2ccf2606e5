package matbench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noidvan/matbench/pkg/dataset"
)

// NumFolds is the fixed number of cross-validation folds.
const NumFolds = 5

// TaskType distinguishes regression from classification tasks.
type TaskType string

const (
	// TaskTypeRegression marks tasks with a continuous numeric target.
	TaskTypeRegression TaskType = "regression"

	// TaskTypeClassification marks tasks with a boolean target.
	TaskTypeClassification TaskType = "classification"
)

// TargetKind maps the task type onto the dataset target kind.
func (t TaskType) TargetKind() dataset.TargetKind {
	if t == TaskTypeClassification {
		return dataset.TargetBoolean
	}
	return dataset.TargetContinuous
}

// InputType distinguishes composition-string inputs from full structure
// records.
type InputType string

const (
	// InputComposition marks tasks whose input is a chemical formula string.
	InputComposition InputType = "composition"

	// InputStructure marks tasks whose input is a crystallographic record.
	// Structure records are carried as opaque values; the harness never
	// interprets them.
	InputStructure InputType = "structure"
)

// Metadata is the static description of one benchmark dataset. It is
// sourced externally (from the registry) and immutable at runtime.
type Metadata struct {
	// TaskType selects the prediction target semantics and the metric set.
	TaskType TaskType `json:"task_type" yaml:"task_type" validate:"required,oneof=regression classification"`

	// InputType names the kind of value in the input column.
	InputType InputType `json:"input_type" yaml:"input_type" validate:"required,oneof=composition structure"`

	// Target is the name of the target column.
	Target string `json:"target" yaml:"target" validate:"required"`

	// NumSamples is the expected row count of the full dataset table.
	NumSamples int `json:"n_samples" yaml:"n_samples" validate:"required,min=1"`

	// Unit is the physical unit of the target, when one applies.
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`

	// Description is a short human-readable summary of the dataset.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Reference cites the origin of the dataset.
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// Validate checks the metadata against its structural constraints.
func (m Metadata) Validate() error { return validate.Struct(m) }

// Describe returns a human-readable one-paragraph summary of the task.
func (m Metadata) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s task predicting %q from %s inputs over %d samples",
		m.TaskType, m.Target, m.InputType, m.NumSamples)
	if m.Unit != "" {
		fmt.Fprintf(&b, " (target unit: %s)", m.Unit)
	}
	if m.Description != "" {
		fmt.Fprintf(&b, ". %s", m.Description)
	}
	if m.Reference != "" {
		fmt.Fprintf(&b, ". Reference: %s", m.Reference)
	}
	return b.String()
}

// FoldKey returns the canonical name of a fold, e.g. "fold_0".
func FoldKey(fold int) string { return fmt.Sprintf("fold_%d", fold) }

// FoldKeys returns the canonical fold names in order.
func FoldKeys() []string {
	keys := make([]string, NumFolds)
	for i := range keys {
		keys[i] = FoldKey(i)
	}
	return keys
}

// FoldSplits holds the fixed per-fold test identifier lists. The splits are
// static metadata: they are persisted alongside the dataset description and
// never recomputed at runtime. Training rows for a fold are the complement
// of its test list.
type FoldSplits [NumFolds][]string

// NewFoldSplits partitions ids into NumFolds contiguous test folds. Sizes
// differ by at most one, with the remainder going to the earlier folds, so
// every fold holds either ceil(n/5) or ceil(n/5)-1 identifiers.
func NewFoldSplits(ids []string) FoldSplits {
	var splits FoldSplits
	n := len(ids)
	base := n / NumFolds
	rem := n % NumFolds

	start := 0
	for fold := 0; fold < NumFolds; fold++ {
		size := base
		if fold < rem {
			size++
		}
		splits[fold] = append([]string(nil), ids[start:start+size]...)
		start += size
	}
	return splits
}

// TestIDs returns a copy of the fold's test identifier list.
func (s FoldSplits) TestIDs(fold int) ([]string, error) {
	if fold < 0 || fold >= NumFolds {
		return nil, fmt.Errorf("%w: %d (valid folds are 0-%d)", ErrInvalidFold, fold, NumFolds-1)
	}
	return append([]string(nil), s[fold]...), nil
}

// Total returns the summed size of all test folds.
func (s FoldSplits) Total() int {
	var n int
	for _, fold := range s {
		n += len(fold)
	}
	return n
}

// Validate checks that the splits partition ids exactly: every identifier
// appears in exactly one test fold, no fold holds an unknown identifier,
// and fold sizes stay within the ceil(n/5) bound.
func (s FoldSplits) Validate(ids []string) error {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	upper := (len(ids) + NumFolds - 1) / NumFolds
	seen := make(map[string]int, len(ids))
	for fold, testIDs := range s {
		if len(testIDs) > upper || len(testIDs) < upper-1 {
			return fmt.Errorf("%w: fold %d has %d test ids, want %d or %d",
				ErrInvalidSplits, fold, len(testIDs), upper-1, upper)
		}
		for _, id := range testIDs {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("%w: %q appears in folds %d and %d",
					ErrInvalidSplits, id, prev, fold)
			}
			seen[id] = fold
			if _, ok := want[id]; !ok {
				return fmt.Errorf("%w: fold %d references unknown id %q",
					ErrInvalidSplits, fold, id)
			}
		}
	}
	if len(seen) != len(want) {
		for id := range want {
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("%w: id %q is missing from all test folds",
					ErrInvalidSplits, id)
			}
		}
	}
	return nil
}

// registryEntry pairs a dataset's metadata with its fold splits.
type registryEntry struct {
	meta   Metadata
	splits FoldSplits
}

// Registry maps dataset names to their static metadata and validation
// splits. Entries are externally supplied, either programmatically via
// Register or from a registry document via LoadRegistry.
type Registry struct {
	entries map[string]registryEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// Register adds a dataset after validating its metadata and checking the
// splits are internally consistent with the declared sample count.
// Registering an existing name replaces the entry.
func (r *Registry) Register(name string, meta Metadata, splits FoldSplits) error {
	if name == "" {
		return fmt.Errorf("%w: empty dataset name", ErrUnknownDataset)
	}
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("dataset %q metadata: %w", name, err)
	}
	if total := splits.Total(); total != meta.NumSamples {
		return fmt.Errorf("%w: dataset %q splits cover %d ids, metadata declares %d samples",
			ErrInvalidSplits, name, total, meta.NumSamples)
	}

	ids := make([]string, 0, meta.NumSamples)
	for _, fold := range splits {
		ids = append(ids, fold...)
	}
	if err := splits.Validate(ids); err != nil {
		return fmt.Errorf("dataset %q: %w", name, err)
	}

	r.entries[name] = registryEntry{meta: meta, splits: splits}
	return nil
}

// Metadata returns the metadata for a registered dataset.
func (r *Registry) Metadata(name string) (Metadata, error) {
	entry, ok := r.entries[name]
	if !ok {
		return Metadata{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return entry.meta, nil
}

// Splits returns the fold splits for a registered dataset.
func (r *Registry) Splits(name string) (FoldSplits, error) {
	entry, ok := r.entries[name]
	if !ok {
		return FoldSplits{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}

	var copied FoldSplits
	for i, fold := range entry.splits {
		copied[i] = append([]string(nil), fold...)
	}
	return copied, nil
}

// Names returns the registered dataset names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// registryEntryDoc is the on-disk registry layout for one dataset.
type registryEntryDoc struct {
	Metadata Metadata            `json:"metadata" yaml:"metadata"`
	Splits   map[string][]string `json:"splits" yaml:"splits"`
}

// LoadRegistry reads a registry document mapping dataset names to metadata
// and per-fold test identifier lists. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON. Every entry is validated before
// the registry is returned.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %q: %w", path, err)
	}

	docs := make(map[string]registryEntryDoc)
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &docs)
	default:
		err = json.Unmarshal(raw, &docs)
	}
	if err != nil {
		return nil, fmt.Errorf("parse registry %q: %w", path, err)
	}

	reg := NewRegistry()
	for name, doc := range docs {
		var splits FoldSplits
		for fold := 0; fold < NumFolds; fold++ {
			testIDs, ok := doc.Splits[FoldKey(fold)]
			if !ok {
				return nil, fmt.Errorf("%w: dataset %q splits lack %q",
					ErrMissingKey, name, FoldKey(fold))
			}
			splits[fold] = testIDs
		}
		if err := reg.Register(name, doc.Metadata, splits); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
