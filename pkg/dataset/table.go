// Package dataset provides the in-memory table model for benchmark datasets
// and the loader collaborators that produce tables from external sources.
// A table is an immutable, ordered collection of samples keyed by unique
// identifiers, with one input column (a composition string or an opaque
// structure record) and one target column (float64 for regression tasks,
// bool for classification tasks).
package dataset

import (
	"errors"
	"fmt"
	"math/rand"
)

// Table and coercion errors.
var (
	// ErrRowMismatch indicates that the id, input, and target columns have
	// different lengths.
	ErrRowMismatch = errors.New("dataset: id, input, and target columns must have equal lengths")

	// ErrDuplicateID indicates that a sample identifier appears more than once.
	ErrDuplicateID = errors.New("dataset: duplicate sample identifier")

	// ErrEmptyID indicates an empty sample identifier.
	ErrEmptyID = errors.New("dataset: empty sample identifier")

	// ErrUnknownID indicates a lookup for an identifier the table does not contain.
	ErrUnknownID = errors.New("dataset: unknown sample identifier")

	// ErrTargetType indicates a target or prediction value whose type does not
	// match the requested target kind.
	ErrTargetType = errors.New("dataset: value type does not match target kind")
)

// TargetKind describes the value type of a table's target column.
type TargetKind int

const (
	// TargetContinuous marks a numeric target column (regression tasks).
	TargetContinuous TargetKind = iota

	// TargetBoolean marks a boolean target column (classification tasks).
	TargetBoolean
)

// String returns the human-readable name of the target kind.
func (k TargetKind) String() string {
	switch k {
	case TargetContinuous:
		return "continuous"
	case TargetBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// CoerceTarget normalizes v to the canonical Go type for the given kind:
// float64 for TargetContinuous, bool for TargetBoolean. Numeric values of
// any width are accepted for continuous targets; everything else fails with
// ErrTargetType.
func CoerceTarget(v any, kind TargetKind) (any, error) {
	switch kind {
	case TargetBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: got %T, want bool", ErrTargetType, v)
		}
		return b, nil
	case TargetContinuous:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int:
			return float64(x), nil
		case int32:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case uint:
			return float64(x), nil
		default:
			return nil, fmt.Errorf("%w: got %T, want numeric", ErrTargetType, v)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported target kind %v", ErrTargetType, kind)
	}
}

// Table is an immutable ordered table of benchmark samples. Identifiers are
// unique and stable for the lifetime of the table; all derivation methods
// (Subset, Without, Shuffled, WithoutTargets) return new tables and never
// mutate the receiver.
//
// The target column may be absent, which models a blind test split whose
// ground truth is withheld.
type Table struct {
	ids     []string
	pos     map[string]int
	inputs  []any
	targets []any // nil when targets are withheld
}

// NewTable builds a table from parallel id, input, and target columns.
// targets may be nil to build an inputs-only table. The input slices are
// copied; later modification of the arguments does not affect the table.
func NewTable(ids []string, inputs, targets []any) (*Table, error) {
	if len(inputs) != len(ids) || (targets != nil && len(targets) != len(ids)) {
		return nil, fmt.Errorf("%w: %d ids, %d inputs, %d targets",
			ErrRowMismatch, len(ids), len(inputs), len(targets))
	}

	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: row %d", ErrEmptyID, i)
		}
		if _, exists := pos[id]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		pos[id] = i
	}

	t := &Table{
		ids:    append([]string(nil), ids...),
		pos:    pos,
		inputs: append([]any(nil), inputs...),
	}
	if targets != nil {
		t.targets = append([]any(nil), targets...)
	}
	return t, nil
}

// Len returns the number of samples in the table.
func (t *Table) Len() int { return len(t.ids) }

// HasTargets reports whether the table carries a target column.
func (t *Table) HasTargets() bool { return t.targets != nil }

// IDs returns the sample identifiers in table order. The returned slice is
// a copy.
func (t *Table) IDs() []string { return append([]string(nil), t.ids...) }

// Has reports whether the table contains the given identifier.
func (t *Table) Has(id string) bool {
	_, ok := t.pos[id]
	return ok
}

// Input returns the input value for the given identifier.
func (t *Table) Input(id string) (any, bool) {
	i, ok := t.pos[id]
	if !ok {
		return nil, false
	}
	return t.inputs[i], true
}

// Target returns the target value for the given identifier. The second
// return is false for unknown identifiers and for tables without targets.
func (t *Table) Target(id string) (any, bool) {
	i, ok := t.pos[id]
	if !ok || t.targets == nil {
		return nil, false
	}
	return t.targets[i], true
}

// Inputs returns the input column in table order. The returned slice is a copy.
func (t *Table) Inputs() []any { return append([]any(nil), t.inputs...) }

// Targets returns the target column in table order, or nil when targets are
// withheld. The returned slice is a copy.
func (t *Table) Targets() []any {
	if t.targets == nil {
		return nil
	}
	return append([]any(nil), t.targets...)
}

// Subset returns a new table containing exactly the given identifiers, in
// the given order. Unknown identifiers fail with ErrUnknownID.
func (t *Table) Subset(ids []string) (*Table, error) {
	inputs := make([]any, len(ids))
	var targets []any
	if t.targets != nil {
		targets = make([]any, len(ids))
	}
	for i, id := range ids {
		j, ok := t.pos[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownID, id)
		}
		inputs[i] = t.inputs[j]
		if targets != nil {
			targets[i] = t.targets[j]
		}
	}
	return NewTable(ids, inputs, targets)
}

// Without returns a new table containing every sample except the given
// identifiers, preserving table order. Unknown identifiers fail with
// ErrUnknownID.
func (t *Table) Without(ids []string) (*Table, error) {
	excluded := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := t.pos[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownID, id)
		}
		excluded[id] = struct{}{}
	}

	kept := make([]string, 0, len(t.ids)-len(excluded))
	for _, id := range t.ids {
		if _, skip := excluded[id]; !skip {
			kept = append(kept, id)
		}
	}
	return t.Subset(kept)
}

// Shuffled returns a new table with the same samples in a deterministic
// pseudo-random order derived from seed. Equal seeds produce equal orders.
func (t *Table) Shuffled(seed int64) *Table {
	ids := t.IDs()
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	shuffled, err := t.Subset(ids)
	if err != nil {
		// Unreachable: ids is a permutation of the table's own identifiers.
		panic(err)
	}
	return shuffled
}

// WithoutTargets returns a copy of the table with the target column withheld.
func (t *Table) WithoutTargets() *Table {
	stripped, err := NewTable(t.ids, t.inputs, nil)
	if err != nil {
		// Unreachable: the receiver already passed NewTable validation.
		panic(err)
	}
	return stripped
}
