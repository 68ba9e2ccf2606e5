package dataset

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTable(t *testing.T, n int) *Table {
	t.Helper()
	ids := make([]string, n)
	inputs := make([]any, n)
	targets := make([]any, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("mb-test-%03d", i)
		inputs[i] = fmt.Sprintf("Fe%dO%d", i+1, i+2)
		targets[i] = float64(i) * 0.5
	}
	tbl, err := NewTable(ids, inputs, targets)
	require.NoError(t, err)
	return tbl
}

func TestNewTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		inputs  []any
		targets []any
		wantErr error
	}{
		{
			name:    "length mismatch inputs",
			ids:     []string{"a", "b"},
			inputs:  []any{"x"},
			targets: []any{1.0, 2.0},
			wantErr: ErrRowMismatch,
		},
		{
			name:    "length mismatch targets",
			ids:     []string{"a", "b"},
			inputs:  []any{"x", "y"},
			targets: []any{1.0},
			wantErr: ErrRowMismatch,
		},
		{
			name:    "duplicate id",
			ids:     []string{"a", "a"},
			inputs:  []any{"x", "y"},
			targets: []any{1.0, 2.0},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "empty id",
			ids:     []string{"a", ""},
			inputs:  []any{"x", "y"},
			targets: []any{1.0, 2.0},
			wantErr: ErrEmptyID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.ids, tt.inputs, tt.targets)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewTable_TargetlessTable(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b"}, []any{"x", "y"}, nil)
	require.NoError(t, err)

	assert.False(t, tbl.HasTargets())
	assert.Nil(t, tbl.Targets())
	_, ok := tbl.Target("a")
	assert.False(t, ok)
}

func TestTable_Lookups(t *testing.T) {
	tbl := makeTable(t, 10)

	assert.Equal(t, 10, tbl.Len())
	assert.True(t, tbl.Has("mb-test-003"))
	assert.False(t, tbl.Has("mb-test-999"))

	input, ok := tbl.Input("mb-test-003")
	require.True(t, ok)
	assert.Equal(t, "Fe4O5", input)

	target, ok := tbl.Target("mb-test-003")
	require.True(t, ok)
	assert.Equal(t, 1.5, target)
}

func TestTable_SubsetAndWithout_ReconstructTable(t *testing.T) {
	tbl := makeTable(t, 23)
	ids := tbl.IDs()
	test := ids[:5]

	sub, err := tbl.Subset(test)
	require.NoError(t, err)
	rest, err := tbl.Without(test)
	require.NoError(t, err)

	assert.Equal(t, 5, sub.Len())
	assert.Equal(t, 18, rest.Len())

	seen := make(map[string]int)
	for _, id := range append(sub.IDs(), rest.IDs()...) {
		seen[id]++
	}
	assert.Len(t, seen, 23)
	for id, count := range seen {
		assert.Equal(t, 1, count, "id %s appears more than once", id)
	}
}

func TestTable_Subset_UnknownID(t *testing.T) {
	tbl := makeTable(t, 5)

	_, err := tbl.Subset([]string{"mb-test-000", "nope"})
	assert.ErrorIs(t, err, ErrUnknownID)

	_, err = tbl.Without([]string{"nope"})
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestTable_Shuffled_Deterministic(t *testing.T) {
	tbl := makeTable(t, 60)

	first := tbl.Shuffled(1001)
	second := tbl.Shuffled(1001)
	other := tbl.Shuffled(42)

	assert.Equal(t, first.IDs(), second.IDs(), "same seed must reproduce the same order")
	assert.NotEqual(t, first.IDs(), other.IDs(), "different seeds must differ")
	assert.NotEqual(t, tbl.IDs(), first.IDs(), "shuffle must change the order")

	// Shuffling never mutates the receiver.
	assert.Equal(t, makeTable(t, 60).IDs(), tbl.IDs())

	// Rows stay aligned after shuffling.
	for _, id := range first.IDs() {
		want, _ := tbl.Target(id)
		got, _ := first.Target(id)
		assert.Equal(t, want, got)
	}
}

func TestCoerceTarget(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		kind    TargetKind
		want    any
		wantErr error
	}{
		{name: "float continuous", value: 1.5, kind: TargetContinuous, want: 1.5},
		{name: "int continuous", value: 3, kind: TargetContinuous, want: 3.0},
		{name: "int64 continuous", value: int64(4), kind: TargetContinuous, want: 4.0},
		{name: "float32 continuous", value: float32(2), kind: TargetContinuous, want: 2.0},
		{name: "bool continuous", value: true, kind: TargetContinuous, wantErr: ErrTargetType},
		{name: "string continuous", value: "not a number", kind: TargetContinuous, wantErr: ErrTargetType},
		{name: "bool boolean", value: true, kind: TargetBoolean, want: true},
		{name: "float boolean", value: 1.0, kind: TargetBoolean, wantErr: ErrTargetType},
		{name: "string boolean", value: "true", kind: TargetBoolean, wantErr: ErrTargetType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceTarget(tt.value, tt.kind)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
