package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Loader errors.
var (
	// ErrUnknownDataset indicates that the loader has no data for the
	// requested dataset name.
	ErrUnknownDataset = errors.New("dataset: no such dataset")

	// ErrBadDocument indicates a dataset document whose shape does not match
	// the expected index/columns/data layout.
	ErrBadDocument = errors.New("dataset: malformed dataset document")
)

// Loader supplies raw dataset tables to task instances. Load returns the
// full table for the named dataset with targets normalized to the given
// kind (float64 for continuous, bool for boolean).
//
// Implementations must be deterministic: repeated loads of the same name
// return tables with identical identifier order and values.
type Loader interface {
	Load(name string, kind TargetKind) (*Table, error)
}

// StaticLoader serves tables from an in-memory map. Suitable for tests and
// for callers that embed their datasets.
type StaticLoader struct {
	tables map[string]*Table
}

// NewStaticLoader creates a loader over the given name-to-table map.
func NewStaticLoader(tables map[string]*Table) *StaticLoader {
	copied := make(map[string]*Table, len(tables))
	for name, tbl := range tables {
		copied[name] = tbl
	}
	return &StaticLoader{tables: copied}
}

// Load returns the named table with its targets normalized to kind, so
// downstream scoring sees canonical float64/bool values regardless of the
// numeric types the table was built with.
func (l *StaticLoader) Load(name string, kind TargetKind) (*Table, error) {
	tbl, ok := l.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	targets := make([]any, len(tbl.ids))
	for i, id := range tbl.ids {
		v, _ := tbl.Target(id)
		coerced, err := CoerceTarget(v, kind)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", id, err)
		}
		targets[i] = coerced
	}
	return NewTable(tbl.ids, tbl.inputs, targets)
}

// datasetDocument is the on-disk dataset layout: a split-oriented frame
// with an index column, two named columns, and row-major data.
type datasetDocument struct {
	Index   []string `json:"index"`
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

// FileLoader reads dataset documents from a directory. For a dataset named
// "matbench_steels" it tries "matbench_steels.json" and then
// "matbench_steels.json.xz" (xz-compressed JSON).
type FileLoader struct {
	dir    string
	logger *slog.Logger
}

// NewFileLoader creates a file loader rooted at dir. A nil logger disables
// logging.
func NewFileLoader(dir string, logger *slog.Logger) *FileLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileLoader{dir: dir, logger: logger}
}

// Load reads and decodes the named dataset document.
func (l *FileLoader) Load(name string, kind TargetKind) (*Table, error) {
	for _, suffix := range []string{".json", ".json.xz"} {
		path := filepath.Join(l.dir, name+suffix)
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open dataset %q: %w", name, err)
		}
		defer f.Close()

		var r io.Reader = f
		if strings.HasSuffix(path, ".xz") {
			xr, err := xz.NewReader(f)
			if err != nil {
				return nil, fmt.Errorf("decompress dataset %q: %w", name, err)
			}
			r = xr
		}

		tbl, err := decodeTable(r, kind)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", name, err)
		}
		l.logger.Info("dataset loaded from file",
			"dataset", name, "path", path, "rows", tbl.Len())
		return tbl, nil
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrUnknownDataset, name, l.dir)
}

// decodeTable parses a split-oriented dataset document into a Table,
// coercing the target column to kind.
func decodeTable(r io.Reader, kind TargetKind) (*Table, error) {
	var doc datasetDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if len(doc.Columns) != 2 {
		return nil, fmt.Errorf("%w: want 2 columns (input, target), got %d",
			ErrBadDocument, len(doc.Columns))
	}
	if len(doc.Data) != len(doc.Index) {
		return nil, fmt.Errorf("%w: %d index entries but %d data rows",
			ErrBadDocument, len(doc.Index), len(doc.Data))
	}

	inputs := make([]any, len(doc.Data))
	targets := make([]any, len(doc.Data))
	for i, row := range doc.Data {
		if len(row) != 2 {
			return nil, fmt.Errorf("%w: row %d has %d values, want 2",
				ErrBadDocument, i, len(row))
		}
		inputs[i] = row[0]
		coerced, err := CoerceTarget(row[1], kind)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", doc.Index[i], err)
		}
		targets[i] = coerced
	}
	return NewTable(doc.Index, inputs, targets)
}
