package dataset

import (
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	_ "github.com/mattn/go-sqlite3" // sqlite3 database/sql driver
)

// datasetTableName restricts dataset names to safe SQL identifiers.
var datasetTableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLLoader reads dataset tables from a SQLite database. Each dataset lives
// in a table of the same name with columns (mbid TEXT, input TEXT, target);
// rows are served in rowid order so identifier order is stable.
type SQLLoader struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens a SQLite database file for use with NewSQLLoader.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}
	return db, nil
}

// NewSQLLoader creates a loader over an open database handle. A nil logger
// disables logging. The loader does not close the handle.
func NewSQLLoader(db *sql.DB, logger *slog.Logger) *SQLLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLLoader{db: db, logger: logger}
}

// Load reads the named dataset table.
func (l *SQLLoader) Load(name string, kind TargetKind) (*Table, error) {
	if !datasetTableName.MatchString(name) {
		return nil, fmt.Errorf("%w: invalid dataset name %q", ErrUnknownDataset, name)
	}

	query := fmt.Sprintf(`SELECT mbid, input, target FROM %q ORDER BY rowid`, name)
	rows, err := l.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (%v)", ErrUnknownDataset, name, err)
	}
	defer rows.Close()

	var (
		ids     []string
		inputs  []any
		targets []any
	)
	for rows.Next() {
		var (
			id     string
			input  any
			target any
		)
		if err := rows.Scan(&id, &input, &target); err != nil {
			return nil, fmt.Errorf("scan dataset %q: %w", name, err)
		}
		coerced, err := coerceSQLTarget(target, kind)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", id, err)
		}
		ids = append(ids, id)
		inputs = append(inputs, normalizeSQLInput(input))
		targets = append(targets, coerced)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read dataset %q: %w", name, err)
	}

	tbl, err := NewTable(ids, inputs, targets)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", name, err)
	}
	l.logger.Info("dataset loaded from sqlite", "dataset", name, "rows", tbl.Len())
	return tbl, nil
}

// normalizeSQLInput converts driver byte slices to strings; other values
// pass through unchanged.
func normalizeSQLInput(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// coerceSQLTarget maps SQLite storage classes onto target kinds. Boolean
// targets are stored as INTEGER 0/1.
func coerceSQLTarget(v any, kind TargetKind) (any, error) {
	if kind == TargetBoolean {
		switch x := v.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		default:
			return nil, fmt.Errorf("%w: got %T, want bool", ErrTargetType, v)
		}
	}
	return CoerceTarget(v, kind)
}
