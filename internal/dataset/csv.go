package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// TargetColumn holds the student outcome label.
const TargetColumn = "Target"

// ErrSchemaMismatch is returned when a required column is missing or has
// the wrong kind.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Column is a single named column. Numeric columns carry parsed values
// with NaN for empty cells.
type Column struct {
	Name    string
	Raw     []string
	Values  []float64
	Numeric bool
}

// Table is an immutable column-oriented feature table.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// LoadCSV reads a CSV file into a Table.
// The first row is treated as headers (column names).
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	t, err := NewTable(records[0], records[1:])
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	return t, nil
}

// NewTable builds a Table from a header and row-major records. A column is
// numeric when it has at least one non-empty cell and every non-empty cell
// parses as a float.
func NewTable(headers []string, records [][]string) (*Table, error) {
	t := &Table{
		index: make(map[string]int, len(headers)),
		rows:  len(records),
	}

	for j, h := range headers {
		name := strings.TrimSpace(h)
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		t.index[name] = j
		t.columns = append(t.columns, &Column{Name: name, Raw: make([]string, 0, len(records))})
	}

	for i, record := range records {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		for j, cell := range record {
			t.columns[j].Raw = append(t.columns[j].Raw, strings.TrimSpace(cell))
		}
	}

	for _, c := range t.columns {
		c.Values, c.Numeric = parseNumeric(c.Raw)
	}
	return t, nil
}

func parseNumeric(raw []string) ([]float64, bool) {
	values := make([]float64, len(raw))
	seen := false
	for i, cell := range raw {
		if cell == "" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
		seen = true
	}
	if !seen {
		return nil, false
	}
	return values, true
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the names of numeric columns in table order.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.columns {
		if c.Numeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require returns ErrSchemaMismatch naming every missing column.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, fmt.Sprintf("%q", n))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing column %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

// Numeric returns the parsed values of a numeric column. The returned slice
// is shared with the table and must not be modified.
func (t *Table) Numeric(name string) ([]float64, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if !c.Numeric {
		return nil, fmt.Errorf("%w: column %q is not numeric", ErrSchemaMismatch, name)
	}
	return c.Values, nil
}

// Strings returns the raw cell text of a column.
func (t *Table) Strings(name string) ([]string, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	return c.Raw, nil
}

// IsNumeric reports whether name exists and is numeric.
func (t *Table) IsNumeric(name string) bool {
	c, err := t.column(name)
	return err == nil && c.Numeric
}

// WithColumn returns a new Table with a numeric column appended, or replaced
// when name already exists. The receiver is left unchanged.
func (t *Table) WithColumn(name string, values []float64) (*Table, error) {
	if len(values) != t.rows {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}

	raw := make([]string, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			raw[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	col := &Column{Name: name, Raw: raw, Values: values, Numeric: true}

	out := &Table{
		columns: make([]*Column, len(t.columns), len(t.columns)+1),
		index:   make(map[string]int, len(t.index)+1),
		rows:    t.rows,
	}
	copy(out.columns, t.columns)
	for k, v := range t.index {
		out.index[k] = v
	}

	if j, ok := out.index[name]; ok {
		out.columns[j] = col
	} else {
		out.index[name] = len(out.columns)
		out.columns = append(out.columns, col)
	}
	return out, nil
}

func (t *Table) column(name string) (*Column, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrSchemaMismatch, name)
	}
	return t.columns[j], nil
}
