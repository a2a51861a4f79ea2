// Package table provides the in-memory tabular dataset that survey exports
// are loaded into and column rules operate on.
//
// A Table is an ordered list of named columns, each backed by a value slice
// of the same length. Column names are unique at any instant; a name index
// is rebuilt after every structural change so lookups stay O(1).
//
// Cells are plain Go values: string, int64, float64, bool, or nil for an
// empty cell. The package never interprets them beyond what callers ask for.
package table

import (
	"errors"
	"fmt"
)

// Value is a single cell. nil means empty.
type Value = any

var (
	// ErrDuplicateColumn is returned when an insert or rename would produce
	// two columns with the same name.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrPosition is returned for column positions outside the table.
	ErrPosition = errors.New("column position out of range")

	// ErrRowCount is returned when a column's length differs from the table's.
	ErrRowCount = errors.New("column length does not match row count")
)

// Column is a named vector of cells.
type Column struct {
	Name   string
	Values []Value
}

// Table is a mutable, column-oriented dataset. It is not safe for
// concurrent use; a single run owns it exclusively.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates an empty table with the given row count and no columns.
func New(rows int) *Table {
	if rows < 0 {
		rows = 0
	}
	return &Table{
		index: make(map[string]int),
		rows:  rows,
	}
}

// FromRecords builds a table whose columns follow names and whose rows come
// from records. Keys missing from a record become nil; keys not in names are
// ignored.
func FromRecords(names []string, records []map[string]Value) (*Table, error) {
	t := New(len(records))
	for _, name := range names {
		values := make([]Value, len(records))
		for i, rec := range records {
			values[i] = rec[name]
		}
		if err := t.Append(name, values); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column. The boolean reports
// whether it exists, so position 0 is never confused with "not found".
func (t *Table) Index(name string) (int, bool) {
	pos, ok := t.index[name]
	return pos, ok
}

// Has reports whether a column with this name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the column at pos, or nil if pos is out of range.
func (t *Table) Column(pos int) *Column {
	if pos < 0 || pos >= len(t.columns) {
		return nil
	}
	return t.columns[pos]
}

// Lookup returns the named column, or nil.
func (t *Table) Lookup(name string) *Column {
	pos, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.columns[pos]
}

// Row returns a copy of row i across all columns.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Append adds a column at the right edge.
func (t *Table) Append(name string, values []Value) error {
	return t.Insert(len(t.columns), name, values)
}

// Insert places a new column at pos, shifting later columns right. A nil
// values slice creates a column of empty cells.
func (t *Table) Insert(pos int, name string, values []Value) error {
	if pos < 0 || pos > len(t.columns) {
		return fmt.Errorf("insert %q at %d: %w", name, pos, ErrPosition)
	}
	if _, exists := t.index[name]; exists {
		return fmt.Errorf("insert %q: %w", name, ErrDuplicateColumn)
	}
	if values == nil {
		values = make([]Value, t.rows)
	}
	if len(values) != t.rows {
		return fmt.Errorf("insert %q: %w (%d != %d)", name, ErrRowCount, len(values), t.rows)
	}

	t.columns = append(t.columns, nil)
	copy(t.columns[pos+1:], t.columns[pos:])
	t.columns[pos] = &Column{Name: name, Values: values}
	t.reindex()
	return nil
}

// Fill returns a column-sized slice with every cell set to v.
func (t *Table) Fill(v Value) []Value {
	values := make([]Value, t.rows)
	for i := range values {
		values[i] = v
	}
	return values
}

// RemoveRange removes the inclusive column span [from, to] and returns the
// removed columns in order. Later columns shift left to close the gap.
func (t *Table) RemoveRange(from, to int) ([]*Column, error) {
	if from < 0 || to >= len(t.columns) || from > to {
		return nil, fmt.Errorf("remove [%d, %d] of %d columns: %w", from, to, len(t.columns), ErrPosition)
	}

	removed := make([]*Column, to-from+1)
	copy(removed, t.columns[from:to+1])

	t.columns = append(t.columns[:from], t.columns[to+1:]...)
	t.reindex()
	return removed, nil
}

// Rename changes a column's name in place. It reports false without error
// when oldName does not exist.
func (t *Table) Rename(oldName, newName string) (bool, error) {
	pos, ok := t.index[oldName]
	if !ok {
		return false, nil
	}
	if oldName == newName {
		return true, nil
	}
	if _, exists := t.index[newName]; exists {
		return false, fmt.Errorf("rename %q to %q: %w", oldName, newName, ErrDuplicateColumn)
	}

	t.columns[pos].Name = newName
	delete(t.index, oldName)
	t.index[newName] = pos
	return true, nil
}

// MapStrings replaces every string cell with fn(cell). Other cell types are
// left untouched.
func (t *Table) MapStrings(fn func(string) string) {
	for _, c := range t.columns {
		for i, v := range c.Values {
			if s, ok := v.(string); ok {
				c.Values[i] = fn(s)
			}
		}
	}
}

func (t *Table) reindex() {
	clear(t.index)
	for i, c := range t.columns {
		t.index[c.Name] = i
	}
}
