// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package odm

import (
	"strconv"
	"strings"
	"time"
)

// Row maps a column name to a cell value. After catalog casting a cell is
// one of: string, float64, bool, time.Time, or nil for missing values.
type Row map[string]any

// Table is an ordered-column collection of rows belonging to one ODM table.
type Table struct {
	// Name is the ODM table name, e.g. "WWMeasure".
	Name    string
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given column order.
func NewTable(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column if it is not already declared.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	out := NewTable(t.Name, t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		dup := make(Row, len(row))
		for k, v := range row {
			dup[k] = v
		}
		out.Rows[i] = dup
	}
	return out
}

// DropColumns removes the named columns and their cells.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := t.Columns[:0]
	for _, c := range t.Columns {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	t.Columns = kept
	for _, row := range t.Rows {
		for n := range drop {
			delete(row, n)
		}
	}
}

// AddPrefix renames every column to prefix+name, as the combined per-sample
// table qualifies columns by their source table ("Sample.", "WWMeasure.").
func (t *Table) AddPrefix(prefix string) {
	renamed := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		renamed[i] = prefix + c
	}
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			if v, ok := row[c]; ok {
				delete(row, c)
				row[renamed[i]] = v
			}
		}
	}
	t.Columns = renamed
}

// RenameColumn renames a single column, preserving its position.
func (t *Table) RenameColumn(from, to string) {
	for i, c := range t.Columns {
		if c == from {
			t.Columns[i] = to
		}
	}
	for _, row := range t.Rows {
		if v, ok := row[from]; ok {
			delete(row, from)
			row[to] = v
		}
	}
}

// CellText renders a cell value as its canonical string form: RFC 3339 for
// timestamps, shortest representation for floats, empty string for nil.
func CellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case bool:
		return strconv.FormatBool(c)
	case float64:
		return strconv.FormatFloat(c, 'g', -1, 64)
	case int:
		return strconv.Itoa(c)
	case time.Time:
		return c.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// fingerprint builds a stable identity string for a row over the table's
// column order, used for de-duplication when tables are concatenated.
func (t *Table) fingerprint(row Row) string {
	var b strings.Builder
	for _, c := range t.Columns {
		b.WriteString(c)
		b.WriteByte('=')
		b.WriteString(CellText(row[c]))
		b.WriteByte('\x1f')
	}
	return b.String()
}
