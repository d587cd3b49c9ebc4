package models

import "database/sql"

// Table is a loaded input sheet: ordered column names and rows of cells.
// A cell with Valid=false is a missing value.
type Table struct {
	Columns []string
	Rows    [][]sql.NullString
}

// NewTable creates an empty table with the given header.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// AppendRow adds a row, padding short rows with missing cells and dropping
// cells beyond the header.
func (t *Table) AppendRow(cells []sql.NullString) {
	row := make([]sql.NullString, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// AppendStrings adds a row of raw text values, marking NA tokens as missing.
func (t *Table) AppendStrings(values ...string) {
	cells := make([]sql.NullString, len(values))
	for i, v := range values {
		cells[i] = Cell(v)
	}
	t.AppendRow(cells)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has a column with exactly this name.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns a copy of the named column's cells, or nil when absent.
func (t *Table) Column(name string) []sql.NullString {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]sql.NullString, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// Rename renames columns found in mapping; other columns keep their names.
func (t *Table) Rename(mapping map[string]string) {
	for i, c := range t.Columns {
		if to, ok := mapping[c]; ok {
			t.Columns[i] = to
		}
	}
}

// Clone returns a deep copy so callers can mutate it without touching t.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns...)
	out.Rows = make([][]sql.NullString, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]sql.NullString, len(row))
		copy(r, row)
		out.Rows[i] = r
	}
	return out
}

// naTokens are the values read as missing, matching the usual CSV tooling defaults.
var naTokens = map[string]struct{}{
	"":       {},
	"NA":     {},
	"N/A":    {},
	"n/a":    {},
	"NaN":    {},
	"nan":    {},
	"-NaN":   {},
	"-nan":   {},
	"NULL":   {},
	"null":   {},
	"None":   {},
	"#N/A":   {},
	"<NA>":   {},
	"#NA":    {},
	"1.#IND": {},
}

// Cell converts a raw text value into a cell, treating NA tokens as missing.
func Cell(v string) sql.NullString {
	if _, na := naTokens[v]; na {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
