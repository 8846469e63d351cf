// Package dataset loads the exported headcount table and extracts the rows and columns the
// report is built from.
package dataset

import (
	"fmt"
	"strings"
)

// Row is one data record. Cells are positional against Table.Columns; rows shorter than the
// header are treated as having missing trailing cells.
type Row struct {
	Record int // 1-based record number in the source, header excluded
	Cells  []string
}

// Table is an in-memory view of the source file with named columns.
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// NewTable names the columns from header and indexes them. Empty header cells become
// "Unnamed: i" and repeated names get ".1", ".2", ... suffixes, so exports with blank
// leading header cells keep addressable columns.
func NewTable(header []string, rows []Row) *Table {
	t := &Table{Columns: make([]string, len(header)), Rows: rows, index: make(map[string]int, len(header))}
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			base := name
			for {
				name = fmt.Sprintf("%s.%d", base, seen[base])
				if _, taken := seen[name]; !taken {
					break
				}
				seen[base]++
			}
		}
		seen[name] = 0
		t.Columns[i] = name
		t.index[name] = i
	}
	return t
}

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// LatestPeriod is the rightmost column, which holds the most recent reporting period.
func (t *Table) LatestPeriod() string {
	if len(t.Columns) == 0 {
		return ""
	}
	return t.Columns[len(t.Columns)-1]
}

// Value returns the raw cell of row r in column name. ok is false when the column does not
// exist or the cell is missing or blank.
func (t *Table) Value(r Row, name string) (string, bool) {
	i, ok := t.index[name]
	if !ok || i >= len(r.Cells) {
		return "", false
	}
	v := strings.TrimSpace(r.Cells[i])
	if v == "" {
		return "", false
	}
	return r.Cells[i], true
}

// Filter returns the rows whose column value contains substr (case-sensitive). Missing or
// blank values never match. An unknown column or an empty result is a FilterError.
func (t *Table) Filter(column, substr string) ([]Row, error) {
	if _, ok := t.index[column]; !ok {
		return nil, &FilterError{Column: column, Msg: "not present in table"}
	}
	var out []Row
	for _, r := range t.Rows {
		v, ok := t.Value(r, column)
		if !ok {
			continue
		}
		if strings.Contains(v, substr) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, &FilterError{Column: column, Msg: fmt.Sprintf("no rows contain %q", substr)}
	}
	return out, nil
}
