// Package eval implements the Result Table (C8) and the Query Evaluator
// (C7): spec §4.4 and §4.5.
package eval

import "strings"

// Table is a named-column relation: an ordered list of synonym (or
// synonym-attribute) column names plus a row set of matching cardinality
// (spec §4.4). Tables are linear values — callers that Merge a table
// should treat both operands as consumed.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewColumn builds a single-column table from a value set.
func NewColumn(column string, values []string) *Table {
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return &Table{Columns: []string{column}, Rows: rows}
}

// NewRows builds a multi-column table directly from rows.
func NewRows(columns []string, rows [][]string) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// Empty is the canonical zero-row, zero-column table: every Merge with it
// stays empty.
func Empty() *Table { return &Table{} }

// Unbound is the join identity: no columns, exactly one (empty) row, so
// merging it with anything returns the other operand unchanged. Used to
// seed an evaluator group before its first clause is merged in.
func Unbound() *Table { return &Table{Rows: [][]string{{}}} }

func (t *Table) IsEmpty() bool { return t == nil || len(t.Rows) == 0 }

func (t *Table) Contains(column string) bool {
	_, ok := t.ColIndex(column)
	return ok
}

func (t *Table) ColIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Merge performs a natural join on shared column names (cartesian product
// if none are shared). The result is empty iff either operand is empty or
// the join produces no matching tuples (spec §4.4 "merge").
func (t *Table) Merge(other *Table) *Table {
	if t.IsEmpty() || other.IsEmpty() {
		return Empty()
	}
	if len(t.Columns) == 0 {
		return other
	}
	if len(other.Columns) == 0 {
		return t
	}

	var sharedLeft, sharedRight []int
	for i, c := range t.Columns {
		if j, ok := other.ColIndex(c); ok {
			sharedLeft = append(sharedLeft, i)
			sharedRight = append(sharedRight, j)
		}
	}

	var extraRight []int
	for j, c := range other.Columns {
		if !contains(sharedRight, j) {
			extraRight = append(extraRight, j)
		}
		_ = c
	}

	outCols := append([]string{}, t.Columns...)
	for _, j := range extraRight {
		outCols = append(outCols, other.Columns[j])
	}

	if len(sharedLeft) == 0 {
		var outRows [][]string
		for _, lr := range t.Rows {
			for _, rr := range other.Rows {
				row := append([]string{}, lr...)
				for _, j := range extraRight {
					row = append(row, rr[j])
				}
				outRows = append(outRows, row)
			}
		}
		return &Table{Columns: outCols, Rows: outRows}
	}

	index := map[string][][]string{}
	for _, rr := range other.Rows {
		key := joinKey(rr, sharedRight)
		index[key] = append(index[key], rr)
	}

	var outRows [][]string
	for _, lr := range t.Rows {
		key := joinKey(lr, sharedLeft)
		for _, rr := range index[key] {
			row := append([]string{}, lr...)
			for _, j := range extraRight {
				row = append(row, rr[j])
			}
			outRows = append(outRows, row)
		}
	}
	return &Table{Columns: outCols, Rows: outRows}
}

// Project returns the rows restricted to the given columns, in that order,
// duplicates retained (spec §4.4 "project").
func (t *Table) Project(columns []string) [][]string {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, ok := t.ColIndex(c)
		if !ok {
			return nil
		}
		idx[i] = j
	}
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, len(idx))
		for k, j := range idx {
			row[k] = r[j]
		}
		out[i] = row
	}
	return out
}

// ProjectSet is Project with duplicate rows removed (spec §4.4
// "project_set").
func (t *Table) ProjectSet(columns []string) [][]string {
	rows := t.Project(columns)
	seen := map[string]bool{}
	var out [][]string
	for _, r := range rows {
		key := strings.Join(r, "\x00")
		if !seen[key] {
			seen[key] = true
			out = append(out, r)
		}
	}
	return out
}

// DropColumn removes a column and any rows become deduplicated by Compact
// afterward if the caller wants that.
func (t *Table) DropColumn(name string) *Table {
	j, ok := t.ColIndex(name)
	if !ok {
		return t
	}
	cols := append(append([]string{}, t.Columns[:j]...), t.Columns[j+1:]...)
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append(append([]string{}, r[:j]...), r[j+1:]...)
	}
	return &Table{Columns: cols, Rows: rows}
}

// WithDerivedColumn appends a column computed by mapping an existing
// column's values through f, without changing row count — used to project
// a synonym's attribute (e.g. a.procName) once the synonym's own column is
// already bound, so the attribute never needs its own join.
func (t *Table) WithDerivedColumn(base, newCol string, f func(string) string) *Table {
	j, ok := t.ColIndex(base)
	if !ok || t.Contains(newCol) {
		return t
	}
	cols := append(append([]string{}, t.Columns...), newCol)
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append(append([]string{}, r...), f(r[j]))
	}
	return &Table{Columns: cols, Rows: rows}
}

// Compact removes duplicate rows (spec §4.4 "compact").
func (t *Table) Compact() *Table {
	seen := map[string]bool{}
	var out [][]string
	for _, r := range t.Rows {
		key := strings.Join(r, "\x00")
		if !seen[key] {
			seen[key] = true
			out = append(out, r)
		}
	}
	return &Table{Columns: t.Columns, Rows: out}
}

func joinKey(row []string, idx []int) string {
	parts := make([]string, len(idx))
	for i, j := range idx {
		parts[i] = row[j]
	}
	return strings.Join(parts, "\x00")
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
