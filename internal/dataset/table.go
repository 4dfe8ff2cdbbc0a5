// Package dataset defines the consolidated table model shared by the
// readers, validation checks, and exporter.
package dataset

import "errors"

// Dataset errors.
var (
	ErrNoRows = errors.New("no rows ingested from any spreadsheet")
)

// Row is one record together with its ingestion provenance. SourceFile and
// OriginalRow are set when the record is read and never change afterwards;
// they are the only way a diagnostic maps back to its origin.
type Row struct {
	SourceFile  string
	Cells       []Value
	OriginalRow int
}

// FileRows holds the records contributed by a single spreadsheet file, with
// provenance already tagged. Each row's cells align with Columns.
type FileRows struct {
	Source  string
	Columns []string
	Rows    []Row
}

// Table is the consolidated dataset: every row from every source file in
// file-then-row order, addressed by a dense internal index. Checks read and
// rewrite cells in place; rows are never removed.
type Table struct {
	index   map[string]int
	Columns []string
	Rows    []Row
}

// Build concatenates per-file row collections into one table. Columns are
// unioned across files in first-seen order; cells a file did not provide are
// null. Returns ErrNoRows when no file contributed any rows.
func Build(files []*FileRows) (*Table, error) {
	t := &Table{index: make(map[string]int)}

	for _, f := range files {
		for _, col := range f.Columns {
			t.addColumn(col)
		}
	}

	for _, f := range files {
		positions := make([]int, len(f.Columns))
		for j, col := range f.Columns {
			positions[j] = t.index[col]
		}

		for _, r := range f.Rows {
			cells := make([]Value, len(t.Columns))

			for j := range f.Columns {
				if j < len(r.Cells) {
					cells[positions[j]] = r.Cells[j]
				}
			}

			t.Rows = append(t.Rows, Row{
				SourceFile:  r.SourceFile,
				OriginalRow: r.OriginalRow,
				Cells:       cells,
			})
		}
	}

	if len(t.Rows) == 0 {
		return nil, ErrNoRows
	}

	return t, nil
}

func (t *Table) addColumn(name string) {
	if _, ok := t.index[name]; ok {
		return
	}

	t.index[name] = len(t.Columns)
	t.Columns = append(t.Columns, name)
}

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	idx, ok := t.index[name]

	return idx, ok
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Cell returns the value at (row, column index).
func (t *Table) Cell(row, col int) Value {
	return t.Rows[row].Cells[col]
}

// SetCell rewrites the value at (row, column index).
func (t *Table) SetCell(row, col int, v Value) {
	t.Rows[row].Cells[col] = v
}
