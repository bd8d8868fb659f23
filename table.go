package scf

import "fmt"

// Table is a row-major grid of string cells with a header. Every row has
// exactly len(Columns) cells, empty cells denote missing values.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table from records, the first of which is the header.
// Short rows are padded with empty cells, cells beyond the header width
// are dropped.
func NewTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrInput)
	}

	t := &Table{
		Columns: append([]string{}, records[0]...),
		Rows:    make([][]string, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		t.Rows = append(t.Rows, t.normRow(rec))
	}
	return t, nil
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// Column returns the cells of the i-th column.
func (t *Table) Column(i int) []string {
	cells := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		cells[r] = row[i]
	}
	return cells
}

// Records returns the header followed by all rows.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Columns)
	return append(records, t.Rows...)
}

func (t *Table) normRow(rec []string) []string {
	row := make([]string, len(t.Columns))
	copy(row, rec)
	return row
}

// tableFromColumns zips decoded columns into rows.
func tableFromColumns(cols []Column, numRows int) *Table {
	t := &Table{
		Columns: make([]string, len(cols)),
		Rows:    make([][]string, numRows),
	}
	cells := make([][]string, len(cols))
	for i, c := range cols {
		t.Columns[i] = c.Name()
		cells[i] = c.Strings()
	}
	for r := range t.Rows {
		row := make([]string, len(cols))
		for i := range cols {
			row[i] = cells[i][r]
		}
		t.Rows[r] = row
	}
	return t
}
