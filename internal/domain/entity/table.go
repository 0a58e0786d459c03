package entity

import (
	"github.com/shopspring/decimal"
)

// Cell is one value of the working table.
// Text is the content read from the spreadsheet; Quote is set only by reconciliation.
type Cell struct {
	Text  string
	Quote decimal.NullDecimal
}

// Empty reports whether the cell holds neither loaded text nor a quote
func (c Cell) Empty() bool {
	return c.Text == "" && !c.Quote.Valid
}

// String renders the cell the way it would appear in the sheet
func (c Cell) String() string {
	if c.Quote.Valid {
		return c.Quote.Decimal.String()
	}
	return c.Text
}

// Row is one spreadsheet row; Line is its 1-based row number in the sheet (0 for new tables)
type Row struct {
	Line  int
	Cells []Cell
}

// Key returns the first-column value of the row
func (r Row) Key() string {
	if len(r.Cells) == 0 {
		return ""
	}
	return r.Cells[0].Text
}

// Table is the in-memory working copy of a spreadsheet.
// Columns only ever grow while a table is reconciled.
type Table struct {
	// Source is the file the table was loaded from, empty for tables built in memory
	Source string
	// Sheet is the worksheet name the table maps to
	Sheet   string
	Columns []string
	Rows    []Row
	// LoadedWidth is the number of columns present when the table was loaded
	LoadedWidth int
}

// NewTable builds a table from a header and string rows, padding short rows
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{
		Columns:     append([]string(nil), columns...),
		LoadedWidth: len(columns),
	}

	for i, values := range rows {
		width := len(values)
		if width > len(t.Columns) {
			width = len(t.Columns)
		}
		cells := make([]Cell, len(t.Columns))
		for j := 0; j < width; j++ {
			cells[j].Text = values[j]
		}
		t.Rows = append(t.Rows, Row{Line: i + 2, Cells: cells})
	}

	return t
}

// ColumnIndex returns the index of the first column named name, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AddColumn appends a column with an empty cell in every row and returns its index
func (t *Table) AddColumn(name string) int {
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i].Cells = append(t.Rows[i].Cells, Cell{})
	}
	return len(t.Columns) - 1
}

// RowsWithKey returns the indexes of rows whose first column equals key exactly
func (t *Table) RowsWithKey(key string) []int {
	var idx []int
	for i, r := range t.Rows {
		if r.Key() == key {
			idx = append(idx, i)
		}
	}
	return idx
}

// SetQuote writes a bid into the given cell
func (t *Table) SetQuote(row, col int, bid decimal.Decimal) {
	t.Rows[row].Cells[col].Quote = decimal.NewNullDecimal(bid)
}

// Cell returns the cell at row/col, or an empty cell when out of range
func (t *Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row].Cells) {
		return Cell{}
	}
	return t.Rows[row].Cells[col]
}

// Currencies returns the distinct non-empty first-column values in order of first appearance
func (t *Table) Currencies() []string {
	seen := make(map[string]struct{}, len(t.Rows))
	var codes []string

	for _, r := range t.Rows {
		code := r.Key()
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	return codes
}

// AddedColumns returns the names of the columns appended after loading
func (t *Table) AddedColumns() []string {
	if t.LoadedWidth >= len(t.Columns) {
		return nil
	}
	return append([]string(nil), t.Columns[t.LoadedWidth:]...)
}
