package latex

import (
	"fmt"
	"strings"
)

const (
	columnSeparator = " & "
	rowTerminator   = ` \\`
)

// Tabular is a grid of cells. Rows may differ in length; the column
// specification is sized for the longest row and short rows are written
// as they are, without padding.
type Tabular struct {
	Rows [][]Node
}

// NewTabular builds a table from rows of cells.
func NewTabular(rows [][]Node) *Tabular {
	t := &Tabular{Rows: make([][]Node, 0, len(rows))}
	for _, r := range rows {
		t.AddRow(r...)
	}
	return t
}

// NewTabularRow builds a single-row table from a flat list of cells.
func NewTabularRow(cells []Node) *Tabular {
	return NewTabular([][]Node{cells})
}

// TabularOf builds a table from a grid of arbitrary values, each cell
// becoming the RawText of its fmt.Sprint form.
func TabularOf[T any](grid [][]T) *Tabular {
	rows := make([][]Node, 0, len(grid))
	for _, r := range grid {
		rows = append(rows, cellsOf(r))
	}
	return NewTabular(rows)
}

// TabularRowOf is the flat counterpart of TabularOf.
func TabularRowOf[T any](values []T) *Tabular {
	return NewTabularRow(cellsOf(values))
}

func cellsOf[T any](values []T) []Node {
	cells := make([]Node, 0, len(values))
	for _, v := range values {
		cells = append(cells, RawText(fmt.Sprint(v)))
	}
	return cells
}

func (*Tabular) Kind() Kind { return KindTabular }
func (*Tabular) node()      {}

// AddRow appends a row. The cells slice is copied.
func (t *Tabular) AddRow(cells ...Node) {
	row := make([]Node, len(cells))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Columns is the length of the longest row, or 1 for a table without
// cells.
func (t *Tabular) Columns() int {
	cols := 0
	for _, r := range t.Rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return 1
	}
	return cols
}

// ColumnSpec is the alignment argument of \begin{tabular}.
func (t *Tabular) ColumnSpec() string {
	return strings.TrimSpace(strings.Repeat("c ", t.Columns()))
}

func (t *Tabular) render(s Sink) error {
	if err := s.WriteLine(`\begin{tabular}{` + t.ColumnSpec() + "}"); err != nil {
		return err
	}
	var cell Buffer
	for i, row := range t.Rows {
		parts := make([]string, 0, len(row))
		for j, c := range row {
			cell.Reset()
			if err := Render(c, &cell); err != nil {
				return fmt.Errorf("tabular: row %d cell %d: %w", i, j, err)
			}
			parts = append(parts, strings.TrimRight(cell.String(), "\n"))
		}
		if err := s.WriteLine(strings.Join(parts, columnSeparator) + rowTerminator); err != nil {
			return err
		}
	}
	return s.WriteLine(`\end{tabular}`)
}
