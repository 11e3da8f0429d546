package ficha

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Block is a body element of a Document.
type Block interface {
	block()
}

// Heading is a titled subdivision marker. Level 0 is the document title.
type Heading struct {
	Level int
	Text  string
	Role  StyleRole
}

// Paragraph is one or more lines sharing a role.
// Lines may themselves contain newlines; writers wrap to the content width.
type Paragraph struct {
	Role  StyleRole
	Lines []string
}

// Separator is a horizontal rule across the content width.
type Separator struct{}

// Spacer is one blank line in the height of Role.
type Spacer struct {
	Role StyleRole
}

func (Heading) block()   {}
func (Paragraph) block() {}
func (Separator) block() {}
func (Spacer) block()    {}
func (Table) block()     {}

// Span is a declarative cell region: rows [Row, RowEnd) × columns [Col, ColEnd).
type Span struct {
	Row, RowEnd int
	Col, ColEnd int
}

// Single returns the span of the cell at (row, col).
func Single(row, col int) Span {
	return Span{Row: row, RowEnd: row + 1, Col: col, ColEnd: col + 1}
}

// Rows returns the number of rows covered.
func (s Span) Rows() int { return s.RowEnd - s.Row }

// Cols returns the number of columns covered.
func (s Span) Cols() int { return s.ColEnd - s.Col }

// Image is an embedded raster image.
type Image struct {
	Name   string
	Type   string // "png", "jpg", "gif"
	Data   []byte
	Width  float64 // rendered width in millimetres
	Height float64 // rendered height in millimetres
}

// Cell is a table region holding text or an image.
// When Image is set, Text is its alternative text.
type Cell struct {
	Span  Span
	Role  StyleRole
	Text  string
	Image *Image
}

// Table is a bordered grid. Cells declare the region they cover.
// With RowHeight zero each row fits its content and spans must be 1×1.
type Table struct {
	Columns   []float64
	Rows      int
	RowHeight float64
	Cells     []Cell
}

// NewRowTable builds a table with one 1×1 cell per entry of rows.
func NewRowTable(columns []float64, rows ...[]Cell) Table {
	t := Table{Columns: columns, Rows: len(rows)}
	for r, row := range rows {
		for c, cell := range row {
			cell.Span = Single(r, c)
			t.Cells = append(t.Cells, cell)
		}
	}
	return t
}

// Width returns the total width of the table.
func (t Table) Width() float64 {
	w := 0.0
	for _, c := range t.Columns {
		w += c
	}
	return w
}

// RowCells returns the cells whose span starts on row, in column order.
func (t Table) RowCells(row int) []Cell {
	var out []Cell
	for _, c := range t.Cells {
		if c.Span.Row == row {
			out = append(out, c)
		}
	}
	return out
}

// At returns the cell covering (row, col).
func (t Table) At(row, col int) (Cell, bool) {
	for _, c := range t.Cells {
		s := c.Span
		if row >= s.Row && row < s.RowEnd && col >= s.Col && col < s.ColEnd {
			return c, true
		}
	}
	return Cell{}, false
}

// ColumnOffset returns the x offset of column col from the table's left edge.
func (t Table) ColumnOffset(col int) float64 {
	x := 0.0
	for i := 0; i < col; i++ {
		x += t.Columns[i]
	}
	return x
}

// SpanWidth returns the width covered by a span.
func (t Table) SpanWidth(s Span) float64 {
	return t.ColumnOffset(s.ColEnd) - t.ColumnOffset(s.Col)
}

// Validate checks that spans are in bounds and do not overlap.
func (t Table) Validate() error {
	if len(t.Columns) == 0 || t.Rows <= 0 {
		return fmt.Errorf("%w: table needs rows and columns", ErrInvalidSpan)
	}
	used := make([][]bool, t.Rows)
	for i := range used {
		used[i] = make([]bool, len(t.Columns))
	}
	for _, c := range t.Cells {
		s := c.Span
		if s.Row < 0 || s.Col < 0 || s.RowEnd > t.Rows || s.ColEnd > len(t.Columns) || s.Rows() < 1 || s.Cols() < 1 {
			return fmt.Errorf("%w: %+v outside %dx%d", ErrInvalidSpan, s, t.Rows, len(t.Columns))
		}
		if t.RowHeight == 0 && s.Rows() != 1 {
			return fmt.Errorf("%w: row span %+v needs a fixed row height", ErrInvalidSpan, s)
		}
		for r := s.Row; r < s.RowEnd; r++ {
			for col := s.Col; col < s.ColEnd; col++ {
				if used[r][col] {
					return fmt.Errorf("%w: %+v overlaps another cell", ErrInvalidSpan, s)
				}
				used[r][col] = true
			}
		}
	}
	return nil
}

// DocumentMeta is written into the output's metadata.
type DocumentMeta struct {
	Title   string
	Subject string
	Creator string
	Issued  time.Time
}

// Document is a paginated document ready for a writer.
// Header and Footer repeat on every page.
type Document struct {
	Spec   *LayoutSpec
	Meta   DocumentMeta
	Header Table
	Footer Paragraph
	Body   []Block
}

// WithPage returns a copy of t with the page tokens in cell text resolved.
func (t Table) WithPage(page, pages int) Table {
	r := strings.NewReplacer(PagesToken, strconv.Itoa(pages), PageToken, strconv.Itoa(page))
	out := t
	out.Cells = make([]Cell, len(t.Cells))
	for i, c := range t.Cells {
		c.Text = r.Replace(c.Text)
		out.Cells[i] = c
	}
	return out
}

// HasPageTotal reports whether any cell refers to the total page count.
func (t Table) HasPageTotal() bool {
	for _, c := range t.Cells {
		if strings.Contains(c.Text, PagesToken) {
			return true
		}
	}
	return false
}
