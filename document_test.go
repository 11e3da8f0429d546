package ficha

// Notes:
// - Table.Validate is the only guard between the layout engine and the
//   writers; every rejected shape below would otherwise draw overlapping
//   or out-of-page cells.

import (
	"errors"
	"testing"
)

func TestSpan(t *testing.T) {
	t.Parallel()

	s := Span{Row: 1, RowEnd: 3, Col: 0, ColEnd: 4}
	if s.Rows() != 2 || s.Cols() != 4 {
		t.Errorf("Rows/Cols = %d/%d, want 2/4", s.Rows(), s.Cols())
	}
	if got := Single(2, 3); got != (Span{Row: 2, RowEnd: 3, Col: 3, ColEnd: 4}) {
		t.Errorf("Single(2, 3) = %+v", got)
	}
}

func TestNewRowTable(t *testing.T) {
	t.Parallel()

	tbl := NewRowTable([]float64{10, 20, 30},
		[]Cell{{Text: "a"}, {Text: "b"}, {Text: "c"}},
		[]Cell{{Text: "d"}, {Text: "e"}, {Text: "f"}},
	)

	if tbl.Rows != 2 || len(tbl.Cells) != 6 {
		t.Fatalf("Rows = %d, cells = %d, want 2 and 6", tbl.Rows, len(tbl.Cells))
	}
	if err := tbl.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c, ok := tbl.At(1, 2); !ok || c.Text != "f" {
		t.Errorf("At(1, 2) = %+v, %v, want f", c, ok)
	}
	if got := tbl.RowCells(0); len(got) != 3 || got[0].Text != "a" || got[2].Text != "c" {
		t.Errorf("RowCells(0) = %+v", got)
	}
	if !approx(tbl.Width(), 60) {
		t.Errorf("Width() = %v, want 60", tbl.Width())
	}
	if !approx(tbl.ColumnOffset(2), 30) {
		t.Errorf("ColumnOffset(2) = %v, want 30", tbl.ColumnOffset(2))
	}
	if !approx(tbl.SpanWidth(Span{Row: 0, RowEnd: 1, Col: 1, ColEnd: 3}), 50) {
		t.Errorf("SpanWidth(cols 1-2) = %v, want 50", tbl.SpanWidth(Span{Row: 0, RowEnd: 1, Col: 1, ColEnd: 3}))
	}
}

func TestTable_At_Spanned(t *testing.T) {
	t.Parallel()

	tbl := Table{
		Columns:   []float64{10, 10},
		Rows:      2,
		RowHeight: 5,
		Cells: []Cell{
			{Span: Span{Row: 0, RowEnd: 2, Col: 0, ColEnd: 1}, Text: "logo"},
			{Span: Single(0, 1), Text: "top"},
		},
	}

	if c, ok := tbl.At(1, 0); !ok || c.Text != "logo" {
		t.Errorf("At(1, 0) = %+v, %v, want the spanning cell", c, ok)
	}
	if _, ok := tbl.At(1, 1); ok {
		t.Error("At(1, 1) should be empty")
	}
	if got := tbl.RowCells(1); len(got) != 0 {
		t.Errorf("RowCells(1) = %+v, spanning cells start on row 0", got)
	}
}

// ---------------------------------------------------------------------------
// TestTable_Validate - Span bounds and overlap
// ---------------------------------------------------------------------------

func TestTable_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		table   Table
		wantErr bool
	}{
		{
			name: "header style grid",
			table: Table{Columns: []float64{10, 10, 10}, Rows: 2, RowHeight: 5, Cells: []Cell{
				{Span: Span{Row: 0, RowEnd: 2, Col: 0, ColEnd: 1}},
				{Span: Single(0, 1)}, {Span: Single(0, 2)},
				{Span: Single(1, 1)}, {Span: Single(1, 2)},
			}},
		},
		{
			name:  "sparse cells allowed",
			table: Table{Columns: []float64{10, 10}, Rows: 1, Cells: []Cell{{Span: Single(0, 1)}}},
		},
		{name: "no columns", table: Table{Rows: 1}, wantErr: true},
		{name: "no rows", table: Table{Columns: []float64{10}}, wantErr: true},
		{
			name:    "outside columns",
			table:   Table{Columns: []float64{10}, Rows: 1, Cells: []Cell{{Span: Single(0, 1)}}},
			wantErr: true,
		},
		{
			name:    "negative row",
			table:   Table{Columns: []float64{10}, Rows: 1, Cells: []Cell{{Span: Single(-1, 0)}}},
			wantErr: true,
		},
		{
			name:    "empty span",
			table:   Table{Columns: []float64{10}, Rows: 1, Cells: []Cell{{Span: Span{Row: 0, RowEnd: 0, Col: 0, ColEnd: 1}}}},
			wantErr: true,
		},
		{
			name: "overlap",
			table: Table{Columns: []float64{10, 10}, Rows: 1, Cells: []Cell{
				{Span: Span{Row: 0, RowEnd: 1, Col: 0, ColEnd: 2}},
				{Span: Single(0, 1)},
			}},
			wantErr: true,
		},
		{
			name: "row span without fixed height",
			table: Table{Columns: []float64{10}, Rows: 2, Cells: []Cell{
				{Span: Span{Row: 0, RowEnd: 2, Col: 0, ColEnd: 1}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.table.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSpan) {
					t.Errorf("Validate() error = %v, want ErrInvalidSpan", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestTable_WithPage - Page token resolution
// ---------------------------------------------------------------------------

func TestTable_WithPage(t *testing.T) {
	t.Parallel()

	tbl := NewRowTable([]float64{10, 10}, []Cell{
		{Text: "Página:"},
		{Text: PageToken + "-" + PagesToken},
	})
	if !tbl.HasPageTotal() {
		t.Fatal("HasPageTotal() = false, want true")
	}

	got := tbl.WithPage(2, 7)
	if got.Cells[1].Text != "2-7" {
		t.Errorf("page cell = %q, want 2-7", got.Cells[1].Text)
	}
	if got.Cells[0].Text != "Página:" {
		t.Errorf("label cell = %q, want it unchanged", got.Cells[0].Text)
	}
	if tbl.Cells[1].Text != PageToken+"-"+PagesToken {
		t.Error("WithPage modified the original table")
	}
	if got.HasPageTotal() {
		t.Error("resolved table should not report a page total token")
	}

	pageOnly := NewRowTable([]float64{10}, []Cell{{Text: "Hoja " + PageToken}})
	if pageOnly.HasPageTotal() {
		t.Error("HasPageTotal() = true for a table without {pages}")
	}
	if got := pageOnly.WithPage(3, 0).Cells[0].Text; got != "Hoja 3" {
		t.Errorf("page only cell = %q, want Hoja 3", got)
	}
}
