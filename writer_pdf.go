package ficha

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
)

// cellPadding is the inner padding of table cells and text lines, in mm.
const cellPadding = 1.0

// fpdfPageSizes maps page sizes to fpdf standard size names.
var fpdfPageSizes = map[string]string{
	PageSizeA4:     "A4",
	PageSizeLetter: "Letter",
	PageSizeLegal:  "Legal",
}

// pdfWriter serializes documents with fpdf core fonts.
// Output is byte-for-byte deterministic for a given document.
type pdfWriter struct {
	compress bool
}

func (w *pdfWriter) close() error { return nil }

// write paints the document and returns the complete PDF.
// When the header shows the page total, a first pass counts pages.
func (w *pdfWriter) write(ctx context.Context, doc *Document) ([]byte, error) {
	total := 0
	if doc.Header.HasPageTotal() {
		first, err := w.paint(ctx, doc, 0)
		if err != nil {
			return nil, err
		}
		total = first.PageCount()
	}

	pdf, err := w.paint(ctx, doc, total)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// paint lays out every page. The returned document is not yet closed.
func (w *pdfWriter) paint(ctx context.Context, doc *Document, total int) (*fpdf.Fpdf, error) {
	spec := doc.Spec
	orientation := "P"
	if strings.EqualFold(spec.Orientation, OrientationLandscape) {
		orientation = "L"
	}

	pdf := fpdf.New(orientation, "mm", fpdfPageSizes[strings.ToLower(spec.PageSize)], "")
	pdf.SetCompression(w.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.Meta.Issued)
	pdf.SetModificationDate(doc.Meta.Issued)
	pdf.SetTitle(doc.Meta.Title, true)
	pdf.SetSubject(doc.Meta.Subject, true)
	pdf.SetCreator(doc.Meta.Creator, true)
	pdf.SetMargins(spec.Margins.Left, spec.Margins.Top, spec.Margins.Right)
	pdf.SetAutoPageBreak(false, spec.Margins.Bottom)
	pdf.SetCellMargin(cellPadding)

	p := &pdfPainter{
		pdf:    pdf,
		spec:   spec,
		// cp1252; runes outside it are printed as ".".
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		images: make(map[string]bool),
	}

	pdf.SetHeaderFunc(func() {
		p.grid(doc.Header.WithPage(pdf.PageNo(), total), spec.Margins.Left, spec.HeaderDistance)
		pdf.SetXY(spec.Margins.Left, spec.Margins.Top)
	})
	pdf.SetFooterFunc(func() {
		p.footer(doc.Footer)
	})

	pdf.AddPage()
	for _, b := range doc.Body {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.block(b)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return pdf, nil
}

// pdfPainter draws blocks at the current position of one fpdf document.
type pdfPainter struct {
	pdf    *fpdf.Fpdf
	spec   *LayoutSpec
	tr     func(string) string
	images map[string]bool
}

// coreFamily maps a font family to an fpdf core font. Unknown families use Arial.
func coreFamily(family string) string {
	switch strings.ToLower(family) {
	case "arial", "helvetica", "times", "courier":
		return family
	}
	return "Arial"
}

func (p *pdfPainter) setFont(s Style) {
	p.pdf.SetFont(coreFamily(s.Family), s.fontStyle(), s.Size)
}

// useStyle selects the font of role and returns its style.
func (p *pdfPainter) useStyle(role StyleRole) Style {
	s := p.spec.Style(role)
	p.setFont(s)
	return s
}

func (p *pdfPainter) bottom() float64 {
	_, h := p.pdf.GetPageSize()
	return h - p.spec.Margins.Bottom
}

func (p *pdfPainter) atTop() bool {
	return p.pdf.GetY() <= p.spec.Margins.Top+0.01
}

// ensure starts a new page unless h fits above the bottom margin.
func (p *pdfPainter) ensure(h float64) {
	if p.pdf.GetY()+h > p.bottom() && !p.atTop() {
		p.pdf.AddPage()
	}
}

// space advances by h, or to the next page when h does not fit.
func (p *pdfPainter) space(h float64) {
	if p.pdf.GetY()+h > p.bottom() {
		p.pdf.AddPage()
		return
	}
	p.pdf.SetY(p.pdf.GetY() + h)
}

func (p *pdfPainter) block(b Block) {
	switch b := b.(type) {
	case Heading:
		lh := p.spec.LineHeightFor(b.Role)
		if b.Level >= 2 && !p.atTop() {
			p.space(lh / 2)
		}
		// Keep headings with at least one following line.
		p.ensure(lh + p.spec.LineHeightFor(RoleBody) + 2*cellPadding)
		p.lines(b.Role, []string{b.Text})
	case Paragraph:
		p.lines(b.Role, b.Lines)
	case Separator:
		p.separator()
	case Spacer:
		p.space(p.spec.LineHeightFor(b.Role))
	case Table:
		if b.Rows == 0 {
			return
		}
		p.table(b)
	}
}

// lines writes each text wrapped to the content width.
func (p *pdfPainter) lines(role StyleRole, texts []string) {
	style := p.useStyle(role)
	lh := p.spec.LineHeightFor(role)
	width := p.spec.ContentWidth()
	for _, text := range texts {
		for _, line := range p.wrap(p.tr(text), width-2*cellPadding) {
			p.ensure(lh)
			p.pdf.SetX(p.spec.Margins.Left)
			p.pdf.CellFormat(width, lh, line, "", 2, style.alignCode(), false, 0, "")
		}
	}
}

func (p *pdfPainter) separator() {
	lh := p.spec.LineHeightFor(RoleBody)
	p.ensure(lh)
	left := p.spec.Margins.Left
	y := p.pdf.GetY() + lh/2
	p.pdf.Line(left, y, left+p.spec.ContentWidth(), y)
	p.pdf.SetY(p.pdf.GetY() + lh)
}

func (p *pdfPainter) table(t Table) {
	if t.RowHeight > 0 {
		h := float64(t.Rows) * t.RowHeight
		p.ensure(h)
		y := p.pdf.GetY()
		p.grid(t, p.spec.Margins.Left, y)
		p.pdf.SetY(y + h)
		return
	}
	for r := 0; r < t.Rows; r++ {
		p.row(t, t.RowCells(r))
	}
}

// wrappedCell is a table cell with its text broken into lines.
type wrappedCell struct {
	style Style
	x, w  float64
	lines []string
}

// row draws one auto-height row. A row taller than the space left moves to
// the next page; a row taller than a whole page continues on the next one.
func (p *pdfPainter) row(t Table, cells []Cell) {
	left := p.spec.Margins.Left
	lh := 0.0
	total := 1
	wrapped := make([]wrappedCell, len(cells))
	for i, c := range cells {
		style := p.useStyle(c.Role)
		w := t.SpanWidth(c.Span)
		wrapped[i] = wrappedCell{
			style: style,
			x:     left + t.ColumnOffset(c.Span.Col),
			w:     w,
			lines: p.wrap(p.tr(c.Text), w-2*cellPadding),
		}
		lh = math.Max(lh, p.spec.LineHeightFor(c.Role))
		total = max(total, len(wrapped[i].lines))
	}

	for start := 0; start < total; {
		fit := int((p.bottom() - p.pdf.GetY() - 2*cellPadding) / lh)
		if p.atTop() {
			fit = max(fit, 1)
		} else if fit < 1 || (start == 0 && fit < total) {
			p.pdf.AddPage()
			continue
		}

		n := min(fit, total-start)
		y := p.pdf.GetY()
		h := float64(n)*lh + 2*cellPadding
		for _, wc := range wrapped {
			p.pdf.Rect(wc.x, y, wc.w, h, "D")
			p.setFont(wc.style)
			for i := start; i < min(start+n, len(wc.lines)); i++ {
				p.pdf.SetXY(wc.x, y+cellPadding+float64(i-start)*lh)
				p.pdf.CellFormat(wc.w, lh, wc.lines[i], "", 0, wc.style.alignCode(), false, 0, "")
			}
		}
		p.pdf.SetXY(left, y+h)

		start += n
		if start < total {
			p.pdf.AddPage()
		}
	}
}

// grid draws a fixed-height table with its top-left corner at (x0, y0).
// Text is centered vertically in each cell region.
func (p *pdfPainter) grid(t Table, x0, y0 float64) {
	for _, c := range t.Cells {
		x := x0 + t.ColumnOffset(c.Span.Col)
		y := y0 + float64(c.Span.Row)*t.RowHeight
		w := t.SpanWidth(c.Span)
		h := float64(c.Span.Rows()) * t.RowHeight
		p.pdf.Rect(x, y, w, h, "D")

		if img := c.Image; img != nil && p.image(img) {
			p.pdf.ImageOptions(img.Name, x+(w-img.Width)/2, y+(h-img.Height)/2, img.Width, img.Height,
				false, fpdf.ImageOptions{ImageType: img.Type}, 0, "")
			continue
		}

		style := p.useStyle(c.Role)
		lh := p.spec.LineHeightFor(c.Role)
		lines := p.wrap(p.tr(c.Text), w-2*cellPadding)
		top := y + (h-float64(len(lines))*lh)/2
		for i, line := range lines {
			p.pdf.SetXY(x, top+float64(i)*lh)
			p.pdf.CellFormat(w, lh, line, "", 0, style.alignCode(), false, 0, "")
		}
	}
}

// image registers img once and reports whether fpdf can draw it.
// Images fpdf rejects are probed on a scratch document so the output
// document never enters an error state.
func (p *pdfPainter) image(img *Image) bool {
	if ok, seen := p.images[img.Name]; seen {
		return ok
	}
	opts := fpdf.ImageOptions{ImageType: img.Type}
	probe := fpdf.New("P", "mm", "A4", "")
	probe.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
	ok := probe.Ok()
	if ok {
		p.pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
	}
	p.images[img.Name] = ok
	return ok
}

// footer writes the footer lines from the top of the footer band, one cell
// per line. Lines are never wrapped: a line wider than the content width is
// drawn at the font size that makes it fit.
func (p *pdfPainter) footer(f Paragraph) {
	style := p.useStyle(f.Role)
	lh := p.spec.LineHeightFor(f.Role)
	width := p.spec.ContentWidth()
	avail := width - 2*cellPadding
	_, pageH := p.pdf.GetPageSize()
	y := pageH - p.spec.FooterDistance - p.spec.FooterHeight
	for _, text := range f.Lines {
		line := p.tr(text)
		if w := p.pdf.GetStringWidth(line); w > avail {
			p.pdf.SetFontSize(style.Size * avail / w)
		}
		p.pdf.SetXY(p.spec.Margins.Left, y)
		p.pdf.CellFormat(width, lh, line, "", 0, style.alignCode(), false, 0, "")
		p.pdf.SetFontSize(style.Size)
		y += lh
	}
}

// wrap splits single-byte text into lines no wider than width in the
// current font. Newlines force breaks and runs of spaces collapse; words
// wider than a line are broken between characters. Empty text is one
// empty line.
func (p *pdfPainter) wrap(text string, width float64) []string {
	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if p.pdf.GetStringWidth(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				out = append(out, line)
			}
			for len(word) > 1 && p.pdf.GetStringWidth(word) > width {
				n := p.fit(word, width)
				out = append(out, word[:n])
				word = word[n:]
			}
			line = word
		}
		out = append(out, line)
	}
	return out
}

// fit returns how many leading bytes of s fit in width, at least one.
func (p *pdfPainter) fit(s string, width float64) int {
	n := 1
	for n < len(s) && p.pdf.GetStringWidth(s[:n+1]) <= width {
		n++
	}
	return n
}
