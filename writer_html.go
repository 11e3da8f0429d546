package ficha

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// documentHTML is the standalone page. Header and footer are optional so the
// chrome writer can hand them to the browser's print templates instead.
const documentHTML = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="description" content="{{.Subject}}">
<meta name="generator" content="{{.Creator}}">
<style>{{.CSS}}</style>
</head>
<body>
{{- if .Header}}
<header>{{template "table" .Header}}</header>
{{- end}}
<main>
{{- range .Body}}
{{template "block" .}}
{{- end}}
</main>
{{- if .Footer}}
{{template "footer" .Footer}}
{{- end}}
</body>
</html>
{{define "block" -}}
{{- if eq .Kind "heading"}}
{{- if eq .Tag "h1"}}<h1 class="{{.Class}}">{{index .Lines 0}}</h1>
{{- else if eq .Tag "h2"}}<h2 class="{{.Class}}">{{index .Lines 0}}</h2>
{{- else}}<h3 class="{{.Class}}">{{index .Lines 0}}</h3>{{end}}
{{- else if eq .Kind "paragraph"}}<div class="{{.Class}}">{{range .Lines}}<p>{{.}}</p>{{end}}</div>
{{- else if eq .Kind "markdown"}}<div class="{{.Class}} markdown">{{.HTML}}</div>
{{- else if eq .Kind "separator"}}<hr>
{{- else if eq .Kind "spacer"}}<div class="spacer" style="{{.Style}}"></div>
{{- else if eq .Kind "table"}}{{template "table" .Table}}
{{- end}}
{{- end}}
{{define "table" -}}
<table class="grid">
<colgroup>{{range .Cols}}<col style="{{.}}">{{end}}</colgroup>
{{- range .Rows}}
<tr{{if $.RowStyle}} style="{{$.RowStyle}}"{{end}}>
{{- range .}}<td class="{{.Class}}"{{if gt .RowSpan 1}} rowspan="{{.RowSpan}}"{{end}}{{if gt .ColSpan 1}} colspan="{{.ColSpan}}"{{end}}>
{{- if .Image}}<img src="{{.Image}}" alt="{{.Text}}" style="{{.ImageStyle}}">
{{- else if .Markup}}{{.Markup}}
{{- else}}{{.Text}}{{end -}}
</td>{{end}}
</tr>
{{- end}}
</table>
{{- end}}
{{define "footer" -}}
<footer class="{{.Class}}">{{range .Lines}}<p>{{.}}</p>{{end}}</footer>
{{- end}}
`

// chromeHeaderHTML and chromeFooterHTML are the browser print templates.
const chromeHeaderHTML = `{{define "header"}}<div style="{{.Box}}"><style>{{.CSS}}</style>{{template "table" .Table}}</div>{{end}}`
const chromeFooterHTML = `{{define "chromefooter"}}<div style="{{.Box}}"><style>{{.CSS}}</style>{{template "footer" .Footer}}</div>{{end}}`

var documentTemplate = template.Must(
	template.Must(template.Must(template.New("document").Parse(documentHTML)).Parse(chromeHeaderHTML)).Parse(chromeFooterHTML),
)

// Browser print template placeholders for the page indicator.
const (
	chromePageNumber = `<span class="pageNumber"></span>`
	chromeTotalPages = `<span class="totalPages"></span>`
)

type pageView struct {
	Title   string
	Subject string
	Creator string
	CSS     template.CSS
	Header  *tableView
	Body    []blockView
	Footer  *paragraphView
}

type blockView struct {
	Kind  string
	Tag   string
	Class string
	Lines []string
	HTML  template.HTML
	Style template.CSS
	Table *tableView
}

type tableView struct {
	Cols     []template.CSS
	RowStyle template.CSS
	Rows     [][]cellView
}

type cellView struct {
	Class      string
	RowSpan    int
	ColSpan    int
	Text       string
	Markup     template.HTML
	Image      template.URL
	ImageStyle template.CSS
}

type paragraphView struct {
	Class string
	Lines []string
}

type chromeBandView struct {
	Box    template.CSS
	CSS    template.CSS
	Table  *tableView
	Footer *paragraphView
}

// htmlWriter serializes documents to standalone HTML5.
// Free-text blocks are rendered as Markdown without raw HTML.
type htmlWriter struct {
	md goldmark.Markdown
}

func newHTMLWriter() *htmlWriter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles keep the page standalone
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	return &htmlWriter{md: md}
}

func (w *htmlWriter) close() error { return nil }

// write returns a single-page HTML document with header and footer in flow.
func (w *htmlWriter) write(ctx context.Context, doc *Document) ([]byte, error) {
	header := newTableView(doc.Header.WithPage(1, 1), nil)
	footer := newParagraphView(doc.Footer)
	return w.page(ctx, doc, header, footer)
}

// page executes the document template.
func (w *htmlWriter) page(ctx context.Context, doc *Document, header *tableView, footer *paragraphView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := make([]blockView, 0, len(doc.Body))
	for _, b := range doc.Body {
		v, ok, err := w.block(doc.Spec, b)
		if err != nil {
			return nil, err
		}
		if ok {
			body = append(body, v)
		}
	}

	view := pageView{
		Title:   doc.Meta.Title,
		Subject: doc.Meta.Subject,
		Creator: doc.Meta.Creator,
		CSS:     template.CSS(buildDocumentCSS(doc.Spec)),
		Header:  header,
		Body:    body,
		Footer:  footer,
	}

	var buf bytes.Buffer
	if err := documentTemplate.ExecuteTemplate(&buf, "document", view); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// block converts one body block. Empty tables are skipped.
func (w *htmlWriter) block(spec *LayoutSpec, b Block) (blockView, bool, error) {
	switch b := b.(type) {
	case Heading:
		return blockView{Kind: "heading", Tag: headingTag(b.Level), Class: roleClass(b.Role), Lines: []string{b.Text}}, true, nil
	case Paragraph:
		if b.Role == RoleFreeText {
			out, err := w.markdown(strings.Join(b.Lines, "\n"))
			if err != nil {
				return blockView{}, false, err
			}
			return blockView{Kind: "markdown", Class: roleClass(b.Role), HTML: out}, true, nil
		}
		return blockView{Kind: "paragraph", Class: roleClass(b.Role), Lines: b.Lines}, true, nil
	case Separator:
		return blockView{Kind: "separator"}, true, nil
	case Spacer:
		return blockView{Kind: "spacer", Style: template.CSS(fmt.Sprintf("height: %.2fmm", spec.LineHeightFor(b.Role)))}, true, nil
	case Table:
		if b.Rows == 0 {
			return blockView{}, false, nil
		}
		return blockView{Kind: "table", Table: newTableView(b, nil)}, true, nil
	}
	return blockView{}, false, nil
}

// markdown renders free text. Raw HTML in the input is omitted.
func (w *htmlWriter) markdown(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := w.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("%w: free text: %v", ErrSerialization, err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- goldmark output without WithUnsafe
}

// newTableView converts a table to rows of HTML cells. Each cell is emitted
// on the row its span starts, with rowspan and colspan covering the rest.
// markup, when set, supplies pre-escaped HTML for a cell's text.
func newTableView(t Table, markup func(string) template.HTML) *tableView {
	v := &tableView{Rows: make([][]cellView, t.Rows)}
	for _, c := range t.Columns {
		v.Cols = append(v.Cols, template.CSS(fmt.Sprintf("width: %.2fmm", c)))
	}
	if t.RowHeight > 0 {
		v.RowStyle = template.CSS(fmt.Sprintf("height: %.2fmm", t.RowHeight))
	}

	for r := 0; r < t.Rows; r++ {
		for _, c := range t.RowCells(r) {
			cell := cellView{
				Class:   roleClass(c.Role),
				RowSpan: c.Span.Rows(),
				ColSpan: c.Span.Cols(),
				Text:    c.Text,
			}
			if markup != nil {
				cell.Markup = markup(c.Text)
			}
			if img := c.Image; img != nil {
				cell.Image = template.URL("data:" + imageMIME(img.Type) + ";base64," + base64.StdEncoding.EncodeToString(img.Data)) // #nosec G203 -- data URI built from decoded image bytes
				cell.ImageStyle = template.CSS(fmt.Sprintf("width: %.2fmm; height: %.2fmm", img.Width, img.Height))
			}
			v.Rows[r] = append(v.Rows[r], cell)
		}
	}
	return v
}

func newParagraphView(p Paragraph) *paragraphView {
	return &paragraphView{Class: roleClass(p.Role), Lines: p.Lines}
}

// chromePageMarkup escapes text and swaps page tokens for print placeholders.
func chromePageMarkup(text string) template.HTML {
	s := template.HTMLEscapeString(text)
	s = strings.ReplaceAll(s, PagesToken, chromeTotalPages)
	s = strings.ReplaceAll(s, PageToken, chromePageNumber)
	return template.HTML(s) // #nosec G203 -- escaped above
}

func headingTag(level int) string {
	switch {
	case level <= 1:
		return "h1"
	case level == 2:
		return "h2"
	default:
		return "h3"
	}
}

func roleClass(role StyleRole) string {
	return "r-" + string(role)
}

func imageMIME(kind string) string {
	if kind == "jpg" {
		return "image/jpeg"
	}
	return "image/" + kind
}
