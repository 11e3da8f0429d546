package ficha

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder for logo sizing
	_ "image/jpeg" // register JPEG decoder for logo sizing
	_ "image/png"  // register PNG decoder for logo sizing
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section titles and labels of the risk sheet body.
const (
	titleIdentification = "1) IDENTIFICACIÓN DEL RIESGO"
	titleAnalysis       = "2) ANÁLISIS DEL RIESGO"
	titleEvaluation     = "3) EVALUACIÓN DEL RIESGO"
	titleMonitoring     = "4) SEGUIMIENTO DEL RIESGO"
	titleTracking       = "5) SEGUIMIENTO DE VERSIONES Y ACCIONES"

	subheadingControl = "Descripción del Control Existente"
	subheadingActions = "Acciones Pendientes / Recomendadas"
)

// evaluationHeaders are the column titles of the scoring table.
var evaluationHeaders = [4]string{"Gravedad (G)", "Probabilidad (P)", "Resultado (P x G)", "ESCALA DE RIESGO"}

// headerLabels are the document-control labels of the header grid.
var headerLabels = [4]string{"Código:", "Rev.:", "Vigencia:", "Página:"}

// logoPadding keeps the logo off the header cell borders.
const logoPadding = 1.0

// scaleCaser upper-cases the risk scale label with Spanish rules.
var scaleCaser = cases.Upper(language.Spanish)

// UpperScale returns the scale label as printed in the evaluation table.
func UpperScale(label string) string {
	return scaleCaser.String(label)
}

// layoutEngine builds documents for one spec. It holds no per-record state.
type layoutEngine struct {
	spec   *LayoutSpec
	logo   LogoLoader
	logger *slog.Logger
}

// build maps one record to a document.
func (e *layoutEngine) build(rec RiskRecord) (*Document, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	spec := e.spec

	footer, err := spec.Text.FooterLines()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Spec: spec,
		Meta: DocumentMeta{
			Title:   "Ficha de Riesgo " + rec.ID,
			Subject: spec.Text.HeaderSubtitle,
			Creator: spec.Text.DocumentCode + " " + spec.Version,
			Issued:  spec.Issued,
		},
		Header: e.header(),
		Footer: Paragraph{Role: RoleFooter, Lines: footer[:]},
		Body:   e.body(rec),
	}

	if err := doc.Header.Validate(); err != nil {
		return nil, fmt.Errorf("header grid: %w", err)
	}
	return doc, nil
}

// header builds the 4×4 header grid: logo | title/subtitle | label | value.
// The logo spans all rows; title and subtitle each span half of them.
func (e *layoutEngine) header() Table {
	text := e.spec.Text
	values := [4]string{text.DocumentCode, text.Revision, text.Validity, text.PageFormat}

	t := Table{
		Columns:   e.spec.HeaderColumnWidths(),
		Rows:      len(headerLabels),
		RowHeight: e.spec.HeaderHeight / float64(len(headerLabels)),
	}
	t.Cells = append(t.Cells, e.logoCell(t.Rows))
	t.Cells = append(t.Cells,
		Cell{Span: Span{Row: 0, RowEnd: 2, Col: 1, ColEnd: 2}, Role: RoleHeaderTitle, Text: text.HeaderTitle},
		Cell{Span: Span{Row: 2, RowEnd: 4, Col: 1, ColEnd: 2}, Role: RoleHeaderSubtitle, Text: text.HeaderSubtitle},
	)
	for i, label := range headerLabels {
		t.Cells = append(t.Cells,
			Cell{Span: Single(i, 2), Role: RoleHeaderLabel, Text: label},
			Cell{Span: Single(i, 3), Role: RoleHeaderValue, Text: values[i]},
		)
	}
	return t
}

// logoCell returns the logo image cell, or the bold text fallback when the
// logo cannot be loaded or decoded. The fallback label stays as alt text.
func (e *layoutEngine) logoCell(rows int) Cell {
	cell := Cell{Span: Span{Row: 0, RowEnd: rows, Col: 0, ColEnd: 1}, Role: RoleLogoFallback, Text: e.spec.Text.LogoFallback}
	img, err := e.loadLogo()
	if err != nil {
		e.logger.Debug("logo unavailable, using text fallback", slog.String("logo", e.spec.Text.LogoName), slog.Any("error", err))
		return cell
	}
	cell.Image = img
	return cell
}

func (e *layoutEngine) loadLogo() (*Image, error) {
	if e.logo == nil {
		return nil, ErrLogoUnavailable
	}
	name := e.spec.Text.LogoName
	data, err := e.logo.LoadLogo(name)
	if err != nil {
		return nil, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogoUnavailable, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrLogoUnavailable)
	}
	if format == "jpeg" {
		format = "jpg"
	}

	// Fit the configured width, shrinking to the band height if needed.
	w := e.spec.LogoWidth
	h := w * float64(cfg.Height) / float64(cfg.Width)
	if maxH := e.spec.HeaderHeight - 2*logoPadding; h > maxH {
		w, h = w*maxH/h, maxH
	}
	return &Image{
		Name:   strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
		Type:   format,
		Data:   data,
		Width:  w,
		Height: h,
	}, nil
}

// body builds the banner, heading and the five sections in template order.
func (e *layoutEngine) body(rec RiskRecord) []Block {
	spec := e.spec
	var blocks []Block

	blocks = append(blocks,
		Paragraph{Role: RoleBanner, Lines: []string{spec.Text.Organization, spec.Text.DocumentKind}},
		Separator{},
		Heading{Level: 0, Role: RoleTitle, Text: "Identificación de Riesgo N° " + rec.ID},
		Paragraph{Role: RoleCaption, Lines: []string{"Versión: " + rec.Version + " | Última Revisión: " + rec.LastRevision}},
		Spacer{Role: RoleBody},
	)

	blocks = append(blocks, KeyValueSection(titleIdentification, []Field{
		{"Riesgo Identificado", rec.Description},
		{"Entorno de Control", rec.ControlEnvironment},
		{"Origen / Área Responsable", rec.OriginArea},
		{"Proceso o Documento", rec.ProcessDocument},
	}, spec)...)

	blocks = append(blocks, KeyValueSection(titleAnalysis, []Field{
		{"Impacto Potencial", rec.PotentialImpact},
		{"Efecto (Consecuencias)", rec.Effect},
	}, spec)...)

	blocks = append(blocks,
		Heading{Level: 2, Role: RoleSectionTitle, Text: titleEvaluation},
		e.evaluationTable(rec),
		Spacer{Role: RoleBody},
	)

	blocks = append(blocks, KeyValueSection(titleMonitoring, []Field{
		{"Responsable del Seguimiento", rec.Responsible},
		{"Tipo de Control", rec.ControlType},
		{"Eficacia del Seguimiento", rec.Effectiveness},
	}, spec)...)
	blocks = append(blocks,
		Heading{Level: 3, Role: RoleSubheading, Text: subheadingControl},
		Paragraph{Role: RoleFreeText, Lines: []string{rec.ExistingControl}},
	)

	blocks = append(blocks,
		Heading{Level: 2, Role: RoleSectionTitle, Text: titleTracking},
		e.trackingTable(rec),
		Spacer{Role: RoleBody},
		Heading{Level: 3, Role: RoleSubheading, Text: subheadingActions},
		Paragraph{Role: RoleFreeText, Lines: []string{rec.Actions}},
	)
	return blocks
}

// evaluationTable is the fixed 2×4 scoring table.
func (e *layoutEngine) evaluationTable(rec RiskRecord) Table {
	header := make([]Cell, len(evaluationHeaders))
	for i, h := range evaluationHeaders {
		header[i] = Cell{Role: RoleTableHeader, Text: h}
	}
	values := []Cell{
		{Role: RoleTableValue, Text: rec.Severity},
		{Role: RoleTableValue, Text: rec.Probability},
		{Role: RoleTableValue, Text: rec.Product},
		{Role: RoleScale, Text: UpperScale(rec.Scale)},
	}
	return NewRowTable(evenColumns(e.spec.ContentWidth(), 4), header, values)
}

// trackingTable is the single-row version/status/date table.
func (e *layoutEngine) trackingTable(rec RiskRecord) Table {
	return NewRowTable(evenColumns(e.spec.ContentWidth(), 3), []Cell{
		{Role: RoleVersionCell, Text: "Versión: " + rec.Version},
		{Role: RoleVersionCell, Text: "Estado: " + rec.ControlStatus},
		{Role: RoleVersionCell, Text: "Fecha Ident.: " + rec.IdentifiedOn},
	})
}

// evenColumns splits width into n equal columns.
func evenColumns(width float64, n int) []float64 {
	cols := make([]float64, n)
	for i := range cols {
		cols[i] = width / float64(n)
	}
	return cols
}
