package ficha

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Page indicator tokens resolved by writers.
const (
	PageToken  = "{page}"
	PagesToken = "{pages}"
)

// pageSizesMM maps page sizes to portrait width and height in millimetres.
var pageSizesMM = map[string][2]float64{
	PageSizeA4:     {210, 297},
	PageSizeLetter: {215.9, 279.4},
	PageSizeLegal:  {215.9, 355.6},
}

// ptToMM converts typographic points to millimetres.
const ptToMM = 25.4 / 72

// Margins holds page margins in millimetres.
type Margins struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// TemplateText holds the fixed wording of the corporate template.
type TemplateText struct {
	Organization   string `yaml:"organization"`
	DocumentKind   string `yaml:"documentKind"`
	HeaderTitle    string `yaml:"headerTitle"`
	HeaderSubtitle string `yaml:"headerSubtitle"`
	DocumentCode   string `yaml:"documentCode"`
	Revision       string `yaml:"revision"`
	Validity       string `yaml:"validity"`
	PageFormat     string `yaml:"pageFormat"` // may use {page} and {pages}
	LogoFallback   string `yaml:"logoFallback"`
	LogoName       string `yaml:"logoName"`
	FooterNotice   string `yaml:"footerNotice"`
	FooterSplit    string `yaml:"footerSplit"` // first footer line ends after this marker
}

// FooterLines splits the footer notice into its two fixed lines.
// The space following the split marker is the split point.
func (t TemplateText) FooterLines() ([2]string, error) {
	idx := strings.Index(t.FooterNotice, t.FooterSplit)
	if t.FooterSplit == "" || idx < 0 {
		return [2]string{}, fmt.Errorf("%w: footer split marker %q not in notice", ErrInvalidLayout, t.FooterSplit)
	}
	cut := idx + len(t.FooterSplit)
	first := t.FooterNotice[:cut]
	second := strings.TrimPrefix(t.FooterNotice[cut:], " ")
	if second == "" {
		return [2]string{}, fmt.Errorf("%w: footer split leaves an empty second line", ErrInvalidLayout)
	}
	return [2]string{first, second}, nil
}

// LayoutSpec is the template contract: page geometry, column widths,
// style roles and fixed wording. It does not vary per record.
// All lengths are millimetres.
type LayoutSpec struct {
	Version     string    `yaml:"version"`
	Issued      time.Time `yaml:"issued"`
	PageSize    string    `yaml:"pageSize"`
	Orientation string    `yaml:"orientation"`
	Margins     Margins   `yaml:"margins"`

	HeaderDistance float64 `yaml:"headerDistance"` // page top to header band
	HeaderHeight   float64 `yaml:"headerHeight"`
	FooterDistance float64 `yaml:"footerDistance"` // page bottom to footer band
	FooterHeight   float64 `yaml:"footerHeight"`

	// HeaderColumns are the logo, title, label and value widths.
	// At most one may be zero; it takes the remaining content width.
	HeaderColumns [4]float64 `yaml:"headerColumns"`
	LabelColumn   float64    `yaml:"labelColumn"`
	LogoWidth     float64    `yaml:"logoWidth"`
	LineHeight    float64    `yaml:"lineHeight"` // multiple of font size

	Styles map[StyleRole]Style `yaml:"styles"`
	Text   TemplateText        `yaml:"text"`
}

// DefaultFooterNotice is the confidentiality notice printed on every page.
const DefaultFooterNotice = "Este documento contiene información de propiedad exclusiva de La Química Farmacéutica S.A. " +
	"Queda prohibida la difusión y/o cesión a terceros sin autorización previa del área de Auditoría Interna y O&M. " +
	"Toda copia no controlada carece de validez."

// DefaultLayoutSpec returns the corporate risk sheet template.
func DefaultLayoutSpec() *LayoutSpec {
	body := Style{Family: "Arial", Size: 10, Align: AlignLeft}
	bold := func(s Style) Style { s.Bold = true; return s }
	sized := func(s Style, size float64) Style { s.Size = size; return s }
	centered := func(s Style) Style { s.Align = AlignCenter; return s }

	return &LayoutSpec{
		Version:        "LMM_ORG_05/00",
		Issued:         time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		PageSize:       PageSizeA4,
		Orientation:    OrientationPortrait,
		Margins:        Margins{Top: 34, Right: 19.05, Bottom: 22, Left: 19.05},
		HeaderDistance: 10,
		HeaderHeight:   20,
		FooterDistance: 8,
		FooterHeight:   8,
		HeaderColumns:  [4]float64{38.1, 0, 22, 28.8},
		LabelColumn:    50.8,
		LogoWidth:      17.78,
		LineHeight:     1.3,
		Styles: map[StyleRole]Style{
			RoleBody:           body,
			RoleFreeText:       body,
			RoleBanner:         bold(sized(body, 14)),
			RoleTitle:          bold(sized(body, 16)),
			RoleCaption:        sized(body, 9),
			RoleSectionTitle:   bold(sized(body, 12)),
			RoleSubheading:     bold(sized(body, 11)),
			RoleFieldLabel:     bold(body),
			RoleFieldValue:     body,
			RoleTableHeader:    centered(bold(body)),
			RoleTableValue:     body,
			RoleScale:          centered(bold(body)),
			RoleVersionCell:    bold(body),
			RoleFooter:         centered(bold(sized(body, 7))),
			RoleHeaderTitle:    centered(bold(sized(body, 11))),
			RoleHeaderSubtitle: centered(bold(sized(body, 9))),
			RoleHeaderLabel:    bold(sized(body, 8)),
			RoleHeaderValue:    Style{Family: "Arial", Size: 8, Align: AlignRight},
			RoleLogoFallback:   centered(bold(sized(body, 14))),
		},
		Text: TemplateText{
			Organization:   "Lqf La química farmacéutica",
			DocumentKind:   "FICHA DE RIESGO",
			HeaderTitle:    "LISTADO MAESTRO O MATRIZ",
			HeaderSubtitle: "MATRIZ INSTITUCIONAL DE GESTIÓN DE RIESGOS",
			DocumentCode:   "LMM_ORG_05",
			Revision:       "00",
			Validity:       "00/00/2025",
			PageFormat:     PageToken + "-" + PagesToken,
			LogoFallback:   "Lqf",
			LogoName:       "logo.png",
			FooterNotice:   DefaultFooterNotice,
			FooterSplit:    "y/o cesión",
		},
	}
}

// Clone returns a deep copy safe to modify.
func (s *LayoutSpec) Clone() *LayoutSpec {
	c := *s
	c.Styles = maps.Clone(s.Styles)
	return &c
}

// PageDimensions returns page width and height honouring orientation.
func (s *LayoutSpec) PageDimensions() (width, height float64) {
	dims := pageSizesMM[strings.ToLower(s.PageSize)]
	if strings.EqualFold(s.Orientation, OrientationLandscape) {
		return dims[1], dims[0]
	}
	return dims[0], dims[1]
}

// ContentWidth is the page width inside the left and right margins.
func (s *LayoutSpec) ContentWidth() float64 {
	w, _ := s.PageDimensions()
	return w - s.Margins.Left - s.Margins.Right
}

// HeaderColumnWidths resolves the zero-width header column.
func (s *LayoutSpec) HeaderColumnWidths() []float64 {
	cols := s.HeaderColumns[:]
	out := make([]float64, len(cols))
	fixed := 0.0
	for _, w := range cols {
		fixed += w
	}
	for i, w := range cols {
		if w == 0 {
			w = s.ContentWidth() - fixed
		}
		out[i] = w
	}
	return out
}

// Style returns the style for a role.
func (s *LayoutSpec) Style(role StyleRole) Style {
	return s.Styles[role]
}

// LineHeightFor returns the line height in millimetres for a role.
func (s *LayoutSpec) LineHeightFor(role StyleRole) float64 {
	return s.Style(role).Size * ptToMM * s.LineHeight
}

// Validate checks the spec describes a drawable page.
func (s *LayoutSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil spec", ErrInvalidLayout)
	}
	if _, ok := pageSizesMM[strings.ToLower(s.PageSize)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, s.PageSize)
	}
	switch strings.ToLower(s.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: orientation %q", ErrInvalidLayout, s.Orientation)
	}
	if err := s.validateGeometry(); err != nil {
		return err
	}
	for _, role := range Roles {
		style, ok := s.Styles[role]
		if !ok {
			return fmt.Errorf("%w: no style for %q", ErrInvalidStyle, role)
		}
		if err := style.Validate(); err != nil {
			return fmt.Errorf("%s: %w", role, err)
		}
	}
	if _, err := s.Text.FooterLines(); err != nil {
		return err
	}
	return nil
}

func (s *LayoutSpec) validateGeometry() error {
	w, h := s.PageDimensions()
	m := s.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return fmt.Errorf("%w: negative margin", ErrInvalidMargin)
	}
	if m.Left+m.Right >= w || m.Top+m.Bottom >= h {
		return fmt.Errorf("%w: margins leave no content area", ErrInvalidMargin)
	}
	if s.HeaderDistance < 0 || s.HeaderHeight <= 0 || s.HeaderDistance+s.HeaderHeight > m.Top {
		return fmt.Errorf("%w: header band (%.2f+%.2f) must fit in top margin %.2f", ErrInvalidMargin, s.HeaderDistance, s.HeaderHeight, m.Top)
	}
	if s.FooterDistance < 0 || s.FooterHeight <= 0 || s.FooterDistance+s.FooterHeight > m.Bottom {
		return fmt.Errorf("%w: footer band (%.2f+%.2f) must fit in bottom margin %.2f", ErrInvalidMargin, s.FooterDistance, s.FooterHeight, m.Bottom)
	}

	content := s.ContentWidth()
	zeros, fixed := 0, 0.0
	for _, c := range s.HeaderColumns {
		if c < 0 {
			return fmt.Errorf("%w: negative header column", ErrInvalidLayout)
		}
		if c == 0 {
			zeros++
		}
		fixed += c
	}
	if zeros > 1 {
		return fmt.Errorf("%w: at most one header column may be zero", ErrInvalidLayout)
	}
	if (zeros == 1 && fixed >= content) || (zeros == 0 && fixed > content) {
		return fmt.Errorf("%w: header columns (%.2f) exceed content width %.2f", ErrInvalidLayout, fixed, content)
	}
	if s.LabelColumn <= 0 || s.LabelColumn >= content {
		return fmt.Errorf("%w: label column %.2f outside content width %.2f", ErrInvalidLayout, s.LabelColumn, content)
	}
	if s.LogoWidth <= 0 || s.LogoWidth > s.HeaderColumnWidths()[0] {
		return fmt.Errorf("%w: logo width %.2f does not fit the logo column", ErrInvalidLayout, s.LogoWidth)
	}
	if s.LineHeight < 1 {
		return fmt.Errorf("%w: line height factor %.2f below 1", ErrInvalidLayout, s.LineHeight)
	}
	return nil
}
