package ficha

import (
	"fmt"
	"strings"
)

// StyleRole names a text style in the layout spec.
// Blocks and cells carry a role; writers resolve it through LayoutSpec.Styles.
type StyleRole string

// Style roles used by the risk sheet template.
const (
	RoleBody           StyleRole = "body"
	RoleFreeText       StyleRole = "free-text"
	RoleBanner         StyleRole = "banner"
	RoleTitle          StyleRole = "title"
	RoleCaption        StyleRole = "caption"
	RoleSectionTitle   StyleRole = "section-title"
	RoleSubheading     StyleRole = "subheading"
	RoleFieldLabel     StyleRole = "field-label"
	RoleFieldValue     StyleRole = "field-value"
	RoleTableHeader    StyleRole = "table-header"
	RoleTableValue     StyleRole = "table-value"
	RoleScale          StyleRole = "scale"
	RoleVersionCell    StyleRole = "version-cell"
	RoleFooter         StyleRole = "footer"
	RoleHeaderTitle    StyleRole = "header-title"
	RoleHeaderSubtitle StyleRole = "header-subtitle"
	RoleHeaderLabel    StyleRole = "header-label"
	RoleHeaderValue    StyleRole = "header-value"
	RoleLogoFallback   StyleRole = "logo-fallback"
)

// Roles lists every role the template needs a style for.
var Roles = []StyleRole{
	RoleBody, RoleFreeText, RoleBanner, RoleTitle, RoleCaption,
	RoleSectionTitle, RoleSubheading, RoleFieldLabel, RoleFieldValue,
	RoleTableHeader, RoleTableValue, RoleScale, RoleVersionCell,
	RoleFooter, RoleHeaderTitle, RoleHeaderSubtitle, RoleHeaderLabel,
	RoleHeaderValue, RoleLogoFallback,
}

// Alignment constants.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Font size bounds in points.
const (
	MinFontSize = 4.0
	MaxFontSize = 72.0
)

// Style is the font and alignment applied to a role.
type Style struct {
	Family string  `yaml:"family"`
	Size   float64 `yaml:"size"` // points
	Bold   bool    `yaml:"bold"`
	Align  string  `yaml:"align"` // "left", "center", "right"
}

// Validate checks the style is usable by every writer.
func (s Style) Validate() error {
	if strings.TrimSpace(s.Family) == "" {
		return fmt.Errorf("%w: empty font family", ErrInvalidStyle)
	}
	if s.Size < MinFontSize || s.Size > MaxFontSize {
		return fmt.Errorf("%w: size %.1f (must be between %.0f and %.0f)", ErrInvalidStyle, s.Size, MinFontSize, MaxFontSize)
	}
	switch s.Align {
	case "", AlignLeft, AlignCenter, AlignRight:
		return nil
	}
	return fmt.Errorf("%w: align %q", ErrInvalidStyle, s.Align)
}

// fontStyle returns the fpdf style string ("B" or "").
func (s Style) fontStyle() string {
	if s.Bold {
		return "B"
	}
	return ""
}

// alignCode returns the fpdf horizontal alignment letter.
func (s Style) alignCode() string {
	switch s.Align {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	}
	return "L"
}
