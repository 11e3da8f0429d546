package ficha

import (
	"fmt"
	"strings"
)

// borderWidthMM matches the fpdf default line width.
const borderWidthMM = 0.2

// buildDocumentCSS generates the stylesheet of the HTML writer from the spec:
// page box, bordered grids and one class per style role.
func buildDocumentCSS(spec *LayoutSpec) string {
	var buf strings.Builder

	w, h := spec.PageDimensions()
	m := spec.Margins
	fmt.Fprintf(&buf, "@page { size: %.2fmm %.2fmm; margin: %.2fmm %.2fmm %.2fmm %.2fmm; }\n", w, h, m.Top, m.Right, m.Bottom, m.Left)
	fmt.Fprintf(&buf, "body { margin: 0 auto; max-width: %.2fmm; }\n", spec.ContentWidth())
	buf.WriteString(buildGridCSS(spec))
	buf.WriteString(buildRoleCSS(spec))
	return buf.String()
}

// buildGridCSS styles tables, rules and paragraphs.
func buildGridCSS(spec *LayoutSpec) string {
	return fmt.Sprintf(`
table.grid { border-collapse: collapse; table-layout: fixed; width: %.2fmm; }
table.grid td { border: %.2fmm solid #000; padding: %.2fmm; vertical-align: top; overflow-wrap: anywhere; }
header table.grid td { vertical-align: middle; }
header { margin-bottom: %.2fmm; }
footer { margin-top: %.2fmm; }
footer p { white-space: nowrap; }
hr { border: 0; border-top: %.2fmm solid #000; }
h1, h2, h3, p { margin: 0; }
p { white-space: pre-line; }
h1, h2, h3 { break-after: avoid; page-break-after: avoid; }
h2, h3 { margin-top: %.2fmm; }
tr { break-inside: avoid; page-break-inside: avoid; }
`, spec.ContentWidth(), borderWidthMM, cellPadding, spec.Margins.Top-spec.HeaderDistance-spec.HeaderHeight,
		spec.FooterDistance, borderWidthMM, spec.LineHeightFor(RoleSectionTitle)/2)
}

// buildRoleCSS emits one ".r-<role>" rule per style role, in Roles order.
func buildRoleCSS(spec *LayoutSpec) string {
	var buf strings.Builder
	for _, role := range Roles {
		s := spec.Style(role)
		weight := "normal"
		if s.Bold {
			weight = "bold"
		}
		align := s.Align
		if align == "" {
			align = AlignLeft
		}
		fmt.Fprintf(&buf, ".%s { font-family: \"%s\", sans-serif; font-size: %.1fpt; font-weight: %s; text-align: %s; line-height: %.2f; }\n",
			roleClass(role), escapeCSSString(s.Family), s.Size, weight, align, spec.LineHeight)
	}
	return buf.String()
}

// escapeCSSString escapes a string for use inside a double-quoted CSS string.
func escapeCSSString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\A `)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "<", `\3C `)
	return s
}
