package ficha

import "fmt"

// Field is one labeled value of a key/value section.
type Field struct {
	Label string
	Value any
}

// displayValue coerces a field value to its display string without
// locale formatting.
func displayValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// KeyValueSection renders a section heading followed by a two-column
// bordered table with one row per field, in the order given, and a
// trailing blank line. Labels use the field-label role, values field-value.
func KeyValueSection(title string, fields []Field, spec *LayoutSpec) []Block {
	columns := []float64{spec.LabelColumn, spec.ContentWidth() - spec.LabelColumn}
	rows := make([][]Cell, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []Cell{
			{Role: RoleFieldLabel, Text: f.Label},
			{Role: RoleFieldValue, Text: displayValue(f.Value)},
		})
	}
	return []Block{
		Heading{Level: 2, Text: title, Role: RoleSectionTitle},
		NewRowTable(columns, rows...),
		Spacer{Role: RoleBody},
	}
}
