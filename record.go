package ficha

import (
	"fmt"
	"strconv"
	"strings"
)

// Column keys of the risk register, in sheet order.
const (
	ColID                 = "Num_Riesgo"
	ColControlEnvironment = "Entorno_Control"
	ColOriginArea         = "Origen_Area"
	ColProcessDocument    = "Proceso_Documento"
	ColDescription        = "Riesgo_Identificado"
	ColPotentialImpact    = "Impacto_Potencial"
	ColEffect             = "Efecto"
	ColSeverity           = "Gravedad"
	ColProbability        = "Probabilidad"
	ColProduct            = "PxG"
	ColScale              = "Escala_Riesgo"
	ColExistingControl    = "Control_Existente"
	ColControlType        = "Tipo_Control"
	ColResponsible        = "Responsable_Seguimiento"
	ColEffectiveness      = "Eficacia_Seguimiento"
	ColVersion            = "Version"
	ColControlStatus      = "Estado_Control"
	ColActions            = "Acciones"
	ColIdentifiedOn       = "Fecha_Identificacion"
	ColLastRevision       = "Ultima_Revision"
)

// Columns lists the register column keys in sheet order.
var Columns = []string{
	ColID, ColControlEnvironment, ColOriginArea, ColProcessDocument,
	ColDescription, ColPotentialImpact, ColEffect,
	ColSeverity, ColProbability, ColProduct, ColScale,
	ColExistingControl, ColControlType, ColResponsible,
	ColEffectiveness, ColVersion, ColControlStatus,
	ColActions, ColIdentifiedOn, ColLastRevision,
}

// RiskRecord is one row of the risk register.
// All fields are display strings; absent values are empty strings.
type RiskRecord struct {
	ID                 string
	ControlEnvironment string
	OriginArea         string
	ProcessDocument    string
	Description        string
	PotentialImpact    string
	Effect             string
	Severity           string
	Probability        string
	Product            string // severity × probability, supplied by the register
	Scale              string
	ExistingControl    string
	ControlType        string
	Responsible        string
	Effectiveness      string
	Version            string
	ControlStatus      string
	Actions            string
	IdentifiedOn       string
	LastRevision       string
}

// fields returns pointers to the record fields in Columns order.
func (r *RiskRecord) fields() []*string {
	return []*string{
		&r.ID, &r.ControlEnvironment, &r.OriginArea, &r.ProcessDocument,
		&r.Description, &r.PotentialImpact, &r.Effect,
		&r.Severity, &r.Probability, &r.Product, &r.Scale,
		&r.ExistingControl, &r.ControlType, &r.Responsible,
		&r.Effectiveness, &r.Version, &r.ControlStatus,
		&r.Actions, &r.IdentifiedOn, &r.LastRevision,
	}
}

// RecordFromMap builds a record from column key to value.
// Every key in Columns must be present; empty values are allowed.
func RecordFromMap(m map[string]string) (RiskRecord, error) {
	var rec RiskRecord
	dst := rec.fields()
	for i, col := range Columns {
		v, ok := m[col]
		if !ok {
			return RiskRecord{}, fmt.Errorf("%w: %s", ErrMissingField, col)
		}
		*dst[i] = v
	}
	return rec, nil
}

// RecordFromRow builds a record from cells in Columns order.
func RecordFromRow(cells []string) (RiskRecord, error) {
	if len(cells) != len(Columns) {
		return RiskRecord{}, fmt.Errorf("%w: got %d cells, want %d", ErrMissingField, len(cells), len(Columns))
	}
	var rec RiskRecord
	for i, dst := range rec.fields() {
		*dst = cells[i]
	}
	return rec, nil
}

// Map returns the record keyed by column.
func (r RiskRecord) Map() map[string]string {
	m := make(map[string]string, len(Columns))
	for i, v := range r.fields() {
		m[Columns[i]] = *v
	}
	return m
}

// Validate checks the fields the layout relies on.
// Severity, probability and product must be empty or numeric.
func (r RiskRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, ColID)
	}
	numeric := []struct {
		col   string
		value string
	}{
		{ColSeverity, r.Severity},
		{ColProbability, r.Probability},
		{ColProduct, r.Product},
	}
	for _, n := range numeric {
		if !isNumeric(n.value) {
			return fmt.Errorf("%w: %s = %q", ErrInvalidNumber, n.col, n.value)
		}
	}
	return nil
}

// isNumeric accepts blanks, integers and decimals with either separator.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	_, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	return err == nil
}

// FileName returns the suggested download name for a rendered record,
// e.g. "Ficha_Riesgo_R-01.pdf".
func FileName(rec RiskRecord, ext string) string {
	id := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(rec.ID))
	return "Ficha_Riesgo_" + id + "." + strings.TrimPrefix(ext, ".")
}
