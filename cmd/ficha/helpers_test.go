package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// registerCSV is a register with titles on row 1. Column A is the sheet's
// unused leading column.
const registerCSV = `,Num_Riesgo,Entorno_Control,Origen_Area,Proceso_Documento,Riesgo_Identificado,Impacto_Potencial,Efecto,Gravedad,Probabilidad,PxG,Escala_Riesgo,Control_Existente,Tipo_Control,Responsable_Seguimiento,Eficacia_Seguimiento,Version,Estado_Control,Acciones,Fecha_Identificacion,Ultima_Revision
1,R-01,Interno,Finanzas,PR-FIN-01,Pagos duplicados a proveedores,Pérdida económica,Alto,3,4,12,Alto,Conciliación semanal,Detectivo,Jefe de Tesorería,Eficaz,1,Implementado,Automatizar conciliación,01/02/2025,15/03/2025
2,,,,,,,,,,,,,,,,,,,,
3,R-02,Externo,Compras,PR-COM-02,Proveedor único,Desabastecimiento,Medio,2,2,4,Moderado,,,,,,,,,
4,R-09,Interno,Ventas,PR-VEN-01,Dato inválido,,,alto,2,x,Bajo,,,,,,,,,
`

// writeRegister writes registerCSV into a temp dir and returns its path.
func writeRegister(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Matriz_Riesgos.csv")
	if err := os.WriteFile(path, []byte(registerCSV), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// testEnv returns an environment writing to buffers with a fixed clock.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	fixed := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	return &Environment{
		Now:    func() time.Time { return fixed },
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

func assertContains(t *testing.T, label, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("%s should contain %q, got %q", label, want, got)
		}
	}
}
