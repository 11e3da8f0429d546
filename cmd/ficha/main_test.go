package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Notes:
// - runMain tests use the html and pdf formats only; chrome needs a browser.
// - The register fixture puts titles on row 1, so every command passes
//   --header-row 1.

// ---------------------------------------------------------------------------
// TestIsCommand - Command name detection
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"render", true},
		{"list", true},
		{"serve", true},
		{"version", true},
		{"help", true},
		{"", false},
		{"R-01", false},
		{"Render", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := isCommand(tt.input); got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Entry point exit codes and output
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	regPath := writeRegister(t)

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage",
			args:         []string{"ficha"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: ficha"},
		},
		{
			name:         "version",
			args:         []string{"ficha", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"ficha " + Version},
		},
		{
			name:         "help",
			args:         []string{"ficha", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: ficha", "Commands:"},
		},
		{
			name:         "help render",
			args:         []string{"ficha", "help", "render"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: ficha render", "--register"},
		},
		{
			name:         "help unknown command",
			args:         []string{"ficha", "help", "export"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Unknown command: export"},
		},
		{
			name:         "unknown command",
			args:         []string{"ficha", "export"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: export"},
		},
		{
			name:     "render help flag",
			args:     []string{"ficha", "render", "--help"},
			wantCode: ExitSuccess,
		},
		{
			name:     "render bad flag",
			args:     []string{"ficha", "render", "--no-such-flag"},
			wantCode: ExitUsage,
		},
		{
			name:         "render without identifier",
			args:         []string{"ficha", "render", "-r", regPath},
			wantCode:     ExitUsage,
			wantInStderr: []string{"missing argument"},
		},
		{
			name:         "render without register",
			args:         []string{"ficha", "render", "R-01"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"no register specified"},
		},
		{
			name:     "render unsupported register",
			args:     []string{"ficha", "render", "R-01", "-r", "matriz.ods"},
			wantCode: ExitUsage,
		},
		{
			name:     "render missing register file",
			args:     []string{"ficha", "render", "R-01", "-r", filepath.Join(t.TempDir(), "missing.csv")},
			wantCode: ExitIO,
		},
		{
			name:         "render unknown risk",
			args:         []string{"ficha", "render", "R-99", "-r", regPath, "--header-row", "1"},
			wantCode:     ExitIO,
			wantInStderr: []string{"risk not found", "hint: run 'ficha list'"},
		},
		{
			name:         "render bad validity date",
			args:         []string{"ficha", "render", "R-01", "-r", regPath, "--header-row", "1", "--validity", "auto:[x"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"layout.text.validity"},
		},
		{
			name:     "render unknown format",
			args:     []string{"ficha", "render", "R-01", "-r", regPath, "--header-row", "1", "-f", "docx"},
			wantCode: ExitUsage,
		},
		{
			name:     "render bad timeout",
			args:     []string{"ficha", "render", "R-01", "-r", regPath, "--header-row", "1", "-t", "soon"},
			wantCode: ExitUsage,
		},
		{
			name:     "render malformed record",
			args:     []string{"ficha", "render", "R-09", "-r", regPath, "--header-row", "1", "-o", "-"},
			wantCode: ExitRender,
		},
		{
			name:         "render html to stdout",
			args:         []string{"ficha", "render", "R-01", "-r", regPath, "--header-row", "1", "-f", "html", "-o", "-"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"<!DOCTYPE html>", "R-01", "Pagos duplicados a proveedores", "ALTO"},
		},
		{
			name:         "list",
			args:         []string{"ficha", "list", "-r", regPath, "--header-row", "1"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"R-01\nR-02\nR-09\n"},
		},
		{
			name:         "list long",
			args:         []string{"ficha", "list", "-l", "-r", regPath, "--header-row", "1"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"R-01\tPagos duplicados a proveedores\n"},
		},
		{
			name:     "list rejects arguments",
			args:     []string{"ficha", "list", "R-01", "-r", regPath},
			wantCode: ExitUsage,
		},
		{
			name:     "missing config",
			args:     []string{"ficha", "list", "-c", filepath.Join(t.TempDir(), "nope.yaml")},
			wantCode: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr.String())
			}
			assertContains(t, "stdout", stdout.String(), tt.wantInStdout...)
			assertContains(t, "stderr", stderr.String(), tt.wantInStderr...)
		})
	}
}

func TestRunMain_RenderWritesFile(t *testing.T) {
	t.Parallel()

	regPath := writeRegister(t)
	outDir := filepath.Join(t.TempDir(), "fichas")

	env, _, stderr := testEnv()
	code := runMain([]string{"ficha", "render", " R-01 ", "-r", regPath, "--header-row", "1", "-o", outDir + string(filepath.Separator)}, env)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(outDir, "Ficha_Riesgo_R-01.pdf"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with %%PDF-: %q", data[:min(len(data), 16)])
	}
	if !strings.Contains(stderr.String(), "Ficha_Riesgo_R-01.pdf") {
		t.Errorf("stderr should report the output path, got %q", stderr.String())
	}
}

func TestRunMain_RenderWithConfig(t *testing.T) {
	t.Parallel()

	regPath := writeRegister(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ficha.yaml")
	content := "register:\n  path: " + regPath + "\n  headerRow: 1\noutput:\n  dir: " + dir + "\n  format: html\n" +
		"layout:\n  text:\n    validity: \"01/03/2025\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	env, _, stderr := testEnv()
	if code := runMain([]string{"ficha", "render", "R-02", "-c", cfgPath, "-q"}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("quiet run wrote to stderr: %q", stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "Ficha_Riesgo_R-02.html"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	assertContains(t, "html", string(data), "01/03/2025", "MODERADO")
}
