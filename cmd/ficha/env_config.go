package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // FICHA_CONFIG: config file name or path
	Register   string        // FICHA_REGISTER: register file
	Sheet      string        // FICHA_SHEET: workbook sheet
	OutputDir  string        // FICHA_OUTPUT_DIR: output directory
	Format     string        // FICHA_FORMAT: pdf, html, chrome
	LogoDir    string        // FICHA_LOGO_DIR: logo directory
	Addr       string        // FICHA_ADDR: serve listen address
	Timeout    time.Duration // FICHA_TIMEOUT: chrome page load timeout
	Workers    int           // FICHA_WORKERS: chrome renderers for serve
}

// envPrefix marks the variables read by loadEnvConfig.
const envPrefix = "FICHA_"

// knownEnvVars lists valid FICHA_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"FICHA_CONFIG":     true,
	"FICHA_REGISTER":   true,
	"FICHA_SHEET":      true,
	"FICHA_OUTPUT_DIR": true,
	"FICHA_FORMAT":     true,
	"FICHA_LOGO_DIR":   true,
	"FICHA_ADDR":       true,
	"FICHA_TIMEOUT":    true,
	"FICHA_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("FICHA_CONFIG"),
		Register:   os.Getenv("FICHA_REGISTER"),
		Sheet:      os.Getenv("FICHA_SHEET"),
		OutputDir:  os.Getenv("FICHA_OUTPUT_DIR"),
		Format:     os.Getenv("FICHA_FORMAT"),
		LogoDir:    os.Getenv("FICHA_LOGO_DIR"),
		Addr:       os.Getenv("FICHA_ADDR"),
	}

	if timeout := os.Getenv("FICHA_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("FICHA_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized FICHA_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies set environment variables over the config file.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by the command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIf(&cfg.Register.Path, env.Register)
	setIf(&cfg.Register.Sheet, env.Sheet)
	setIf(&cfg.Output.Dir, env.OutputDir)
	setIf(&cfg.Output.Format, env.Format)
	setIf(&cfg.Assets.LogoDir, env.LogoDir)
	setIf(&cfg.Server.Addr, env.Addr)
	if env.Workers > 0 {
		cfg.Server.Workers = env.Workers
	}
}

// setIf assigns v to dst when v is not empty.
func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
