package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ficha "github.com/victor-trinidad/Generar-Ficha-de-Riesgo"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/fileutil"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// appDirName is the directory under os.UserConfigDir searched for named configs.
const appDirName = "ficha"

// Field length limits.
const (
	MaxPathLength    = 4096
	MaxSheetLength   = 31 // Excel sheet name limit
	MaxAddrLength    = 256
	MaxTextLength    = 500 // footer notice and other template wording
	MaxLabelLength   = 100
	MaxFamilyLength  = 64
	MaxWorkers       = ficha.MaxPoolSize
	MaxHeaderRowLine = 1048576 // Excel row limit
)

// Config holds all configuration for risk sheet generation.
type Config struct {
	Register RegisterConfig `yaml:"register"`
	Output   OutputConfig   `yaml:"output"`
	Assets   AssetsConfig   `yaml:"assets"`
	Layout   LayoutConfig   `yaml:"layout"`
	Server   ServerConfig   `yaml:"server"`
}

// RegisterConfig locates the risk register.
type RegisterConfig struct {
	Path      string `yaml:"path"`      // .xlsx or .csv
	Sheet     string `yaml:"sheet"`     // empty = LMM_ORG_04
	HeaderRow int    `yaml:"headerRow"` // 1-based row of the column titles; 0 = 17
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir    string `yaml:"dir"`    // empty = current directory
	Format string `yaml:"format"` // "pdf", "html", "chrome"; empty = pdf
}

// AssetsConfig defines asset lookup options.
type AssetsConfig struct {
	LogoDir string `yaml:"logoDir"` // searched before the current directory
}

// ServerConfig defines the HTTP download service.
type ServerConfig struct {
	Addr    string `yaml:"addr"`    // empty = 127.0.0.1:8080
	Workers int    `yaml:"workers"` // chrome renderers; 0 = auto
}

// MarginsConfig overrides page margins in millimetres. Nil fields keep the template value.
type MarginsConfig struct {
	Top    *float64 `yaml:"top"`
	Right  *float64 `yaml:"right"`
	Bottom *float64 `yaml:"bottom"`
	Left   *float64 `yaml:"left"`
}

// StyleConfig overrides one style role. Zero fields keep the template value.
type StyleConfig struct {
	Family string  `yaml:"family"`
	Size   float64 `yaml:"size"`
	Bold   *bool   `yaml:"bold"`
	Align  string  `yaml:"align"`
}

// TextConfig overrides template wording. Empty fields keep the template value.
type TextConfig struct {
	Organization   string `yaml:"organization"`
	DocumentKind   string `yaml:"documentKind"`
	HeaderTitle    string `yaml:"headerTitle"`
	HeaderSubtitle string `yaml:"headerSubtitle"`
	DocumentCode   string `yaml:"documentCode"`
	Revision       string `yaml:"revision"`
	Validity       string `yaml:"validity"`
	PageFormat     string `yaml:"pageFormat"`
	LogoFallback   string `yaml:"logoFallback"`
	LogoName       string `yaml:"logoName"`
	FooterNotice   string `yaml:"footerNotice"`
	FooterSplit    string `yaml:"footerSplit"`
}

// LayoutConfig holds partial overrides of the default layout spec.
type LayoutConfig struct {
	PageSize    string                 `yaml:"pageSize"`
	Orientation string                 `yaml:"orientation"`
	Margins     MarginsConfig          `yaml:"margins"`
	FontFamily  string                 `yaml:"fontFamily"` // applied to every role before Styles
	Styles      map[string]StyleConfig `yaml:"styles"`     // keyed by role name
	Text        TextConfig             `yaml:"text"`
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("register.path", c.Register.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("register.sheet", c.Register.Sheet, MaxSheetLength); err != nil {
		return err
	}
	if c.Register.HeaderRow < 0 || c.Register.HeaderRow > MaxHeaderRowLine {
		return fmt.Errorf("%w: register.headerRow: %d", ErrInvalidValue, c.Register.HeaderRow)
	}

	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if _, err := ficha.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	if err := validateFieldLength("assets.logoDir", c.Assets.LogoDir, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.Workers < 0 || c.Server.Workers > MaxWorkers {
		return fmt.Errorf("%w: server.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Server.Workers)
	}

	return c.Layout.validate()
}

func (l *LayoutConfig) validate() error {
	if err := validateFieldLength("layout.fontFamily", l.FontFamily, MaxFamilyLength); err != nil {
		return err
	}
	known := make(map[string]bool, len(ficha.Roles))
	for _, r := range ficha.Roles {
		known[string(r)] = true
	}
	for role, s := range l.Styles {
		if !known[role] {
			return fmt.Errorf("%w: layout.styles: unknown role %q", ErrInvalidValue, role)
		}
		if err := validateFieldLength("layout.styles."+role+".family", s.Family, MaxFamilyLength); err != nil {
			return err
		}
	}

	t := l.Text
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"layout.text.organization", t.Organization, MaxLabelLength},
		{"layout.text.documentKind", t.DocumentKind, MaxLabelLength},
		{"layout.text.headerTitle", t.HeaderTitle, MaxLabelLength},
		{"layout.text.headerSubtitle", t.HeaderSubtitle, MaxLabelLength},
		{"layout.text.documentCode", t.DocumentCode, MaxLabelLength},
		{"layout.text.revision", t.Revision, MaxLabelLength},
		{"layout.text.validity", t.Validity, MaxLabelLength},
		{"layout.text.pageFormat", t.PageFormat, MaxLabelLength},
		{"layout.text.logoFallback", t.LogoFallback, MaxLabelLength},
		{"layout.text.logoName", t.LogoName, MaxLabelLength},
		{"layout.text.footerNotice", t.FooterNotice, MaxTextLength},
		{"layout.text.footerSplit", t.FooterSplit, MaxLabelLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns a copy of base with the overrides applied.
// The result is validated; a nil base uses ficha.DefaultLayoutSpec.
func (l *LayoutConfig) Apply(base *ficha.LayoutSpec) (*ficha.LayoutSpec, error) {
	if base == nil {
		base = ficha.DefaultLayoutSpec()
	}
	spec := base.Clone()

	if l.PageSize != "" {
		spec.PageSize = strings.ToLower(l.PageSize)
	}
	if l.Orientation != "" {
		spec.Orientation = strings.ToLower(l.Orientation)
	}
	setFloat(&spec.Margins.Top, l.Margins.Top)
	setFloat(&spec.Margins.Right, l.Margins.Right)
	setFloat(&spec.Margins.Bottom, l.Margins.Bottom)
	setFloat(&spec.Margins.Left, l.Margins.Left)

	if l.FontFamily != "" {
		for role, s := range spec.Styles {
			s.Family = l.FontFamily
			spec.Styles[role] = s
		}
	}
	for name, o := range l.Styles {
		role := ficha.StyleRole(name)
		s := spec.Styles[role]
		if o.Family != "" {
			s.Family = o.Family
		}
		if o.Size != 0 {
			s.Size = o.Size
		}
		if o.Bold != nil {
			s.Bold = *o.Bold
		}
		if o.Align != "" {
			s.Align = strings.ToLower(o.Align)
		}
		spec.Styles[role] = s
	}

	t := &spec.Text
	setString(&t.Organization, l.Text.Organization)
	setString(&t.DocumentKind, l.Text.DocumentKind)
	setString(&t.HeaderTitle, l.Text.HeaderTitle)
	setString(&t.HeaderSubtitle, l.Text.HeaderSubtitle)
	setString(&t.DocumentCode, l.Text.DocumentCode)
	setString(&t.Revision, l.Text.Revision)
	setString(&t.Validity, l.Text.Validity)
	setString(&t.PageFormat, l.Text.PageFormat)
	setString(&t.LogoFallback, l.Text.LogoFallback)
	setString(&t.LogoName, l.Text.LogoName)
	setString(&t.FooterNotice, l.Text.FooterNotice)
	setString(&t.FooterSplit, l.Text.FooterSplit)

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return spec, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: string(ficha.FormatPDF)},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.ReadFileStrict(configPath, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// UserConfigDir returns the per-user directory searched for named configs.
func UserConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/ficha/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userDir, err := UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
