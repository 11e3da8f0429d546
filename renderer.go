package ficha

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/assets"
)

// Compile-time interface implementation checks.
var (
	_ documentWriter = (*pdfWriter)(nil)
	_ documentWriter = (*htmlWriter)(nil)
	_ documentWriter = (*chromeWriter)(nil)
	_ LogoLoader     = (*assets.Resolver)(nil)
)

// Format selects the serialization backend.
type Format string

// Output formats.
const (
	FormatPDF    Format = "pdf"
	FormatHTML   Format = "html"
	FormatChrome Format = "chrome"
)

// Formats lists the supported formats.
var Formats = []Format{FormatPDF, FormatHTML, FormatChrome}

// ParseFormat resolves a format name, case-insensitively.
// An empty name selects FormatPDF.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatPDF, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatHTML {
		return "html"
	}
	return "pdf"
}

// ContentType returns the MIME type of the format's output.
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "application/pdf"
}

// LogoLoader returns the raw bytes of a named logo image.
type LogoLoader interface {
	LoadLogo(name string) ([]byte, error)
}

// NewLogoLoader returns a loader that looks up logos in dirs, in order.
// Empty entries are skipped.
func NewLogoLoader(dirs ...string) (LogoLoader, error) {
	r, err := assets.NewDirResolver(dirs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetDir, err)
	}
	return r, nil
}

// documentWriter serializes a built document.
type documentWriter interface {
	write(ctx context.Context, doc *Document) ([]byte, error)
	close() error
}

// Renderer turns risk records into documents for one layout spec and format.
// Create with NewRenderer, use Render, and Close when done.
//
// Renderers using FormatPDF or FormatHTML are safe for concurrent use.
// A FormatChrome renderer owns a browser; use one per goroutine or a RendererPool.
type Renderer struct {
	cfg    rendererConfig
	engine *layoutEngine
	writer documentWriter
	logger *slog.Logger
}

// NewRenderer creates a Renderer. Without options it produces PDF output
// with DefaultLayoutSpec and the text logo fallback.
func NewRenderer(opts ...Option) (*Renderer, error) {
	cfg := rendererConfig{
		format:   FormatPDF,
		timeout:  defaultTimeout,
		compress: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.spec == nil {
		cfg.spec = DefaultLayoutSpec()
	} else {
		cfg.spec = cfg.spec.Clone()
	}
	if err := cfg.spec.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseFormat(string(cfg.format)); err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logo := cfg.logo
	if logo == nil && len(cfg.logoDirs) > 0 {
		var err error
		logo, err = NewLogoLoader(cfg.logoDirs...)
		if err != nil {
			return nil, err
		}
	}

	r := &Renderer{
		cfg:    cfg,
		engine: &layoutEngine{spec: cfg.spec, logo: logo, logger: logger},
		logger: logger,
	}
	switch cfg.format {
	case FormatHTML:
		r.writer = newHTMLWriter()
	case FormatChrome:
		r.writer = newChromeWriter(cfg.timeout)
	default:
		r.writer = &pdfWriter{compress: cfg.compress}
	}
	return r, nil
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.cfg.format
}

// Spec returns a copy of the renderer's layout spec.
func (r *Renderer) Spec() *LayoutSpec {
	return r.cfg.spec.Clone()
}

// Build maps a record to the backend-neutral document without serializing it.
func (r *Renderer) Build(rec RiskRecord) (*Document, error) {
	return r.engine.build(rec)
}

// Render builds and serializes the document for rec.
func (r *Renderer) Render(rec RiskRecord) ([]byte, error) {
	return r.RenderContext(context.Background(), rec)
}

// RenderContext builds and serializes the document for rec.
// The whole output is returned or an error; never partial bytes.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) RenderContext(ctx context.Context, rec RiskRecord) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("%w: internal error: %v", ErrSerialization, p)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	doc, err := r.engine.build(rec)
	if err != nil {
		return nil, err
	}

	out, err = r.writer.write(ctx, doc)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("rendered risk sheet",
		slog.String("id", rec.ID),
		slog.String("format", string(r.cfg.format)),
		slog.Int("bytes", len(out)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// Close releases writer resources. Safe to call more than once.
func (r *Renderer) Close() error {
	if r.writer == nil {
		return nil
	}
	return r.writer.close()
}

// Render renders rec as PDF with spec, or DefaultLayoutSpec when spec is nil.
func Render(rec RiskRecord, spec *LayoutSpec) ([]byte, error) {
	r, err := NewRenderer(WithLayout(spec))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return r.Render(rec)
}
