package ficha

import (
	"log/slog"
	"time"
)

// Option configures a Renderer.
type Option func(*rendererConfig)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	spec     *LayoutSpec
	format   Format
	logo     LogoLoader
	logoDirs []string
	logger   *slog.Logger
	timeout  time.Duration
	compress bool
}

// defaultTimeout bounds page loading in the chrome writer.
const defaultTimeout = 30 * time.Second

// WithLayout sets the layout spec. The spec is copied; a nil spec keeps the default.
func WithLayout(spec *LayoutSpec) Option {
	return func(c *rendererConfig) {
		c.spec = spec
	}
}

// WithFormat sets the output format.
func WithFormat(f Format) Option {
	return func(c *rendererConfig) {
		c.format = f
	}
}

// WithLogoLoader sets the logo source. It takes precedence over WithLogoDir.
func WithLogoLoader(l LogoLoader) Option {
	return func(c *rendererConfig) {
		c.logo = l
	}
}

// WithLogoDir adds directories searched for the logo, in order.
func WithLogoDir(dirs ...string) Option {
	return func(c *rendererConfig) {
		c.logoDirs = append(c.logoDirs, dirs...)
	}
}

// WithLogger sets the logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	return func(c *rendererConfig) {
		c.logger = l
	}
}

// WithCompression toggles PDF stream compression. Enabled by default.
func WithCompression(enabled bool) Option {
	return func(c *rendererConfig) {
		c.compress = enabled
	}
}

// WithTimeout sets the page load timeout of the chrome writer.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("ficha: WithTimeout duration must be positive")
	}
	return func(c *rendererConfig) {
		c.timeout = d
	}
}
