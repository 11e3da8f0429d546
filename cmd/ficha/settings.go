package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	ficha "github.com/victor-trinidad/Generar-Ficha-de-Riesgo"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/config"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/dateutil"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/register"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidFlags    = errors.New("invalid flags")
	ErrMissingArgument = errors.New("missing argument")
	ErrNoRegister      = errors.New("no register specified (use --register or register.path)")
	ErrInvalidTimeout  = errors.New("invalid timeout")
	ErrWriteOutput     = errors.New("failed to write output")
)

// loadConfig resolves the effective configuration.
// Precedence: CLI flags > env vars > config file > defaults.
func loadConfig(common commonFlags, env *envConfig) (*config.Config, error) {
	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// mergeRegisterFlags applies register flags over cfg.
func mergeRegisterFlags(f registerFlags, cfg *config.Config) {
	setIf(&cfg.Register.Path, f.path)
	setIf(&cfg.Register.Sheet, f.sheet)
	if f.headerRow > 0 {
		cfg.Register.HeaderRow = f.headerRow
	}
}

// mergeLayoutFlags applies layout flags over cfg.
func mergeLayoutFlags(f layoutFlags, cfg *config.Config) {
	setIf(&cfg.Output.Format, f.format)
	setIf(&cfg.Assets.LogoDir, f.logoDir)
	setIf(&cfg.Layout.PageSize, f.pageSize)
	setIf(&cfg.Layout.Orientation, f.orientation)
	setIf(&cfg.Layout.Text.Validity, f.validity)
}

// resolveValidity expands an "auto" validity date against now.
func resolveValidity(cfg *config.Config, now time.Time) error {
	v, err := dateutil.ResolveDate(cfg.Layout.Text.Validity, now)
	if err != nil {
		return fmt.Errorf("layout.text.validity: %w", err)
	}
	cfg.Layout.Text.Validity = v
	return nil
}

// resolveTimeout returns the chrome timeout from the flag, then the env var.
// Zero means the renderer default.
func resolveTimeout(flagValue string, env *envConfig) (time.Duration, error) {
	if flagValue == "" {
		return env.Timeout, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// openRegister loads the register named by cfg.
func openRegister(cfg *config.Config) (*register.Register, error) {
	if cfg.Register.Path == "" {
		return nil, ErrNoRegister
	}
	reg, err := register.Load(cfg.Register.Path, register.Options{
		Sheet:     cfg.Register.Sheet,
		HeaderRow: cfg.Register.HeaderRow,
	})
	if err != nil {
		return nil, fmt.Errorf("reading register %s: %w", cfg.Register.Path, err)
	}
	return reg, nil
}

// rendererOptions builds renderer options from the effective configuration.
func rendererOptions(cfg *config.Config, timeout time.Duration, logger *slog.Logger) ([]ficha.Option, ficha.Format, error) {
	format, err := ficha.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, "", err
	}
	spec, err := cfg.Layout.Apply(nil)
	if err != nil {
		return nil, "", err
	}

	opts := []ficha.Option{
		ficha.WithLayout(spec),
		ficha.WithFormat(format),
		ficha.WithLogger(logger),
	}
	// The current directory is the fallback logo location.
	if cfg.Assets.LogoDir != "" {
		opts = append(opts, ficha.WithLogoDir(cfg.Assets.LogoDir, "."))
	} else {
		opts = append(opts, ficha.WithLogoDir("."))
	}
	if timeout > 0 {
		opts = append(opts, ficha.WithTimeout(timeout))
	}
	return opts, format, nil
}
