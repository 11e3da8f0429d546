package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	ficha "github.com/victor-trinidad/Generar-Ficha-de-Riesgo"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdoutPath selects standard output as the render destination.
const stdoutPath = "-"

// runRender renders one risk sheet to a file or stdout.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: render takes exactly one risk identifier, got %d", ErrMissingArgument, len(positional))
	}
	id := strings.TrimSpace(positional[0])

	logger := env.logger(flags.common)
	setMaxProcs(env, flags.common.verbose)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return err
	}
	mergeRegisterFlags(flags.register, cfg)
	mergeLayoutFlags(flags.layout, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := resolveValidity(cfg, env.Now()); err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.layout.timeout, envCfg)
	if err != nil {
		return err
	}

	reg, err := openRegister(cfg)
	if err != nil {
		return err
	}
	rec, err := reg.Find(id)
	if err != nil {
		return err
	}

	opts, format, err := rendererOptions(cfg, timeout, logger)
	if err != nil {
		return err
	}
	r, err := ficha.NewRenderer(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	start := env.Now()
	out, err := r.RenderContext(ctx, rec)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", id, err)
	}

	dest := resolveOutputPath(flags.output, cfg.Output.Dir, ficha.FileName(rec, format.Extension()))
	if err := writeOutput(env, dest, out); err != nil {
		return err
	}

	if dest != stdoutPath {
		logger.Info("ficha generada",
			slog.String("id", rec.ID),
			slog.String("path", dest),
			slog.Int("bytes", len(out)),
			slog.Duration("elapsed", env.Now().Sub(start)),
		)
	}
	return nil
}

// resolveOutputPath picks the destination file. An existing directory, a
// trailing separator or a name without extension is treated as a directory.
func resolveOutputPath(output, defaultDir, name string) string {
	switch {
	case output == stdoutPath:
		return stdoutPath
	case output == "":
		return filepath.Join(defaultDir, name)
	case strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(filepath.Separator)):
		return filepath.Join(output, name)
	case filepath.Ext(output) == "":
		return filepath.Join(output, name)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}

// writeOutput writes data to dest, creating parent directories as needed.
func writeOutput(env *Environment, dest string, data []byte) error {
	if dest == stdoutPath {
		if _, err := env.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: stdout: %v", ErrWriteOutput, err)
		}
		return nil
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}
	if err := fileutil.WriteFileAtomic(dest, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
