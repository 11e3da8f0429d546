package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/clog"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Color  bool // colored log output on Stderr
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Color:  isTerminal(os.Stderr),
	}
}

// logger returns a console logger on Stderr for the verbosity flags.
// Quiet wins over verbose.
func (e *Environment) logger(f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(clog.New(
		clog.WithWriter(e.Stderr),
		clog.WithLevel(level),
		clog.WithColor(e.Color),
	))
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
