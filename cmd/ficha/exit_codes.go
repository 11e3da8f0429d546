package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	ficha "github.com/victor-trinidad/Generar-Ficha-de-Riesgo"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/config"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/dateutil"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/register"
)

// Exit codes for the ficha CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or layout
	ExitIO      = 3 // Register or output file errors, unknown risk
	ExitBrowser = 4 // Browser/Chrome errors
	ExitRender  = 5 // Record could not be rendered
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, ficha.ErrBrowserConnect) ||
		errors.Is(err, ficha.ErrPageCreate) ||
		errors.Is(err, ficha.ErrPageLoad) ||
		errors.Is(err, ficha.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Render errors (exit 5)
	if errors.Is(err, ficha.ErrMissingField) ||
		errors.Is(err, ficha.ErrInvalidNumber) ||
		errors.Is(err, ficha.ErrSerialization) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, register.ErrRegisterOpen) ||
		errors.Is(err, register.ErrRegisterTooLarge) ||
		errors.Is(err, register.ErrSheetNotFound) ||
		errors.Is(err, register.ErrRiskNotFound) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, flag.ErrHelp) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrMissingArgument) ||
		errors.Is(err, ErrNoRegister) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, register.ErrUnsupportedRegister) ||
		errors.Is(err, ficha.ErrUnknownFormat) ||
		errors.Is(err, ficha.ErrInvalidLayout) ||
		errors.Is(err, ficha.ErrInvalidPageSize) ||
		errors.Is(err, ficha.ErrInvalidMargin) ||
		errors.Is(err, ficha.ErrInvalidStyle) ||
		errors.Is(err, ficha.ErrInvalidSpan) ||
		errors.Is(err, ficha.ErrInvalidAssetDir) {
		return ExitUsage
	}

	return ExitGeneral
}
