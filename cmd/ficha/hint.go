package main

import (
	"context"
	"errors"

	ficha "github.com/victor-trinidad/Generar-Ficha-de-Riesgo"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/config"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/hints"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/register"
)

// hintFor returns an actionable hint to print after err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, ficha.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, ficha.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		dir, _ := config.UserConfigDir()
		return hints.ForConfigNotFound(dir)
	case errors.Is(err, ErrNoRegister):
		return hints.ForNoRegister()
	case errors.Is(err, register.ErrRiskNotFound):
		return hints.ForRiskNotFound()
	case errors.Is(err, register.ErrSheetNotFound):
		return hints.ForSheetNotFound()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
