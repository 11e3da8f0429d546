package ficha

import "errors"

// Sentinel errors for library operations.
var (
	ErrSerialization = errors.New("document serialization failed")
	ErrUnknownFormat = errors.New("unknown output format")

	// Record validation errors.
	ErrMissingField  = errors.New("required record field is missing")
	ErrInvalidNumber = errors.New("field is not a number")

	// Layout spec validation errors.
	ErrInvalidLayout   = errors.New("invalid layout spec")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")
	ErrInvalidStyle    = errors.New("invalid style role")

	// Asset errors. A missing logo is recovered with a text fallback.
	ErrLogoUnavailable = errors.New("logo unavailable")
	ErrInvalidAssetDir = errors.New("invalid asset directory")

	// Document model errors.
	ErrInvalidSpan = errors.New("invalid table span")

	// Chrome writer errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
