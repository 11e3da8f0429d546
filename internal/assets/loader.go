package assets

// LogoLoader defines the contract for loading logo images by file name.
type LogoLoader interface {
	// LoadLogo returns the raw image bytes for name (e.g. "logo.png").
	// Returns ErrLogoNotFound if no such image exists.
	LoadLogo(name string) ([]byte, error)
}
