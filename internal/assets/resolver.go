package assets

import (
	"errors"
	"fmt"
)

// Resolver tries several loaders in order.
// It falls through to the next loader only on ErrLogoNotFound.
type Resolver struct {
	loaders []LogoLoader
}

// NewResolver creates a Resolver over the given loaders. Nil loaders are skipped.
func NewResolver(loaders ...LogoLoader) *Resolver {
	r := &Resolver{}
	for _, l := range loaders {
		if l != nil {
			r.loaders = append(r.loaders, l)
		}
	}
	return r
}

// NewDirResolver builds a Resolver over the given directories.
// Empty entries are skipped. Returns ErrInvalidBasePath for an unusable directory.
func NewDirResolver(dirs ...string) (*Resolver, error) {
	var loaders []LogoLoader
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		fsLoader, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		loaders = append(loaders, fsLoader)
	}
	return NewResolver(loaders...), nil
}

// LoadLogo returns the first logo found.
func (r *Resolver) LoadLogo(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	for _, l := range r.loaders {
		data, err := l.LoadLogo(name)
		if err == nil {
			return data, nil
		}
		// Only fall back for "not found" errors, not validation or I/O errors
		if !errors.Is(err, ErrLogoNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrLogoNotFound, name)
}

// Len returns the number of configured loaders.
func (r *Resolver) Len() int {
	return len(r.loaders)
}

// Compile-time interface check.
var _ LogoLoader = (*Resolver)(nil)
