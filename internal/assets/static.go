package assets

import "fmt"

// StaticLoader serves logos held in memory, keyed by file name.
type StaticLoader map[string][]byte

// LoadLogo returns a copy of the stored image.
func (s StaticLoader) LoadLogo(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	data, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLogoNotFound, name)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Compile-time interface check.
var _ LogoLoader = StaticLoader(nil)
