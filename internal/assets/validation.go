package assets

import (
	"fmt"
	"path/filepath"
	"strings"
)

// logoExtensions lists the image formats the PDF writer can embed.
var logoExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ValidateAssetName checks that a logo name is a bare file name with a
// supported image extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\\x00") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	if !logoExtensions[strings.ToLower(filepath.Ext(name))] {
		return fmt.Errorf("%w: unsupported extension in %q", ErrInvalidAssetName, name)
	}
	return nil
}
