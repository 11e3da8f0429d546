package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrLogoNotFound indicates the requested logo does not exist.
	ErrLogoNotFound = errors.New("logo not found")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences, or an unsupported extension.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error occurred while reading an asset file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrAssetTooLarge indicates the asset exceeds MaxLogoSize.
	ErrAssetTooLarge = errors.New("asset too large")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
