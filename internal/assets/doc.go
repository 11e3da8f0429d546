// Package assets loads the optional static assets of the risk sheet
// template, currently the header logo.
//
// # Loader Architecture
//
//	LogoLoader (interface)
//	    │
//	    ├── FilesystemLoader - loads from a directory on disk
//	    ├── StaticLoader     - serves images held in memory (go:embed, tests)
//	    └── Resolver         - tries loaders in order, first hit wins
//
// Resolver only moves on to the next loader when the current one reports
// ErrLogoNotFound. Validation and I/O errors stop the lookup.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
// Loaders are read-only and safe for concurrent use.
package assets
