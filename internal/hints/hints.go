// Package hints provides actionable hints for common CLI failures.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	hints = append(hints, "or render with --format pdf, which needs no browser")

	return formatHints(hints)
}

// ForTimeout returns a hint about raising the browser timeout.
func ForTimeout() string {
	return format("raise --timeout or FICHA_TIMEOUT for slow browsers")
}

// ForConfigNotFound suggests --config, or the user config directory when known.
func ForConfigNotFound(userDir string) string {
	hint := "use --config /path/to/file.yaml"
	if userDir != "" {
		hint += " or place the file in " + userDir
	}
	return format(hint)
}

// ForNoRegister returns hints for a missing register path.
func ForNoRegister() string {
	return format("use --register Matriz.xlsx, set FICHA_REGISTER, or set register.path in the config")
}

// ForRiskNotFound points at the list command.
func ForRiskNotFound() string {
	return format("run 'ficha list' to see the identifiers in the register")
}

// ForSheetNotFound returns hints for a missing worksheet.
func ForSheetNotFound() string {
	return format("use --sheet to select the worksheet holding the register")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
