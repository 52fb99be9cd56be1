// Package hints appends actionable advice to errors printed by the CLI.
// Every hint is rendered as "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-ngsreport/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for Chrome launch failures.
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
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "run 'ngsreport doctor' to diagnose")

	return formatHints(hints)
}

// ForTimeout returns a hint for reports that exceed the render deadline.
func ForTimeout() string {
	return format("directories with many plots need more time, use --timeout 2m")
}

// ForConfigNotFound suggests --config or the user config location among searchedPaths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(slashPath(p), ".config/go-ngsreport") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForInputDirectory returns a hint for a missing input root.
func ForInputDirectory() string {
	return format("pass the pipeline output directory as argument or set input.dir in the config")
}

// ForOutputDirectory returns a hint for a missing output directory.
func ForOutputDirectory() string {
	return format("create the directory first or pass --create-output-dir")
}

// ForHeaderImage returns a hint for an unreadable header image.
func ForHeaderImage() string {
	return format("header.image must point to a PNG or JPEG file; leave it empty to omit the header band")
}

// ForStyleNotFound lists the available styles, if any.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// slashPath normalizes separators so Windows paths match the search pattern.
func slashPath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
