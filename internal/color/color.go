// Package color decides when terminal output should be colored.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Modes accepted by the --color flag.
var Modes = []string{"auto", "always", "never"}

// ShouldUseColors reports whether output should be colored under the given
// mode. In "auto" mode colors require a terminal on stdout and no NO_COLOR
// in the environment.
func ShouldUseColors(colorMode string) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
			return os.Getenv("NO_COLOR") == ""
		}
		return false
	}
}

// ConfigureProfile pins the global lipgloss color profile for the explicit
// modes. Must run before any lipgloss or glamour rendering so that "always"
// survives piped output and "never" strips color everywhere. "auto" keeps
// lipgloss's own TTY detection.
func ConfigureProfile(colorMode string) {
	switch colorMode {
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
