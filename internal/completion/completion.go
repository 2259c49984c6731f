// Package completion provides shell completion scripts and dynamic
// completion of content type names.
package completion

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mdbase/mdb/internal/catalog"
	"github.com/mdbase/mdb/internal/workspace"
)

// Shell completion script generators
var generators map[string]func(io.Writer) error

func init() {
	generators = map[string]func(io.Writer) error{
		"bash": GenerateBash,
		"zsh":  GenerateZsh,
		"fish": GenerateFish,
	}
}

// Subcommands completed after "mdb"
var Subcommands = []string{"new", "types", "validate", "query", "mcp", "completion"}

// ColorValues are valid values for the --color flag
var ColorValues = []string{"auto", "always", "never"}

// LogLevelValues are common backend log filter values
var LogLevelValues = []string{"error", "warn", "info", "debug", "trace"}

// Generate writes the completion script for the given shell to the writer.
func Generate(w io.Writer, shell string) error {
	gen, ok := generators[shell]
	if !ok {
		return fmt.Errorf("unsupported shell: %s (supported: %s)", shell, strings.Join(SupportedShells(), ", "))
	}
	return gen(w)
}

// SupportedShells returns a list of supported shell names.
func SupportedShells() []string {
	shells := make([]string, 0, len(generators))
	for shell := range generators {
		shells = append(shells, shell)
	}
	sort.Strings(shells)
	return shells
}

// CompleteTypes returns the type names matching prefix in the collection
// found from workDir. Completion never errors: no root or no catalog means
// no suggestions.
func CompleteTypes(workDir, prefix string) []string {
	roots := workspace.Discover(workDir, nil)
	if len(roots) == 0 {
		return nil
	}

	var names []string
	for _, t := range catalog.Scan(roots[0].Path) {
		if strings.HasPrefix(t.Name, prefix) {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names
}

// PrintTypeCompletions writes matching type names, one per line.
func PrintTypeCompletions(w io.Writer, workDir, prefix string) {
	for _, name := range CompleteTypes(workDir, prefix) {
		_, _ = fmt.Fprintln(w, name)
	}
}
