// Package catalog lists the content types available for creation in a
// collection root. Types are defined one file per type under the reserved
// types directory; the file name minus extension is the type name.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mdbase/mdb/internal/frontmatter"
	"gopkg.in/yaml.v3"
)

const (
	// TypesDir is the reserved subdirectory holding type definitions
	TypesDir = "_types"
	// DocExt is the document extension type definitions use
	DocExt = ".md"
)

// Type is one available content type.
type Type struct {
	// Name is the type name (file stem)
	Name string
	// Path is the absolute path of the definition file
	Path string
	// Description is display metadata from the definition's frontmatter;
	// empty when absent or unreadable
	Description string
}

// Scan lists the types defined under root's reserved types directory,
// sorted by name. An absent or unreadable directory yields an empty list,
// not an error: the caller falls back to free-text type entry.
func Scan(root string) []Type {
	dir := filepath.Join(root, TypesDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var types []Type
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, DocExt) {
			continue
		}
		path := filepath.Join(dir, name)
		types = append(types, Type{
			Name:        strings.TrimSuffix(name, DocExt),
			Path:        path,
			Description: readDescription(path),
		})
	}

	sort.Slice(types, func(i, j int) bool {
		return types[i].Name < types[j].Name
	})
	return types
}

// readDescription pulls the description field from a type definition's
// frontmatter. Best effort: any failure yields the empty string.
func readDescription(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	doc, err := frontmatter.Split(string(data))
	if err != nil || !doc.HasFrontmatter {
		return ""
	}

	var meta struct {
		Description string `yaml:"description"`
	}
	if err := yaml.Unmarshal([]byte(doc.FrontmatterYAML), &meta); err != nil {
		return ""
	}
	return strings.TrimSpace(meta.Description)
}
