// Package workspace discovers mdbase collection roots and picks the one a
// flow should run against.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MarkerFile is the file that marks a directory as a collection root.
const MarkerFile = "mdbase.yaml"

// ErrNoRoots indicates no collection root is available; callers must handle
// the absence rather than invent one.
var ErrNoRoots = errors.New("no mdbase collection root found")

// Root is one mdbase collection root.
type Root struct {
	// Path is the absolute root directory
	Path string
	// Name is a display name, the directory's base name
	Name string
}

// Picker resolves a multi-root ambiguity by asking the user. It returns the
// chosen root, or an error (including cancellation) that aborts the flow.
type Picker func(roots []Root) (Root, error)

// Discover collects the candidate roots: every configured root that exists,
// plus the nearest ancestor of workDir containing mdbase.yaml. Duplicates
// are collapsed; the result is sorted by path for stable ordering.
func Discover(workDir string, configured []string) []Root {
	seen := make(map[string]bool)
	var roots []Root

	add := func(dir string) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return
		}
		if seen[abs] {
			return
		}
		if _, err := os.Stat(filepath.Join(abs, MarkerFile)); err != nil {
			return
		}
		seen[abs] = true
		roots = append(roots, Root{Path: abs, Name: filepath.Base(abs)})
	}

	for _, dir := range configured {
		add(dir)
	}

	if workDir != "" {
		if found, ok := findUp(workDir); ok {
			add(found)
		}
	}

	sort.Slice(roots, func(i, j int) bool {
		return roots[i].Path < roots[j].Path
	})
	return roots
}

// findUp walks from dir toward the filesystem root looking for MarkerFile.
func findUp(dir string) (string, bool) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(current, MarkerFile)); err == nil {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// Choose picks one root among the candidates.
//   - zero roots: ErrNoRoots
//   - one root: that root, no prompt
//   - several: the root containing activePath when one does, otherwise the
//     picker decides; a picker error (cancellation included) aborts the
//     caller's flow with no side effects.
func Choose(roots []Root, activePath string, pick Picker) (Root, error) {
	switch len(roots) {
	case 0:
		return Root{}, ErrNoRoots
	case 1:
		return roots[0], nil
	}

	if activePath != "" {
		if abs, err := filepath.Abs(activePath); err == nil {
			// Prefer the deepest owning root so nested collections
			// resolve to the nearest one.
			best := -1
			for i, root := range roots {
				if !contains(root.Path, abs) {
					continue
				}
				if best < 0 || len(root.Path) > len(roots[best].Path) {
					best = i
				}
			}
			if best >= 0 {
				return roots[best], nil
			}
		}
	}

	return pick(roots)
}

// contains reports whether path is root or lies underneath it.
func contains(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
