package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// makeRoot creates a directory with an mdbase.yaml marker.
func makeRoot(t *testing.T, base string, parts ...string) string {
	t.Helper()
	dir := filepath.Join(append([]string{base}, parts...)...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create root: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MarkerFile), []byte("types_folder: _types\n"), 0644); err != nil {
		t.Fatalf("failed to write marker: %v", err)
	}
	return dir
}

func TestDiscover_ConfiguredAndWalkUp(t *testing.T) {
	tmpDir := t.TempDir()
	configured := makeRoot(t, tmpDir, "vault")
	walked := makeRoot(t, tmpDir, "work", "notes")
	nested := filepath.Join(walked, "projects", "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	roots := Discover(nested, []string{configured, filepath.Join(tmpDir, "missing")})

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d: %v", len(roots), roots)
	}
	paths := map[string]bool{roots[0].Path: true, roots[1].Path: true}
	if !paths[configured] || !paths[walked] {
		t.Errorf("roots = %v, want %s and %s", roots, configured, walked)
	}
}

func TestDiscover_Deduplicates(t *testing.T) {
	tmpDir := t.TempDir()
	root := makeRoot(t, tmpDir, "vault")

	roots := Discover(root, []string{root})
	if len(roots) != 1 {
		t.Fatalf("expected 1 root after dedup, got %d", len(roots))
	}
}

func TestChoose_ZeroRoots(t *testing.T) {
	_, err := Choose(nil, "", nil)
	if !errors.Is(err, ErrNoRoots) {
		t.Fatalf("expected ErrNoRoots, got %v", err)
	}
}

func TestChoose_SingleRootNoPrompt(t *testing.T) {
	root := Root{Path: "/vault", Name: "vault"}

	got, err := Choose([]Root{root}, "", func([]Root) (Root, error) {
		t.Fatal("picker must not be called for a single root")
		return Root{}, nil
	})
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if got.Path != root.Path {
		t.Errorf("got %v, want %v", got, root)
	}
}

func TestChoose_ActivePathSelectsOwningRoot(t *testing.T) {
	tmpDir := t.TempDir()
	a := makeRoot(t, tmpDir, "a")
	b := makeRoot(t, tmpDir, "b")
	roots := []Root{
		{Path: a, Name: "a"},
		{Path: b, Name: "b"},
	}

	got, err := Choose(roots, filepath.Join(b, "notes", "x.md"), func([]Root) (Root, error) {
		t.Fatal("picker must not be called when the active path owns a root")
		return Root{}, nil
	})
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if got.Path != b {
		t.Errorf("got %v, want %v", got.Path, b)
	}
}

func TestChoose_FallsBackToPicker(t *testing.T) {
	roots := []Root{
		{Path: "/a", Name: "a"},
		{Path: "/b", Name: "b"},
	}

	got, err := Choose(roots, "/elsewhere/file.md", func(candidates []Root) (Root, error) {
		if len(candidates) != 2 {
			t.Errorf("picker got %d candidates", len(candidates))
		}
		return candidates[1], nil
	})
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if got.Path != "/b" {
		t.Errorf("got %v, want /b", got.Path)
	}
}

func TestChoose_PickerCancellationAborts(t *testing.T) {
	cancelled := errors.New("cancelled")
	roots := []Root{{Path: "/a"}, {Path: "/b"}}

	_, err := Choose(roots, "", func([]Root) (Root, error) {
		return Root{}, cancelled
	})
	if !errors.Is(err, cancelled) {
		t.Fatalf("expected picker error to propagate, got %v", err)
	}
}
