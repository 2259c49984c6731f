package completion

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateBash(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, "bash"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	script := buf.String()
	for _, want := range []string{
		"complete -F _mdb_completions mdb",
		"new types validate query mcp completion",
		"--complete-types",
		"auto always never",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("bash script missing %q", want)
		}
	}
}

func TestGenerateZsh(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, "zsh"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	script := buf.String()
	for _, want := range []string{
		"#compdef mdb",
		"'new:create a document interactively'",
		"--complete-types",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("zsh script missing %q", want)
		}
	}
}

func TestGenerateFish(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, "fish"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	script := buf.String()
	for _, want := range []string{
		"complete -c mdb",
		"__mdb_types",
		"error warn info debug trace",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("fish script missing %q", want)
		}
	}
}

func TestGenerateUnsupportedShell(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(&buf, "powershell")
	if err == nil {
		t.Fatal("expected error for unsupported shell")
	}
	if !strings.Contains(err.Error(), "powershell") {
		t.Errorf("error %q should name the shell", err)
	}
}

func TestSupportedShells(t *testing.T) {
	shells := SupportedShells()
	want := []string{"bash", "fish", "zsh"}
	if len(shells) != len(want) {
		t.Fatalf("SupportedShells() = %v, want %v", shells, want)
	}
	for i, shell := range want {
		if shells[i] != shell {
			t.Errorf("SupportedShells()[%d] = %q, want %q", i, shells[i], shell)
		}
	}
}

func TestCompleteTypes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "mdbase.yaml"), "")
	typesDir := filepath.Join(root, "_types")
	if err := os.MkdirAll(typesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(typesDir, "note.md"), "")
	writeFile(t, filepath.Join(typesDir, "task.md"), "")
	workDir := filepath.Join(root, "docs")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatal(err)
	}

	names := CompleteTypes(workDir, "")
	if len(names) != 2 || names[0] != "note" || names[1] != "task" {
		t.Errorf("CompleteTypes() = %v, want [note task]", names)
	}

	names = CompleteTypes(workDir, "ta")
	if len(names) != 1 || names[0] != "task" {
		t.Errorf("CompleteTypes(\"ta\") = %v, want [task]", names)
	}
}

func TestCompleteTypesNoWorkspace(t *testing.T) {
	names := CompleteTypes(t.TempDir(), "")
	if len(names) != 0 {
		t.Errorf("CompleteTypes() = %v, want empty", names)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
