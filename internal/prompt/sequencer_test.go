package prompt

import (
	"errors"
	"testing"

	"github.com/mdbase/mdb/internal/mdbase"
)

// scriptedPrompter plays back canned answers and counts prompts. A response
// equal to cancelMarker simulates the user backing out.
const cancelMarker = "\x00cancel"

type scriptedPrompter struct {
	answers []string
	calls   int
	choices []mdbase.PromptField
}

func (p *scriptedPrompter) next() (string, error) {
	if p.calls >= len(p.answers) {
		return "", errors.New("prompter script exhausted")
	}
	answer := p.answers[p.calls]
	p.calls++
	if answer == cancelMarker {
		return "", ErrCancelled
	}
	return answer, nil
}

func (p *scriptedPrompter) Path() (string, error) { return p.next() }

func (p *scriptedPrompter) Text(_ mdbase.PromptField) (string, error) { return p.next() }

func (p *scriptedPrompter) Choice(field mdbase.PromptField) (string, error) {
	p.choices = append(p.choices, field)
	return p.next()
}

func textField(name string) mdbase.PromptField {
	return mdbase.PromptField{Name: name, Type: "string"}
}

func TestRun_PathThenFields(t *testing.T) {
	p := &scriptedPrompter{answers: []string{"notes/x.md", "Example", "high"}}
	fields := []mdbase.PromptField{
		textField("title"),
		{Name: "priority", Type: "string", Values: []string{"low", "high"}},
	}

	result, err := Run(p, fields)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Path != "notes/x.md" {
		t.Errorf("path = %q", result.Path)
	}
	if result.Frontmatter["title"] != "Example" || result.Frontmatter["priority"] != "high" {
		t.Errorf("frontmatter = %v", result.Frontmatter)
	}
	if len(p.choices) != 1 || p.choices[0].Name != "priority" {
		t.Errorf("choice modality used for %v, want priority only", p.choices)
	}
}

func TestRun_PromptCountIsFieldsPlusOne(t *testing.T) {
	for n := 0; n <= 3; n++ {
		answers := make([]string, n+1)
		for i := range answers {
			answers[i] = "v"
		}
		p := &scriptedPrompter{answers: answers}

		fields := make([]mdbase.PromptField, n)
		for i := range fields {
			fields[i] = textField(string(rune('a' + i)))
		}

		if _, err := Run(p, fields); err != nil {
			t.Fatalf("Run with %d fields failed: %v", n, err)
		}
		if p.calls != n+1 {
			t.Errorf("%d fields: %d prompts issued, want %d", n, p.calls, n+1)
		}
	}
}

func TestRun_EmptyTextOmitsField(t *testing.T) {
	p := &scriptedPrompter{answers: []string{"", "", "kept"}}
	fields := []mdbase.PromptField{textField("summary"), textField("title")}

	result, err := Run(p, fields)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, ok := result.Frontmatter["summary"]; ok {
		t.Error("empty value must omit the field's key")
	}
	if result.Frontmatter["title"] != "kept" {
		t.Errorf("frontmatter = %v", result.Frontmatter)
	}
}

func TestRun_CancelAtPath(t *testing.T) {
	p := &scriptedPrompter{answers: []string{cancelMarker}}

	_, err := Run(p, []mdbase.PromptField{textField("title")})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if p.calls != 1 {
		t.Errorf("prompts after cancel = %d, want 1", p.calls)
	}
}

func TestRun_CancelMidFields(t *testing.T) {
	p := &scriptedPrompter{answers: []string{"", "first", cancelMarker}}
	fields := []mdbase.PromptField{textField("a"), textField("b"), textField("c")}

	_, err := Run(p, fields)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if p.calls != 3 {
		t.Errorf("prompts issued = %d, want 3 (path, a, cancelled b)", p.calls)
	}
}

func TestRun_NoFieldsOnlyPathPrompt(t *testing.T) {
	p := &scriptedPrompter{answers: []string{"notes/y.md"}}

	result, err := Run(p, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if p.calls != 1 {
		t.Errorf("prompts = %d, want 1", p.calls)
	}
	if len(result.Frontmatter) != 0 {
		t.Errorf("frontmatter = %v, want empty", result.Frontmatter)
	}
}
