package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mdbase/mdb/internal/mdbase"
)

type fakeDispatcher struct {
	responses map[string]json.RawMessage
	errs      map[string]error
	commands  []string
	payloads  []json.RawMessage
}

func (d *fakeDispatcher) Execute(_ context.Context, command string, args []any) (json.RawMessage, error) {
	d.commands = append(d.commands, command)
	if len(args) > 0 {
		data, _ := json.Marshal(args[0])
		d.payloads = append(d.payloads, data)
	}
	if err := d.errs[command]; err != nil {
		return nil, err
	}
	return d.responses[command], nil
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("content is not text: %#v", result.Content[0])
	}
	return text.Text
}

func TestHandleCreateFile(t *testing.T) {
	d := &fakeDispatcher{responses: map[string]json.RawMessage{
		mdbase.CommandCreateFile: json.RawMessage(`{"path":"notes/x.md"}`),
	}}

	handler := handleCreateFile(d)
	result, err := handler(context.Background(), callRequest(map[string]any{
		"type":        "note",
		"frontmatter": map[string]any{"title": "Example"},
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	if got := textContent(t, result); got != "created notes/x.md" {
		t.Errorf("result text = %q", got)
	}

	var payload map[string]any
	if err := json.Unmarshal(d.payloads[0], &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if _, hasPath := payload["path"]; hasPath {
		t.Errorf("omitted path must not be sent, payload = %s", d.payloads[0])
	}
}

func TestHandleCreateFile_MissingType(t *testing.T) {
	d := &fakeDispatcher{}

	handler := handleCreateFile(d)
	result, err := handler(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing type")
	}
	if len(d.commands) != 0 {
		t.Errorf("commands dispatched despite invalid input: %v", d.commands)
	}
}

func TestHandleValidate_CleanCollection(t *testing.T) {
	d := &fakeDispatcher{responses: map[string]json.RawMessage{
		mdbase.CommandValidateCollection: json.RawMessage(`null`),
	}}

	handler := handleValidate(d)
	result, err := handler(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if got := textContent(t, result); got != "collection is valid" {
		t.Errorf("result text = %q", got)
	}
}

func TestHandleQuery_DispatchErrorBecomesToolError(t *testing.T) {
	d := &fakeDispatcher{errs: map[string]error{
		mdbase.CommandQueryCollection: errors.New("not connected"),
	}}

	handler := handleQuery(d)
	result, err := handler(context.Background(), callRequest(map[string]any{"query": "type:note"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result")
	}
	if got := textContent(t, result); !strings.Contains(got, "not connected") {
		t.Errorf("result text = %q", got)
	}
}

func TestHandleTypeInfo(t *testing.T) {
	d := &fakeDispatcher{responses: map[string]json.RawMessage{
		mdbase.CommandTypeInfo: json.RawMessage(`{"prompt_fields":[{"name":"title","type":"string"}]}`),
	}}

	handler := handleTypeInfo(d)
	result, err := handler(context.Background(), callRequest(map[string]any{"type": "note"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if got := textContent(t, result); !strings.Contains(got, `"title"`) {
		t.Errorf("result text = %q", got)
	}
}
