// Package mdbase defines the command protocol the backend executes on the
// client's behalf. All four commands share one request/response shape: a
// named command with a single positional argument object, answered by an
// opaque JSON result.
package mdbase

import (
	"context"
	"encoding/json"
	"fmt"
)

// Backend command names, as advertised by the server's executeCommandProvider.
const (
	CommandTypeInfo           = "mdbase.typeInfo"
	CommandCreateFile         = "mdbase.createFile"
	CommandValidateCollection = "mdbase.validateCollection"
	CommandQueryCollection    = "mdbase.queryCollection"
)

// Dispatcher sends a named command over the live connection and awaits its
// one correlated response.
type Dispatcher interface {
	Execute(ctx context.Context, command string, args []any) (json.RawMessage, error)
}

// PromptField is a backend-declared field that must be collected from the
// user before creation: required, no default, no generation strategy. The
// field order in a typeInfo response is the prompt order.
type PromptField struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Values      []string `json:"values,omitempty"`
}

// IsChoice reports whether the field constrains input to an enumerated set.
func (f PromptField) IsChoice() bool {
	return len(f.Values) > 0
}

// Title is the prompt label: the field name, with the description appended
// in parentheses when one exists.
func (f PromptField) Title() string {
	if f.Description != "" {
		return fmt.Sprintf("%s (%s)", f.Name, f.Description)
	}
	return f.Name
}

type typeInfoArgs struct {
	Type string `json:"type"`
}

type typeInfoResult struct {
	PromptFields []PromptField `json:"prompt_fields"`
}

// CreationRequest is the payload of mdbase.createFile. Path is omitted from
// the JSON entirely when empty, which tells the backend to derive it from the
// type's filename pattern. Frontmatter is always present, `{}` when the user
// supplied no values.
type CreationRequest struct {
	Type        string            `json:"type"`
	Frontmatter map[string]string `json:"frontmatter"`
	Path        string            `json:"path,omitempty"`
}

// NewCreationRequest assembles a creation payload from the collected values.
// A nil frontmatter map becomes an empty mapping so it marshals as {} rather
// than null.
func NewCreationRequest(typeName, path string, frontmatter map[string]string) CreationRequest {
	if frontmatter == nil {
		frontmatter = map[string]string{}
	}
	return CreationRequest{Type: typeName, Frontmatter: frontmatter, Path: path}
}

type queryArgs struct {
	Query string `json:"query"`
}

// TypeInfo asks the backend which fields the given type needs prompted.
// Dispatch failures degrade rather than abort: the caller gets an empty
// field list together with the error to surface as a warning, and the
// creation flow proceeds straight to path entry.
func TypeInfo(ctx context.Context, d Dispatcher, typeName string) ([]PromptField, error) {
	raw, err := d.Execute(ctx, CommandTypeInfo, []any{typeInfoArgs{Type: typeName}})
	if err != nil {
		return nil, err
	}

	var result typeInfoResult
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("malformed typeInfo result: %w", err)
		}
	}
	return result.PromptFields, nil
}

// CreateFile submits a creation request and returns the backend's
// created-file descriptor. Never retried on failure: a duplicate submission
// could scaffold the same file twice.
func CreateFile(ctx context.Context, d Dispatcher, req CreationRequest) (json.RawMessage, error) {
	return d.Execute(ctx, CommandCreateFile, []any{req})
}

// ValidateCollection validates the whole collection. An empty or absent
// result means a clean collection.
func ValidateCollection(ctx context.Context, d Dispatcher) (json.RawMessage, error) {
	return d.Execute(ctx, CommandValidateCollection, []any{struct{}{}})
}

// QueryCollection runs an ad hoc query against the collection.
func QueryCollection(ctx context.Context, d Dispatcher, query string) (json.RawMessage, error) {
	return d.Execute(ctx, CommandQueryCollection, []any{queryArgs{Query: query}})
}

// CreatedPath extracts the path of the created file from a createFile
// result, returning "" when the backend reported none.
func CreatedPath(result json.RawMessage) string {
	var descriptor struct {
		Path string `json:"path"`
	}
	if len(result) == 0 {
		return ""
	}
	if err := json.Unmarshal(result, &descriptor); err != nil {
		return ""
	}
	return descriptor.Path
}
