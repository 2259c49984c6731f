// Package mcpserver exposes the mdbase backend commands as MCP tools over
// stdio, so agent hosts can create, validate, and query collection files
// through the same single connection the interactive client uses. Tool
// callers supply frontmatter values structurally, so the interactive prompt
// sequence does not apply here.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mdbase/mdb/internal/mdbase"
)

// Run serves MCP over stdio until the host disconnects. All tool calls
// dispatch through d; a stopped backend surfaces as tool errors, not a
// server crash.
func Run(version string, d mdbase.Dispatcher) error {
	s := server.NewMCPServer(
		"mdb",
		version,
		server.WithToolCapabilities(false),
	)

	typeInfo := mcp.NewTool("mdbase_type_info",
		mcp.WithDescription("List the fields a content type requires before a file can be created"),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Content type name"),
		),
	)
	s.AddTool(typeInfo, handleTypeInfo(d))

	createFile := mcp.NewTool("mdbase_create_file",
		mcp.WithDescription("Create a new file of the given content type"),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Content type name"),
		),
		mcp.WithString("path",
			mcp.Description("Target path relative to the collection root; omit to derive from the type's filename pattern"),
		),
		mcp.WithObject("frontmatter",
			mcp.Description("Frontmatter values as a string-to-string mapping"),
		),
	)
	s.AddTool(createFile, handleCreateFile(d))

	validate := mcp.NewTool("mdbase_validate",
		mcp.WithDescription("Validate every file in the collection against its type"),
	)
	s.AddTool(validate, handleValidate(d))

	query := mcp.NewTool("mdbase_query",
		mcp.WithDescription("Run an ad hoc query against the collection"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Query expression"),
		),
	)
	s.AddTool(query, handleQuery(d))

	return server.ServeStdio(s)
}

func handleTypeInfo(d mdbase.Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		typeName, err := stringArg(req, "type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		fields, err := mdbase.TypeInfo(ctx, d, typeName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("type info failed: %v", err)), nil
		}
		return jsonResult(map[string]any{"prompt_fields": fields})
	}
}

func handleCreateFile(d mdbase.Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		typeName, err := stringArg(req, "type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		args := req.GetArguments()
		path, _ := args["path"].(string)

		frontmatter := map[string]string{}
		if raw, ok := args["frontmatter"].(map[string]any); ok {
			for key, value := range raw {
				text, ok := value.(string)
				if !ok {
					return mcp.NewToolResultError(fmt.Sprintf("frontmatter value for %q must be a string", key)), nil
				}
				frontmatter[key] = text
			}
		}

		result, err := mdbase.CreateFile(ctx, d, mdbase.NewCreationRequest(typeName, path, frontmatter))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("creation failed: %v", err)), nil
		}
		if created := mdbase.CreatedPath(result); created != "" {
			return mcp.NewToolResultText("created " + created), nil
		}
		return mcp.NewToolResultText("file created"), nil
	}
}

func handleValidate(d mdbase.Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := mdbase.ValidateCollection(ctx, d)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("validation failed: %v", err)), nil
		}
		if len(result) == 0 || string(result) == "null" {
			return mcp.NewToolResultText("collection is valid"), nil
		}
		return rawResult(result)
	}
}

func handleQuery(d mdbase.Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		expr, err := stringArg(req, "query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := mdbase.QueryCollection(ctx, d, expr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}
		return rawResult(result)
	}
}

func stringArg(req mcp.CallToolRequest, name string) (string, error) {
	value, ok := req.GetArguments()[name].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	return value, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func rawResult(raw json.RawMessage) (*mcp.CallToolResult, error) {
	if len(raw) == 0 {
		return mcp.NewToolResultText("null"), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
