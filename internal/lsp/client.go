package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MessageSink receives messages the backend pushes at the client
// (window/showMessage, window/logMessage).
type MessageSink func(severity, message string)

// Client wraps a Connection with the typed requests the mdbase backend
// understands.
type Client struct {
	conn *Connection
	sink MessageSink
}

// NewClient creates a Client over the given writer/reader pair. Backend
// messages are passed to sink; a nil sink drops them.
func NewClient(w io.Writer, r io.Reader, sink MessageSink) *Client {
	c := &Client{sink: sink}
	c.conn = NewConnection(c.dispatch, w, r)
	return c
}

func (c *Client) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case MethodShowMessage, MethodLogMessage:
		if c.sink != nil {
			var p ShowMessageParams
			if err := decodeParams(params, &p); err == nil {
				c.sink(p.Type.String(), p.Message)
			}
		}
		return nil, nil
	}
	// The backend publishes diagnostics and other notifications the CLI
	// has no surface for; they are acknowledged and dropped.
	return nil, nil
}

// Initialize performs the LSP startup handshake for the given collection
// root and confirms it with the initialized notification.
func (c *Client) Initialize(ctx context.Context, rootURI, rootName string) (InitializeResult, error) {
	pid := os.Getpid()
	params := InitializeParams{
		ProcessID: &pid,
		RootURI:   rootURI,
		WorkspaceFolders: []WorkspaceFolder{
			{URI: rootURI, Name: rootName},
		},
	}

	raw, err := c.conn.Request(ctx, MethodInitialize, params)
	if err != nil {
		return InitializeResult{}, err
	}

	var result InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return InitializeResult{}, fmt.Errorf("lsp: unmarshal initialize result: %w", err)
	}

	if err := c.conn.Notify(ctx, MethodInitialized, struct{}{}); err != nil {
		return InitializeResult{}, err
	}
	return result, nil
}

// ExecuteCommand dispatches a named backend command with positional
// arguments and returns the raw result.
func (c *Client) ExecuteCommand(ctx context.Context, command string, args []any) (json.RawMessage, error) {
	return c.conn.Request(ctx, MethodExecuteCommand, ExecuteCommandParams{
		Command:   command,
		Arguments: args,
	})
}

// Shutdown asks the backend to stop: shutdown request followed by the exit
// notification.
func (c *Client) Shutdown(ctx context.Context) error {
	if _, err := c.conn.Request(ctx, MethodShutdown, nil); err != nil {
		return err
	}
	return c.conn.Notify(ctx, MethodExit, nil)
}

// Done returns a channel closed when the connection's read loop ends.
func (c *Client) Done() <-chan struct{} {
	return c.conn.Done()
}

// Close tears down the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
