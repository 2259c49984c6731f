// Package lsp implements the client side of a JSON-RPC 2.0 connection with
// LSP Content-Length framing, plus the typed handshake and command dispatch
// the mdbase backend expects.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

const maxMessageSize = 10 * 1024 * 1024

// NotificationHandler receives server-originated notifications and requests.
// The returned value is marshalled as the response for requests; notifications
// ignore it.
type NotificationHandler func(ctx context.Context, method string, params json.RawMessage) (any, error)

// Connection is a JSON-RPC 2.0 connection over Content-Length framed JSON,
// as spoken by LSP servers. It correlates responses to requests by id and
// delivers server-originated traffic to a handler.
type Connection struct {
	writer  io.Writer
	reader  *bufio.Reader
	handler NotificationHandler
	pending map[int]chan rpcResponse
	nextID  int
	mu      sync.Mutex
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int            `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcErrorBody   `json:"error,omitempty"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage
	Error  *rpcErrorBody
}

// RPCError is a JSON-RPC error returned by the backend.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// NewConnection creates a Connection over the given writer/reader pair and
// starts its read loop.
func NewConnection(handler NotificationHandler, w io.Writer, r io.Reader) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Connection{
		writer:  w,
		reader:  bufio.NewReader(r),
		handler: handler,
		pending: make(map[int]chan rpcResponse),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	go c.readLoop()
	return c
}

func (c *Connection) readLoop() {
	defer close(c.done)
	defer c.cancel()

	for {
		body, err := readFrame(c.reader)
		if err != nil {
			break
		}

		var msg rpcMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			continue
		}

		switch {
		case msg.ID != nil && msg.Method == "":
			c.deliverResponse(msg)
		case msg.ID != nil && msg.Method != "":
			go c.handleRequest(msg)
		case msg.Method != "":
			c.handleNotification(msg)
		}
	}

	// Unblock every caller still waiting on a response.
	c.mu.Lock()
	for id, ch := range c.pending {
		ch <- rpcResponse{Error: &rpcErrorBody{Code: -32603, Message: "connection closed"}}
		delete(c.pending, id)
	}
	c.mu.Unlock()
}

// readFrame reads one Content-Length framed message body.
func readFrame(r *bufio.Reader) ([]byte, error) {
	length := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("lsp: bad Content-Length: %w", err)
			}
			length = n
		}
	}
	if length < 0 {
		return nil, fmt.Errorf("lsp: missing Content-Length header")
	}
	if length > maxMessageSize {
		return nil, fmt.Errorf("lsp: message of %d bytes exceeds limit", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Connection) deliverResponse(msg rpcMessage) {
	c.mu.Lock()
	ch, ok := c.pending[*msg.ID]
	if ok {
		delete(c.pending, *msg.ID)
	}
	c.mu.Unlock()

	if ok {
		ch <- rpcResponse{Result: msg.Result, Error: msg.Error}
	}
}

func (c *Connection) handleRequest(msg rpcMessage) {
	resp := rpcMessage{JSONRPC: "2.0", ID: msg.ID}

	if c.handler == nil {
		resp.Error = &rpcErrorBody{Code: -32601, Message: "method not supported"}
		_ = c.writeMessage(resp)
		return
	}

	result, err := c.handler(c.ctx, msg.Method, msg.Params)
	if err != nil {
		resp.Error = &rpcErrorBody{Code: -32603, Message: err.Error()}
	} else {
		data, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			resp.Error = &rpcErrorBody{Code: -32603, Message: marshalErr.Error()}
		} else {
			resp.Result = data
		}
	}

	_ = c.writeMessage(resp)
}

func (c *Connection) handleNotification(msg rpcMessage) {
	if c.handler == nil {
		return
	}
	_, _ = c.handler(c.ctx, msg.Method, msg.Params)
}

func (c *Connection) writeMessage(msg rpcMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("lsp: marshal message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return fmt.Errorf("lsp: write header: %w", err)
	}
	if _, err := c.writer.Write(data); err != nil {
		return fmt.Errorf("lsp: write body: %w", err)
	}
	return nil
}

// Request sends a JSON-RPC request and blocks until its correlated response
// arrives, the context is cancelled, or the connection closes. There is no
// wire-level cancellation: cancelling the context abandons the response but
// the backend still processes the request.
func (c *Connection) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	ch := make(chan rpcResponse, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	var rawParams json.RawMessage
	if params != nil {
		var err error
		rawParams, err = json.Marshal(params)
		if err != nil {
			c.mu.Lock()
			delete(c.pending, id)
			c.mu.Unlock()
			return nil, fmt.Errorf("lsp: marshal params: %w", err)
		}
	}

	msg := rpcMessage{JSONRPC: "2.0", ID: &id, Method: method, Params: rawParams}
	if err := c.writeMessage(msg); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, err
	}

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return nil, &RPCError{Code: resp.Error.Code, Message: resp.Error.Message}
		}
		return resp.Result, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, ctx.Err()
	case <-c.done:
		return nil, fmt.Errorf("lsp: connection closed")
	}
}

// Notify sends a JSON-RPC notification (no id, no response).
func (c *Connection) Notify(ctx context.Context, method string, params any) error {
	var rawParams json.RawMessage
	if params != nil {
		var err error
		rawParams, err = json.Marshal(params)
		if err != nil {
			return fmt.Errorf("lsp: marshal params: %w", err)
		}
	}
	return c.writeMessage(rpcMessage{JSONRPC: "2.0", Method: method, Params: rawParams})
}

// Done returns a channel closed when the read loop terminates.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Close cancels the connection and closes the underlying writer when it
// implements io.Closer.
func (c *Connection) Close() error {
	c.cancel()
	if closer, ok := c.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
