// Package backend owns the single mdbase-lsp process and its connection.
// The manager is the only process-wide object: started once per session,
// stopped on teardown, and injected into whatever needs to dispatch commands.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/mdbase/mdb/internal/locator"
	"github.com/mdbase/mdb/internal/lsp"
)

// ErrNotConnected is returned by Execute while the manager is stopped.
// Commands fail fast rather than queue: a stopped backend stays stopped
// until the user restarts the session.
var ErrNotConnected = errors.New("not connected to mdbase-lsp")

const shutdownTimeout = 3 * time.Second

// Manager starts, owns, and stops the backend process and its connection.
type Manager struct {
	location locator.Location
	stderr   io.Writer
	sink     lsp.MessageSink

	mu     sync.Mutex
	cmd    *exec.Cmd
	client *lsp.Client
}

// NewManager creates a stopped manager for the located backend. Backend
// stderr is copied to stderr; messages the backend pushes over the
// connection go to sink.
func NewManager(location locator.Location, stderr io.Writer, sink lsp.MessageSink) *Manager {
	return &Manager{location: location, stderr: stderr, sink: sink}
}

// Start launches the backend with the location's environment overlay,
// connects over its stdio, and performs the initialize handshake for the
// given collection root. Any failure tears down whatever was started and
// leaves the manager stopped; the manager never retries on its own.
func (m *Manager) Start(ctx context.Context, root string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return fmt.Errorf("backend already started")
	}

	cmd := exec.Command(m.location.Path)
	cmd.Env = append(os.Environ(), m.location.Env...)
	cmd.Stderr = m.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open backend stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open backend stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", m.location.Path, err)
	}

	client := lsp.NewClient(stdin, stdout, m.sink)

	if _, err := client.Initialize(ctx, fileURI(root), filepath.Base(root)); err != nil {
		_ = client.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("backend failed to initialize: %w", err)
	}

	m.cmd = cmd
	m.client = client
	return nil
}

// Stop shuts the backend down. Idempotent: a stopped manager stays stopped.
// The LSP shutdown/exit exchange is best effort; the process is reaped
// regardless.
func (m *Manager) Stop() {
	m.mu.Lock()
	client := m.client
	cmd := m.cmd
	m.client = nil
	m.cmd = nil
	m.mu.Unlock()

	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = client.Shutdown(ctx)
	_ = client.Close()

	if cmd != nil {
		done := make(chan struct{})
		go func() {
			_ = cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}
}

// Execute dispatches a named backend command with positional arguments.
// While stopped it fails fast with ErrNotConnected.
func (m *Manager) Execute(ctx context.Context, command string, args []any) (json.RawMessage, error) {
	m.mu.Lock()
	client := m.client
	m.mu.Unlock()

	if client == nil {
		return nil, ErrNotConnected
	}
	return client.ExecuteCommand(ctx, command, args)
}

// fileURI converts an absolute path to a file:// URI.
func fileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
