// Package render prints backend results and client messages to the
// terminal. Backend payloads are opaque: they are pretty-printed verbatim,
// never interpreted.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mdbase/mdb/internal/color"
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Renderer writes styled output for one session.
type Renderer struct {
	out       io.Writer
	errOut    io.Writer
	colorMode string
}

// New creates a Renderer. colorMode is "auto", "always", or "never".
func New(out, errOut io.Writer, colorMode string) *Renderer {
	return &Renderer{out: out, errOut: errOut, colorMode: colorMode}
}

// Result pretty-prints an opaque backend payload. With colors enabled the
// JSON goes through glamour as a fenced code block; otherwise it is plain
// indented JSON.
func (r *Renderer) Result(raw json.RawMessage) error {
	if isEmpty(raw) {
		_, err := fmt.Fprintln(r.out, "(no results)")
		return err
	}

	pretty, err := prettyJSON(raw)
	if err != nil {
		// Not JSON we can re-indent; show it untouched.
		_, werr := fmt.Fprintln(r.out, string(raw))
		return werr
	}

	if color.ShouldUseColors(r.colorMode) {
		if rendered, ok := renderFenced(pretty); ok {
			_, err := fmt.Fprintln(r.out, rendered)
			return err
		}
	}

	_, err = fmt.Fprintln(r.out, pretty)
	return err
}

// Validation renders a validation report, or a success line when the backend
// returned an empty or absent result.
func (r *Renderer) Validation(raw json.RawMessage) error {
	if isEmpty(raw) {
		r.Success("collection is valid")
		return nil
	}
	return r.Result(raw)
}

// Success prints a styled confirmation line.
func (r *Renderer) Success(msg string) {
	_, _ = fmt.Fprintln(r.out, r.styled(styleSuccess, "✓ "+msg))
}

// Warning prints a styled warning line to the error stream.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styled(styleWarning, "warning: "+msg))
}

// Error prints a styled error line to the error stream.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styled(styleError, "error: "+msg))
}

// BackendMessage relays a message the backend pushed over the connection.
func (r *Renderer) BackendMessage(severity, msg string) {
	switch severity {
	case "error":
		r.Error(msg)
	case "warning":
		r.Warning(msg)
	default:
		_, _ = fmt.Fprintf(r.errOut, "mdbase-lsp: %s\n", msg)
	}
}

func (r *Renderer) styled(style lipgloss.Style, msg string) string {
	if !color.ShouldUseColors(r.colorMode) {
		return msg
	}
	return style.Render(msg)
}

// isEmpty reports whether a backend result carries nothing to show.
func isEmpty(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}

// prettyJSON re-indents a raw JSON value.
func prettyJSON(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderFenced runs pretty JSON through glamour inside a fenced code block.
func renderFenced(pretty string) (string, bool) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return "", false
	}
	rendered, err := renderer.Render("```json\n" + pretty + "\n```")
	if err != nil {
		return "", false
	}
	return strings.TrimRight(rendered, "\n"), true
}
