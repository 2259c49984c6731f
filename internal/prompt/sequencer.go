// Package prompt collects the values a file creation needs from the user.
// The sequencer is a small state machine: one path prompt, then one prompt
// per backend-declared field, with cancellation terminal from every state.
package prompt

import (
	"errors"

	"github.com/mdbase/mdb/internal/mdbase"
)

// ErrCancelled reports that the user backed out of a prompt. Cancellation is
// not an error condition for the user: flows abort silently with no backend
// call, so callers must check for it before reporting anything.
var ErrCancelled = errors.New("prompt cancelled")

// Prompter supplies one user interaction per call. Implementations return
// ErrCancelled when the user backs out, which is distinct from submitting an
// empty value.
type Prompter interface {
	// Path asks for the target file path; empty means auto-generate.
	Path() (string, error)
	// Text asks for a free-text field value; empty means no value supplied.
	Text(field mdbase.PromptField) (string, error)
	// Choice asks for one value out of the field's enumerated set.
	Choice(field mdbase.PromptField) (string, error)
}

// Result is the collected (path, frontmatter) pair handed to the creation
// request builder.
type Result struct {
	Path        string
	Frontmatter map[string]string
}

type state int

const (
	statePath state = iota
	stateField
	stateDone
)

// Run walks the prompt sequence: path first, then each field in the order
// the backend declared them. The modality per field follows its shape —
// enumerated values get a constrained choice, everything else free text. An
// empty text submission omits the field from the frontmatter; ErrCancelled
// from any prompt aborts the whole run. Run itself never talks to the
// backend.
func Run(p Prompter, fields []mdbase.PromptField) (Result, error) {
	result := Result{Frontmatter: map[string]string{}}

	current := statePath
	next := 0
	for {
		switch current {
		case statePath:
			path, err := p.Path()
			if err != nil {
				return Result{}, err
			}
			result.Path = path
			if len(fields) == 0 {
				current = stateDone
			} else {
				current = stateField
			}

		case stateField:
			field := fields[next]

			var value string
			var err error
			if field.IsChoice() {
				value, err = p.Choice(field)
			} else {
				value, err = p.Text(field)
			}
			if err != nil {
				return Result{}, err
			}
			if value != "" {
				result.Frontmatter[field.Name] = value
			}

			next++
			if next == len(fields) {
				current = stateDone
			}

		case stateDone:
			return result, nil
		}
	}
}
