// Package create orchestrates the interactive file-creation flow: pick a
// type, discover its prompt fields, collect values, submit the creation
// request. Every step is a suspension point; cancellation at any of them
// aborts the flow before a single write reaches the backend.
package create

import (
	"context"
	"errors"
	"fmt"

	"github.com/mdbase/mdb/internal/catalog"
	"github.com/mdbase/mdb/internal/mdbase"
	"github.com/mdbase/mdb/internal/prompt"
	"github.com/mdbase/mdb/internal/workspace"
)

// UI is the interactive surface the flow needs: the sequencer's prompts
// plus the type selection step.
type UI interface {
	prompt.Prompter
	// SelectType picks one type from the scanned catalog.
	SelectType(types []catalog.Type) (string, error)
	// TypeName asks for a type as free text when the catalog is empty.
	TypeName() (string, error)
}

// Reporter surfaces flow progress to the user. Warnings never abort.
type Reporter interface {
	Success(msg string)
	Warning(msg string)
}

// Flow runs one file creation against a chosen collection root.
type Flow struct {
	Dispatcher mdbase.Dispatcher
	UI         UI
	Reporter   Reporter
}

// Run drives the flow for the given root. typeName may be preselected (from
// a command-line argument); when empty the catalog decides between a
// constrained pick and free-text entry. Returns prompt.ErrCancelled when the
// user backs out at any step — callers treat that as a silent no-op.
func (f *Flow) Run(ctx context.Context, root workspace.Root, typeName string) error {
	if typeName == "" {
		var err error
		typeName, err = f.chooseType(root)
		if err != nil {
			return err
		}
	}

	// Metadata failures degrade instead of blocking creation: warn and
	// continue straight to path entry with no fields to collect.
	fields, err := mdbase.TypeInfo(ctx, f.Dispatcher, typeName)
	if err != nil {
		f.Reporter.Warning(fmt.Sprintf("could not fetch fields for type %q: %v", typeName, err))
		fields = nil
	}

	collected, err := prompt.Run(f.UI, fields)
	if err != nil {
		return err
	}

	req := mdbase.NewCreationRequest(typeName, collected.Path, collected.Frontmatter)
	result, err := mdbase.CreateFile(ctx, f.Dispatcher, req)
	if err != nil {
		// Not retried: a second submission could scaffold a duplicate.
		return fmt.Errorf("file creation failed: %w", err)
	}

	if path := mdbase.CreatedPath(result); path != "" {
		f.Reporter.Success("created " + path)
	} else {
		f.Reporter.Success("file created")
	}
	return nil
}

func (f *Flow) chooseType(root workspace.Root) (string, error) {
	types := catalog.Scan(root.Path)
	if len(types) == 0 {
		name, err := f.UI.TypeName()
		if err != nil {
			return "", err
		}
		if name == "" {
			return "", prompt.ErrCancelled
		}
		return name, nil
	}
	return f.UI.SelectType(types)
}

// Cancelled reports whether err is a user cancellation, which ends a flow
// silently.
func Cancelled(err error) bool {
	return errors.Is(err, prompt.ErrCancelled)
}
