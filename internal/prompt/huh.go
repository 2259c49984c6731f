package prompt

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/mdbase/mdb/internal/catalog"
	"github.com/mdbase/mdb/internal/mdbase"
	"github.com/mdbase/mdb/internal/workspace"
)

// Terminal prompts via huh forms. The zero value is ready to use.
type Terminal struct{}

var _ Prompter = Terminal{}

// Path asks for the target file path. Empty input is a valid answer meaning
// "let the backend derive the path".
func (Terminal) Path() (string, error) {
	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("File path").
				Description("Leave empty to derive the path from the type's filename pattern").
				Value(&path),
		),
	)
	if err := form.Run(); err != nil {
		return "", mapAborted(err)
	}
	return path, nil
}

// Text asks for a free-text field value.
func (Terminal) Text(field mdbase.PromptField) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(field.Title()).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", mapAborted(err)
	}
	return value, nil
}

// Choice asks for one of the field's enumerated values.
func (Terminal) Choice(field mdbase.PromptField) (string, error) {
	options := make([]huh.Option[string], 0, len(field.Values))
	for _, v := range field.Values {
		options = append(options, huh.NewOption(v, v))
	}

	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(field.Title()).
				Options(options...).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", mapAborted(err)
	}
	return value, nil
}

// SelectType asks the user to pick a content type from the catalog.
// Definition descriptions become option descriptions when present.
func (Terminal) SelectType(types []catalog.Type) (string, error) {
	options := make([]huh.Option[string], 0, len(types))
	for _, t := range types {
		label := t.Name
		if t.Description != "" {
			label = fmt.Sprintf("%s — %s", t.Name, t.Description)
		}
		options = append(options, huh.NewOption(label, t.Name))
	}

	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Content type").
				Options(options...).
				Value(&name),
		),
	)
	if err := form.Run(); err != nil {
		return "", mapAborted(err)
	}
	return name, nil
}

// TypeName asks for a type name as free text, the fallback when the catalog
// is empty.
func (Terminal) TypeName() (string, error) {
	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Content type").
				Description("No type definitions found; enter a type name").
				Value(&name),
		),
	)
	if err := form.Run(); err != nil {
		return "", mapAborted(err)
	}
	return name, nil
}

// SelectRoot asks the user to disambiguate between open collection roots.
func (Terminal) SelectRoot(roots []workspace.Root) (workspace.Root, error) {
	options := make([]huh.Option[workspace.Root], 0, len(roots))
	for _, r := range roots {
		options = append(options, huh.NewOption(r.Path, r))
	}

	var root workspace.Root
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[workspace.Root]().
				Title("Collection root").
				Options(options...).
				Value(&root),
		),
	)
	if err := form.Run(); err != nil {
		return workspace.Root{}, mapAborted(err)
	}
	return root, nil
}

// mapAborted converts huh's abort sentinel into ErrCancelled.
func mapAborted(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
