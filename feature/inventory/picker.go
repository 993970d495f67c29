package inventory

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

var (
	// ErrNoSheets is returned when the export contains no sheet at all.
	ErrNoSheets = errors.New("no sheets")
	// ErrSelectionAborted is returned when the operator cancels the sheet prompt.
	ErrSelectionAborted = errors.New("select a sheet")
	// ErrSheetNotFound is returned when a configured sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)

// SheetPicker chooses one sheet out of several. It is only called with two or
// more names and must return one of them or an error.
type SheetPicker func(names []string) (string, error)

// SelectSheet picks the sheet to load. A single sheet is used without asking.
func SelectSheet(names []string, pick SheetPicker) (string, error) {
	switch len(names) {
	case 0:
		return "", ErrNoSheets
	case 1:
		return names[0], nil
	}

	if pick == nil {
		pick = FirstSheetPicker
	}
	name, err := pick(names)
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if n == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSheetNotFound, name)
}

// FirstSheetPicker always selects the first sheet. Used when nobody can answer a prompt.
func FirstSheetPicker(names []string) (string, error) {
	return names[0], nil
}

// NamedPicker selects a sheet by name.
func NamedPicker(sheet string) SheetPicker {
	return func(names []string) (string, error) {
		for _, n := range names {
			if n == sheet {
				return n, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
}

// PromptPicker asks the operator to choose a sheet. The first sheet is highlighted.
func PromptPicker(names []string) (string, error) {
	selected := names[0]
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Select the sheet with the exported objects").
			Options(huh.NewOptions(names...)...).
			Value(&selected),
	)).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrSelectionAborted
		}
		return "", fmt.Errorf("terminal error: %w", err)
	}
	return selected, nil
}

// DefaultPicker prompts when stdin is a terminal and otherwise falls back to
// the first sheet. A non-empty sheet name always wins.
func DefaultPicker(sheet string) SheetPicker {
	if sheet != "" {
		return NamedPicker(sheet)
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return PromptPicker
	}
	return FirstSheetPicker
}
