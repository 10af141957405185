package tui

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the picker is closed without confirming
var ErrCancelled = errors.New("category selection cancelled")

// Picker runs the checkbox picker as a category selector
type Picker struct {
	options []tea.ProgramOption
}

// NewPicker creates a picker. in and out may be nil to use the terminal.
func NewPicker(in io.Reader, out io.Writer) *Picker {
	var options []tea.ProgramOption
	if in != nil {
		options = append(options, tea.WithInput(in))
	}
	if out != nil {
		options = append(options, tea.WithOutput(out))
	}
	return &Picker{options: options}
}

// SelectCategories shows the picker and returns the checked categories
func (p *Picker) SelectCategories(categories []string, counts map[string]int) ([]string, error) {
	return PickCategories(categories, counts, p.options...)
}

// PickCategories runs a checkbox list over categories until the user
// confirms or cancels
func PickCategories(categories []string, counts map[string]int, options ...tea.ProgramOption) ([]string, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	model := NewModel(categories, counts)
	final, err := tea.NewProgram(model, options...).Run()
	if err != nil {
		return nil, fmt.Errorf("category picker failed: %w", err)
	}

	result, ok := final.(*Model)
	if !ok || !result.Confirmed() {
		return nil, ErrCancelled
	}
	return result.Selected(), nil
}
