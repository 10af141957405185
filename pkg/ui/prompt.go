package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"emojigrab/pkg/emoji"
	errs "emojigrab/pkg/errors"
)

// ErrNoInput is returned when the input closes before an answer was given
var ErrNoInput = errors.New("no input available")

// Prompter asks questions on an output stream and reads answers line by line
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewPrompter creates a prompter reading from in and writing to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// readLine returns the next trimmed line. A final line without newline is
// still returned; ErrNoInput only comes back when nothing was read.
func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Ask prints prompt and returns the trimmed answer. Required questions are
// repeated until a non-empty answer is given.
func (p *Prompter) Ask(prompt string, required bool) (string, error) {
	for {
		fmt.Fprint(p.out, Cyan(prompt))

		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if answer != "" || !required {
			return answer, nil
		}
		fmt.Fprintln(p.out, Yellow("A value is required."))
	}
}

// AskDefault is Ask with a value used for an empty answer
func (p *Prompter) AskDefault(prompt, def string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("%s [%s]: ", prompt, def), false)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question
func (p *Prompter) Confirm(prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}

	for {
		answer, err := p.Ask(fmt.Sprintf("%s [%s]: ", prompt, hint), false)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, Yellow("Please answer y or n."))
	}
}

// AskInstance asks for the instance host
func (p *Prompter) AskInstance() (string, error) {
	return p.Ask("Instance (e.g. misskey.io): ", true)
}

// AskProxy asks for an optional proxy address
func (p *Prompter) AskProxy() (string, error) {
	return p.Ask("Proxy (e.g. http://127.0.0.1:8080, empty for none): ", false)
}

// AskDirectory asks where to save the images
func (p *Prompter) AskDirectory(def string) (string, error) {
	return p.AskDefault("Save to directory", def)
}

// SelectCategories prints the numbered category list and reads a selection.
// Invalid selections are reported and asked again.
func (p *Prompter) SelectCategories(categories []string, counts map[string]int) ([]string, error) {
	fmt.Fprintln(p.out, Magenta("Categories:"))
	for i, category := range categories {
		line := fmt.Sprintf("%3d. %s", i+1, category)
		if n, ok := counts[category]; ok {
			line += Dim(fmt.Sprintf(" (%d)", n))
		}
		fmt.Fprintln(p.out, line)
	}

	for {
		answer, err := p.Ask("Select categories (comma separated numbers, empty for all): ", false)
		if err != nil {
			return nil, err
		}

		selected, err := emoji.ParseSelection(answer, categories)
		if err == nil {
			return selected, nil
		}
		var invalid *errs.Error
		if !errors.As(err, &invalid) || invalid.Type != errs.ErrorTypeInvalidInput {
			return nil, err
		}
		fmt.Fprintln(p.out, Yellow("Invalid selection: "+invalid.Message))
	}
}
