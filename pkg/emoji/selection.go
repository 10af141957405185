package emoji

import (
	"strconv"
	"strings"

	errs "emojigrab/pkg/errors"
)

// ParseSelection resolves a comma separated list of 1-based indices into
// category names. Empty input selects everything. Repeated indices are
// kept once, at their first position.
func ParseSelection(input string, categories []string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return append([]string(nil), categories...), nil
	}

	seen := make(map[int]bool)
	var selected []string

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		index, err := strconv.Atoi(part)
		if err != nil {
			return nil, errs.New(errs.ErrorTypeInvalidInput, 0, "%q is not a number", part)
		}
		if index < 1 || index > len(categories) {
			return nil, errs.New(errs.ErrorTypeInvalidInput, 0,
				"%d is out of range, choose between 1 and %d", index, len(categories))
		}
		if seen[index] {
			continue
		}
		seen[index] = true
		selected = append(selected, categories[index-1])
	}

	return selected, nil
}

// SelectByName checks category names given on the command line
func SelectByName(names []string, categories []string) ([]string, error) {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c] = true
	}

	seen := make(map[string]bool)
	var selected []string
	var unknown []string

	for _, name := range names {
		switch {
		case !known[name]:
			unknown = append(unknown, name)
		case !seen[name]:
			seen[name] = true
			selected = append(selected, name)
		}
	}

	if len(unknown) > 0 {
		return nil, errs.New(errs.ErrorTypeInvalidInput, 0, "unknown categories: %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}
