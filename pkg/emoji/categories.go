package emoji

import (
	"emojigrab/pkg/misskey"
)

// UncategorizedLabel is used for emojis without a category
const UncategorizedLabel = "Uncategorized"

// CategoryOf returns the effective category of an emoji
func CategoryOf(e misskey.Emoji, label string) string {
	if e.Category == "" {
		if label == "" {
			return UncategorizedLabel
		}
		return label
	}
	return e.Category
}

// Categories returns the distinct categories in the order they first appear
func Categories(emojis []misskey.Emoji, label string) []string {
	seen := make(map[string]struct{})
	var categories []string

	for _, e := range emojis {
		category := CategoryOf(e, label)
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}

	return categories
}

// Count returns how many emojis fall into each category
func Count(emojis []misskey.Emoji, label string) map[string]int {
	counts := make(map[string]int)
	for _, e := range emojis {
		counts[CategoryOf(e, label)]++
	}
	return counts
}

// Filter keeps the emojis whose category is selected, in input order
func Filter(emojis []misskey.Emoji, selected []string, label string) []misskey.Emoji {
	want := make(map[string]struct{}, len(selected))
	for _, category := range selected {
		want[category] = struct{}{}
	}

	var out []misskey.Emoji
	for _, e := range emojis {
		if _, ok := want[CategoryOf(e, label)]; ok {
			out = append(out, e)
		}
	}
	return out
}
