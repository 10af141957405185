package grabber

import (
	"context"

	"emojigrab/internal/downloader"
	"emojigrab/pkg/emoji"
	"emojigrab/pkg/misskey"
)

// Client defines the instance operations a run needs
type Client interface {
	FetchEmojis(ctx context.Context, instance string) (*misskey.EmojiList, error)
	downloader.Fetcher
}

// Selector chooses the categories to download
type Selector interface {
	SelectCategories(categories []string, counts map[string]int) ([]string, error)
}

// DirectoryPrompt asks for the output directory
type DirectoryPrompt interface {
	AskDirectory(def string) (string, error)
}

// StaticSelector selects categories by name without asking. An empty
// list selects every category.
type StaticSelector struct {
	Names []string
}

// SelectCategories implements Selector
func (s StaticSelector) SelectCategories(categories []string, counts map[string]int) ([]string, error) {
	if len(s.Names) == 0 {
		return append([]string(nil), categories...), nil
	}
	return emoji.SelectByName(s.Names, categories)
}
