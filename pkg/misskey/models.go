package misskey

// Emoji is one custom emoji as returned by /api/emojis.
// A null category decodes to the empty string.
type Emoji struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	URL         string   `json:"url"`
	Aliases     []string `json:"aliases,omitempty"`
	IsSensitive bool     `json:"isSensitive,omitempty"`
	LocalOnly   bool     `json:"localOnly,omitempty"`
}

// EmojiList is the body of GET /api/emojis
type EmojiList struct {
	Emojis []Emoji `json:"emojis"`
}
