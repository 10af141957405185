package emoji

import "strings"

var unsafeChars = strings.NewReplacer(
	"/", "_",
	`\`, "_",
	":", "_",
	"*", "_",
	"?", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeFilename makes a name or category safe to use as a path element.
// An empty result means the name cannot be used.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(unsafeChars.Replace(name))
	if name == "." || name == ".." {
		return ""
	}
	return name
}
