package misskey

import (
	"net/url"
	"path"
	"strings"

	errs "emojigrab/pkg/errors"
)

const (
	// EmojisEndpoint lists every custom emoji on the instance
	EmojisEndpoint = "/api/emojis"

	// DefaultExtension is used when neither the server nor the URL names a type
	DefaultExtension = "dat"
)

// mimeExtensions maps image content types to file extensions
var mimeExtensions = map[string]string{
	"image/png":        "png",
	"image/apng":       "png",
	"image/jpeg":       "jpg",
	"image/jpg":        "jpg",
	"image/gif":        "gif",
	"image/webp":       "webp",
	"image/avif":       "avif",
	"image/svg+xml":    "svg",
	"application/json": "json",
}

// BaseURL normalises a user supplied instance into scheme://host[/path].
// Bare hosts get https; trailing slashes are dropped.
func BaseURL(instance string) (string, error) {
	s := strings.TrimSpace(instance)
	if s == "" {
		return "", errs.New(errs.ErrorTypeInvalidInput, 0, "instance address is empty")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeInvalidInput, err, "invalid instance address %q", instance)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errs.New(errs.ErrorTypeInvalidInput, 0, "unsupported scheme %q in instance address", u.Scheme)
	}
	if u.Host == "" {
		return "", errs.New(errs.ErrorTypeInvalidInput, 0, "instance address %q has no host", instance)
	}

	return strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/"), nil
}

// EmojisURL returns the emoji list URL for an instance
func EmojisURL(instance string) (string, error) {
	base, err := BaseURL(instance)
	if err != nil {
		return "", err
	}
	return base + EmojisEndpoint, nil
}

// ExtensionForContentType maps a Content-Type header value to an extension.
// Parameters such as "; charset=utf-8" are ignored.
func ExtensionForContentType(contentType string) (string, bool) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	ext, ok := mimeExtensions[strings.ToLower(strings.TrimSpace(mediaType))]
	return ext, ok
}

// ExtensionFromURL returns the extension of the last path segment without the
// dot, or DefaultExtension when there is none.
func ExtensionFromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return DefaultExtension
	}
	return ext
}
