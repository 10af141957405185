package misskey

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	errs "emojigrab/pkg/errors"
	"emojigrab/pkg/logger"
)

// ClientOptions configures the HTTP side of a Client
type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	// Proxy is an optional proxy URL such as http://127.0.0.1:8080.
	// When empty the usual HTTP(S)_PROXY environment variables apply.
	Proxy string
}

// Client represents a Misskey API client
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a new API client
func NewClient(opts ClientOptions, log logger.Logger) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 32

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil || proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, errs.New(errs.ErrorTypeInvalidInput, 0, "invalid proxy address %q", opts.Proxy)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return NewClientWithHTTP(&http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}, opts.UserAgent, log), nil
}

// NewClientWithHTTP wraps an existing http.Client
func NewClientWithHTTP(httpClient *http.Client, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	headers := map[string]string{
		"Accept": "application/json, image/*;q=0.9, */*;q=0.8",
	}
	if userAgent != "" {
		headers["User-Agent"] = userAgent
	}

	return &Client{
		httpClient: httpClient,
		headers:    headers,
		logger:     log,
	}
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeInvalidInput, err, "failed to create request")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"method":   method,
			"url":      rawURL,
			"error":    err.Error(),
			"duration": duration,
		})
		e := errs.Wrap(errs.ErrorTypeNetwork, err, "%s %s", method, rawURL)
		e.URL = rawURL
		return nil, e
	}

	logger.LogRequest(c.logger, method, rawURL, resp.StatusCode, duration)
	return resp, nil
}

// checkResponseStatus turns any non-200 status into a typed error
func (c *Client) checkResponseStatus(resp *http.Response, rawURL string) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return &errs.Error{
		Type:    errs.FromStatusCode(resp.StatusCode),
		Message: fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, rawURL),
		Code:    resp.StatusCode,
		URL:     rawURL,
	}
}

// FetchEmojis downloads the custom emoji list of an instance
func (c *Client) FetchEmojis(ctx context.Context, instance string) (*EmojiList, error) {
	endpoint, err := EmojisURL(instance)
	if err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("fetching emoji list", map[string]interface{}{
		"instance": instance,
		"url":      endpoint,
	})

	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp, endpoint); err != nil {
		return nil, err
	}

	var list EmojiList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse emoji list: %v", err),
			Code:    resp.StatusCode,
			URL:     endpoint,
			Err:     err,
		}
	}

	c.logger.InfoWithFields("emoji list fetched", map[string]interface{}{
		"instance": instance,
		"emojis":   len(list.Emojis),
	})

	return &list, nil
}

// ResolveExtension asks the server for the Content-Type of an image with a
// HEAD request. Unknown or missing types fall back to the URL's extension.
func (c *Client) ResolveExtension(ctx context.Context, imageURL string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodHead, imageURL)
	if err != nil {
		return "", err
	}
	resp.Body.Close()

	if ext, ok := ExtensionForContentType(resp.Header.Get("Content-Type")); ok {
		return ext, nil
	}
	return ExtensionFromURL(imageURL), nil
}

// Open performs a GET and returns the body of a 200 response.
// The caller must close it.
func (c *Client) Open(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, imageURL)
	if err != nil {
		return nil, err
	}
	if err := c.checkResponseStatus(resp, imageURL); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// Download streams an image into w and returns the number of bytes copied
func (c *Client) Download(ctx context.Context, imageURL string, w io.Writer) (int64, error) {
	body, err := c.Open(ctx, imageURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, errs.Wrap(errs.ErrorTypeNetwork, err, "failed to read %s", imageURL)
	}
	return n, nil
}
