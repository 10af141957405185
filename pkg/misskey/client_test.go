package misskey

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "emojigrab/pkg/errors"
	"emojigrab/pkg/logger"
)

const emojiListJSON = `{"emojis":[
	{"aliases":["blob"],"name":"blobcat","category":"Blobs","url":"https://example/blobcat.png"},
	{"aliases":[],"name":"neofox","category":null,"url":"https://example/neofox.webp","isSensitive":true}
]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{Timeout: 5 * time.Second, UserAgent: "emojigrab-test"}, logger.NewNopLogger())
	require.NoError(t, err)
	return client, server
}

func TestNewClientProxy(t *testing.T) {
	_, err := NewClient(ClientOptions{Timeout: time.Second, Proxy: "http://127.0.0.1:8080"}, logger.NewNopLogger())
	assert.NoError(t, err)

	_, err = NewClient(ClientOptions{Timeout: time.Second, Proxy: "127.0.0.1"}, logger.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeInvalidInput))
}

func TestFetchEmojis(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/emojis", r.URL.Path)
		assert.Equal(t, "emojigrab-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(emojiListJSON))
	})

	list, err := client.FetchEmojis(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, list.Emojis, 2)

	assert.Equal(t, "blobcat", list.Emojis[0].Name)
	assert.Equal(t, "Blobs", list.Emojis[0].Category)
	assert.Equal(t, []string{"blob"}, list.Emojis[0].Aliases)
	assert.Equal(t, "", list.Emojis[1].Category)
	assert.True(t, list.Emojis[1].IsSensitive)
}

func TestFetchEmojisErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.FetchEmojis(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrorTypeServerError))
	})

	t.Run("not found", func(t *testing.T) {
		client, server := newTestClient(t, http.NotFound)

		_, err := client.FetchEmojis(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrorTypeNotFound))
	})

	t.Run("bad json", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"emojis": [`))
		})

		_, err := client.FetchEmojis(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrorTypeParsing))
	})

	t.Run("network error", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		_, err := client.FetchEmojis(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrorTypeNetwork))
	})

	t.Run("invalid instance", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

		_, err := client.FetchEmojis(context.Background(), "")
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrorTypeInvalidInput))
	})
}

func TestResolveExtension(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/typed":
			w.Header().Set("Content-Type", "image/webp; charset=binary")
		case "/untyped.gif":
			w.Header().Set("Content-Type", "application/octet-stream")
		case "/bare":
			w.Header()["Content-Type"] = nil
		}
	})

	ext, err := client.ResolveExtension(context.Background(), server.URL+"/typed")
	require.NoError(t, err)
	assert.Equal(t, "webp", ext)

	ext, err = client.ResolveExtension(context.Background(), server.URL+"/untyped.gif")
	require.NoError(t, err)
	assert.Equal(t, "gif", ext)

	ext, err = client.ResolveExtension(context.Background(), server.URL+"/bare")
	require.NoError(t, err)
	assert.Equal(t, "dat", ext)
}

func TestDownload(t *testing.T) {
	payload := []byte("\x89PNG fake image bytes")
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	})

	var buf bytes.Buffer
	n, err := client.Download(context.Background(), server.URL+"/blobcat.png", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, payload, buf.Bytes())

	buf.Reset()
	_, err = client.Download(context.Background(), server.URL+"/missing.png", &buf)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeNotFound))
	assert.Zero(t, buf.Len())
}

func TestDownloadCancelled(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Download(ctx, server.URL+"/a.png", &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestLogging(t *testing.T) {
	tl := logger.NewTestLogger()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), "", tl)
	_, err := client.FetchEmojis(context.Background(), server.URL)
	require.Error(t, err)

	// the caller reports the returned error; the client only warns
	assert.Empty(t, tl.GetMessagesByLevel("ERROR"))
	warnings := tl.GetMessagesByLevel("WARN")
	require.Len(t, warnings, 1)
	assert.Equal(t, "HTTP request server error", warnings[0].Message)
	assert.Equal(t, 502, warnings[0].Fields["status_code"])
}
