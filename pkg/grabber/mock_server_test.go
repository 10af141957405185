package grabber

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"emojigrab/pkg/misskey"
)

// mockInstance mimics the emoji endpoint and media files of an instance
type mockInstance struct {
	server     *httptest.Server
	emojis     []misskey.Emoji
	listStatus int
	missing    map[string]bool
	headCalls  int32
	getCalls   int32
	mu         sync.Mutex
}

func newMockInstance(t *testing.T) *mockInstance {
	t.Helper()
	m := &mockInstance{
		listStatus: http.StatusOK,
		missing:    make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/emojis", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.listStatus != http.StatusOK {
			w.WriteHeader(m.listStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(misskey.EmojiList{Emojis: m.emojis})
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/files/")

		m.mu.Lock()
		missing := m.missing[name]
		m.mu.Unlock()

		if r.Method == http.MethodHead {
			atomic.AddInt32(&m.headCalls, 1)
		} else {
			atomic.AddInt32(&m.getCalls, 1)
		}

		if missing {
			http.NotFound(w, r)
			return
		}

		switch {
		case strings.HasSuffix(name, ".gif"):
			w.Header().Set("Content-Type", "image/gif")
		case strings.HasSuffix(name, ".bin"):
			w.Header().Set("Content-Type", "image/webp")
		default:
			w.Header().Set("Content-Type", "image/png")
		}
		if r.Method == http.MethodGet {
			w.Write([]byte("image:" + name))
		}
	})

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockInstance) addEmoji(name, category, file string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emojis = append(m.emojis, misskey.Emoji{
		Name:     name,
		Category: category,
		URL:      m.server.URL + "/files/" + file,
	})
}

func (m *mockInstance) setMissing(file string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.missing[file] = true
}
