// Package metadata records what a run fetched in a manifest next to the images.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// DefaultManifestName is the file written into the output root
const DefaultManifestName = "manifest.json"

// Entry describes one processed emoji
type Entry struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	URL      string   `json:"url"`
	Aliases  []string `json:"aliases,omitempty"`
	File     string   `json:"file,omitempty"`
	Size     int64    `json:"size,omitempty"`
	Status   string   `json:"status"`
	Reason   string   `json:"reason,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Manifest is the summary of a single run
type Manifest struct {
	Instance    string         `json:"instance"`
	GeneratedAt time.Time      `json:"generated_at"`
	Categories  []string       `json:"categories"`
	Totals      map[string]int `json:"totals"` // entries per status, set by Save
	Emojis      []Entry        `json:"emojis"`

	mu sync.Mutex
}

// New creates an empty manifest for an instance
func New(instance string, categories []string) *Manifest {
	return &Manifest{
		Instance:    instance,
		GeneratedAt: time.Now().UTC(),
		Categories:  categories,
		Emojis:      []Entry{},
	}
}

// Add records an entry; safe for concurrent use
func (m *Manifest) Add(entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Emojis = append(m.Emojis, entry)
}

func (m *Manifest) countStatuses() map[string]int {
	counts := make(map[string]int)
	for _, e := range m.Emojis {
		counts[e.Status]++
	}
	return counts
}

// Save writes the manifest into dir, replacing any previous one atomically
func (m *Manifest) Save(dir, name string, perm os.FileMode) (string, error) {
	if name == "" {
		name = DefaultManifestName
	}

	m.mu.Lock()
	sort.SliceStable(m.Emojis, func(i, j int) bool {
		if m.Emojis[i].Category != m.Emojis[j].Category {
			return m.Emojis[i].Category < m.Emojis[j].Category
		}
		return m.Emojis[i].Name < m.Emojis[j].Name
	})
	m.Totals = m.countStatuses()
	data, err := json.MarshalIndent(m, "", "  ")
	m.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(dir, name)
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, perm); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename manifest: %w", err)
	}

	return path, nil
}

// Load reads a manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &m, nil
}
