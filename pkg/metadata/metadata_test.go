package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	m := New("misskey.io", []string{"Foxes", "Blobs"})
	m.Add(Entry{Name: "neofox", Category: "Foxes", URL: "https://x/neofox.webp", File: "Foxes/neofox.webp", Size: 42, Status: "downloaded"})
	m.Add(Entry{Name: "blobcat", Category: "Blobs", URL: "https://x/blobcat.png", Status: "failed", Error: "not_found error (code 404): gone"})
	m.Add(Entry{Name: "blobamber", Category: "Blobs", URL: "https://x/blobamber.png", File: "Blobs/blobamber.png", Status: "skipped", Reason: "already exists"})

	path, err := m.Save(dir, "", 0644)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultManifestName), path)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "misskey.io", loaded.Instance)
	assert.Equal(t, []string{"Foxes", "Blobs"}, loaded.Categories)
	assert.False(t, loaded.GeneratedAt.IsZero())
	require.Len(t, loaded.Emojis, 3)

	// sorted by category then name
	assert.Equal(t, "blobamber", loaded.Emojis[0].Name)
	assert.Equal(t, "blobcat", loaded.Emojis[1].Name)
	assert.Equal(t, "neofox", loaded.Emojis[2].Name)
	assert.Equal(t, int64(42), loaded.Emojis[2].Size)
	assert.Contains(t, loaded.Emojis[1].Error, "404")

	assert.Equal(t, map[string]int{"downloaded": 1, "failed": 1, "skipped": 1}, loaded.Totals)
}

func TestManifestConcurrentAdd(t *testing.T) {
	m := New("example.com", nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Add(Entry{Name: fmt.Sprintf("e%d", i), Status: "downloaded"})
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.Emojis, 50)
}

func TestManifestSaveFailure(t *testing.T) {
	m := New("example.com", nil)

	_, err := m.Save(filepath.Join(t.TempDir(), "missing"), "manifest.json", 0644)
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
