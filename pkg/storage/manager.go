package storage

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	errs "emojigrab/pkg/errors"
)

const (
	DefaultDirMode  os.FileMode = 0755
	DefaultFileMode os.FileMode = 0644
)

// Options controls permissions and overwrite behaviour
type Options struct {
	DirMode   os.FileMode
	FileMode  os.FileMode
	Overwrite bool
}

// Manager handles file storage operations and duplicate detection
type Manager struct {
	root     string
	opts     Options
	reserved map[string]bool
	saved    int
	bytes    int64
	mu       sync.RWMutex
}

// NewManager creates the output root and returns a manager for it
func NewManager(root string, opts Options) (*Manager, error) {
	if opts.DirMode == 0 {
		opts.DirMode = DefaultDirMode
	}
	if opts.FileMode == 0 {
		opts.FileMode = DefaultFileMode
	}

	if err := os.MkdirAll(root, opts.DirMode); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to create output directory")
	}

	return &Manager{
		root:     root,
		opts:     opts,
		reserved: make(map[string]bool),
	}, nil
}

// PathFor returns the target path of an emoji without reserving it
func (m *Manager) PathFor(category, name, ext string) string {
	return filepath.Join(m.root, category, name+"."+ext)
}

// Reserve claims the target path of an emoji for this run. It returns
// false when another emoji already claimed the same path.
func (m *Manager) Reserve(category, name, ext string) (string, bool) {
	path := m.PathFor(category, name, ext)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.reserved[path] {
		return path, false
	}
	m.reserved[path] = true
	return path, true
}

// Exists reports whether a regular file is present at path
func (m *Manager) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDownloaded reports whether path should be left alone: the file exists
// and overwriting is off.
func (m *Manager) IsDownloaded(path string) bool {
	return !m.opts.Overwrite && m.Exists(path)
}

// Save writes r to path through a temporary file and returns the bytes written
func (m *Manager) Save(r io.Reader, path string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), m.opts.DirMode); err != nil {
		return 0, errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to create category directory")
	}

	tempFile := path + ".tmp"
	out, err := os.OpenFile(tempFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, m.opts.FileMode)
	if err != nil {
		return 0, errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to create temporary file")
	}

	n, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return n, errs.Wrap(errs.ErrorTypeNetwork, err, "failed to save image data")
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return n, errs.Wrap(errs.ErrorTypeFilesystem, closeErr, "failed to close file")
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return n, errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to rename temporary file")
	}

	m.mu.Lock()
	m.saved++
	m.bytes += n
	m.mu.Unlock()

	return n, nil
}

// Root returns the output directory path
func (m *Manager) Root() string {
	return m.root
}

// SavedCount returns the number of files written and their total size
func (m *Manager) SavedCount() (int, int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saved, m.bytes
}
