package vfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MemFS implements VFS using an in-memory file system.
// It is safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]*memFile
	dirs  map[string]bool
	now   func() time.Time
}

type memFile struct {
	data    []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS creates a new in-memory file system with a root directory.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]*memFile),
		dirs:  map[string]bool{"/": true},
		now:   time.Now,
	}
}

// Ensure MemFS implements VFS.
var _ VFS = (*MemFS)(nil)

func cleanPath(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	if path == "." {
		return "/"
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return path
}

func parentDir(path string) string {
	return filepath.ToSlash(filepath.Dir(path))
}

func pathErr(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// ReadFile reads the entire file content.
func (m *MemFS) ReadFile(path string) ([]byte, error) {
	path = cleanPath(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path]
	if !ok {
		if m.dirs[path] {
			return nil, pathErr("read", path, fs.ErrInvalid)
		}
		return nil, pathErr("open", path, fs.ErrNotExist)
	}

	data := make([]byte, len(f.data))
	copy(data, f.data)
	return data, nil
}

// WriteFile writes data to a file. The parent directory must exist.
func (m *MemFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	path = cleanPath(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirs[path] {
		return pathErr("write", path, fs.ErrInvalid)
	}
	if !m.dirs[parentDir(path)] {
		return pathErr("open", path, fs.ErrNotExist)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	m.files[path] = &memFile{data: buf, mode: perm, modTime: m.now()}
	return nil
}

// Stat returns file information.
func (m *MemFS) Stat(path string) (FileInfo, error) {
	path = cleanPath(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if f, ok := m.files[path]; ok {
		return NewFileInfo(path, filepath.Base(path), int64(len(f.data)), f.mode, f.modTime, false), nil
	}
	if m.dirs[path] {
		return NewFileInfo(path, filepath.Base(path), 0, fs.ModeDir|0755, time.Time{}, true), nil
	}
	return FileInfo{}, pathErr("stat", path, fs.ErrNotExist)
}

// MkdirAll creates a directory and all parent directories.
func (m *MemFS) MkdirAll(path string, perm fs.FileMode) error {
	path = cleanPath(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	for p := path; ; p = parentDir(p) {
		if _, isFile := m.files[p]; isFile {
			return pathErr("mkdir", p, fs.ErrExist)
		}
		m.dirs[p] = true
		if p == "/" {
			break
		}
	}
	return nil
}

// Remove removes a file or empty directory.
func (m *MemFS) Remove(path string) error {
	path = cleanPath(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if !m.dirs[path] {
		return pathErr("remove", path, fs.ErrNotExist)
	}

	prefix := path + "/"
	for p := range m.files {
		if len(p) > len(prefix) && p[:len(prefix)] == prefix {
			return pathErr("remove", path, os.ErrExist)
		}
	}
	for p := range m.dirs {
		if len(p) > len(prefix) && p[:len(prefix)] == prefix {
			return pathErr("remove", path, os.ErrExist)
		}
	}
	delete(m.dirs, path)
	return nil
}

// Exists returns true if the path exists.
func (m *MemFS) Exists(path string) bool {
	path = cleanPath(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, isFile := m.files[path]
	return isFile || m.dirs[path]
}

// AddFile is a test helper that writes a file, creating parent directories.
func (m *MemFS) AddFile(path string, content string) {
	path = cleanPath(path)
	_ = m.MkdirAll(parentDir(path), 0755)
	_ = m.WriteFile(path, []byte(content), 0644)
}

// Touch sets the modification time of a file.
func (m *MemFS) Touch(path string, modTime time.Time) error {
	path = cleanPath(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path]
	if !ok {
		return pathErr("touch", path, fs.ErrNotExist)
	}
	f.modTime = modTime
	return nil
}

// Files returns all file paths in sorted order.
func (m *MemFS) Files() []string {
	m.mu.RLock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	m.mu.RUnlock()

	sort.Strings(paths)
	return paths
}
