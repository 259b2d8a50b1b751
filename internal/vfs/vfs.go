// Package vfs provides the file system abstraction editor entities use to
// load and persist documents.
//
// Swapping the implementation lets tests run entirely in memory and keeps
// the editor entities independent of where content is stored.
package vfs

import (
	"io/fs"
	"time"
)

// VFS is the set of file operations an editor entity needs.
type VFS interface {
	// ReadFile returns the file's bytes.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file's content, creating the file if needed.
	// The parent directory must exist.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Stat describes the file or directory at path.
	Stat(path string) (FileInfo, error)

	// MkdirAll creates path and any missing parents.
	MkdirAll(path string, perm fs.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// Exists reports whether anything exists at path.
	Exists(path string) bool
}

// FileInfo is the subset of fs.FileInfo editors use, plus the path.
type FileInfo struct {
	path    string
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

// NewFileInfo builds a FileInfo.
func NewFileInfo(path, name string, size int64, mode fs.FileMode, modTime time.Time, isDir bool) FileInfo {
	return FileInfo{
		path:    path,
		name:    name,
		size:    size,
		mode:    mode,
		modTime: modTime,
		isDir:   isDir,
	}
}

// Path returns the path Stat was called with.
func (fi FileInfo) Path() string { return fi.path }

// Name returns the base name.
func (fi FileInfo) Name() string { return fi.name }

// Size returns the file size in bytes.
func (fi FileInfo) Size() int64 { return fi.size }

// Mode returns the file mode.
func (fi FileInfo) Mode() fs.FileMode { return fi.mode }

// ModTime returns the modification time.
func (fi FileInfo) ModTime() time.Time { return fi.modTime }

// IsDir returns true if this is a directory.
func (fi FileInfo) IsDir() bool { return fi.isDir }

// IsRegular returns true if this is a regular file.
func (fi FileInfo) IsRegular() bool { return fi.mode.IsRegular() }
