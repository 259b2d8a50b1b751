package vfs

import (
	"errors"
	"io"
	"io/fs"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// BillyFS implements VFS over a go-billy file system.
type BillyFS struct {
	fs billy.Filesystem
}

// Ensure BillyFS implements VFS.
var _ VFS = (*BillyFS)(nil)

// NewBillyFS wraps fsys.
func NewBillyFS(fsys billy.Filesystem) *BillyFS {
	return &BillyFS{fs: fsys}
}

// NewRootFS returns a VFS confined to the directory root. Paths are
// resolved relative to root and may not cross it.
func NewRootFS(root string) *BillyFS {
	return NewBillyFS(osfs.New(root))
}

// NewBillyMemFS returns an empty in-memory go-billy file system.
func NewBillyMemFS() *BillyFS {
	return NewBillyFS(memfs.New())
}

// Root returns the root of the underlying file system.
func (b *BillyFS) Root() string {
	return b.fs.Root()
}

// ReadFile reads the entire file content.
func (b *BillyFS) ReadFile(name string) ([]byte, error) {
	f, err := b.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// WriteFile writes data to a temporary file in the target directory and
// renames it over name.
func (b *BillyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	tmp, err := b.fs.TempFile(path.Dir(name), "."+path.Base(name)+".tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		b.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		b.fs.Remove(tmpName)
		return err
	}
	if ch, ok := b.fs.(billy.Change); ok {
		if err := ch.Chmod(tmpName, perm); err != nil {
			b.fs.Remove(tmpName)
			return err
		}
	}
	if err := b.fs.Rename(tmpName, name); err != nil {
		b.fs.Remove(tmpName)
		return err
	}
	return nil
}

// Stat returns file information.
func (b *BillyFS) Stat(name string) (FileInfo, error) {
	info, err := b.fs.Stat(name)
	if err != nil {
		return FileInfo{}, err
	}
	return NewFileInfo(name, info.Name(), info.Size(), info.Mode(), info.ModTime(), info.IsDir()), nil
}

// MkdirAll creates a directory and all parent directories.
func (b *BillyFS) MkdirAll(name string, perm fs.FileMode) error {
	return b.fs.MkdirAll(name, perm)
}

// Remove removes a file or empty directory.
func (b *BillyFS) Remove(name string) error {
	return b.fs.Remove(name)
}

// Exists returns true if the path exists.
func (b *BillyFS) Exists(name string) bool {
	_, err := b.fs.Stat(name)
	return !errors.Is(err, fs.ErrNotExist)
}
