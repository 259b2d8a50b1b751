// Package loader reads raw configuration maps from TOML, YAML and JSON
// files and from the environment.
//
// Loaders return nested map[string]any values; typed decoding happens in
// the config package. A missing file is not an error: Load returns nil, nil.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/scripteditor/internal/vfs"
)

// ErrUnsupportedFormat is returned by ForPath for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist.
	Load() (map[string]any, error)
}

// FileSystem is the subset of vfs.VFS the file loaders need.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return vfs.NewOSFS()
}

// Format identifies a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// ForPath returns a loader for path chosen by its extension.
func ForPath(path string) (Loader, error) {
	return ForPathWithFS(DefaultFS(), path)
}

// ForPathWithFS is ForPath reading through fs.
func ForPathWithFS(fs FileSystem, path string) (Loader, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	switch format {
	case FormatTOML:
		return NewTOMLLoaderWithFS(fs, path), nil
	case FormatYAML:
		return NewYAMLLoaderWithFS(fs, path), nil
	default:
		return NewJSONLoaderWithFS(fs, path), nil
	}
}

// fileSource holds the state shared by the file loaders.
type fileSource struct {
	fs   FileSystem
	path string
}

func newFileSource(fs FileSystem, path string) fileSource {
	if fs == nil {
		fs = DefaultFS()
	}
	return fileSource{fs: fs, path: path}
}

// read returns the file content, or nil when the file does not exist.
func (s fileSource) read(path string) ([]byte, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, nil
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return data, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
