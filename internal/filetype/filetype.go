// Package filetype declares the file types the script editor plugin can
// create and open.
//
// Descriptors are static: they are built once at startup, validated into a
// Registry and handed to the host at discovery time. A Registry never changes
// after construction, so every method is safe to call from any goroutine.
package filetype

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gdamore/tcell/v2"
)

// ID uniquely identifies a file type.
type ID string

// String returns the id as a plain string.
func (id ID) String() string { return string(id) }

// Icon names the icon the host shows next to files of a type.
type Icon string

// Icons understood by the host.
const (
	IconRust Icon = "rust"
	IconCode Icon = "code"
	IconPage Icon = "page"
)

// Structure describes how a file of a type is laid out on disk.
type Structure int

const (
	// Standalone types are a single file.
	Standalone Structure = iota
	// Composite types span a directory of files.
	Composite
)

// String returns a string representation of the structure.
func (s Structure) String() string {
	switch s {
	case Standalone:
		return "standalone"
	case Composite:
		return "composite"
	default:
		return "unknown"
	}
}

// Descriptor describes one kind of file the plugin can create or open.
type Descriptor struct {
	ID          ID
	Extension   string // without the leading dot
	DisplayName string
	Icon        Icon
	Color       tcell.Color
	Structure   Structure

	// DefaultContent seeds a new, empty file of this type.
	DefaultContent string

	// Categories group the type in the host's "new file" menus.
	Categories []string

	// Lexer is the chroma lexer name used for syntax highlighting.
	Lexer string
}

// SyntaxLexer returns the chroma lexer for the descriptor, or nil if the
// lexer name is unknown.
func (d Descriptor) SyntaxLexer() chroma.Lexer {
	if d.Lexer == "" {
		return nil
	}
	return lexers.Get(d.Lexer)
}

// HasCategory reports whether the descriptor is tagged with category.
func (d Descriptor) HasCategory(category string) bool {
	for _, c := range d.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// clone returns a copy that shares no mutable state with d.
func (d Descriptor) clone() Descriptor {
	if d.Categories != nil {
		cats := make([]string, len(d.Categories))
		copy(cats, d.Categories)
		d.Categories = cats
	}
	return d
}

// NormalizeExtension lowercases ext and strips a leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ExtensionOf returns the normalized extension of path.
func ExtensionOf(path string) string {
	return NormalizeExtension(filepath.Ext(path))
}
