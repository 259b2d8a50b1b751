// Package editor declares the editor kinds the plugin offers and which file
// types each can open.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/scripteditor/internal/filetype"
)

// ID uniquely identifies an editor kind.
type ID string

// String returns the id as a plain string.
func (id ID) String() string { return string(id) }

// ScriptEditor is the id of the built-in script editor kind.
const ScriptEditor ID = "script-editor"

// Descriptor describes one editor kind.
type Descriptor struct {
	ID                 ID
	DisplayName        string
	SupportedFileTypes []filetype.ID
}

// Supports reports whether the editor kind can open files of type ft.
func (d Descriptor) Supports(ft filetype.ID) bool {
	for _, id := range d.SupportedFileTypes {
		if id == ft {
			return true
		}
	}
	return false
}

func (d Descriptor) clone() Descriptor {
	if d.SupportedFileTypes != nil {
		types := make([]filetype.ID, len(d.SupportedFileTypes))
		copy(types, d.SupportedFileTypes)
		d.SupportedFileTypes = types
	}
	return d
}

// Registry validation errors.
var (
	// ErrDuplicateID is returned when two editor kinds share an id.
	ErrDuplicateID = errors.New("duplicate editor id")

	// ErrInvalidDescriptor is returned for descriptors missing required fields.
	ErrInvalidDescriptor = errors.New("invalid editor descriptor")

	// ErrUnknownFileType is returned when an editor supports an unregistered file type.
	ErrUnknownFileType = errors.New("editor references unknown file type")
)

// Registry is an immutable, ordered set of editor descriptors.
type Registry struct {
	editors []Descriptor
	byID    map[ID]int
}

// NewRegistry validates descs against types and returns a registry that
// preserves their order.
func NewRegistry(types *filetype.Registry, descs ...Descriptor) (*Registry, error) {
	r := &Registry{
		editors: make([]Descriptor, 0, len(descs)),
		byID:    make(map[ID]int, len(descs)),
	}

	var errs []error
	for _, d := range descs {
		if strings.TrimSpace(string(d.ID)) == "" {
			errs = append(errs, fmt.Errorf("%w: id is required", ErrInvalidDescriptor))
			continue
		}
		if d.DisplayName == "" {
			errs = append(errs, fmt.Errorf("%w: %q has no display name", ErrInvalidDescriptor, d.ID))
			continue
		}
		if len(d.SupportedFileTypes) == 0 {
			errs = append(errs, fmt.Errorf("%w: %q supports no file types", ErrInvalidDescriptor, d.ID))
			continue
		}
		if _, exists := r.byID[d.ID]; exists {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateID, d.ID))
			continue
		}
		unknown := false
		for _, ft := range d.SupportedFileTypes {
			if types == nil || !types.Has(ft) {
				errs = append(errs, fmt.Errorf("%w: %q in %q", ErrUnknownFileType, ft, d.ID))
				unknown = true
			}
		}
		if unknown {
			continue
		}

		r.byID[d.ID] = len(r.editors)
		r.editors = append(r.editors, d.clone())
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// List returns the editor descriptors in registration order.
func (r *Registry) List() []Descriptor {
	result := make([]Descriptor, len(r.editors))
	for i, d := range r.editors {
		result[i] = d.clone()
	}
	return result
}

// Get returns the descriptor with the given id.
func (r *Registry) Get(id ID) (Descriptor, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.editors[i].clone(), true
}

// Has reports whether id is registered.
func (r *Registry) Has(id ID) bool {
	_, ok := r.byID[id]
	return ok
}

// ForFileType returns the editor kinds able to open ft, in registration order.
func (r *Registry) ForFileType(ft filetype.ID) []Descriptor {
	var result []Descriptor
	for _, d := range r.editors {
		if d.Supports(ft) {
			result = append(result, d.clone())
		}
	}
	return result
}

// Len returns the number of registered editor kinds.
func (r *Registry) Len() int {
	return len(r.editors)
}

// Builtin returns the editor kinds shipped with the plugin.
func Builtin() []Descriptor {
	return []Descriptor{
		{
			ID:          ScriptEditor,
			DisplayName: "Script Editor",
			SupportedFileTypes: []filetype.ID{
				filetype.RustScript,
				filetype.JavaScript,
				filetype.TypeScript,
				filetype.Python,
				filetype.Lua,
				filetype.TOML,
				filetype.Markdown,
			},
		},
	}
}
