package filetype

import (
	"errors"
	"fmt"
	"strings"
)

// Registry validation errors.
var (
	// ErrDuplicateID is returned when two descriptors share an id.
	ErrDuplicateID = errors.New("duplicate file type id")

	// ErrDuplicateExtension is returned when two descriptors share an extension.
	ErrDuplicateExtension = errors.New("duplicate file type extension")

	// ErrInvalidDescriptor is returned for descriptors missing required fields.
	ErrInvalidDescriptor = errors.New("invalid file type descriptor")

	// ErrUnknownLexer is returned when a descriptor names a lexer chroma does not know.
	ErrUnknownLexer = errors.New("unknown syntax lexer")
)

// Registry is an immutable, ordered set of file type descriptors indexed by
// id and by extension.
type Registry struct {
	types []Descriptor
	byID  map[ID]int
	byExt map[string]int
}

// NewRegistry validates descs and returns a registry preserving their order.
// All validation failures are reported together.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{
		types: make([]Descriptor, 0, len(descs)),
		byID:  make(map[ID]int, len(descs)),
		byExt: make(map[string]int, len(descs)),
	}

	var errs []error
	for _, d := range descs {
		if err := validate(d); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, exists := r.byID[d.ID]; exists {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateID, d.ID))
			continue
		}
		ext := NormalizeExtension(d.Extension)
		if prev, exists := r.byExt[ext]; exists {
			errs = append(errs, fmt.Errorf("%w: %q used by %q and %q",
				ErrDuplicateExtension, ext, r.types[prev].ID, d.ID))
			continue
		}

		d = d.clone()
		d.Extension = ext
		r.byID[d.ID] = len(r.types)
		r.byExt[ext] = len(r.types)
		r.types = append(r.types, d)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

func validate(d Descriptor) error {
	if strings.TrimSpace(string(d.ID)) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidDescriptor)
	}
	ext := strings.TrimPrefix(d.Extension, ".")
	if ext == "" || strings.Contains(ext, ".") {
		return fmt.Errorf("%w: %q has invalid extension %q", ErrInvalidDescriptor, d.ID, d.Extension)
	}
	if d.DisplayName == "" {
		return fmt.Errorf("%w: %q has no display name", ErrInvalidDescriptor, d.ID)
	}
	if d.Lexer != "" && d.SyntaxLexer() == nil {
		return fmt.Errorf("%w: %q for %q", ErrUnknownLexer, d.Lexer, d.ID)
	}
	return nil
}

// List returns the descriptors in registration order.
// The returned slice is a copy.
func (r *Registry) List() []Descriptor {
	result := make([]Descriptor, len(r.types))
	for i, d := range r.types {
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
	return r.types[i].clone(), true
}

// Has reports whether id is registered.
func (r *Registry) Has(id ID) bool {
	_, ok := r.byID[id]
	return ok
}

// ByExtension returns the descriptor for ext. The extension may carry a
// leading dot and is matched case-insensitively.
func (r *Registry) ByExtension(ext string) (Descriptor, bool) {
	i, ok := r.byExt[NormalizeExtension(ext)]
	if !ok {
		return Descriptor{}, false
	}
	return r.types[i].clone(), true
}

// ForPath returns the descriptor matching the extension of path.
func (r *Registry) ForPath(path string) (Descriptor, bool) {
	return r.ByExtension(ExtensionOf(path))
}

// Len returns the number of registered file types.
func (r *Registry) Len() int {
	return len(r.types)
}
