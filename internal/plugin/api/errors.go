package api

import (
	"errors"
	"fmt"

	"github.com/dshills/scripteditor/internal/editor"
)

// ErrEditorNotFound matches every *EditorNotFoundError via errors.Is.
var ErrEditorNotFound = errors.New("editor not found")

// EditorNotFoundError is returned when the host requests an editor kind the
// plugin does not provide.
type EditorNotFoundError struct {
	EditorID editor.ID
}

func (e *EditorNotFoundError) Error() string {
	return fmt.Sprintf("editor %q not found", e.EditorID)
}

// Is reports whether target is ErrEditorNotFound.
func (e *EditorNotFoundError) Is(target error) bool {
	return target == ErrEditorNotFound
}

// CreationError is returned when an editor entity could not be constructed
// or could not open its file.
type CreationError struct {
	EditorID editor.ID
	Path     string
	Err      error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("creating %s editor for %s: %v", e.EditorID, e.Path, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}
