package scripteditor

import "errors"

// Errors returned by the script editor.
var (
	// ErrFileTooLarge is returned when opening a file above the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrBinaryFile is returned when opening a file that is not text.
	ErrBinaryFile = errors.New("file is binary")

	// ErrReadOnly is returned when saving a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrClosed is returned when using a closed editor.
	ErrClosed = errors.New("editor is closed")

	// ErrNotOpen is returned when saving or reloading before OpenFile.
	ErrNotOpen = errors.New("no file open")

	// ErrAlreadyOpen is returned when calling OpenFile twice.
	ErrAlreadyOpen = errors.New("file already open")

	// ErrIsDirectory is returned when opening a directory.
	ErrIsDirectory = errors.New("path is a directory")
)
