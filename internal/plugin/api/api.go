package api

import (
	"github.com/dshills/scripteditor/internal/editor"
	"github.com/dshills/scripteditor/internal/filetype"
	"github.com/dshills/scripteditor/internal/logging"
)

// Context is the execution context the host passes to every call that may
// mutate an editor entity. Entities must only be mutated on the goroutine
// the host drives its UI from; the context identifies that window.
type Context struct {
	// Window identifies the host window the entity is bound to.
	Window string

	// Logger is the host-provided logger for the call. May be nil.
	Logger *logging.Logger
}

// NewContext creates a context bound to window.
func NewContext(window string, logger *logging.Logger) *Context {
	return &Context{Window: window, Logger: logger}
}

// Log returns the context logger, or logging.NullLogger.
func (c *Context) Log() *logging.Logger {
	if c == nil {
		return logging.NullLogger
	}
	return logging.OrNull(c.Logger)
}

// Panel is the render handle the host composes into its layout.
// Its concrete type is opaque to the plugin core.
type Panel interface {
	// PanelName identifies the kind of panel (the editor kind).
	PanelName() string

	// Title is the label the host shows for the panel's tab.
	Title() string
}

// Instance is the lifecycle handle for one open editor.
type Instance interface {
	// FilePath returns the path bound at creation time. It never changes.
	FilePath() string

	// Save persists the current content to FilePath.
	Save(ctx *Context) error

	// Reload discards in-memory edits and re-reads FilePath.
	Reload(ctx *Context) error

	// IsDirty reports whether unsaved changes exist.
	IsDirty() bool

	// Entity returns the underlying editor entity for introspection.
	Entity() any
}

// Plugin is the surface the host sees.
type Plugin interface {
	Metadata() Metadata
	FileTypes() []filetype.Descriptor
	Editors() []editor.Descriptor
	CreateEditor(editorID editor.ID, path string, ctx *Context) (Panel, Instance, error)
	OnLoad() error
	OnUnload() int
}
