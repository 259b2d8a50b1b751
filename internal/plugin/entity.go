package plugin

import (
	"github.com/dshills/scripteditor/internal/plugin/api"
	"github.com/dshills/scripteditor/internal/watcher"
)

// Entity is an editor UI entity. The entity doubles as the render handle
// handed to the host.
type Entity interface {
	api.Panel

	// OpenFile binds the entity to path and loads its content.
	OpenFile(ctx *api.Context, path string) error

	// Save persists the entity's content to its file.
	Save(ctx *api.Context) error

	// Reload discards in-memory edits and re-reads the file.
	Reload(ctx *api.Context) error
}

// DirtyReporter is implemented by entities that track unsaved changes.
type DirtyReporter interface {
	IsDirty() bool
}

// ChangeNotifier is implemented by entities that want to hear about
// external changes to their file. FileChanged reports whether the event
// changed the entity's view of the file.
type ChangeNotifier interface {
	FileChanged(ev watcher.Event) bool
}

// Constructor builds a new, unbound entity within the host's context.
type Constructor func(ctx *api.Context) (Entity, error)
