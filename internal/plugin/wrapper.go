package plugin

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/dshills/scripteditor/internal/instance"
	"github.com/dshills/scripteditor/internal/plugin/api"
)

// Wrapper is the lifecycle handle for one editor entity. It carries the
// file path the entity was opened with and forwards save and reload to
// the entity unchanged.
type Wrapper struct {
	id      instance.ID
	path    string
	absPath string
	entity  Entity

	closeOnce sync.Once
	closeErr  error
}

// Ensure Wrapper implements api.Instance.
var _ api.Instance = (*Wrapper)(nil)

func newWrapper(id instance.ID, path string, entity Entity) *Wrapper {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return &Wrapper{
		id:      id,
		path:    path,
		absPath: abs,
		entity:  entity,
	}
}

// ID returns the instance id.
func (w *Wrapper) ID() instance.ID {
	return w.id
}

// FilePath returns the path the entity was opened with.
func (w *Wrapper) FilePath() string {
	return w.path
}

// Save forwards to the entity. Errors are returned as is.
func (w *Wrapper) Save(ctx *api.Context) error {
	return w.entity.Save(ctx)
}

// Reload forwards to the entity. Errors are returned as is.
func (w *Wrapper) Reload(ctx *api.Context) error {
	return w.entity.Reload(ctx)
}

// IsDirty reports the entity's dirty state. Entities that do not track
// it are reported clean.
func (w *Wrapper) IsDirty() bool {
	if d, ok := w.entity.(DirtyReporter); ok {
		return d.IsDirty()
	}
	return false
}

// Entity returns the underlying editor entity.
func (w *Wrapper) Entity() any {
	return w.entity
}

// Close tears the entity down if it implements io.Closer. Only the first
// call reaches the entity; a panic in the entity is returned as an error.
func (w *Wrapper) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = closeEntity(w.entity)
	})
	return w.closeErr
}

func closeEntity(entity Entity) (err error) {
	c, ok := entity.(io.Closer)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic closing %T: %v", entity, r)
		}
	}()
	return c.Close()
}
