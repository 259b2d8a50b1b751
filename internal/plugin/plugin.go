package plugin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/scripteditor/internal/editor"
	"github.com/dshills/scripteditor/internal/filetype"
	"github.com/dshills/scripteditor/internal/instance"
	"github.com/dshills/scripteditor/internal/logging"
	"github.com/dshills/scripteditor/internal/plugin/api"
	"github.com/dshills/scripteditor/internal/watcher"
)

// Plugin is the script editor plugin.
type Plugin struct {
	meta      api.Metadata
	fileTypes *filetype.Registry
	editors   *editor.Registry
	store     *instance.Store
	watcher   watcher.Watcher

	// lifecycle guards state and session. CreateEditor holds it shared
	// for the whole creation so an unload never misses an instance.
	lifecycle sync.RWMutex
	state     State
	session   string

	// mu guards the fields below.
	mu           sync.Mutex
	constructors map[editor.ID]Constructor
	handlers     []subscription
	nextHandler  uint64
	watched      map[string]int
	stopWatch    chan struct{}
	watchDone    chan struct{}

	baseLog *logging.Logger
	log     atomic.Pointer[logging.Logger]
}

// Ensure Plugin implements api.Plugin.
var _ api.Plugin = (*Plugin)(nil)

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the plugin logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Plugin) {
		p.baseLog = logging.OrNull(l)
	}
}

// WithWatcher reports external changes to open files through w.
// The caller keeps ownership of w and closes it after the final unload.
func WithWatcher(w watcher.Watcher) Option {
	return func(p *Plugin) {
		p.watcher = w
	}
}

// WithConstructor registers the constructor for an editor kind.
func WithConstructor(id editor.ID, c Constructor) Option {
	return func(p *Plugin) {
		p.constructors[id] = c
	}
}

// New creates an unloaded plugin serving the given registries.
func New(meta api.Metadata, types *filetype.Registry, editors *editor.Registry, opts ...Option) (*Plugin, error) {
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlugin, err)
	}
	if types == nil || editors == nil {
		return nil, fmt.Errorf("%w: missing registry", ErrInvalidPlugin)
	}

	p := &Plugin{
		meta:         meta,
		fileTypes:    types,
		editors:      editors,
		store:        instance.NewStore(),
		constructors: make(map[editor.ID]Constructor),
		watched:      make(map[string]int),
		baseLog:      logging.NullLogger,
	}
	for _, opt := range opts {
		opt(p)
	}

	var errs []error
	for id, c := range p.constructors {
		if err := p.checkConstructor(id, c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	p.baseLog = p.baseLog.WithComponent("plugin").WithField("plugin", meta.ID)
	p.log.Store(p.baseLog)
	return p, nil
}

// Register adds or replaces the constructor for an editor kind.
func (p *Plugin) Register(id editor.ID, c Constructor) error {
	if err := p.checkConstructor(id, c); err != nil {
		return err
	}
	p.mu.Lock()
	p.constructors[id] = c
	p.mu.Unlock()
	return nil
}

func (p *Plugin) checkConstructor(id editor.ID, c Constructor) error {
	if c == nil {
		return fmt.Errorf("%w: %s", ErrNilConstructor, id)
	}
	if !p.editors.Has(id) {
		return &api.EditorNotFoundError{EditorID: id}
	}
	return nil
}

func (p *Plugin) logger() *logging.Logger {
	return p.log.Load()
}

// Metadata returns the plugin metadata.
func (p *Plugin) Metadata() api.Metadata {
	return p.meta
}

// FileTypes returns the declared file types in registration order.
func (p *Plugin) FileTypes() []filetype.Descriptor {
	return p.fileTypes.List()
}

// Editors returns the declared editor kinds in registration order.
func (p *Plugin) Editors() []editor.Descriptor {
	return p.editors.List()
}

// State returns the current lifecycle state.
func (p *Plugin) State() State {
	p.lifecycle.RLock()
	defer p.lifecycle.RUnlock()
	return p.state
}

// Session returns the id of the current activation, or "" when unloaded.
func (p *Plugin) Session() string {
	p.lifecycle.RLock()
	defer p.lifecycle.RUnlock()
	return p.session
}

// OnLoad activates the plugin.
func (p *Plugin) OnLoad() error {
	p.lifecycle.Lock()
	if p.state == StateActive {
		p.lifecycle.Unlock()
		return ErrAlreadyLoaded
	}

	p.session = uuid.NewString()
	p.log.Store(p.baseLog.WithField("session", p.session))
	p.state = StateActive
	p.startWatchLoop()
	p.lifecycle.Unlock()

	p.logger().Info("loaded %s (%d file types, %d editors)", p.meta, p.fileTypes.Len(), p.editors.Len())
	p.emitEvent(Event{Type: EventPluginLoaded})
	return nil
}

// OnUnload closes every live instance and deactivates the plugin. It
// returns the number of instances removed; on an unloaded plugin that is
// 0. A failing instance is logged and skipped.
func (p *Plugin) OnUnload() int {
	p.lifecycle.Lock()
	if p.state != StateActive {
		p.lifecycle.Unlock()
		return 0
	}
	p.state = StateUnloaded
	entries := p.store.Drain()
	log := p.logger()
	p.session = ""
	p.log.Store(p.baseLog)
	stopWatching := p.detachWatchLoop()
	p.lifecycle.Unlock()

	stopWatching()

	var failed []Event
	for _, e := range entries {
		if err := p.teardown(e.Record); err != nil {
			log.Error("instance %d (%s): teardown failed: %v", e.ID, e.Record.Instance.FilePath(), err)
			failed = append(failed, Event{
				Type:     EventInstanceError,
				Instance: e.ID,
				Path:     e.Record.Instance.FilePath(),
				Error:    err,
			})
		}
	}

	log.Info("unloaded, %d instances removed", len(entries))
	for _, ev := range failed {
		p.emitEvent(ev)
	}
	p.emitEvent(Event{Type: EventPluginUnloaded, Count: len(entries)})
	return len(entries)
}

// CreateEditor builds an editor of kind editorID for path and tracks it
// until it is closed or the plugin unloads.
func (p *Plugin) CreateEditor(editorID editor.ID, path string, ctx *api.Context) (api.Panel, api.Instance, error) {
	entity, w, err := p.create(editorID, path, ctx)
	if err != nil {
		return nil, nil, err
	}

	p.logger().Info("instance %d created: %s editor for %s", w.id, editorID, path)
	p.emitEvent(Event{Type: EventInstanceCreated, Instance: w.id, Path: path})
	return entity, w, nil
}

func (p *Plugin) create(editorID editor.ID, path string, ctx *api.Context) (Entity, *Wrapper, error) {
	p.lifecycle.RLock()
	defer p.lifecycle.RUnlock()

	if p.state != StateActive {
		return nil, nil, ErrNotLoaded
	}

	p.mu.Lock()
	ctor := p.constructors[editorID]
	p.mu.Unlock()
	if ctor == nil || !p.editors.Has(editorID) {
		return nil, nil, &api.EditorNotFoundError{EditorID: editorID}
	}

	entity, err := ctor(ctx)
	if err == nil && entity == nil {
		err = ErrNilEntity
	}
	if err != nil {
		return nil, nil, &api.CreationError{EditorID: editorID, Path: path, Err: err}
	}
	if err := entity.OpenFile(ctx, path); err != nil {
		if cerr := closeEntity(entity); cerr != nil {
			p.logger().Warn("closing %s after failed open: %v", editorID, cerr)
		}
		return nil, nil, &api.CreationError{EditorID: editorID, Path: path, Err: err}
	}

	id := p.store.AllocateID()
	w := newWrapper(id, path, entity)
	if err := p.store.Insert(id, instance.Record{Panel: entity, Instance: w}); err != nil {
		p.logger().Error("instance %d: %v", id, err)
		_ = w.Close()
		return nil, nil, err
	}

	p.watch(w.absPath)
	return entity, w, nil
}

// CloseEditor removes one instance and tears its entity down. It reports
// whether the instance was live; the instance is removed even when
// teardown fails.
func (p *Plugin) CloseEditor(id instance.ID) (bool, error) {
	p.lifecycle.RLock()
	if p.state != StateActive {
		p.lifecycle.RUnlock()
		return false, ErrNotLoaded
	}
	rec, ok := p.store.Remove(id)
	p.lifecycle.RUnlock()
	if !ok {
		return false, nil
	}

	path := rec.Instance.FilePath()
	err := p.teardown(rec)
	if err != nil {
		p.logger().Error("instance %d (%s): teardown failed: %v", id, path, err)
		p.emitEvent(Event{Type: EventInstanceError, Instance: id, Path: path, Error: err})
	}

	p.logger().Info("instance %d closed", id)
	p.emitEvent(Event{Type: EventInstanceClosed, Instance: id, Path: path})
	return true, err
}

// teardown stops watching the record's file and closes its entity.
func (p *Plugin) teardown(rec instance.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during teardown: %v", r)
		}
	}()

	w, ok := rec.Instance.(*Wrapper)
	if !ok {
		return nil
	}
	p.unwatch(w.absPath)
	return w.Close()
}

// Instance returns the lifecycle handle for id.
func (p *Plugin) Instance(id instance.ID) (api.Instance, bool) {
	rec, ok := p.store.Get(id)
	if !ok {
		return nil, false
	}
	return rec.Instance, true
}

// InstanceCount returns the number of live instances.
func (p *Plugin) InstanceCount() int {
	return p.store.Len()
}

// InstanceIDs returns the live instance ids in ascending order.
func (p *Plugin) InstanceIDs() []instance.ID {
	return p.store.IDs()
}

// DirtyInstances returns the ids of instances with unsaved changes.
func (p *Plugin) DirtyInstances() []instance.ID {
	var dirty []instance.ID
	for _, e := range p.store.Snapshot() {
		if e.Record.Instance.IsDirty() {
			dirty = append(dirty, e.ID)
		}
	}
	return dirty
}
