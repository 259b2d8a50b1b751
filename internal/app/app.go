// Package app builds the script editor plugin from configuration and
// drives it the way a host application would.
package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"dario.cat/mergo"

	"github.com/dshills/scripteditor/internal/config"
	"github.com/dshills/scripteditor/internal/editor"
	"github.com/dshills/scripteditor/internal/filetype"
	"github.com/dshills/scripteditor/internal/instance"
	"github.com/dshills/scripteditor/internal/logging"
	"github.com/dshills/scripteditor/internal/plugin"
	"github.com/dshills/scripteditor/internal/plugin/api"
	"github.com/dshills/scripteditor/internal/scripteditor"
	"github.com/dshills/scripteditor/internal/vfs"
	"github.com/dshills/scripteditor/internal/watcher"
)

// DefaultMetadata is the plugin identity before configuration overrides.
var DefaultMetadata = api.Metadata{
	ID:          "com.pulsar.script-editor",
	Name:        "Script Editor",
	Version:     "0.1.0",
	Author:      "Pulsar Team",
	Description: "Professional code editor with LSP support for multiple programming languages",
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Ignored when
	// Config is set.
	ConfigPath string

	// Config is used as is instead of loading configuration.
	Config *config.Config

	// FS overrides the file system chosen from configuration.
	FS vfs.VFS

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Application owns the plugin and the collaborators it was built with.
type Application struct {
	config    *config.Config
	log       *logging.Logger
	fileTypes *filetype.Registry
	editors   *editor.Registry
	fs        vfs.VFS
	watcher   *watcher.FSNotifyWatcher
	plugin    *plugin.Plugin

	unsubscribe func()

	mu       sync.Mutex
	shutdown bool
}

// New builds the application and an unloaded plugin.
func New(opts Options) (*Application, error) {
	app := &Application{}
	if err := app.bootstrap(opts); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap(opts Options) error {
	// 1. Config
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		cfg = loaded
	}
	app.config = cfg

	// 2. Logging
	app.log = logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: logging.Format(strings.ToLower(cfg.Logging.Format)),
		Output: opts.LogOutput,
		Prefix: "scripteditor",
	})
	if keys := cfg.UnknownKeys(); len(keys) > 0 {
		app.log.Warn("ignoring unknown config keys: %s", strings.Join(keys, ", "))
	}

	// 3. Registries
	types, err := filetype.NewRegistry(filetype.Builtin()...)
	if err != nil {
		return &InitError{Component: "file types", Err: err}
	}
	editors, err := editor.NewRegistry(types, editor.Builtin()...)
	if err != nil {
		return &InitError{Component: "editors", Err: err}
	}
	app.fileTypes, app.editors = types, editors

	// 4. File system
	switch {
	case opts.FS != nil:
		app.fs = opts.FS
	case cfg.Editor.Root != "":
		app.fs = vfs.NewRootFS(cfg.Editor.Root)
	default:
		app.fs = vfs.NewOSFS()
	}

	// 5. Watcher. Paths under a root are virtual, so they cannot be watched.
	if cfg.Editor.WatchFiles && cfg.Editor.Root == "" {
		w, err := watcher.NewFSNotifyWatcher()
		if err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
		app.watcher = w
	}

	// 6. Plugin
	meta, err := Metadata(cfg)
	if err != nil {
		app.closeWatcher()
		return &InitError{Component: "metadata", Err: err}
	}
	pluginOpts := []plugin.Option{
		plugin.WithLogger(app.log),
		plugin.WithConstructor(editor.ScriptEditor, scripteditor.NewConstructor(scripteditor.Options{
			FS:          app.fs,
			FileTypes:   types,
			MaxFileSize: cfg.Editor.MaxFileSize,
			ReadOnly:    cfg.Editor.ReadOnly,
			Logger:      app.log,
		})),
	}
	if app.watcher != nil {
		pluginOpts = append(pluginOpts, plugin.WithWatcher(app.watcher))
	}
	p, err := plugin.New(meta, types, editors, pluginOpts...)
	if err != nil {
		app.closeWatcher()
		return &InitError{Component: "plugin", Err: err}
	}
	app.plugin = p
	app.unsubscribe = p.Subscribe(app.handleEvent)

	return nil
}

// Metadata returns DefaultMetadata with the configured plugin fields
// applied over it.
func Metadata(cfg *config.Config) (api.Metadata, error) {
	meta := DefaultMetadata
	override := api.Metadata{
		Version:     cfg.Plugin.Version,
		Author:      cfg.Plugin.Author,
		Description: cfg.Plugin.Description,
	}
	if err := mergo.Merge(&meta, override, mergo.WithOverride); err != nil {
		return api.Metadata{}, err
	}
	if err := meta.Validate(); err != nil {
		return api.Metadata{}, err
	}
	return meta, nil
}

func (app *Application) handleEvent(ev plugin.Event) {
	switch ev.Type {
	case plugin.EventInstanceChanged:
		app.log.Warn("instance %d: %s changed on disk", ev.Instance, ev.Path)
	case plugin.EventInstanceError:
		app.log.Debug("event: %s", ev)
	}
}

// Plugin returns the plugin.
func (app *Application) Plugin() *plugin.Plugin { return app.plugin }

// Config returns the configuration the application was built with.
func (app *Application) Config() *config.Config { return app.config }

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger { return app.log }

// FS returns the file system editors read and write through.
func (app *Application) FS() vfs.VFS { return app.fs }

// FileTypes returns the file type registry.
func (app *Application) FileTypes() *filetype.Registry { return app.fileTypes }

// Editors returns the editor capability registry.
func (app *Application) Editors() *editor.Registry { return app.editors }

// Start activates the plugin.
func (app *Application) Start() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.shutdown {
		return ErrShutdown
	}
	return app.plugin.OnLoad()
}

// Context returns a host context for window.
func (app *Application) Context(window string) *api.Context {
	return api.NewContext(window, app.log.WithField("window", window))
}

// Open picks the first editor kind supporting path's file type and asks
// the plugin to create it.
func (app *Application) Open(path, window string) (api.Panel, api.Instance, error) {
	ft, ok := app.fileTypes.ForPath(path)
	if !ok {
		return nil, nil, &OperationError{Op: "open", Target: path, Err: ErrUnknownFileType}
	}
	kinds := app.editors.ForFileType(ft.ID)
	if len(kinds) == 0 {
		return nil, nil, &OperationError{Op: "open", Target: path, Err: fmt.Errorf("%w: %s", ErrNoEditor, ft.ID)}
	}

	panel, inst, err := app.plugin.CreateEditor(kinds[0].ID, path, app.Context(window))
	if err != nil {
		return nil, nil, &OperationError{Op: "open", Target: path, Err: err}
	}
	return panel, inst, nil
}

// SaveAll saves every dirty instance and returns the ids it saved.
// Failures are collected; the remaining instances are still saved.
func (app *Application) SaveAll(window string) ([]instance.ID, error) {
	ctx := app.Context(window)
	var saved []instance.ID
	var errs []error
	for _, id := range app.plugin.DirtyInstances() {
		inst, ok := app.plugin.Instance(id)
		if !ok {
			continue
		}
		if err := inst.Save(ctx); err != nil {
			errs = append(errs, &OperationError{Op: "save", Target: inst.FilePath(), Err: err})
			continue
		}
		saved = append(saved, id)
	}
	return saved, errors.Join(errs...)
}

// Shutdown unloads the plugin and releases the watcher. It returns the
// number of instances the unload removed; later calls return 0.
func (app *Application) Shutdown() int {
	app.mu.Lock()
	if app.shutdown {
		app.mu.Unlock()
		return 0
	}
	app.shutdown = true
	app.mu.Unlock()

	n := app.plugin.OnUnload()
	app.unsubscribe()
	app.closeWatcher()
	return n
}

func (app *Application) closeWatcher() {
	if app.watcher == nil {
		return
	}
	if err := app.watcher.Close(); err != nil {
		app.log.Warn("closing watcher: %v", err)
	}
}
