package app

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/scripteditor/internal/config"
	"github.com/dshills/scripteditor/internal/plugin"
	"github.com/dshills/scripteditor/internal/scripteditor"
	"github.com/dshills/scripteditor/internal/vfs"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Editor.WatchFiles = false
	return cfg
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig()
	}
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { app.Shutdown() })
	return app
}

func TestEndToEnd(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.Start(); err != nil {
		t.Fatal(err)
	}
	p := app.Plugin()

	path := filepath.Join(t.TempDir(), "a.py")
	panel, inst, err := app.Open(path, "main")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if panel.PanelName() != "script-editor" || inst.FilePath() != path {
		t.Errorf("panel %q, path %q", panel.PanelName(), inst.FilePath())
	}
	if p.InstanceCount() != 1 {
		t.Fatalf("InstanceCount() = %d, want 1", p.InstanceCount())
	}

	if n := app.Shutdown(); n != 1 {
		t.Errorf("Shutdown() = %d, want 1", n)
	}
	if p.InstanceCount() != 0 {
		t.Errorf("InstanceCount() after shutdown = %d", p.InstanceCount())
	}
	if n := app.Shutdown(); n != 0 {
		t.Errorf("second Shutdown() = %d, want 0", n)
	}
	if err := app.Start(); !errors.Is(err, ErrShutdown) {
		t.Errorf("Start() after shutdown error = %v", err)
	}
}

func TestOpenErrors(t *testing.T) {
	app := newTestApp(t, Options{FS: vfs.NewMemFS()})

	if _, _, err := app.Open("/x.py", "main"); !errors.Is(err, plugin.ErrNotLoaded) {
		t.Errorf("Open() before Start error = %v", err)
	}
	if err := app.Start(); err != nil {
		t.Fatal(err)
	}

	_, _, err := app.Open("/notes.zzz", "main")
	if !errors.Is(err, ErrUnknownFileType) {
		t.Errorf("Open() unknown type error = %v", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "open" || opErr.Target != "/notes.zzz" {
		t.Errorf("error = %#v", err)
	}
	if app.Plugin().InstanceCount() != 0 {
		t.Error("failed open left an instance")
	}
}

func TestSaveAll(t *testing.T) {
	fs := vfs.NewBillyMemFS()
	app := newTestApp(t, Options{FS: fs})
	if err := app.Start(); err != nil {
		t.Fatal(err)
	}

	if _, _, err := app.Open("/w/a.lua", "main"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := app.Open("/w/b.md", "main"); err != nil {
		t.Fatal(err)
	}

	saved, err := app.SaveAll("main")
	if err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if len(saved) != 2 {
		t.Errorf("saved = %v, want 2 ids", saved)
	}
	data, err := fs.ReadFile("/w/a.lua")
	if err != nil || string(data) != "-- New Lua script\n" {
		t.Errorf("a.lua = %q, %v", data, err)
	}
	if len(app.Plugin().DirtyInstances()) != 0 {
		t.Error("instances still dirty after SaveAll")
	}
}

func TestSaveAllReadOnly(t *testing.T) {
	cfg := testConfig()
	cfg.Editor.ReadOnly = true
	app := newTestApp(t, Options{Config: cfg, FS: vfs.NewMemFS()})
	if err := app.Start(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := app.Open("/n.ts", "main"); err != nil {
		t.Fatal(err)
	}

	saved, err := app.SaveAll("main")
	if len(saved) != 0 || !errors.Is(err, scripteditor.ErrReadOnly) {
		t.Errorf("SaveAll() = %v, %v", saved, err)
	}
}

func TestRootConfinesFiles(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig()
	cfg.Editor.Root = root
	app := newTestApp(t, Options{Config: cfg})
	if err := app.Start(); err != nil {
		t.Fatal(err)
	}

	if _, _, err := app.Open("conf/app.toml", "main"); err != nil {
		t.Fatal(err)
	}
	if _, err := app.SaveAll("main"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(root, "conf", "app.toml"))
	if err != nil || string(data) != "# TOML configuration file\n" {
		t.Errorf("app.toml = %q, %v", data, err)
	}
}

func TestWatcherEnabled(t *testing.T) {
	cfg := config.Default()
	app := newTestApp(t, Options{Config: cfg})
	if app.watcher == nil {
		t.Fatal("watcher not created")
	}
	if err := app.Start(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "s.js")
	if err := os.WriteFile(path, []byte("1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := app.Open(path, "main"); err != nil {
		t.Fatal(err)
	}
	if !app.watcher.IsWatching(path) {
		t.Error("opened file not watched")
	}
	if app.Shutdown() != 1 {
		t.Error("Shutdown() did not remove the instance")
	}
}

func TestMetadata(t *testing.T) {
	cfg := config.Default()
	meta, err := Metadata(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if meta != DefaultMetadata {
		t.Errorf("Metadata() = %+v, want defaults", meta)
	}

	cfg.Plugin.Version = "1.2.0"
	cfg.Plugin.Author = "Ops"
	meta, err = Metadata(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Version != "1.2.0" || meta.Author != "Ops" || meta.Description != DefaultMetadata.Description {
		t.Errorf("Metadata() = %+v", meta)
	}

	cfg.Plugin.Version = "one"
	if _, err := Metadata(cfg); err == nil {
		t.Error("invalid version accepted")
	}
}

func TestUnknownConfigKeysLogged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("editor:\n  watchFiles: false\n  colour: red\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	app, err := New(Options{ConfigPath: path, LogOutput: &out})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Shutdown()

	if !strings.Contains(out.String(), "editor.colour") {
		t.Errorf("log = %q", out.String())
	}
}

func TestNewBadConfig(t *testing.T) {
	_, err := New(Options{ConfigPath: "/nonexistent/cfg.ini", LogOutput: io.Discard})
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Errorf("New() error = %v", err)
	}
}
