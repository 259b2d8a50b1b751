package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/scripteditor/internal/config/loader"
	"github.com/dshills/scripteditor/internal/vfs"
)

type mapLoader map[string]any

func (m mapLoader) Load() (map[string]any, error) { return loader.Clone(m), nil }

type failLoader struct{ err error }

func (f failLoader) Load() (map[string]any, error) { return nil, f.err }

func TestDefaultValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Editor.MaxFileSize != DefaultMaxFileSize || !cfg.Editor.WatchFiles {
		t.Errorf("Default().Editor = %+v", cfg.Editor)
	}
}

func TestLoadFromPrecedence(t *testing.T) {
	fs := vfs.NewMemFS()
	fs.AddFile("/cfg/scripteditor.toml", `
[logging]
level = "warn"
format = "json"

[editor]
maxFileSize = 4096
readOnly = true
`)

	env := mapLoader{
		"logging": map[string]any{"level": "debug"},
		"editor":  map[string]any{"maxFileSize": "8192"},
	}

	cfg, err := LoadFrom(loader.NewTOMLLoaderWithFS(fs, "/cfg/scripteditor.toml"), env)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want env value", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want file value", cfg.Logging.Format)
	}
	if cfg.Editor.MaxFileSize != 8192 {
		t.Errorf("Editor.MaxFileSize = %d, want 8192", cfg.Editor.MaxFileSize)
	}
	if !cfg.Editor.ReadOnly {
		t.Error("Editor.ReadOnly = false, want file value")
	}
	if !cfg.Editor.WatchFiles {
		t.Error("Editor.WatchFiles lost its default")
	}
	if cfg.Plugin.Version != "0.1.0" {
		t.Errorf("Plugin.Version = %q", cfg.Plugin.Version)
	}
}

func TestLoadFromYAMLAndJSON(t *testing.T) {
	fs := vfs.NewMemFS()
	fs.AddFile("/a.yaml", "editor:\n  watchFiles: false\nplugin:\n  version: 2.0.0\n")
	fs.AddFile("/b.json", `{"editor": {"maxFileSize": 100}}`)

	cfg, err := LoadFrom(loader.NewYAMLLoaderWithFS(fs, "/a.yaml"), loader.NewJSONLoaderWithFS(fs, "/b.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.WatchFiles || cfg.Editor.MaxFileSize != 100 || cfg.Plugin.Version != "2.0.0" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFromUnknownKeys(t *testing.T) {
	cfg, err := LoadFrom(mapLoader{
		"editor": map[string]any{"tabSize": 4},
		"theme":  "dark",
	})
	if err != nil {
		t.Fatal(err)
	}
	keys := cfg.UnknownKeys()
	if len(keys) != 2 || keys[0] != "editor.tabSize" || keys[1] != "theme" {
		t.Errorf("UnknownKeys() = %v", keys)
	}
}

func TestLoadFromErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := LoadFrom(failLoader{boom}); !errors.Is(err, boom) {
		t.Errorf("LoadFrom() error = %v, want %v", err, boom)
	}

	_, err := LoadFrom(mapLoader{"editor": map[string]any{"maxFileSize": "lots"}})
	if err == nil || !strings.Contains(err.Error(), "decoding config") {
		t.Errorf("LoadFrom(bad type) error = %v", err)
	}

	_, err = LoadFrom(mapLoader{"logging": map[string]any{"level": "verbose"}})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadFrom(bad level) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		fields []string
	}{
		{"level", func(c *Config) { c.Logging.Level = "loud" }, []string{"logging.level"}},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, []string{"logging.format"}},
		{"size", func(c *Config) { c.Editor.MaxFileSize = 0 }, []string{"editor.maxFileSize"}},
		{"version", func(c *Config) { c.Plugin.Version = " " }, []string{"plugin.version"}},
		{"several", func(c *Config) {
			c.Logging.Format = ""
			c.Editor.MaxFileSize = -1
		}, []string{"logging.format", "editor.maxFileSize"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() error = %v", err)
			}
			for _, f := range tt.fields {
				if !strings.Contains(err.Error(), f) {
					t.Errorf("error %q does not mention %s", err, f)
				}
			}
		})
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("logging:\n  level: error\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCRIPTEDITOR_READ_ONLY", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "error" || !cfg.Editor.ReadOnly {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := Load("config.ini"); !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("Load(ini) error = %v", err)
	}

	// A missing file falls back to defaults.
	cfg, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil || cfg.Logging.Level != "info" {
		t.Errorf("Load(absent) = %+v, %v", cfg, err)
	}
}

func TestLoadRootAndPluginOverrides(t *testing.T) {
	t.Setenv("SCRIPTEDITOR_ROOT", "/srv/scripts")
	t.Setenv("SCRIPTEDITOR_PLUGIN_AUTHOR", "Ops")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.Root != "/srv/scripts" {
		t.Errorf("Editor.Root = %q", cfg.Editor.Root)
	}
	if cfg.Plugin.Author != "Ops" || cfg.Plugin.Version != "0.1.0" {
		t.Errorf("Plugin = %+v", cfg.Plugin)
	}
}

func TestEnvStringsKeptVerbatim(t *testing.T) {
	t.Setenv("SCRIPTEDITOR_ROOT", "007")
	t.Setenv("SCRIPTEDITOR_PLUGIN_AUTHOR", "Yes")
	t.Setenv("SCRIPTEDITOR_PLUGIN_DESCRIPTION", "1.50")
	t.Setenv("SCRIPTEDITOR_MAX_FILE_SIZE", "2048")
	t.Setenv("SCRIPTEDITOR_WATCH", "off")
	t.Setenv("SCRIPTEDITOR_READ_ONLY", "on")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Editor.Root != "007" {
		t.Errorf("Editor.Root = %q, want %q", cfg.Editor.Root, "007")
	}
	if cfg.Plugin.Author != "Yes" || cfg.Plugin.Description != "1.50" {
		t.Errorf("Plugin = %+v", cfg.Plugin)
	}
	if cfg.Editor.MaxFileSize != 2048 || cfg.Editor.WatchFiles || !cfg.Editor.ReadOnly {
		t.Errorf("Editor = %+v", cfg.Editor)
	}
}

func TestEnvBadBool(t *testing.T) {
	t.Setenv("SCRIPTEDITOR_READ_ONLY", "maybe")
	if _, err := Load(""); err == nil {
		t.Error("Load() accepted a non-boolean read-only value")
	}
}
