package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/scripteditor/internal/vfs"
)

func TestFileLoaders(t *testing.T) {
	fs := vfs.NewMemFS()
	fs.AddFile("/etc/se/config.toml", "[logging]\nlevel = \"debug\"\n\n[editor]\nmaxFileSize = 1024\nwatchFiles = false\n")
	fs.AddFile("/etc/se/config.yaml", "logging:\n  level: debug\neditor:\n  maxFileSize: 1024\n  watchFiles: false\n")
	fs.AddFile("/etc/se/config.json", `{"logging": {"level": "debug"}, "editor": {"maxFileSize": 1024, "watchFiles": false}}`)

	for _, path := range []string{"/etc/se/config.toml", "/etc/se/config.yaml", "/etc/se/config.json"} {
		t.Run(path, func(t *testing.T) {
			l, err := ForPathWithFS(fs, path)
			if err != nil {
				t.Fatal(err)
			}
			config, err := l.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if v, ok := GetPath(config, "logging.level"); !ok || v != "debug" {
				t.Errorf("logging.level = %v", v)
			}
			if v, ok := GetPath(config, "editor.watchFiles"); !ok || v != false {
				t.Errorf("editor.watchFiles = %v", v)
			}
			// Number types differ per format; only presence is checked here.
			if _, ok := GetPath(config, "editor.maxFileSize"); !ok {
				t.Error("editor.maxFileSize missing")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := NewTOMLLoaderWithFS(vfs.NewMemFS(), "/nope.toml")
	config, err := l.Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", config, err)
	}
}

func TestForPathUnsupported(t *testing.T) {
	if _, err := ForPath("config.ini"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ForPath() error = %v", err)
	}
	if f, ok := FormatOf("a/B.YML"); !ok || f != FormatYAML {
		t.Errorf("FormatOf() = %q, %v", f, ok)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		load     func() (map[string]any, error)
		wantLine int
	}{
		{"toml", func() (map[string]any, error) {
			return NewTOMLLoader("").LoadFromReader(strings.NewReader("a = 1\nb = = 2\n"))
		}, 2},
		{"yaml", func() (map[string]any, error) {
			return NewYAMLLoader("").LoadFromReader(strings.NewReader("a: 1\nb: [1, 2\n"))
		}, 0},
		{"json", func() (map[string]any, error) {
			return NewJSONLoader("").LoadFromReader(strings.NewReader("{\n  \"a\": 1,\n  oops\n}"))
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.load()
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if perr.Path != "<reader>" {
				t.Errorf("Path = %q", perr.Path)
			}
			if tt.wantLine > 0 && perr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", perr.Line, tt.wantLine)
			}
			if perr.Unwrap() == nil {
				t.Error("Unwrap() = nil")
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Line: 2, Column: 3, Message: "bad"}, "parse error in a.toml at line 2, column 3: bad"},
		{&ParseError{Path: "a.toml", Line: 2, Message: "bad"}, "parse error in a.toml at line 2: bad"},
		{&ParseError{Path: "a.toml", Message: "bad"}, "parse error in a.toml: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestEnvLoader(t *testing.T) {
	t.Setenv("SCRIPTEDITOR_LOG_LEVEL", "debug")
	t.Setenv("SCRIPTEDITOR_READ_ONLY", "yes")
	t.Setenv("SCRIPTEDITOR_EDITOR_MAX_FILE_SIZE", "2048")
	t.Setenv("SCRIPTEDITOR_PLUGIN_VERSION", "1.2.3")
	t.Setenv("SCRIPTEDITOR_ROOT", "007")
	t.Setenv("OTHER_LOG_LEVEL", "error")

	config, err := NewEnvLoader(DefaultEnvPrefix).Load()
	if err != nil {
		t.Fatal(err)
	}

	checks := map[string]any{
		"logging.level":      "debug",
		"editor.readOnly":    "yes",
		"editor.maxFileSize": "2048",
		"editor.root":        "007",
		"plugin.version":     "1.2.3",
	}
	for path, want := range checks {
		if got, ok := GetPath(config, path); !ok || got != want {
			t.Errorf("%s = %v (%T), want %v", path, got, got, want)
		}
	}
	if len(config) != 3 {
		t.Errorf("unexpected sections: %v", config)
	}
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader("SCRIPTEDITOR_")
	tests := []struct {
		env  string
		want string
	}{
		{"SCRIPTEDITOR_EDITOR_WATCH_FILES", "editor.watchFiles"},
		{"SCRIPTEDITOR_LOGGING_FORMAT", "logging.format"},
		{"SCRIPTEDITOR_DEBUG", "debug"},
		{"SCRIPTEDITOR_", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"logging": map[string]any{"level": "info", "format": "text"},
		"editor":  map[string]any{"readOnly": false},
	}
	src := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"plugin":  map[string]any{"version": "2.0.0"},
	}

	merged := DeepMerge(dst, src)

	if v, _ := GetPath(merged, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v", v)
	}
	if v, _ := GetPath(merged, "logging.format"); v != "text" {
		t.Errorf("logging.format = %v", v)
	}
	if v, _ := GetPath(merged, "plugin.version"); v != "2.0.0" {
		t.Errorf("plugin.version = %v", v)
	}

	// Maps copied in from src are not shared.
	src["plugin"].(map[string]any)["version"] = "changed"
	if v, _ := GetPath(merged, "plugin.version"); v != "2.0.0" {
		t.Error("DeepMerge shared a nested map with src")
	}
}

func TestClone(t *testing.T) {
	orig := map[string]any{"a": map[string]any{"b": []any{1, map[string]any{"c": 2}}}}
	c := Clone(orig)
	SetPath(c, "a.x", 1)
	if _, ok := GetPath(orig, "a.x"); ok {
		t.Error("Clone shares nested maps")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) != nil")
	}
}
