// Package config provides the plugin's typed, read-only configuration.
//
// Values are layered: built-in defaults, then an optional TOML, YAML or
// JSON file, then SCRIPTEDITOR_* environment variables. Configuration is
// read once at startup and never written back.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/dshills/scripteditor/internal/config/loader"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultMaxFileSize is the largest file an editor opens by default.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Config is the complete plugin configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Plugin  PluginConfig  `mapstructure:"plugin"`

	unknown []string
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// EditorConfig configures the script editor entities.
type EditorConfig struct {
	// MaxFileSize is the largest file, in bytes, an editor will open.
	MaxFileSize int64 `mapstructure:"maxFileSize"`

	// WatchFiles reports external changes to open files.
	WatchFiles bool `mapstructure:"watchFiles"`

	// ReadOnly opens every document read-only.
	ReadOnly bool `mapstructure:"readOnly"`

	// Root confines file access to a directory. Paths are resolved
	// inside it and cannot escape. Empty means the whole file system.
	Root string `mapstructure:"root"`
}

// PluginConfig overrides plugin metadata.
type PluginConfig struct {
	// Version is reported in the plugin manifest.
	Version string `mapstructure:"version"`

	// Author and Description replace the built-in values when set.
	Author      string `mapstructure:"author"`
	Description string `mapstructure:"description"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Editor: EditorConfig{
			MaxFileSize: DefaultMaxFileSize,
			WatchFiles:  true,
		},
		Plugin: PluginConfig{
			Version: "0.1.0",
		},
	}
}

// Load reads configuration from path (optional; "" skips the file layer)
// and the process environment.
func Load(path string) (*Config, error) {
	var file loader.Loader
	if path != "" {
		l, err := loader.ForPath(path)
		if err != nil {
			return nil, err
		}
		file = l
	}
	return LoadFrom(file, loader.NewEnvLoader(loader.DefaultEnvPrefix))
}

// LoadFrom layers the given sources over Default in order, later sources
// winning. Nil loaders are skipped. The result is validated.
func LoadFrom(sources ...loader.Loader) (*Config, error) {
	merged := make(map[string]any)
	for _, src := range sources {
		if src == nil {
			continue
		}
		values, err := src.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, values)
	}

	cfg := Default()
	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply decodes values onto cfg, leaving absent keys untouched.
func (c *Config) apply(values map[string]any) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		Metadata:         &md,
		DecodeHook:       boolWordHook,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	c.unknown = append(c.unknown[:0], md.Unused...)
	sort.Strings(c.unknown)
	return nil
}

// boolWordHook accepts yes/no and on/off for boolean settings. Other
// strings reach the weakly typed decoder unchanged.
func boolWordHook(from, to reflect.Kind, data any) (any, error) {
	if from != reflect.String || to != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(data.(string))) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return data, nil
}

// UnknownKeys returns the keys present in the sources that no setting
// consumed, in sorted order.
func (c *Config) UnknownKeys() []string {
	out := make([]string, len(c.unknown))
	copy(out, c.unknown)
	return out
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format))
	}

	if c.Editor.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: editor.maxFileSize must be positive, got %d", ErrInvalidConfig, c.Editor.MaxFileSize))
	}

	if strings.TrimSpace(c.Plugin.Version) == "" {
		errs = append(errs, fmt.Errorf("%w: plugin.version is empty", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
