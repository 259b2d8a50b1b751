package loader

import (
	"os"
	"strings"
)

// DefaultEnvPrefix is the prefix of every environment variable the
// plugin reads.
const DefaultEnvPrefix = "SCRIPTEDITOR_"

// EnvLoader loads configuration from environment variables.
//
// Mapped variables go to their configured path. Any other prefixed
// variable SECTION_SOME_KEY is stored at section.someKey.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// NewEnvLoaderWithMapping creates a loader with custom mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.mapping = mapping
	return l
}

// defaultEnvMapping covers variables whose names don't follow the
// SECTION_KEY convention.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":     "logging.level",
		prefix + "LOG_FORMAT":    "logging.format",
		prefix + "MAX_FILE_SIZE": "editor.maxFileSize",
		prefix + "WATCH":         "editor.watchFiles",
		prefix + "ROOT":          "editor.root",
		prefix + "READ_ONLY":     "editor.readOnly",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load reads environment variables and returns a configuration map.
// Values are kept as strings; converting them to the setting's type is
// left to the decoder.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		SetPath(config, path, value)
	}

	return config, nil
}

// envToPath converts PREFIX_EDITOR_MAX_FILE_SIZE to editor.maxFileSize.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	section, rest, ok := strings.Cut(name, "_")
	if section == "" {
		return ""
	}
	if !ok || rest == "" {
		return strings.ToLower(section)
	}

	var key strings.Builder
	for i, part := range strings.Split(rest, "_") {
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		if i > 0 {
			part = strings.ToUpper(part[:1]) + part[1:]
		}
		key.WriteString(part)
	}
	return strings.ToLower(section) + "." + key.String()
}
