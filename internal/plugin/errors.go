package plugin

import "errors"

// Plugin lifecycle errors.
var (
	// ErrAlreadyLoaded is returned by OnLoad on an active plugin.
	ErrAlreadyLoaded = errors.New("plugin is already loaded")

	// ErrNotLoaded is returned when using an unloaded plugin.
	ErrNotLoaded = errors.New("plugin is not loaded")

	// ErrNilConstructor is returned when registering a nil constructor.
	ErrNilConstructor = errors.New("constructor is nil")

	// ErrNilEntity is returned when a constructor returns no entity.
	ErrNilEntity = errors.New("constructor returned nil entity")

	// ErrInvalidPlugin is returned when the plugin definition is invalid.
	ErrInvalidPlugin = errors.New("invalid plugin")
)
