// Package watcher reports external changes to the files open in editors.
//
// Files are watched through their parent directory, so a file replaced by
// an atomic rename, or created after it was opened, keeps producing events.
package watcher

import (
	"errors"
	"time"
)

// Watcher errors.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
	ErrWatchLimit      = errors.New("maximum watch limit reached")
)

// Op is a set of file system operations.
type Op uint32

const (
	// OpCreate indicates a file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed away.
	OpRename
	// OpChmod indicates file permissions were changed.
	OpChmod
)

// String joins the names of the set operations with "|".
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	case OpChmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

// Has reports whether o is in the set.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Gone reports whether the file no longer exists at its path.
func (op Op) Gone() bool {
	return op&(OpRemove|OpRename) != 0
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the absolute path of the affected file.
	Path string

	// Op is the operation that occurred.
	Op Op

	// Timestamp is when the event was observed.
	Timestamp time.Time
}

// Stats is a point-in-time view of a watcher.
type Stats struct {
	// WatchedPaths is the number of files being watched.
	WatchedPaths int

	// WatchedDirs is the number of directories registered with the OS.
	WatchedDirs int

	// PendingEvents are buffered and not yet received.
	PendingEvents int

	// TotalEvents is the total number of events delivered.
	TotalEvents int64

	// Dropped is the number of events dropped because the channel was full.
	Dropped int64

	// Errors counts errors since start.
	Errors int64

	// LastError is the most recent error.
	LastError error

	// StartTime is when the watcher was created.
	StartTime time.Time
}

// Watcher monitors individual files for external changes.
type Watcher interface {
	// Watch starts watching a file. The file may not exist yet, but its
	// directory must. Returns ErrAlreadyWatching for a watched path.
	Watch(path string) error

	// Unwatch stops watching a file.
	// Returns ErrNotWatching if the path isn't being watched.
	Unwatch(path string) error

	// Events returns the channel of file change events.
	// The channel is closed when the watcher is closed.
	Events() <-chan Event

	// Errors returns the channel of watcher errors.
	// The channel is closed when the watcher is closed.
	Errors() <-chan error

	// Close stops delivery and closes both channels.
	Close() error

	// Stats returns current counters.
	Stats() Stats

	// IsWatching reports whether the file is watched.
	IsWatching(path string) bool

	// WatchedPaths returns all watched files in sorted order.
	WatchedPaths() []string
}

// Config configures a watcher.
type Config struct {
	// BufferSize is the capacity of the event and error channels.
	// Default: 100
	BufferSize int

	// MaxWatches is the maximum number of files to watch.
	// 0 means unlimited.
	MaxWatches int

	// IgnoreChmod drops events that only change permissions.
	// Default: true
	IgnoreChmod bool
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize:  100,
		IgnoreChmod: true,
	}
}

// Option configures a watcher.
type Option func(*Config)

// WithBufferSize sets Config.BufferSize.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

// WithMaxWatches sets the maximum number of watched files.
func WithMaxWatches(max int) Option {
	return func(c *Config) {
		c.MaxWatches = max
	}
}

// WithIgnoreChmod controls whether permission-only events are dropped.
func WithIgnoreChmod(ignore bool) Option {
	return func(c *Config) {
		c.IgnoreChmod = ignore
	}
}
