// Package scripteditor implements the "script-editor" editor kind: a
// plain text editor entity for script and data files.
//
// The entity keeps the document model and file I/O; rendering belongs to
// the host. All file access goes through a vfs.VFS.
package scripteditor

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/golang/groupcache/lru"

	"github.com/dshills/scripteditor/internal/editor"
	"github.com/dshills/scripteditor/internal/filetype"
	"github.com/dshills/scripteditor/internal/logging"
	"github.com/dshills/scripteditor/internal/plugin"
	"github.com/dshills/scripteditor/internal/plugin/api"
	"github.com/dshills/scripteditor/internal/vfs"
	"github.com/dshills/scripteditor/internal/watcher"
)

// DefaultMaxFileSize is used when Options.MaxFileSize is zero.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Options configures new editors.
type Options struct {
	// FS is used for all file access. Defaults to the OS file system.
	FS vfs.VFS

	// FileTypes resolves a path to its file type. May be nil.
	FileTypes *filetype.Registry

	// MaxFileSize is the largest file, in bytes, OpenFile accepts.
	MaxFileSize int64

	// ReadOnly opens every document read-only.
	ReadOnly bool

	// Logger is used when the host context carries none.
	Logger *logging.Logger
}

// Editor is a script editor entity bound to at most one file.
type Editor struct {
	mu sync.Mutex

	fs          vfs.VFS
	types       *filetype.Registry
	maxFileSize int64
	readOnly    bool
	log         *logging.Logger
	window      string

	path     string
	fileType filetype.Descriptor
	hasType  bool
	doc      *Document

	// stale is set when the file changed on disk since the last load.
	stale  bool
	closed bool
}

// Ensure Editor satisfies the plugin entity contracts.
var (
	_ plugin.Entity         = (*Editor)(nil)
	_ plugin.DirtyReporter  = (*Editor)(nil)
	_ plugin.ChangeNotifier = (*Editor)(nil)
)

// New creates an editor bound to the host window in ctx.
func New(opts Options, ctx *api.Context) *Editor {
	fsys := opts.FS
	if fsys == nil {
		fsys = vfs.NewOSFS()
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	log := logging.OrNull(opts.Logger)
	var window string
	if ctx != nil {
		window = ctx.Window
		if ctx.Logger != nil {
			log = ctx.Logger
		}
	}

	return &Editor{
		fs:          fsys,
		types:       opts.FileTypes,
		maxFileSize: maxSize,
		readOnly:    opts.ReadOnly,
		log:         log.WithComponent("scripteditor"),
		window:      window,
	}
}

// NewConstructor returns a plugin.Constructor building editors with opts.
func NewConstructor(opts Options) plugin.Constructor {
	return func(ctx *api.Context) (plugin.Entity, error) {
		return New(opts, ctx), nil
	}
}

// PanelName returns the editor kind.
func (e *Editor) PanelName() string {
	return string(editor.ScriptEditor)
}

// Title returns the file's base name, marked with "*" when dirty.
func (e *Editor) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.path == "" {
		return "untitled"
	}
	title := filepath.Base(e.path)
	if e.doc != nil && e.doc.IsDirty() {
		title += "*"
	}
	return title
}

// Window returns the host window the editor was created in.
func (e *Editor) Window() string {
	return e.window
}

// OpenFile binds the editor to path. A missing file opens as a new
// document seeded with its file type's default content.
func (e *Editor) OpenFile(ctx *api.Context, path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.doc != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyOpen, e.path)
	}

	desc, hasType := e.lookupType(path)
	language := languageFor(desc, hasType, path)

	info, err := e.fs.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		e.doc = NewUnsavedDocument(path, desc.DefaultContent, language)
		e.log.Debug("new file %s (%s)", path, language)
	case err != nil:
		return fmt.Errorf("opening %s: %w", path, err)
	case info.IsDir():
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	case info.Size() > e.maxFileSize:
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, path, info.Size(), e.maxFileSize)
	default:
		raw, err := e.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		if vfs.IsBinary(raw) {
			return fmt.Errorf("%w: %s", ErrBinaryFile, path)
		}
		e.doc = NewDocument(path, raw, info.ModTime(), language)
		e.log.Debug("opened %s (%d bytes, %s)", path, len(raw), language)
	}

	e.doc.SetReadOnly(e.readOnly)
	e.path = path
	e.fileType, e.hasType = desc, hasType
	return nil
}

func (e *Editor) lookupType(path string) (filetype.Descriptor, bool) {
	if e.types == nil {
		return filetype.Descriptor{}, false
	}
	return e.types.ForPath(path)
}

// languageFor names the highlighting language from the file type's lexer,
// falling back to chroma's filename matching.
func languageFor(desc filetype.Descriptor, hasType bool, path string) string {
	if hasType {
		if l := desc.SyntaxLexer(); l != nil {
			return l.Config().Name
		}
	}
	return matchLanguage(filepath.Base(path))
}

// matchCache holds chroma filename matches by base name.
var matchCache = struct {
	sync.Mutex
	names *lru.Cache
}{names: lru.New(256)}

func matchLanguage(name string) string {
	matchCache.Lock()
	defer matchCache.Unlock()

	if v, ok := matchCache.names.Get(name); ok {
		return v.(string)
	}
	lang := "plaintext"
	if l := lexers.Match(name); l != nil {
		lang = l.Config().Name
	}
	matchCache.names.Add(name, lang)
	return lang
}

// Save writes the document to its file, creating parent directories.
func (e *Editor) Save(ctx *api.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return err
	}
	if e.doc.ReadOnly() {
		return fmt.Errorf("%w: %s", ErrReadOnly, e.path)
	}

	data, err := e.doc.Encode()
	if err != nil {
		return fmt.Errorf("saving %s: %w", e.path, err)
	}
	if err := e.fs.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return fmt.Errorf("saving %s: %w", e.path, err)
	}
	if err := e.fs.WriteFile(e.path, data, 0644); err != nil {
		return fmt.Errorf("saving %s: %w", e.path, err)
	}

	modTime := time.Now()
	if info, err := e.fs.Stat(e.path); err == nil {
		modTime = info.ModTime()
	}
	e.doc.MarkSaved(data, modTime)
	e.stale = false

	ctx.Log().Debug("saved %s (%d bytes)", e.path, len(data))
	return nil
}

// Reload discards unsaved edits and re-reads the file. A document that
// was never saved is reset to its default content.
func (e *Editor) Reload(ctx *api.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return err
	}

	info, err := e.fs.Stat(e.path)
	if errors.Is(err, fs.ErrNotExist) && !e.doc.OnDisk() {
		e.doc.SetContent(e.fileType.DefaultContent)
		e.stale = false
		return nil
	}
	if err != nil {
		return fmt.Errorf("reloading %s: %w", e.path, err)
	}
	if info.Size() > e.maxFileSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, e.path, info.Size(), e.maxFileSize)
	}
	raw, err := e.fs.ReadFile(e.path)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", e.path, err)
	}

	changed := e.doc.Reload(raw, info.ModTime())
	e.stale = false

	ctx.Log().Debug("reloaded %s (changed=%v)", e.path, changed)
	return nil
}

// IsDirty reports whether the document has unsaved changes.
func (e *Editor) IsDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc != nil && e.doc.IsDirty()
}

// Close releases the document. Further calls fail with ErrClosed.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	if e.doc != nil && e.doc.IsDirty() {
		e.log.Warn("closing %s with unsaved changes", e.path)
	}
	return nil
}

// FileChanged re-checks the file after a watcher event and reports
// whether it now differs from the loaded content.
func (e *Editor) FileChanged(ev watcher.Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.doc == nil {
		return false
	}

	var raw []byte
	var modTime time.Time
	if !ev.Op.Gone() {
		info, err := e.fs.Stat(e.path)
		if err == nil {
			modTime = info.ModTime()
			raw, err = e.fs.ReadFile(e.path)
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			e.log.Warn("checking %s: %v", e.path, err)
			return false
		}
		if raw == nil && err == nil {
			raw = []byte{}
		}
	}

	changed := e.doc.HasExternalChanges(raw, modTime)
	if changed {
		e.stale = true
	}
	return changed
}

// DiskDiff compares the file on disk with the buffer. A file that does
// not exist compares as empty.
func (e *Editor) DiskDiff() (Diff, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return Diff{}, err
	}
	var disk string
	raw, err := e.fs.ReadFile(e.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Diff{}, fmt.Errorf("reading %s: %w", e.path, err)
	default:
		disk, _ = vfs.DecodeText(raw)
	}
	return LineDiff(disk, e.doc.Content()), nil
}

// HasExternalChanges reports whether the file changed on disk since it
// was last loaded or saved.
func (e *Editor) HasExternalChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stale
}

// SetContent replaces the document text.
func (e *Editor) SetContent(content string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return err
	}
	if e.doc.ReadOnly() {
		return fmt.Errorf("%w: %s", ErrReadOnly, e.path)
	}
	e.doc.SetContent(content)
	return nil
}

// Content returns the document text, or "" before OpenFile.
func (e *Editor) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return ""
	}
	return e.doc.Content()
}

// Language returns the highlighting language, or "" before OpenFile.
func (e *Editor) Language() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return ""
	}
	return e.doc.Language()
}

// FileType returns the file type resolved from the path, if any.
func (e *Editor) FileType() (filetype.Descriptor, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fileType, e.hasType
}

// Document returns the open document, or nil before OpenFile.
func (e *Editor) Document() *Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

func (e *Editor) checkOpen() error {
	if e.closed {
		return ErrClosed
	}
	if e.doc == nil {
		return ErrNotOpen
	}
	return nil
}
