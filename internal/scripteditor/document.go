package scripteditor

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/dshills/scripteditor/internal/vfs"
)

// Document is the text of one open file.
//
// Content is held with LF line endings and without a BOM; the on-disk
// format is remembered and restored on save. Dirty state compares a
// digest of the content with the digest taken at the last load or save.
type Document struct {
	mu sync.RWMutex

	path     string
	language string
	readOnly bool

	content string
	format  vfs.TextFormat
	version int64

	// savedDigest is the digest of the content last read from or written
	// to disk. onDisk is false until the file exists.
	savedDigest uint64
	onDisk      bool
	diskModTime time.Time

	openedAt   time.Time
	modifiedAt time.Time
}

func digest(s string) uint64 {
	return xxhash.Sum64String(s)
}

// NewDocument creates a document from file content read from disk.
func NewDocument(path string, raw []byte, diskModTime time.Time, language string) *Document {
	text, format := vfs.DecodeText(raw)
	now := time.Now()
	return &Document{
		path:        path,
		language:    language,
		content:     text,
		format:      format,
		version:     1,
		savedDigest: digest(text),
		onDisk:      true,
		diskModTime: diskModTime,
		openedAt:    now,
		modifiedAt:  now,
	}
}

// NewUnsavedDocument creates a document for a file that does not exist
// yet. It is dirty until saved.
func NewUnsavedDocument(path, content, language string) *Document {
	now := time.Now()
	return &Document{
		path:       path,
		language:   language,
		content:    content,
		format:     vfs.DefaultTextFormat,
		version:    1,
		openedAt:   now,
		modifiedAt: now,
	}
}

// Path returns the file path.
func (d *Document) Path() string {
	return d.path
}

// Language returns the language name used for highlighting.
func (d *Document) Language() string {
	return d.language
}

// Content returns the current text.
func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content
}

// SetContent replaces the text and increments the version.
func (d *Document) SetContent(content string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.content = content
	d.version++
	d.modifiedAt = time.Now()
}

// Version is incremented on every change.
func (d *Document) Version() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// IsDirty returns true if the document has unsaved changes.
func (d *Document) IsDirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.onDisk || digest(d.content) != d.savedDigest
}

// OnDisk reports whether the file existed when last loaded or saved.
func (d *Document) OnDisk() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.onDisk
}

// ReadOnly reports whether saving is refused.
func (d *Document) ReadOnly() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.readOnly
}

// SetReadOnly sets whether saving is refused.
func (d *Document) SetReadOnly(readOnly bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readOnly = readOnly
}

// Encode returns the content in its on-disk format.
func (d *Document) Encode() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.format.Encode(d.content)
}

// MarkSaved records that content, as returned by Encode, was written to
// disk at diskModTime. Edits made after Encode keep the document dirty.
func (d *Document) MarkSaved(content []byte, diskModTime time.Time) {
	text, _ := vfs.DecodeText(content)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.savedDigest = digest(text)
	d.onDisk = true
	d.diskModTime = diskModTime
}

// Reload replaces the content with raw from disk.
// Returns true if the text changed.
func (d *Document) Reload(raw []byte, diskModTime time.Time) bool {
	text, format := vfs.DecodeText(raw)

	d.mu.Lock()
	defer d.mu.Unlock()

	changed := text != d.content
	d.content = text
	d.format = format
	d.savedDigest = digest(text)
	d.onDisk = true
	d.diskModTime = diskModTime
	if changed {
		d.version++
		d.modifiedAt = time.Now()
	}
	return changed
}

// HasExternalChanges reports whether the file on disk differs from what
// the document last loaded or saved. A nil raw means the file is gone.
func (d *Document) HasExternalChanges(raw []byte, diskModTime time.Time) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if raw == nil {
		return d.onDisk
	}
	if !d.onDisk {
		return true
	}
	if diskModTime.Equal(d.diskModTime) {
		return false
	}
	text, _ := vfs.DecodeText(raw)
	return digest(text) != d.savedDigest
}

// DiskModTime returns the modification time seen at the last load or save.
func (d *Document) DiskModTime() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.diskModTime
}

// ModifiedAt returns when the content last changed.
func (d *Document) ModifiedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.modifiedAt
}
