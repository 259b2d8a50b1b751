package scripteditor

import (
	"testing"
	"time"
)

func TestDocumentVersionAndDirty(t *testing.T) {
	mod := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d := NewDocument("/a.lua", []byte("\xEF\xBB\xBFprint(1)\n"), mod, "Lua")

	if d.Version() != 1 || d.IsDirty() || !d.OnDisk() {
		t.Fatalf("new document: version %d dirty %v onDisk %v", d.Version(), d.IsDirty(), d.OnDisk())
	}
	if d.Content() != "print(1)\n" {
		t.Errorf("Content() = %q, want BOM stripped", d.Content())
	}

	d.SetContent("print(2)\n")
	if d.Version() != 2 || !d.IsDirty() {
		t.Errorf("after SetContent: version %d dirty %v", d.Version(), d.IsDirty())
	}

	encoded, err := d.Encode()
	if err != nil || string(encoded) != "\xEF\xBB\xBFprint(2)\n" {
		t.Errorf("Encode() = %q, %v, want BOM restored", encoded, err)
	}

	// An edit between Encode and MarkSaved stays dirty.
	d.SetContent("print(3)\n")
	d.MarkSaved(encoded, mod.Add(time.Second))
	if !d.IsDirty() {
		t.Error("edit made during save was lost")
	}
	if !d.DiskModTime().Equal(mod.Add(time.Second)) {
		t.Errorf("DiskModTime() = %v", d.DiskModTime())
	}
}

func TestDocumentReload(t *testing.T) {
	d := NewDocument("/a.md", []byte("one"), time.Time{}, "markdown")
	if d.Reload([]byte("one"), time.Time{}) {
		t.Error("Reload() with same content reported a change")
	}
	if d.Version() != 1 {
		t.Errorf("Version() = %d after no-op reload", d.Version())
	}
	if !d.Reload([]byte("two"), time.Time{}) {
		t.Error("Reload() with new content reported no change")
	}
	if d.Version() != 2 || d.IsDirty() {
		t.Errorf("after reload: version %d dirty %v", d.Version(), d.IsDirty())
	}
}

func TestUnsavedDocument(t *testing.T) {
	d := NewUnsavedDocument("/n.py", "# New Python script\n", "Python")
	if !d.IsDirty() || d.OnDisk() {
		t.Error("unsaved document should be dirty and not on disk")
	}
	if d.HasExternalChanges(nil, time.Time{}) {
		t.Error("missing file reported as change for unsaved document")
	}
	if !d.HasExternalChanges([]byte("x"), time.Now()) {
		t.Error("file appearing on disk not reported")
	}
	d.SetReadOnly(true)
	if !d.ReadOnly() {
		t.Error("ReadOnly() = false")
	}
}
