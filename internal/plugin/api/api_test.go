package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestMetadataValidate(t *testing.T) {
	valid := Metadata{ID: "com.pulsar.script-editor", Name: "Script Editor", Version: "0.1.0"}

	tests := []struct {
		name   string
		modify func(*Metadata)
		want   error
	}{
		{"valid", func(*Metadata) {}, nil},
		{"prerelease", func(m *Metadata) { m.Version = "1.0.0-beta.1" }, nil},
		{"missing id", func(m *Metadata) { m.ID = "" }, ErrMissingID},
		{"bad id", func(m *Metadata) { m.ID = "Com.Pulsar" }, ErrInvalidID},
		{"missing name", func(m *Metadata) { m.Name = "" }, ErrMissingName},
		{"missing version", func(m *Metadata) { m.Version = "" }, ErrMissingVersion},
		{"bad version", func(m *Metadata) { m.Version = "v1" }, ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.modify(&m)
			err := m.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMetadataManifest(t *testing.T) {
	m := Metadata{ID: "com.example.x", Name: "X", Version: "1.2.3", Author: "me"}
	data, err := m.Manifest()
	if err != nil {
		t.Fatal(err)
	}

	var decoded Metadata
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != m {
		t.Errorf("decoded = %+v, want %+v", decoded, m)
	}
	if m.String() != "X@1.2.3" {
		t.Errorf("String() = %q", m.String())
	}
}

func TestEditorNotFoundError(t *testing.T) {
	var err error = &EditorNotFoundError{EditorID: "nonexistent-editor"}
	wrapped := fmt.Errorf("host: %w", err)

	if !errors.Is(wrapped, ErrEditorNotFound) {
		t.Error("errors.Is(ErrEditorNotFound) = false")
	}
	var target *EditorNotFoundError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As failed")
	}
	if target.EditorID != "nonexistent-editor" {
		t.Errorf("EditorID = %q", target.EditorID)
	}
}

func TestCreationErrorUnwrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := &CreationError{EditorID: "script-editor", Path: "/a.py", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("CreationError should unwrap to its cause")
	}
}

func TestContextLogNil(t *testing.T) {
	var ctx *Context
	ctx.Log().Info("must not panic")
	NewContext("main", nil).Log().Info("must not panic")
}
