package editor

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/scripteditor/internal/filetype"
)

func TestBuiltinRegistryValid(t *testing.T) {
	r, err := NewRegistry(filetype.MustBuiltinRegistry(), Builtin()...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}

	d, ok := r.Get(ScriptEditor)
	if !ok {
		t.Fatal("script-editor not registered")
	}
	if d.DisplayName != "Script Editor" {
		t.Errorf("DisplayName = %q", d.DisplayName)
	}
	if !d.Supports(filetype.Python) {
		t.Error("script-editor should support python")
	}
}

func TestBuiltinCoversEveryFileType(t *testing.T) {
	types := filetype.MustBuiltinRegistry()
	r, err := NewRegistry(types, Builtin()...)
	if err != nil {
		t.Fatal(err)
	}
	for _, ft := range types.List() {
		if len(r.ForFileType(ft.ID)) == 0 {
			t.Errorf("no editor supports %q", ft.ID)
		}
	}
}

func TestListDeterministic(t *testing.T) {
	r, err := NewRegistry(filetype.MustBuiltinRegistry(), Builtin()...)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r.List(), r.List()) {
		t.Error("List() not deterministic")
	}
}

func TestNewRegistryErrors(t *testing.T) {
	types := filetype.MustBuiltinRegistry()

	tests := []struct {
		name  string
		descs []Descriptor
		want  error
	}{
		{
			name:  "unknown file type",
			descs: []Descriptor{{ID: "x", DisplayName: "X", SupportedFileTypes: []filetype.ID{"cobol"}}},
			want:  ErrUnknownFileType,
		},
		{
			name: "duplicate id",
			descs: []Descriptor{
				{ID: "x", DisplayName: "X", SupportedFileTypes: []filetype.ID{filetype.Lua}},
				{ID: "x", DisplayName: "Y", SupportedFileTypes: []filetype.ID{filetype.Lua}},
			},
			want: ErrDuplicateID,
		},
		{
			name:  "missing id",
			descs: []Descriptor{{DisplayName: "X", SupportedFileTypes: []filetype.ID{filetype.Lua}}},
			want:  ErrInvalidDescriptor,
		},
		{
			name:  "no file types",
			descs: []Descriptor{{ID: "x", DisplayName: "X"}},
			want:  ErrInvalidDescriptor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(types, tt.descs...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestForFileTypeOrder(t *testing.T) {
	types := filetype.MustBuiltinRegistry()
	r, err := NewRegistry(types,
		Descriptor{ID: "md-preview", DisplayName: "Preview", SupportedFileTypes: []filetype.ID{filetype.Markdown}},
		Descriptor{ID: "md-source", DisplayName: "Source", SupportedFileTypes: []filetype.ID{filetype.Markdown, filetype.TOML}},
	)
	if err != nil {
		t.Fatal(err)
	}

	got := r.ForFileType(filetype.Markdown)
	if len(got) != 2 || got[0].ID != "md-preview" || got[1].ID != "md-source" {
		t.Errorf("ForFileType(markdown) = %+v", got)
	}
	if got := r.ForFileType(filetype.Python); len(got) != 0 {
		t.Errorf("ForFileType(python) = %+v, want none", got)
	}
}
