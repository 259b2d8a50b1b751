package main

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scripteditor/internal/app"
	"github.com/dshills/scripteditor/internal/config"
	"github.com/dshills/scripteditor/internal/vfs"
)

func TestRenderRegistry(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.WatchFiles = false
	a, err := app.New(app.Options{Config: cfg, FS: vfs.NewMemFS(), LogOutput: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Shutdown()

	out := renderRegistry(a)
	for _, want := range []string{"rust_script", ".py", "Markdown", "script-editor"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderRegistry() missing %q", want)
		}
	}
}

func TestRenderInstances(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.WatchFiles = false
	a, err := app.New(app.Options{Config: cfg, FS: vfs.NewMemFS(), LogOutput: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Shutdown()
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := a.Open("/tmp/a.py", "main"); err != nil {
		t.Fatal(err)
	}

	out := renderInstances(a.Plugin())
	if !strings.Contains(out, "#1") || !strings.Contains(out, "/tmp/a.py") || !strings.Contains(out, "modified") {
		t.Errorf("renderInstances() = %q", out)
	}
}

func TestToLipgloss(t *testing.T) {
	got := toLipgloss(tcell.NewRGBColor(0xde, 0xa5, 0x84))
	if got != lipgloss.Color("#dea584") {
		t.Errorf("toLipgloss() = %v", got)
	}
	if _, ok := toLipgloss(tcell.ColorDefault).(lipgloss.NoColor); !ok {
		t.Error("default color should map to NoColor")
	}
}
