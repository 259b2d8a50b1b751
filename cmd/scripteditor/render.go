package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scripteditor/internal/app"
	"github.com/dshills/scripteditor/internal/plugin"
	"github.com/dshills/scripteditor/internal/scripteditor"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	dirtyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5c07b"))
)

// toLipgloss converts a tcell color to a lipgloss hex color.
func toLipgloss(c tcell.Color) lipgloss.TerminalColor {
	if !c.Valid() {
		return lipgloss.NoColor{}
	}
	r, g, b := c.RGB()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

func column(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

// renderRegistry lists the file types and editor kinds.
func renderRegistry(a *app.Application) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("File types"))
	sb.WriteByte('\n')
	for _, ft := range a.FileTypes().List() {
		swatch := lipgloss.NewStyle().Foreground(toLipgloss(ft.Color)).Render("●")
		sb.WriteString(swatch + " ")
		sb.WriteString(column(string(ft.ID), 14))
		sb.WriteString(column("."+ft.Extension, 7))
		sb.WriteString(column(ft.DisplayName, 14))
		sb.WriteString(dimStyle.Render(strings.Join(ft.Categories, ", ")))
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	sb.WriteString(headerStyle.Render("Editors"))
	sb.WriteByte('\n')
	for _, ed := range a.Editors().List() {
		types := make([]string, len(ed.SupportedFileTypes))
		for i, id := range ed.SupportedFileTypes {
			types[i] = string(id)
		}
		sb.WriteString(column(string(ed.ID), 16))
		sb.WriteString(column(ed.DisplayName, 16))
		sb.WriteString(dimStyle.Render(strings.Join(types, ", ")))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// renderInstances lists the live instances of p.
func renderInstances(p *plugin.Plugin) string {
	var sb strings.Builder
	for _, id := range p.InstanceIDs() {
		inst, ok := p.Instance(id)
		if !ok {
			continue
		}
		lang := ""
		if ed, ok := inst.Entity().(*scripteditor.Editor); ok {
			lang = ed.Language()
		}
		state := dimStyle.Render("clean")
		if inst.IsDirty() {
			state = dirtyStyle.Render("modified")
		}
		sb.WriteString(column(fmt.Sprintf("#%d", id), 6))
		sb.WriteString(column(inst.FilePath(), 40))
		sb.WriteString(column(lang, 12))
		sb.WriteString(state)
		sb.WriteByte('\n')
	}
	return sb.String()
}
