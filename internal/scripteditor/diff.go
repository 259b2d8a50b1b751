package scripteditor

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff is a line diff between two versions of a document.
type Diff struct {
	hunks []diffmatchpatch.Diff
}

// DiffStat counts the lines a Diff adds and removes.
type DiffStat struct {
	Added   int
	Removed int
}

func (s DiffStat) String() string {
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

// LineDiff computes the line diff turning src into dst.
func LineDiff(src, dst string) Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToRunes(src, dst)
	hunks := dmp.DiffMainRunes(a, b, false)
	return Diff{hunks: dmp.DiffCharsToLines(hunks, lines)}
}

// Empty reports whether both sides are identical.
func (d Diff) Empty() bool {
	for _, h := range d.hunks {
		if h.Type != diffmatchpatch.DiffEqual {
			return false
		}
	}
	return true
}

// Stat counts added and removed lines.
func (d Diff) Stat() DiffStat {
	var s DiffStat
	for _, h := range d.hunks {
		switch h.Type {
		case diffmatchpatch.DiffInsert:
			s.Added += len(splitLines(h.Text))
		case diffmatchpatch.DiffDelete:
			s.Removed += len(splitLines(h.Text))
		}
	}
	return s
}

// String renders every line prefixed with "+", "-" or a space.
func (d Diff) String() string {
	var sb strings.Builder
	for _, h := range d.hunks {
		prefix := "  "
		switch h.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range splitLines(h.Text) {
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
