package vfs

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnencodable is returned by Encode when text holds characters the
// file's encoding cannot represent.
var ErrUnencodable = errors.New("text cannot be encoded")

// LineEnding is the newline convention of a text file.
type LineEnding string

const (
	// LineEndingLF is Unix-style line ending (\n).
	LineEndingLF LineEnding = "lf"

	// LineEndingCRLF is Windows-style line ending (\r\n).
	LineEndingCRLF LineEnding = "crlf"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// TextFormat records how a file was encoded on disk, so content edited in
// normalized form can be written back the way it was read.
type TextFormat struct {
	BOM        bool
	LineEnding LineEnding

	// Latin1 is set for files that are not valid UTF-8. They are decoded
	// as ISO-8859-1 and written back in it.
	Latin1 bool
}

// DefaultTextFormat is used for files that do not yet exist.
var DefaultTextFormat = TextFormat{LineEnding: LineEndingLF}

// DecodeText strips a UTF-8 BOM, detects the line ending and normalizes
// CRLF to LF. Content that is not valid UTF-8 is decoded as ISO-8859-1,
// unless it carries a UTF-8 BOM, in which case invalid sequences are
// replaced with U+FFFD.
func DecodeText(raw []byte) (string, TextFormat) {
	format := TextFormat{LineEnding: DetectLineEnding(raw)}
	if bytes.HasPrefix(raw, bomUTF8) {
		format.BOM = true
		raw = raw[len(bomUTF8):]
	}

	text := string(raw)
	if !utf8.ValidString(text) {
		if decoded, err := charmap.ISO8859_1.NewDecoder().String(text); err == nil && !format.BOM {
			text = decoded
			format.Latin1 = true
		} else {
			text = strings.ToValidUTF8(text, "�")
		}
	}
	if format.LineEnding == LineEndingCRLF {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	return text, format
}

// Encode converts normalized LF text back to the on-disk format. For
// Latin-1 files it fails with ErrUnencodable on the first character above
// U+00FF.
func (f TextFormat) Encode(text string) ([]byte, error) {
	if f.LineEnding == LineEndingCRLF {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	if f.Latin1 {
		for i, r := range text {
			if r > 0xFF {
				return nil, fmt.Errorf("%w as ISO-8859-1: %q at offset %d", ErrUnencodable, r, i)
			}
		}
		out, err := charmap.ISO8859_1.NewEncoder().String(text)
		if err != nil {
			return nil, fmt.Errorf("%w as ISO-8859-1: %v", ErrUnencodable, err)
		}
		return []byte(out), nil
	}
	if !f.BOM {
		return []byte(text), nil
	}
	out := make([]byte, 0, len(bomUTF8)+len(text))
	out = append(out, bomUTF8...)
	return append(out, text...), nil
}

// DetectLineEnding returns CRLF when CRLF pairs outnumber bare LFs, and LF
// otherwise, including for content without newlines.
func DetectLineEnding(content []byte) LineEnding {
	crlf := bytes.Count(content, []byte("\r\n"))
	lf := bytes.Count(content, []byte("\n")) - crlf
	if crlf > lf {
		return LineEndingCRLF
	}
	return LineEndingLF
}

// IsBinary reports whether content looks like binary data.
// Only the first 8000 bytes are examined for a NUL byte.
func IsBinary(content []byte) bool {
	n := len(content)
	if n > 8000 {
		n = 8000
	}
	return bytes.IndexByte(content[:n], 0) >= 0
}
