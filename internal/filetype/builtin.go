package filetype

import "github.com/gdamore/tcell/v2"

// Built-in file type ids.
const (
	RustScript ID = "rust_script"
	JavaScript ID = "javascript"
	TypeScript ID = "typescript"
	Python     ID = "python"
	Lua        ID = "lua"
	TOML       ID = "toml"
	Markdown   ID = "markdown"
)

// Categories used by the built-in file types.
const (
	CategoryScripts   = "Scripts"
	CategoryData      = "Data"
	CategoryDocuments = "Documents"
)

// Builtin returns the file types shipped with the script editor, in the
// order the host should present them.
func Builtin() []Descriptor {
	return []Descriptor{
		{
			ID:             RustScript,
			Extension:      "rs",
			DisplayName:    "Rust",
			Icon:           IconRust,
			Color:          tcell.NewHexColor(0xFF5722),
			Structure:      Standalone,
			DefaultContent: "// New Rust script\n",
			Categories:     []string{CategoryScripts},
			Lexer:          "rust",
		},
		{
			ID:             JavaScript,
			Extension:      "js",
			DisplayName:    "JavaScript",
			Icon:           IconCode,
			Color:          tcell.NewHexColor(0xF7DF1E),
			Structure:      Standalone,
			DefaultContent: "// New JavaScript file\n",
			Categories:     []string{CategoryScripts},
			Lexer:          "javascript",
		},
		{
			ID:             TypeScript,
			Extension:      "ts",
			DisplayName:    "TypeScript",
			Icon:           IconCode,
			Color:          tcell.NewHexColor(0x3178C6),
			Structure:      Standalone,
			DefaultContent: "// New TypeScript file\n",
			Categories:     []string{CategoryScripts},
			Lexer:          "typescript",
		},
		{
			ID:             Python,
			Extension:      "py",
			DisplayName:    "Python Script",
			Icon:           IconCode,
			Color:          tcell.NewHexColor(0x3776AB),
			Structure:      Standalone,
			DefaultContent: "# New Python script\n",
			Categories:     []string{CategoryScripts},
			Lexer:          "python",
		},
		{
			ID:             Lua,
			Extension:      "lua",
			DisplayName:    "Lua Script",
			Icon:           IconCode,
			Color:          tcell.NewHexColor(0x2196F3),
			Structure:      Standalone,
			DefaultContent: "-- New Lua script\n",
			Categories:     []string{CategoryScripts},
			Lexer:          "lua",
		},
		{
			ID:             TOML,
			Extension:      "toml",
			DisplayName:    "TOML Configuration",
			Icon:           IconPage,
			Color:          tcell.NewHexColor(0x9E9E9E),
			Structure:      Standalone,
			DefaultContent: "# TOML configuration file\n",
			Categories:     []string{CategoryData},
			Lexer:          "toml",
		},
		{
			ID:             Markdown,
			Extension:      "md",
			DisplayName:    "Markdown Document",
			Icon:           IconPage,
			Color:          tcell.NewHexColor(0xFF5722),
			Structure:      Standalone,
			DefaultContent: "# New Document\n",
			Categories:     []string{CategoryDocuments},
			Lexer:          "markdown",
		},
	}
}

// MustBuiltinRegistry returns a registry of the built-in file types.
// It panics if the built-ins fail validation, which is a programming error.
func MustBuiltinRegistry() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic("filetype: invalid built-in descriptors: " + err.Error())
	}
	return r
}
