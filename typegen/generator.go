package typegen

import "github.com/teranos/protolua/typegen/decl"

// Generator defines the interface for language-specific renderers.
type Generator interface {
	// GenerateFile renders one section as a complete, self-contained file
	GenerateFile(result *Result, section *decl.Section) (string, error)

	// FileExtension returns the file extension for this language (e.g., "lua")
	FileExtension() string

	// Language returns the language name (e.g., "lua")
	Language() string
}
