package typegen

import "github.com/teranos/protolua/typegen/decl"

// Result holds the emitted declarations for all sections.
// This is language-agnostic - each Generator formats it differently.
type Result struct {
	// Application and ApplicationVersion identify the host product the
	// declarations describe; generators stamp them into file headers
	Application        string
	ApplicationVersion string

	// Sections are concepts, prototypes and registry, in that order
	Sections []*decl.Section
}

// Section returns the named section, or nil.
func (r *Result) Section(name string) *decl.Section {
	for _, s := range r.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}
