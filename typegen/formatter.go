package typegen

import "context"

// ContextKind says which namespace a description belongs to.
type ContextKind int

const (
	ContextConcept ContextKind = iota
	ContextPrototype
)

func (k ContextKind) String() string {
	if k == ContextPrototype {
		return "prototype"
	}
	return "concept"
}

// Formatter rewrites human-readable description text before it is attached
// to a declaration. prop is empty for the definition's own description.
// Implementations may block (e.g. to resolve cross references); a returned
// error aborts generation.
type Formatter interface {
	Format(ctx context.Context, raw string, kind ContextKind, def, prop string) (string, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(ctx context.Context, raw string, kind ContextKind, def, prop string) (string, error)

// Format calls f.
func (f FormatterFunc) Format(ctx context.Context, raw string, kind ContextKind, def, prop string) (string, error) {
	return f(ctx, raw, kind, def, prop)
}

// Identity returns descriptions unchanged.
var Identity Formatter = FormatterFunc(func(_ context.Context, raw string, _ ContextKind, _, _ string) (string, error) {
	return raw, nil
})
