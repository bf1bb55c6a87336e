package typegen

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/idl"
	"github.com/teranos/protolua/schema"
	"github.com/teranos/protolua/typegen/decl"
)

// =============================================================================
// Test helpers
// =============================================================================

func baseDocument() *idl.Document {
	return &idl.Document{
		Application:        "factorio",
		ApplicationVersion: "2.0.28",
		APIVersion:         6,
		Stage:              "prototype",
		Types: []*idl.Concept{
			{Name: "uint8", Builtin: true},
		},
		Prototypes: []*idl.Prototype{
			{Name: "PrototypeBase", Description: "Base of everything.", Properties: []*idl.Property{
				{Name: "name", Type: idl.Named("string"), Description: "Unique name."},
			}},
		},
	}
}

func generate(t *testing.T, doc *idl.Document, f Formatter) *Result {
	t.Helper()
	idx, err := schema.New(doc, schema.DefaultOptions())
	require.NoError(t, err)
	result, err := Generate(context.Background(), idx, f, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func generateErr(t *testing.T, doc *idl.Document, f Formatter) error {
	t.Helper()
	idx, err := schema.New(doc, schema.DefaultOptions())
	require.NoError(t, err)
	result, err := Generate(context.Background(), idx, f, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, result)
	return err
}

func findClass(t *testing.T, s *decl.Section, name string) *decl.Class {
	t.Helper()
	d, ok := s.Find(name)
	require.True(t, ok, "declaration %s not found", name)
	c, ok := d.(*decl.Class)
	require.True(t, ok, "declaration %s is not a class", name)
	return c
}

func findAlias(t *testing.T, s *decl.Section, name string) *decl.Alias {
	t.Helper()
	d, ok := s.Find(name)
	require.True(t, ok, "declaration %s not found", name)
	a, ok := d.(*decl.Alias)
	require.True(t, ok, "declaration %s is not an alias", name)
	return a
}

// =============================================================================
// Sections
// =============================================================================

func TestGenerate_SectionsInOrder(t *testing.T) {
	result := generate(t, baseDocument(), nil)

	require.Len(t, result.Sections, 3)
	assert.Equal(t, SectionConcepts, result.Sections[0].Name)
	assert.Equal(t, SectionPrototypes, result.Sections[1].Name)
	assert.Equal(t, SectionRegistry, result.Sections[2].Name)
	assert.Equal(t, "factorio", result.Application)
	assert.Equal(t, "2.0.28", result.ApplicationVersion)
	assert.Nil(t, result.Section("missing"))
}

// =============================================================================
// Concepts
// =============================================================================

func TestConcepts_SimpleStruct(t *testing.T) {
	doc := baseDocument()
	doc.Types = append(doc.Types, &idl.Concept{
		Name: "Basic",
		Type: idl.Struct(),
		Properties: []*idl.Property{
			{Name: "x", Type: idl.Named("uint8")},
		},
	})

	concepts := generate(t, doc, nil).Section(SectionConcepts)

	require.Len(t, concepts.Decls, 1)
	basic := findClass(t, concepts, "data.Basic")
	require.Len(t, basic.Fields, 1)
	assert.Equal(t, "x", basic.Fields[0].Name)
	assert.Equal(t, decl.Ref{Name: "uint8"}, basic.Fields[0].Type)
	assert.Empty(t, concepts.Aliases())
}

func TestConcepts_UnionWithoutProperties(t *testing.T) {
	doc := baseDocument()
	doc.Types = append(doc.Types, &idl.Concept{
		Name:        "ColorLike",
		Description: "A color.",
		Type:        idl.UnionOf(idl.Named("uint8"), idl.Named("string")),
	})

	concepts := generate(t, doc, nil).Section(SectionConcepts)

	require.Len(t, concepts.Decls, 1)
	assert.Empty(t, concepts.Classes())
	alias := findAlias(t, concepts, "data.ColorLike")
	assert.Equal(t, decl.Union{Options: []decl.Type{decl.Ref{Name: "uint8"}, decl.Ref{Name: "string"}}}, alias.Type)
	assert.Equal(t, "A color.", alias.Description)
}

func TestConcepts_StructBodyAndAlias(t *testing.T) {
	doc := baseDocument()
	doc.Types = append(doc.Types,
		&idl.Concept{Name: "Base", Type: idl.Struct(), Properties: []*idl.Property{
			{Name: "id", Type: idl.Named("uint32")},
		}},
		&idl.Concept{
			Name:        "Color",
			Description: "RGB color.",
			Parent:      "Base",
			Type:        idl.UnionOf(idl.Struct(), idl.TupleOf(idl.Named("float"), idl.Named("float"), idl.Named("float"))),
			Properties: []*idl.Property{
				{Name: "r", Type: idl.Named("float"), Optional: true, Description: "Red."},
			},
		},
	)

	concepts := generate(t, doc, nil).Section(SectionConcepts)

	var names []string
	for _, d := range concepts.Decls {
		names = append(names, d.DeclName())
	}
	assert.Equal(t, []string{"data.Base", "data.Color.struct", "data.Color"}, names)

	body := findClass(t, concepts, "data.Color.struct")
	assert.Equal(t, "data.Base", body.Parent)
	assert.Equal(t, "RGB color.", body.Description)
	require.Len(t, body.Fields, 1)
	assert.True(t, body.Fields[0].Optional)
	assert.Equal(t, "Red.", body.Fields[0].Description)

	alias := findAlias(t, concepts, "data.Color")
	assert.Empty(t, alias.Description, "description already attached to the struct body")
	assert.Equal(t, decl.Union{Options: []decl.Type{
		decl.Ref{Name: "data.Color.struct"},
		decl.Tuple{Elems: []decl.Type{decl.Ref{Name: "float"}, decl.Ref{Name: "float"}, decl.Ref{Name: "float"}}},
	}}, alias.Type)
}

func TestConcepts_EmptyPropertiesStillEmitClass(t *testing.T) {
	doc := baseDocument()
	doc.Types = append(doc.Types, &idl.Concept{Name: "Marker", Type: idl.Struct(), Properties: []*idl.Property{}})

	concepts := generate(t, doc, nil).Section(SectionConcepts)
	marker := findClass(t, concepts, "data.Marker")
	assert.Empty(t, marker.Fields)
}

func TestConcepts_StructWithoutProperties(t *testing.T) {
	doc := baseDocument()
	doc.Types = append(doc.Types, &idl.Concept{Name: "Hollow", Type: idl.Struct()})

	err := generateErr(t, doc, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyDefinition))
	assert.Contains(t, err.Error(), "Hollow")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestConcepts_UnknownParent(t *testing.T) {
	doc := baseDocument()
	doc.Types = append(doc.Types, &idl.Concept{
		Name: "Child", Type: idl.Struct(), Parent: "Ghost",
		Properties: []*idl.Property{{Name: "x", Type: idl.Named("uint8")}},
	})

	err := generateErr(t, doc, nil)
	assert.True(t, errors.IsTypeResolutionError(err))
	assert.Contains(t, err.Error(), "Ghost")
}

func TestConcepts_UnresolvableType(t *testing.T) {
	doc := baseDocument()
	doc.Types = append(doc.Types, &idl.Concept{Name: "Broken", Type: idl.ArrayOf(idl.Named("Nowhere"))})

	err := generateErr(t, doc, nil)
	assert.True(t, errors.IsTypeResolutionError(err))
	assert.Contains(t, err.Error(), "concept Broken")
}

// =============================================================================
// Prototypes
// =============================================================================

func widgetDocument() *idl.Document {
	doc := baseDocument()
	doc.Prototypes = append(doc.Prototypes, &idl.Prototype{
		Name:     "Widget",
		Typename: "widget",
		Parent:   "PrototypeBase",
		Properties: []*idl.Property{
			{Name: "size", AltName: "sz", Type: idl.Named("uint32"), Description: "Size."},
		},
	})
	return doc
}

func TestPrototypes_AltName(t *testing.T) {
	prototypes := generate(t, widgetDocument(), nil).Section(SectionPrototypes)

	widget := findClass(t, prototypes, "data.Widget")
	assert.Equal(t, "data.PrototypeBase", widget.Parent)
	require.Len(t, widget.Fields, 2)
	assert.Equal(t, "size", widget.Fields[0].Name)
	assert.Equal(t, "sz", widget.Fields[1].Name)
	assert.Equal(t, decl.Ref{Name: "uint32"}, widget.Fields[0].Type)
	assert.Equal(t, decl.Ref{Name: "uint32"}, widget.Fields[1].Type)
	assert.Equal(t, "Size.", widget.Fields[1].Description)
}

func TestPrototypes_AbstractAndDeprecated(t *testing.T) {
	doc := baseDocument()
	doc.Prototypes[0].Abstract = true
	doc.Prototypes = append(doc.Prototypes, &idl.Prototype{Name: "OldWidget", Parent: "PrototypeBase", Deprecated: true})
	doc.Types = append(doc.Types, &idl.Concept{
		Name:       "Shape",
		Type:       idl.Struct(),
		Abstract:   true,
		Properties: []*idl.Property{{Name: "kind", Type: idl.Named("string")}},
	})

	result := generate(t, doc, nil)

	base := findClass(t, result.Section(SectionPrototypes), "data.PrototypeBase")
	assert.True(t, base.Abstract)
	assert.False(t, base.Deprecated)
	old := findClass(t, result.Section(SectionPrototypes), "data.OldWidget")
	assert.True(t, old.Deprecated)
	assert.True(t, findClass(t, result.Section(SectionConcepts), "data.Shape").Abstract)
}

func TestPrototypes_CustomProperties(t *testing.T) {
	doc := baseDocument()
	doc.Prototypes = append(doc.Prototypes, &idl.Prototype{
		Name:   "Mod",
		Parent: "PrototypeBase",
		CustomProperties: &idl.CustomProperties{
			Description: "Arbitrary settings.",
			KeyType:     idl.Named("string"),
			ValueType:   idl.Named("uint8"),
		},
	})

	prototypes := generate(t, doc, nil).Section(SectionPrototypes)
	mod := findClass(t, prototypes, "data.Mod")

	require.Len(t, mod.Fields, 1)
	f := mod.Fields[0]
	assert.True(t, f.Computed())
	assert.Equal(t, decl.Ref{Name: "string"}, f.Key)
	assert.Equal(t, decl.Ref{Name: "uint8"}, f.Type)
	assert.Equal(t, "Arbitrary settings.", f.Description)
}

func TestPrototypes_UnknownParent(t *testing.T) {
	doc := baseDocument()
	doc.Prototypes = append(doc.Prototypes, &idl.Prototype{Name: "Orphan", Parent: "Nobody"})

	err := generateErr(t, doc, nil)
	assert.True(t, errors.IsTypeResolutionError(err))
}

// =============================================================================
// Registry
// =============================================================================

func TestRegistry(t *testing.T) {
	doc := widgetDocument()
	doc.Prototypes = append(doc.Prototypes,
		&idl.Prototype{Name: "Gadget", Typename: "gadget", Parent: "PrototypeBase"},
		&idl.Prototype{Name: "WidgetVariant", Typename: "widget", Parent: "Widget"},
	)

	registry := generate(t, doc, nil).Section(SectionRegistry)

	data := findClass(t, registry, "data")
	assert.Equal(t, "data", data.Global)
	require.Len(t, data.Fields, 2)
	assert.Equal(t, decl.Ref{Name: "data.raw"}, data.Fields[0].Type)
	assert.Equal(t, decl.Ref{Name: "boolean"}, data.Fields[1].Type)
	require.Len(t, data.Functions, 1)
	extend := data.Functions[0]
	assert.Equal(t, "extend", extend.Name)
	require.Len(t, extend.Params, 2)
	assert.Equal(t, "self", extend.Params[0].Name)
	assert.Equal(t, decl.Array{Elem: decl.Ref{Name: "data.PrototypeBase"}}, extend.Params[1].Type)

	raw := findClass(t, registry, "data.raw")
	require.Len(t, raw.Fields, 2, "one field per distinct typename")
	assert.Equal(t, decl.Literal{Value: "widget"}, raw.Fields[0].Key)
	assert.Equal(t, decl.Dictionary{Key: decl.Ref{Name: "string"}, Value: decl.Ref{Name: "data.Widget"}}, raw.Fields[0].Type)
	assert.Equal(t, decl.Literal{Value: "gadget"}, raw.Fields[1].Key)
}

func TestRegistry_WithoutBasePrototype(t *testing.T) {
	doc := baseDocument()
	doc.Types = append(doc.Types, &idl.Concept{
		Name:       "Basic",
		Type:       idl.Struct(),
		Properties: []*idl.Property{{Name: "a", Type: idl.Named("uint8")}},
	})
	doc.Prototypes = []*idl.Prototype{{
		Name:     "Widget",
		Typename: "widget",
		Properties: []*idl.Property{
			{Name: "size", AltName: "sz", Type: idl.Named("uint32")},
		},
	}}

	result := generate(t, doc, nil)
	require.Len(t, result.Sections, 3)

	registry := result.Section(SectionRegistry)
	extend := findClass(t, registry, "data").Functions[0]
	assert.Equal(t, decl.Array{Elem: decl.Ref{Name: "data.PrototypeBase"}}, extend.Params[1].Type)

	raw := findClass(t, registry, "data.raw")
	require.Len(t, raw.Fields, 1)
	assert.Equal(t, decl.Literal{Value: "widget"}, raw.Fields[0].Key)
	assert.Equal(t, decl.Dictionary{Key: decl.Ref{Name: "string"}, Value: decl.Ref{Name: "data.Widget"}}, raw.Fields[0].Type)
}

// =============================================================================
// Formatter
// =============================================================================

type call struct {
	kind ContextKind
	def  string
	prop string
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) Format(_ context.Context, raw string, kind ContextKind, def, prop string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{kind, def, prop})
	return fmt.Sprintf("<%s>", raw), nil
}

func (r *recorder) of(kind ContextKind) []call {
	var out []call
	for _, c := range r.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func TestFormatter_CallOrder(t *testing.T) {
	doc := widgetDocument()
	doc.Types = append(doc.Types, &idl.Concept{
		Name: "Vector", Type: idl.Struct(), Description: "v",
		Properties: []*idl.Property{
			{Name: "x", Type: idl.Named("double")},
			{Name: "y", Type: idl.Named("double")},
		},
	})

	rec := &recorder{}
	result := generate(t, doc, rec)

	assert.Equal(t, []call{
		{ContextConcept, "Vector", ""},
		{ContextConcept, "Vector", "x"},
		{ContextConcept, "Vector", "y"},
	}, rec.of(ContextConcept))

	assert.Equal(t, []call{
		{ContextPrototype, "PrototypeBase", ""},
		{ContextPrototype, "PrototypeBase", "name"},
		{ContextPrototype, "Widget", ""},
		{ContextPrototype, "Widget", "size"},
		{ContextPrototype, "Widget", "sz"},
	}, rec.of(ContextPrototype))

	base := findClass(t, result.Section(SectionPrototypes), "data.PrototypeBase")
	assert.Equal(t, "<Base of everything.>", base.Description)
	assert.Equal(t, "<Unique name.>", base.Fields[0].Description)
}

func TestFormatter_ErrorAborts(t *testing.T) {
	boom := errors.New("formatter unavailable")
	f := FormatterFunc(func(_ context.Context, raw string, _ ContextKind, def, _ string) (string, error) {
		if def == "Widget" {
			return "", boom
		}
		return raw, nil
	})

	err := generateErr(t, widgetDocument(), f)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "Widget")
}

func TestGenerate_CancelledContext(t *testing.T) {
	idx, err := schema.New(widgetDocument(), schema.DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Generate(ctx, idx, nil, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestContextKindString(t *testing.T) {
	assert.Equal(t, "concept", ContextConcept.String())
	assert.Equal(t, "prototype", ContextPrototype.String())
}
