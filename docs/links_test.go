package docs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/idl"
	"github.com/teranos/protolua/schema"
	"github.com/teranos/protolua/typegen"
	"github.com/teranos/protolua/typegen/decl"
)

func testIndex(t *testing.T) *schema.Index {
	t.Helper()
	idx, err := schema.New(&idl.Document{
		Application:        "factorio",
		ApplicationVersion: "2.0.28",
		APIVersion:         6,
		Stage:              "prototype",
		Types: []*idl.Concept{
			{Name: "Vector", Type: idl.Struct(), Properties: []*idl.Property{{Name: "x", Type: idl.Named("double")}}},
		},
		Prototypes: []*idl.Prototype{{Name: "PrototypeBase"}, {Name: "Widget", Parent: "PrototypeBase"}},
	}, schema.DefaultOptions())
	require.NoError(t, err)
	return idx
}

func TestFormat(t *testing.T) {
	f := NewLinkFormatter(testIndex(t), "https://docs.example/api/")

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain text", "No links here.", "No links here."},
		{
			"type link",
			"See [Vector](type:Vector).",
			"See [Vector](https://docs.example/api/types/Vector.html).",
		},
		{
			"prototype link with member",
			"Like [size](prototype:Widget::size) does.",
			"Like [size](https://docs.example/api/prototypes/Widget.html#size) does.",
		},
		{
			"container page",
			"All [prototypes](prototypes).",
			"All [prototypes](https://docs.example/api/prototypes.html).",
		},
		{
			"several links",
			"[a](type:Vector) and [b](prototype:PrototypeBase)",
			"[a](https://docs.example/api/types/Vector.html) and [b](https://docs.example/api/prototypes/PrototypeBase.html)",
		},
		{
			"unresolved link kept verbatim",
			"Uses [ghost](prototype:Ghost).",
			"Uses [ghost](prototype:Ghost).",
		},
		{
			"external links untouched",
			"[site](https://factorio.com)",
			"[site](https://factorio.com)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Format(context.Background(), tt.raw, typegen.ContextPrototype, "Widget", "")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormat_RelativeWithoutBaseURL(t *testing.T) {
	f := NewLinkFormatter(testIndex(t), "")
	got, err := f.Format(context.Background(), "[v](type:Vector::x)", typegen.ContextConcept, "Vector", "x")
	require.NoError(t, err)
	assert.Equal(t, "[v](types/Vector.html#x)", got)
}

func TestFormat_CancelledContext(t *testing.T) {
	f := NewLinkFormatter(testIndex(t), DefaultBaseURL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Format(ctx, "[v](type:Vector)", typegen.ContextConcept, "Vector", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestURL(t *testing.T) {
	f := NewLinkFormatter(testIndex(t), DefaultBaseURL)

	url, err := f.URL("Widget", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+"/prototypes/Widget.html", url)

	_, err = f.URL("Nope", "")
	require.Error(t, err)
	assert.True(t, errors.IsLinkResolutionError(err))
}

func TestFormatterDrivesGeneration(t *testing.T) {
	idx := testIndex(t)
	c, ok := idx.Concept("Vector")
	require.True(t, ok)
	c.Description = "Used by [Widget](prototype:Widget)."

	result, err := typegen.Generate(context.Background(), idx, NewLinkFormatter(idx, "https://d"), typegen.DefaultOptions())
	require.NoError(t, err)

	d, ok := result.Section(typegen.SectionConcepts).Find("data.Vector")
	require.True(t, ok)
	class, ok := d.(*decl.Class)
	require.True(t, ok)
	assert.Equal(t, "Used by [Widget](https://d/prototypes/Widget.html).", class.Description)
}
