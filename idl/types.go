// Package idl models the prototype API description document: concepts,
// prototypes, their properties and the recursive type expressions that
// describe them. Decoding preserves document order everywhere.
package idl

// Document is the decoded prototype API description.
type Document struct {
	Application        string       `json:"application"`
	ApplicationVersion string       `json:"application_version"`
	APIVersion         int          `json:"api_version"`
	Stage              string       `json:"stage"`
	Types              []*Concept   `json:"types"`
	Prototypes         []*Prototype `json:"prototypes"`
}

// Concept is a named, reusable type definition.
type Concept struct {
	Name        string
	Description string
	Parent      string
	Abstract    bool

	// Builtin is set when the document declares the type as "builtin";
	// Type is nil in that case.
	Builtin bool
	Type    *TypeExpr

	// Properties is nil when the concept declares none
	Properties []*Property
}

// IsStruct reports whether the concept's type expression is exactly a struct.
func (c *Concept) IsStruct() bool {
	return !c.Builtin && c.Type != nil && c.Type.Kind == KindStruct
}

// Prototype is one category of configurable object. Prototypes are always struct-shaped.
type Prototype struct {
	Name             string            `json:"name"`
	Typename         string            `json:"typename,omitempty"`
	Parent           string            `json:"parent,omitempty"`
	Description      string            `json:"description"`
	Abstract         bool              `json:"abstract"`
	Deprecated       bool              `json:"deprecated"`
	Properties       []*Property       `json:"properties"`
	CustomProperties *CustomProperties `json:"custom_properties,omitempty"`
}

// CustomProperties describes an open-ended key/value map merged into a prototype.
type CustomProperties struct {
	Description string    `json:"description"`
	KeyType     *TypeExpr `json:"key_type"`
	ValueType   *TypeExpr `json:"value_type"`
}

// Property is a single member of a concept or prototype.
type Property struct {
	Name        string    `json:"name"`
	AltName     string    `json:"alt_name,omitempty"`
	Description string    `json:"description"`
	Optional    bool      `json:"optional"`
	Type        *TypeExpr `json:"type"`
}
