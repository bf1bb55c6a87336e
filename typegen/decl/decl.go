// Package decl is the output declaration model: classes, aliases and the
// type expressions they reference, independent of any concrete syntax.
package decl

// Type is an output type expression. The set of implementations is closed;
// renderers switch over them exhaustively.
type Type interface {
	isType()
}

// Ref names a primitive, class or alias.
type Ref struct {
	Name string
}

// Array is a homogeneous list of Elem.
type Array struct {
	Elem Type
}

// Tuple is a fixed-length positional list. Positions are 1-based when rendered.
type Tuple struct {
	Elems []Type
}

// Dictionary maps Key to Value.
type Dictionary struct {
	Key   Type
	Value Type
}

// Union accepts any of Options. Order affects presentation only.
type Union struct {
	Options []Type
}

// Literal is a constant type. Value is a string, a number (json.Number as
// decoded from a document, float64 or int) or a bool.
type Literal struct {
	Value interface{}
}

// Table is an anonymous class rendered inline.
type Table struct {
	Class *Class
}

func (Ref) isType()        {}
func (Array) isType()      {}
func (Tuple) isType()      {}
func (Dictionary) isType() {}
func (Union) isType()      {}
func (Literal) isType()    {}
func (Table) isType()      {}

// Field is a class member. Exactly one of Name and Key is set: Name for an
// ordinary field, Key for a computed (indexed) field such as [string].
type Field struct {
	Name        string
	Key         Type
	Type        Type
	Optional    bool
	Description string
}

// Computed reports whether the field is keyed by a type rather than a name.
func (f Field) Computed() bool {
	return f.Key != nil
}

// Param is a function parameter.
type Param struct {
	Name        string
	Type        Type
	Optional    bool
	Description string
}

// Function is a callable member. Method functions take the class itself
// as their first parameter, named "self".
type Function struct {
	Name        string
	Description string
	Params      []Param
	Returns     []Type
}

// Decl is a top-level declaration: *Class or *Alias.
type Decl interface {
	DeclName() string
	isDecl()
}

// Class is a named table shape with an optional single supertype.
type Class struct {
	Name        string
	Description string
	Parent      string
	Fields      []Field
	Functions   []Function

	// Global, when set, binds an instance of the class to a global variable.
	Global string

	// Abstract classes are only ever used through their subclasses.
	Abstract   bool
	Deprecated bool
}

// Alias names another type expression.
type Alias struct {
	Name        string
	Type        Type
	Description string
}

func (c *Class) DeclName() string { return c.Name }
func (a *Alias) DeclName() string { return a.Name }

func (*Class) isDecl() {}
func (*Alias) isDecl() {}

// Section is one generated artifact's worth of declarations, in emission order.
type Section struct {
	Name  string
	Decls []Decl
}

// Find returns the declaration with the given name, if any.
func (s *Section) Find(name string) (Decl, bool) {
	for _, d := range s.Decls {
		if d.DeclName() == name {
			return d, true
		}
	}
	return nil, false
}

// Classes returns every class in the section, in order.
func (s *Section) Classes() []*Class {
	var out []*Class
	for _, d := range s.Decls {
		if c, ok := d.(*Class); ok {
			out = append(out, c)
		}
	}
	return out
}

// Aliases returns every alias in the section, in order.
func (s *Section) Aliases() []*Alias {
	var out []*Alias
	for _, d := range s.Decls {
		if a, ok := d.(*Alias); ok {
			out = append(out, a)
		}
	}
	return out
}
