package typegen

import (
	"encoding/json"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/idl"
	"github.com/teranos/protolua/schema"
	"github.com/teranos/protolua/typegen/decl"
)

// primitives are passed through by name; "bool" is normalised to "boolean"
var primitives = map[string]string{
	"bool":    "boolean",
	"boolean": "boolean",
	"string":  "string",
	"float":   "float",
	"double":  "double",
	"int8":    "int8",
	"int16":   "int16",
	"int32":   "int32",
	"int64":   "int64",
	"uint8":   "uint8",
	"uint16":  "uint16",
	"uint32":  "uint32",
	"uint64":  "uint64",
}

// IsPrimitive reports whether name is one of the fixed primitive names.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// Enclosing identifies the definition a type expression belongs to. It is
// what an anonymous struct expression refers to.
type Enclosing struct {
	Name      string
	Prototype bool
}

// ConceptContext is the enclosing context of a concept.
func ConceptContext(name string) *Enclosing { return &Enclosing{Name: name} }

// PrototypeContext is the enclosing context of a prototype.
func PrototypeContext(name string) *Enclosing { return &Enclosing{Name: name, Prototype: true} }

// Translator converts IDL type expressions into declaration types. It holds
// only the read-only Index and naming options, so Translate is a pure
// function of its arguments.
type Translator struct {
	idx  *schema.Index
	opts Options
}

// NewTranslator creates a translator over idx.
func NewTranslator(idx *schema.Index, opts Options) *Translator {
	return &Translator{idx: idx, opts: opts}
}

// TypeName returns the namespaced name of a concept or prototype.
func (tr *Translator) TypeName(name string) string {
	return tr.opts.NamespacePrefix + name
}

// StructName returns the name of a concept's struct body: the plain name for
// simple structs, the suffixed name for concepts that also own an alias.
// Prototypes are their own struct body and always use the plain name.
func (tr *Translator) StructName(enc *Enclosing) string {
	if enc.Prototype || tr.idx.IsSimple(enc.Name) {
		return tr.TypeName(enc.Name)
	}
	return tr.TypeName(enc.Name) + tr.opts.StructSuffix
}

// Translate converts expr. enc may be nil when the expression does not
// belong to a definition; a struct expression then fails.
func (tr *Translator) Translate(expr *idl.TypeExpr, enc *Enclosing) (decl.Type, error) {
	if expr == nil {
		return nil, errors.NewTypeResolutionError("Invalid Type: missing type expression")
	}

	switch expr.Kind {
	case idl.KindName:
		if p, ok := primitives[expr.Name]; ok {
			return decl.Ref{Name: p}, nil
		}
		if !tr.idx.HasType(expr.Name) {
			return nil, errors.NewTypeResolutionError("unknown type %q", expr.Name)
		}
		return decl.Ref{Name: tr.TypeName(expr.Name)}, nil

	case idl.KindStruct:
		if enc == nil {
			return nil, errors.NewTypeResolutionError("struct without parent")
		}
		return decl.Ref{Name: tr.StructName(enc)}, nil

	case idl.KindArray:
		elem, err := tr.Translate(expr.Value, enc)
		if err != nil {
			return nil, err
		}
		return decl.Array{Elem: elem}, nil

	case idl.KindTuple:
		elems, err := tr.translateAll(expr.Elems, enc)
		if err != nil {
			return nil, err
		}
		return decl.Tuple{Elems: elems}, nil

	case idl.KindDictionary:
		key, err := tr.Translate(expr.Key, enc)
		if err != nil {
			return nil, err
		}
		value, err := tr.Translate(expr.Value, enc)
		if err != nil {
			return nil, err
		}
		return decl.Dictionary{Key: key, Value: value}, nil

	case idl.KindUnion:
		options, err := tr.translateAll(expr.Elems, enc)
		if err != nil {
			return nil, err
		}
		return decl.Union{Options: options}, nil

	case idl.KindLiteral:
		switch v := expr.Literal.(type) {
		case string, json.Number, float64, int, bool:
			return decl.Literal{Value: v}, nil
		default:
			return nil, errors.NewTypeResolutionError("invalid literal value %v (%T)", expr.Literal, expr.Literal)
		}

	case idl.KindType:
		return tr.Translate(expr.Value, enc)

	default:
		return nil, errors.NewTypeResolutionError("Invalid Type: %s", expr)
	}
}

func (tr *Translator) translateAll(exprs []*idl.TypeExpr, enc *Enclosing) ([]decl.Type, error) {
	out := make([]decl.Type, 0, len(exprs))
	for _, e := range exprs {
		t, err := tr.Translate(e, enc)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
