package idl

import "fmt"

// Kind tags the variant held by a TypeExpr.
type Kind int

const (
	// KindInvalid is any shape the document format does not define.
	// It decodes without error so the translator can report it in context.
	KindInvalid Kind = iota
	KindName
	KindStruct
	KindArray
	KindTuple
	KindDictionary
	KindUnion
	KindLiteral
	KindType
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindName:       "name",
	KindStruct:     "struct",
	KindArray:      "array",
	KindTuple:      "tuple",
	KindDictionary: "dictionary",
	KindUnion:      "union",
	KindLiteral:    "literal",
	KindType:       "type",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// TypeExpr is the recursive type representation. Which fields are
// meaningful depends on Kind:
//
//	KindName        Name
//	KindStruct      (none; refers to the enclosing definition)
//	KindArray       Value
//	KindTuple       Elems
//	KindDictionary  Key, Value
//	KindUnion       Elems, FullFormat
//	KindLiteral     Literal
//	KindType        Value (transparent alias)
//	KindInvalid     Tag holds the unrecognised complex_type, if any
type TypeExpr struct {
	Kind       Kind
	Name       string
	Key        *TypeExpr
	Value      *TypeExpr
	Elems      []*TypeExpr
	Literal    interface{}
	FullFormat bool
	Tag        string
}

// Named returns a reference to a primitive, concept or prototype by name.
func Named(name string) *TypeExpr { return &TypeExpr{Kind: KindName, Name: name} }

// Struct returns the anonymous struct body of the enclosing definition.
func Struct() *TypeExpr { return &TypeExpr{Kind: KindStruct} }

// ArrayOf returns array<elem>.
func ArrayOf(elem *TypeExpr) *TypeExpr { return &TypeExpr{Kind: KindArray, Value: elem} }

// TupleOf returns tuple<elems...>.
func TupleOf(elems ...*TypeExpr) *TypeExpr { return &TypeExpr{Kind: KindTuple, Elems: elems} }

// DictionaryOf returns dictionary<key, value>.
func DictionaryOf(key, value *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: KindDictionary, Key: key, Value: value}
}

// UnionOf returns union<options...>.
func UnionOf(options ...*TypeExpr) *TypeExpr { return &TypeExpr{Kind: KindUnion, Elems: options} }

// LiteralOf returns literal<value>.
func LiteralOf(value interface{}) *TypeExpr { return &TypeExpr{Kind: KindLiteral, Literal: value} }

// AliasOf returns the transparent type<inner> wrapper.
func AliasOf(inner *TypeExpr) *TypeExpr { return &TypeExpr{Kind: KindType, Value: inner} }

func (t *TypeExpr) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindName:
		return t.Name
	case KindStruct:
		return "struct"
	case KindArray:
		return fmt.Sprintf("array<%s>", t.Value)
	case KindDictionary:
		return fmt.Sprintf("dictionary<%s, %s>", t.Key, t.Value)
	case KindTuple, KindUnion:
		s := t.Kind.String() + "<"
		for i, e := range t.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ">"
	case KindLiteral:
		return fmt.Sprintf("literal<%v>", t.Literal)
	case KindType:
		return fmt.Sprintf("type<%s>", t.Value)
	default:
		if t.Tag != "" {
			return "invalid<" + t.Tag + ">"
		}
		return "invalid"
	}
}
