package idl

import (
	"bytes"
	"encoding/json"

	"github.com/teranos/protolua/errors"
)

// BuiltinTag marks a concept whose type is provided by the engine itself.
const BuiltinTag = "builtin"

// Parse decodes a prototype API document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode prototype API document")
	}
	return &doc, nil
}

// rawTypeExpr mirrors the object form of a type expression. "value" is a
// type for array, dictionary and type, but a constant for literal, so it is
// decoded lazily.
type rawTypeExpr struct {
	ComplexType string          `json:"complex_type"`
	Key         *TypeExpr       `json:"key"`
	Value       json.RawMessage `json:"value"`
	Values      []*TypeExpr     `json:"values"`
	Options     []*TypeExpr     `json:"options"`
	FullFormat  bool            `json:"full_format"`
}

// UnmarshalJSON accepts either a bare name or a complex_type object.
// Unknown shapes decode to KindInvalid rather than failing, so the
// translator can report them together with the definition they occur in.
func (t *TypeExpr) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*t = TypeExpr{Kind: KindName, Name: name}
		return nil
	}

	if len(data) == 0 || data[0] != '{' {
		*t = TypeExpr{Kind: KindInvalid}
		return nil
	}

	var raw rawTypeExpr
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.ComplexType {
	case "struct":
		*t = TypeExpr{Kind: KindStruct}
	case "array":
		value, err := decodeInner(raw.Value)
		if err != nil {
			return err
		}
		*t = TypeExpr{Kind: KindArray, Value: value}
	case "dictionary":
		value, err := decodeInner(raw.Value)
		if err != nil {
			return err
		}
		*t = TypeExpr{Kind: KindDictionary, Key: raw.Key, Value: value}
	case "tuple":
		*t = TypeExpr{Kind: KindTuple, Elems: raw.Values}
	case "union":
		*t = TypeExpr{Kind: KindUnion, Elems: raw.Options, FullFormat: raw.FullFormat}
	case "literal":
		var value interface{}
		if len(raw.Value) > 0 {
			// Numbers stay json.Number so large integers keep every digit.
			dec := json.NewDecoder(bytes.NewReader(raw.Value))
			dec.UseNumber()
			if err := dec.Decode(&value); err != nil {
				return err
			}
		}
		*t = TypeExpr{Kind: KindLiteral, Literal: value}
	case "type":
		value, err := decodeInner(raw.Value)
		if err != nil {
			return err
		}
		*t = TypeExpr{Kind: KindType, Value: value}
	default:
		*t = TypeExpr{Kind: KindInvalid, Tag: raw.ComplexType}
	}
	return nil
}

func decodeInner(data json.RawMessage) (*TypeExpr, error) {
	if len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	var inner TypeExpr
	if err := json.Unmarshal(data, &inner); err != nil {
		return nil, err
	}
	return &inner, nil
}

// UnmarshalJSON handles the "builtin" type tag.
func (c *Concept) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Parent      string          `json:"parent"`
		Abstract    bool            `json:"abstract"`
		Type        json.RawMessage `json:"type"`
		Properties  []*Property     `json:"properties"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Concept{
		Name:        raw.Name,
		Description: raw.Description,
		Parent:      raw.Parent,
		Abstract:    raw.Abstract,
		Properties:  raw.Properties,
	}

	var tag string
	if err := json.Unmarshal(raw.Type, &tag); err == nil && tag == BuiltinTag {
		c.Builtin = true
		return nil
	}

	typ, err := decodeInner(raw.Type)
	if err != nil {
		return errors.Wrapf(err, "failed to decode type of concept %s", raw.Name)
	}
	c.Type = typ
	return nil
}
