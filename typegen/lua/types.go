package lua

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/typegen/decl"
)

// TypeString renders t in annotation syntax, as it appears after ---@field.
func TypeString(t decl.Type) (string, error) {
	return renderType(t)
}

func renderType(t decl.Type) (string, error) {
	switch t := t.(type) {
	case decl.Ref:
		return t.Name, nil

	case decl.Array:
		elem, err := renderType(t.Elem)
		if err != nil {
			return "", err
		}
		return "(" + elem + ")[]", nil

	case decl.Union:
		parts := make([]string, 0, len(t.Options))
		for _, o := range t.Options {
			s, err := renderType(o)
			if err != nil {
				return "", err
			}
			parts = append(parts, "("+s+")")
		}
		return strings.Join(parts, "|"), nil

	case decl.Dictionary:
		key, err := renderType(t.Key)
		if err != nil {
			return "", err
		}
		value, err := renderType(t.Value)
		if err != nil {
			return "", err
		}
		return "{[" + key + "]: " + value + "}", nil

	case decl.Literal:
		return renderLiteral(t.Value)

	case decl.Tuple:
		// positional fields are numbered from 1
		class := &decl.Class{}
		for i, e := range t.Elems {
			class.Fields = append(class.Fields, decl.Field{Key: decl.Literal{Value: i + 1}, Type: e})
		}
		return renderInline(class)

	case decl.Table:
		return renderInline(t.Class)

	default:
		return "", errors.Newf("unsupported type %T", t)
	}
}

func renderLiteral(v interface{}) (string, error) {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v), nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", errors.Newf("unsupported literal %v (%T)", v, v)
	}
}

// renderInline renders a class as an anonymous table type. Only plain field
// lists have an inline form.
func renderInline(c *decl.Class) (string, error) {
	if c == nil {
		return "", errors.New("inline table without class")
	}
	if c.Description != "" || c.Parent != "" || len(c.Functions) > 0 || c.Global != "" || c.Deprecated {
		return "", errors.NewRenderConflictError(
			"class %q cannot be rendered inline: description, supertype, functions, global binding and deprecation have no inline form", c.Name)
	}

	parts := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		if f.Description != "" {
			return "", errors.NewRenderConflictError("inline field %q cannot carry a description", f.Name)
		}
		key, err := fieldKey(f)
		if err != nil {
			return "", err
		}
		typ, err := renderType(f.Type)
		if err != nil {
			return "", err
		}
		opt := ""
		if f.Optional {
			opt = "?"
		}
		parts = append(parts, fmt.Sprintf("%s%s: %s", key, opt, typ))
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

// fieldKey renders a field's key: a bare name where Lua allows one,
// otherwise a bracketed string, or a bracketed type for computed fields.
func fieldKey(f decl.Field) (string, error) {
	if !f.Computed() {
		return fieldName(f.Name), nil
	}
	if lit, ok := f.Key.(decl.Literal); ok {
		s, err := renderLiteral(lit.Value)
		if err != nil {
			return "", err
		}
		return "[" + s + "]", nil
	}
	key, err := renderType(f.Key)
	if err != nil {
		return "", err
	}
	return "[" + key + "]", nil
}

func fieldName(name string) string {
	if IsIdentifier(name) {
		return name
	}
	return "[" + strconv.Quote(name) + "]"
}

// funcType renders fn as a fun(...) type.
func funcType(fn decl.Function) (string, error) {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		typ, err := renderType(p.Type)
		if err != nil {
			return "", err
		}
		opt := ""
		if p.Optional {
			opt = "?"
		}
		params = append(params, fmt.Sprintf("%s%s: %s", EscapeIdentifier(p.Name), opt, typ))
	}
	sig := "fun(" + strings.Join(params, ", ") + ")"

	if len(fn.Returns) > 0 {
		returns := make([]string, 0, len(fn.Returns))
		for _, r := range fn.Returns {
			typ, err := renderType(r)
			if err != nil {
				return "", err
			}
			returns = append(returns, typ)
		}
		sig += ": " + strings.Join(returns, ", ")
	}
	return sig, nil
}
