package typegen

import (
	"context"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/idl"
	"github.com/teranos/protolua/logger"
	"github.com/teranos/protolua/schema"
	"github.com/teranos/protolua/typegen/decl"
)

// emitter holds what every pass shares. Nothing in it is mutated after
// construction, so the passes may run concurrently.
type emitter struct {
	idx    *schema.Index
	tr     *Translator
	format Formatter
	opts   Options
}

// describe calls the formatter, honouring cancellation between calls.
func (e *emitter) describe(ctx context.Context, raw string, kind ContextKind, def, prop string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	desc, err := e.format.Format(ctx, raw, kind, def, prop)
	if err != nil {
		if prop != "" {
			return "", errors.Wrapf(err, "failed to format description of %s.%s", def, prop)
		}
		return "", errors.Wrapf(err, "failed to format description of %s", def)
	}
	return desc, nil
}

// field builds one named field, translating its type against enc.
func (e *emitter) field(ctx context.Context, prop *idl.Property, name string, typ decl.Type, kind ContextKind, def string) (decl.Field, error) {
	desc, err := e.describe(ctx, prop.Description, kind, def, name)
	if err != nil {
		return decl.Field{}, err
	}
	return decl.Field{
		Name:        name,
		Type:        typ,
		Optional:    prop.Optional,
		Description: desc,
	}, nil
}

// concepts emits a class for every concept with properties and an alias for
// every concept that is not a simple struct. Builtins produce nothing.
func (e *emitter) concepts(ctx context.Context) ([]decl.Decl, error) {
	var out []decl.Decl

	for _, c := range e.idx.Concepts() {
		if c.Builtin {
			continue
		}
		enc := ConceptContext(c.Name)
		simple := e.idx.IsSimple(c.Name)

		if simple && c.Properties == nil {
			return nil, errors.WithHint(
				errors.NewEmptyDefinitionError("concept %s is a struct without properties", c.Name),
				"declare its properties or give it a non-struct type")
		}

		if c.Properties != nil {
			class, err := e.conceptClass(ctx, c, enc)
			if err != nil {
				return nil, err
			}
			out = append(out, class)
		}

		if !simple {
			typ, err := e.tr.Translate(c.Type, enc)
			if err != nil {
				return nil, errors.Wrapf(err, "concept %s", c.Name)
			}
			// the class above, if any, already carried the description
			desc := ""
			if c.Properties == nil {
				if desc, err = e.describe(ctx, c.Description, ContextConcept, c.Name, ""); err != nil {
					return nil, err
				}
			}
			out = append(out, &decl.Alias{
				Name:        e.tr.TypeName(c.Name),
				Type:        typ,
				Description: desc,
			})
		}

		logger.Debugw("Emitted concept", logger.FieldDefinition, c.Name)
	}

	return out, nil
}

func (e *emitter) conceptClass(ctx context.Context, c *idl.Concept, enc *Enclosing) (*decl.Class, error) {
	desc, err := e.describe(ctx, c.Description, ContextConcept, c.Name, "")
	if err != nil {
		return nil, err
	}

	class := &decl.Class{
		Name:        e.tr.StructName(enc),
		Description: desc,
		Abstract:    c.Abstract,
	}
	if c.Parent != "" {
		if _, ok := e.idx.Concept(c.Parent); !ok {
			return nil, errors.NewTypeResolutionError("concept %s extends unknown concept %q", c.Name, c.Parent)
		}
		class.Parent = e.tr.StructName(ConceptContext(c.Parent))
	}

	for _, prop := range c.Properties {
		typ, err := e.tr.Translate(prop.Type, enc)
		if err != nil {
			return nil, errors.Wrapf(err, "concept %s property %s", c.Name, prop.Name)
		}
		f, err := e.field(ctx, prop, prop.Name, typ, ContextConcept, c.Name)
		if err != nil {
			return nil, err
		}
		class.Fields = append(class.Fields, f)
	}
	return class, nil
}

// prototypes emits one class per prototype. A property with an alt_name
// yields a second, independent field; custom_properties adds one computed
// field keyed by its key type.
func (e *emitter) prototypes(ctx context.Context) ([]decl.Decl, error) {
	var out []decl.Decl

	for _, p := range e.idx.Prototypes() {
		enc := PrototypeContext(p.Name)

		desc, err := e.describe(ctx, p.Description, ContextPrototype, p.Name, "")
		if err != nil {
			return nil, err
		}
		class := &decl.Class{
			Name:        e.tr.TypeName(p.Name),
			Description: desc,
			Abstract:    p.Abstract,
			Deprecated:  p.Deprecated,
		}
		if p.Parent != "" {
			if _, ok := e.idx.Prototype(p.Parent); !ok {
				return nil, errors.NewTypeResolutionError("prototype %s extends unknown prototype %q", p.Name, p.Parent)
			}
			class.Parent = e.tr.TypeName(p.Parent)
		}

		for _, prop := range p.Properties {
			typ, err := e.tr.Translate(prop.Type, enc)
			if err != nil {
				return nil, errors.Wrapf(err, "prototype %s property %s", p.Name, prop.Name)
			}
			f, err := e.field(ctx, prop, prop.Name, typ, ContextPrototype, p.Name)
			if err != nil {
				return nil, err
			}
			class.Fields = append(class.Fields, f)

			if prop.AltName != "" {
				alt, err := e.field(ctx, prop, prop.AltName, typ, ContextPrototype, p.Name)
				if err != nil {
					return nil, err
				}
				class.Fields = append(class.Fields, alt)
			}
		}

		if cp := p.CustomProperties; cp != nil {
			key, err := e.tr.Translate(cp.KeyType, enc)
			if err != nil {
				return nil, errors.Wrapf(err, "prototype %s custom_properties key", p.Name)
			}
			value, err := e.tr.Translate(cp.ValueType, enc)
			if err != nil {
				return nil, errors.Wrapf(err, "prototype %s custom_properties value", p.Name)
			}
			desc, err := e.describe(ctx, cp.Description, ContextPrototype, p.Name, "custom_properties")
			if err != nil {
				return nil, err
			}
			class.Fields = append(class.Fields, decl.Field{
				Key:         key,
				Type:        value,
				Description: desc,
			})
		}

		out = append(out, class)
		logger.Debugw("Emitted prototype", logger.FieldDefinition, p.Name)
	}

	return out, nil
}

// registry emits the global registry class and its raw category map.
func (e *emitter) registry(ctx context.Context) ([]decl.Decl, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// extend() still names the base type; the checker reports it if undefined
	if _, ok := e.idx.Prototype(e.opts.BasePrototype); !ok {
		logger.Warnw("Base prototype not defined in document",
			logger.FieldDefinition, e.opts.BasePrototype)
	}

	rawName := e.tr.TypeName("raw")
	registry := &decl.Class{
		Name:        e.opts.RegistryName,
		Description: "The global registry of prototype definitions.",
		Global:      e.opts.RegistryName,
		Fields: []decl.Field{
			{
				Name:        "raw",
				Type:        decl.Ref{Name: rawName},
				Description: "All prototypes, keyed by type and then by name.",
			},
			{
				Name:        "is_demo",
				Type:        decl.Ref{Name: "boolean"},
				Description: "Whether the game is running in demo mode.",
			},
		},
		Functions: []decl.Function{
			{
				Name:        "extend",
				Description: "Add prototypes to the registry.",
				Params: []decl.Param{
					{Name: "self", Type: decl.Ref{Name: e.opts.RegistryName}},
					{
						Name: "otherdata",
						Type: decl.Array{Elem: decl.Ref{Name: e.tr.TypeName(e.opts.BasePrototype)}},
					},
				},
			},
		},
	}

	raw := &decl.Class{Name: rawName}
	seen := make(map[string]bool)
	for _, p := range e.idx.Prototypes() {
		if p.Typename == "" || seen[p.Typename] {
			continue
		}
		seen[p.Typename] = true
		raw.Fields = append(raw.Fields, decl.Field{
			Key: decl.Literal{Value: p.Typename},
			Type: decl.Dictionary{
				Key:   decl.Ref{Name: "string"},
				Value: decl.Ref{Name: e.tr.TypeName(p.Name)},
			},
		})
	}

	return []decl.Decl{registry, raw}, nil
}
