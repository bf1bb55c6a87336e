// Package lua renders declaration sections as LuaLS annotation files.
package lua

import (
	"fmt"
	"strings"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/typegen"
	"github.com/teranos/protolua/typegen/decl"
	"github.com/teranos/protolua/version"
)

// GeneratorLinePrefix starts the header line carrying the generator version.
// Up-to-date checks ignore it.
const GeneratorLinePrefix = "--$" + version.Name

// Generator implements typegen.Generator for LuaLS annotations
type Generator struct {
	identity string
}

// NewGenerator creates a Lua generator stamping the running binary's version
func NewGenerator() *Generator {
	return &Generator{identity: version.Get().Generator()}
}

// NewGeneratorWithIdentity creates a Lua generator with a fixed generator
// identity line, for reproducible output in tests
func NewGeneratorWithIdentity(identity string) *Generator {
	return &Generator{identity: identity}
}

// Language returns "lua"
func (g *Generator) Language() string {
	return "lua"
}

// FileExtension returns "lua"
func (g *Generator) FileExtension() string {
	return "lua"
}

// GenerateFile renders one section with its header block
func (g *Generator) GenerateFile(result *typegen.Result, section *decl.Section) (string, error) {
	var sb strings.Builder

	sb.WriteString("---@meta\n")
	sb.WriteString("---@diagnostic disable\n\n")
	sb.WriteString(fmt.Sprintf("--$%s %s\n", result.Application, result.ApplicationVersion))
	sb.WriteString(fmt.Sprintf("--$%s\n", g.identity))
	sb.WriteString(fmt.Sprintf("--$section %s\n", section.Name))
	sb.WriteString("-- This file is automatically generated. Edits will be overwritten.\n")

	for _, d := range section.Decls {
		sb.WriteString("\n")
		var err error
		switch d := d.(type) {
		case *decl.Class:
			err = writeClass(&sb, d)
		case *decl.Alias:
			err = writeAlias(&sb, d)
		default:
			err = errors.Newf("unsupported declaration %T", d)
		}
		if err != nil {
			return "", errors.Wrapf(err, "failed to render %s", d.DeclName())
		}
	}

	return sb.String(), nil
}

// writeComment writes a description as a block of --- lines
func writeComment(sb *strings.Builder, desc string) {
	desc = strings.TrimRight(desc, "\n")
	if strings.TrimSpace(desc) == "" {
		return
	}
	for _, line := range strings.Split(desc, "\n") {
		sb.WriteString("---")
		sb.WriteString(strings.TrimRight(line, " \t\r"))
		sb.WriteString("\n")
	}
}

func writeClass(sb *strings.Builder, c *decl.Class) error {
	writeComment(sb, c.Description)
	if c.Deprecated {
		sb.WriteString("---@deprecated\n")
	}

	sb.WriteString("---@class ")
	sb.WriteString(c.Name)
	if c.Parent != "" {
		sb.WriteString(": ")
		sb.WriteString(c.Parent)
	}
	sb.WriteString("\n")

	for _, f := range c.Fields {
		key, err := fieldKey(f)
		if err != nil {
			return err
		}
		typ, err := renderType(f.Type)
		if err != nil {
			return errors.Wrapf(err, "field %s", key)
		}
		writeComment(sb, f.Description)
		sb.WriteString("---@field ")
		sb.WriteString(key)
		if f.Optional {
			sb.WriteString("?")
		}
		sb.WriteString(" ")
		sb.WriteString(typ)
		sb.WriteString("\n")
	}

	if c.Global == "" {
		for _, fn := range c.Functions {
			sig, err := funcType(fn)
			if err != nil {
				return errors.Wrapf(err, "function %s", fn.Name)
			}
			writeComment(sb, fn.Description)
			sb.WriteString(fmt.Sprintf("---@field %s %s\n", fieldName(fn.Name), sig))
		}
		return nil
	}

	global := EscapeIdentifier(c.Global)
	sb.WriteString(global)
	sb.WriteString(" = {}\n")

	for _, fn := range c.Functions {
		if err := writeMethod(sb, global, fn); err != nil {
			return errors.Wrapf(err, "function %s", fn.Name)
		}
	}
	return nil
}

// writeMethod renders a function bound to a global table. A leading "self"
// parameter turns it into a method (colon syntax).
func writeMethod(sb *strings.Builder, global string, fn decl.Function) error {
	params := fn.Params
	sep := "."
	if len(params) > 0 && params[0].Name == "self" {
		sep = ":"
		params = params[1:]
	}

	sb.WriteString("\n")
	writeComment(sb, fn.Description)

	names := make([]string, 0, len(params))
	for _, p := range params {
		typ, err := renderType(p.Type)
		if err != nil {
			return err
		}
		name := EscapeIdentifier(p.Name)
		opt := ""
		if p.Optional {
			opt = "?"
		}
		sb.WriteString(fmt.Sprintf("---@param %s%s %s", name, opt, typ))
		if d := strings.TrimSpace(p.Description); d != "" {
			sb.WriteString(" " + d)
		}
		sb.WriteString("\n")
		names = append(names, name)
	}
	for _, r := range fn.Returns {
		typ, err := renderType(r)
		if err != nil {
			return err
		}
		sb.WriteString("---@return " + typ + "\n")
	}

	sb.WriteString(fmt.Sprintf("function %s%s%s(%s) end\n", global, sep, EscapeIdentifier(fn.Name), strings.Join(names, ", ")))
	return nil
}

func writeAlias(sb *strings.Builder, a *decl.Alias) error {
	typ, err := renderType(a.Type)
	if err != nil {
		return err
	}
	writeComment(sb, a.Description)
	sb.WriteString(fmt.Sprintf("---@alias %s %s\n", a.Name, typ))
	return nil
}
