// Package markdown renders declaration sections as Markdown reference pages:
// one heading per declaration with a field table, types shown in the same
// syntax the Lua annotations use.
package markdown

import (
	"fmt"
	"strings"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/typegen"
	"github.com/teranos/protolua/typegen/decl"
	"github.com/teranos/protolua/typegen/lua"
)

// Generator implements typegen.Generator for Markdown
type Generator struct{}

// NewGenerator creates a Markdown generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "markdown"
func (g *Generator) Language() string {
	return "markdown"
}

// FileExtension returns "md"
func (g *Generator) FileExtension() string {
	return "md"
}

// GenerateFile renders one section as a Markdown page
func (g *Generator) GenerateFile(result *typegen.Result, section *decl.Section) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title(section.Name)))
	sb.WriteString(fmt.Sprintf("> Generated from %s %s. Do not edit.\n",
		result.Application, result.ApplicationVersion))

	if len(section.Decls) > 0 {
		sb.WriteString("\n**Contents:** ")
		links := make([]string, 0, len(section.Decls))
		for _, d := range section.Decls {
			links = append(links, fmt.Sprintf("[%s](#%s)", d.DeclName(), anchor(d.DeclName())))
		}
		sb.WriteString(strings.Join(links, " · "))
		sb.WriteString("\n")
	}

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

func writeClass(sb *strings.Builder, c *decl.Class) error {
	sb.WriteString(fmt.Sprintf("## %s\n\n", c.Name))
	if c.Deprecated {
		sb.WriteString("> **Deprecated.**\n\n")
	}
	if c.Abstract {
		sb.WriteString("*Abstract: only used through its subtypes.*\n\n")
	}
	if c.Parent != "" {
		sb.WriteString(fmt.Sprintf("Extends [`%s`](#%s)\n\n", c.Parent, anchor(c.Parent)))
	}
	if c.Global != "" {
		sb.WriteString(fmt.Sprintf("Global: `%s`\n\n", c.Global))
	}
	if d := strings.TrimSpace(c.Description); d != "" {
		sb.WriteString(d + "\n\n")
	}

	if len(c.Fields) > 0 {
		sb.WriteString("| Field | Type | Optional | Description |\n")
		sb.WriteString("|-------|------|----------|-------------|\n")
		for _, f := range c.Fields {
			name := f.Name
			if f.Computed() {
				key, err := lua.TypeString(f.Key)
				if err != nil {
					return err
				}
				name = "[" + key + "]"
			}
			typ, err := lua.TypeString(f.Type)
			if err != nil {
				return errors.Wrapf(err, "field %s", name)
			}
			optional := ""
			if f.Optional {
				optional = "yes"
			}
			sb.WriteString(fmt.Sprintf("| `%s` | `%s` | %s | %s |\n",
				escapeCell(name), escapeCell(typ), optional, escapeCell(oneLine(f.Description))))
		}
		sb.WriteString("\n")
	}

	for _, fn := range c.Functions {
		params := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			typ, err := lua.TypeString(p.Type)
			if err != nil {
				return errors.Wrapf(err, "function %s", fn.Name)
			}
			params = append(params, p.Name+": "+typ)
		}
		sb.WriteString(fmt.Sprintf("### %s(%s)\n\n", fn.Name, strings.Join(params, ", ")))
		if d := strings.TrimSpace(fn.Description); d != "" {
			sb.WriteString(d + "\n\n")
		}
	}
	return nil
}

func writeAlias(sb *strings.Builder, a *decl.Alias) error {
	typ, err := lua.TypeString(a.Type)
	if err != nil {
		return err
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", a.Name))
	if d := strings.TrimSpace(a.Description); d != "" {
		sb.WriteString(d + "\n\n")
	}
	sb.WriteString(fmt.Sprintf("```lua\n---@alias %s %s\n```\n", a.Name, typ))
	return nil
}

func title(section string) string {
	if section == "" {
		return section
	}
	return strings.ToUpper(section[:1]) + section[1:]
}

// anchor mimics GitHub's heading slugs: lower case, dots and spaces dropped
func anchor(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('-')
		}
	}
	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
