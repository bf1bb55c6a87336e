// Package docs rewrites cross references in description text into links to
// the published API documentation.
package docs

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/protolua/logger"
	"github.com/teranos/protolua/schema"
	"github.com/teranos/protolua/typegen"
)

// DefaultBaseURL is the root of the published prototype documentation.
const DefaultBaseURL = "https://lua-api.factorio.com/latest"

// linkPattern matches markdown links whose target is a documentation
// reference: prototype:Name, type:Name, either with ::member, or one of the
// bare container pages.
var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\((?:(?:prototype|type):(\w+)(?:::([\w-]+))?|(prototypes|types))\)`)

// LinkFormatter is a typegen.Formatter resolving reference links against the
// schema Index. Links that do not resolve are kept as written.
type LinkFormatter struct {
	idx     *schema.Index
	baseURL string
	log     *zap.SugaredLogger
}

var _ typegen.Formatter = (*LinkFormatter)(nil)

// NewLinkFormatter creates a formatter producing absolute URLs under baseURL.
// An empty baseURL produces paths relative to the documentation root.
func NewLinkFormatter(idx *schema.Index, baseURL string) *LinkFormatter {
	return &LinkFormatter{
		idx:     idx,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.Named("docs"),
	}
}

// URL resolves a member (and optional fragment) to its documentation URL.
func (f *LinkFormatter) URL(member, fragment string) (string, error) {
	path, err := f.idx.ResolveLink(member, fragment)
	if err != nil {
		return "", err
	}
	if f.baseURL == "" {
		return path, nil
	}
	return f.baseURL + "/" + path, nil
}

// Format rewrites every reference link in raw.
func (f *LinkFormatter) Format(ctx context.Context, raw string, kind typegen.ContextKind, def, prop string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.Contains(raw, "](") {
		return raw, nil
	}

	out := linkPattern.ReplaceAllStringFunc(raw, func(link string) string {
		m := linkPattern.FindStringSubmatch(link)
		text, member, fragment := m[1], m[2], m[3]
		if member == "" {
			member = m[4]
		}

		url, err := f.URL(member, fragment)
		if err != nil {
			f.log.Warnw("Unresolved documentation link",
				logger.FieldLink, link,
				logger.FieldSection, kind.String(),
				logger.FieldDefinition, def,
				logger.FieldProperty, prop,
				logger.FieldError, err)
			return link
		}
		return "[" + text + "](" + url + ")"
	})
	return out, nil
}
