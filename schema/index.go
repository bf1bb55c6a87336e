// Package schema indexes a decoded prototype API document by name.
//
// The Index is built once per run and is read-only afterwards. Lookup
// tables preserve document order, and the simple-struct classification is
// computed during construction so every consumer agrees on how a concept is
// named.
package schema

import (
	"github.com/Masterminds/semver/v3"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/idl"
)

// Supported document identity
const (
	DefaultApplication = "factorio"
	DefaultAPIVersion  = 6
	DefaultStage       = "prototype"
)

// Options controls document identity checks.
type Options struct {
	Application string
	APIVersion  int
	Stage       string

	// VersionConstraint optionally restricts application_version, e.g. ">= 2.0".
	// Empty accepts any version.
	VersionConstraint string
}

// DefaultOptions returns the identity of the supported document format.
func DefaultOptions() Options {
	return Options{
		Application: DefaultApplication,
		APIVersion:  DefaultAPIVersion,
		Stage:       DefaultStage,
	}
}

// Index is the read-only name lookup over a document.
type Index struct {
	application        string
	applicationVersion string

	concepts   *orderedmap.OrderedMap[string, *idl.Concept]
	prototypes *orderedmap.OrderedMap[string, *idl.Prototype]

	// simple holds every concept whose type is exactly a struct
	simple map[string]struct{}
}

// New validates the document identity and builds the index.
func New(doc *idl.Document, opts Options) (*Index, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	if err := checkIdentity(doc, opts); err != nil {
		return nil, err
	}

	idx := &Index{
		application:        doc.Application,
		applicationVersion: doc.ApplicationVersion,
		concepts:           orderedmap.New[string, *idl.Concept](len(doc.Types)),
		prototypes:         orderedmap.New[string, *idl.Prototype](len(doc.Prototypes)),
		simple:             make(map[string]struct{}),
	}

	for _, c := range doc.Types {
		if c == nil {
			continue
		}
		if _, dup := idx.concepts.Set(c.Name, c); dup {
			return nil, errors.Newf("duplicate concept %q", c.Name)
		}
		if c.IsStruct() {
			idx.simple[c.Name] = struct{}{}
		}
	}

	for _, p := range doc.Prototypes {
		if p == nil {
			continue
		}
		if _, dup := idx.prototypes.Set(p.Name, p); dup {
			return nil, errors.Newf("duplicate prototype %q", p.Name)
		}
	}

	return idx, nil
}

func checkIdentity(doc *idl.Document, opts Options) error {
	if doc.Application != opts.Application {
		return errors.NewDocumentIdentityError("unsupported application %q (expected %q)",
			doc.Application, opts.Application)
	}
	if doc.APIVersion != opts.APIVersion {
		return errors.WithHintf(
			errors.NewDocumentIdentityError("unsupported api_version %d (expected %d)",
				doc.APIVersion, opts.APIVersion),
			"this generator understands api_version %d documents only", opts.APIVersion)
	}
	if doc.Stage != opts.Stage {
		return errors.NewDocumentIdentityError("unsupported stage %q (expected %q)",
			doc.Stage, opts.Stage)
	}

	if opts.VersionConstraint == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(opts.VersionConstraint)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %q", opts.VersionConstraint)
	}
	ver, err := semver.NewVersion(doc.ApplicationVersion)
	if err != nil {
		return errors.NewDocumentIdentityError("unparseable application_version %q", doc.ApplicationVersion)
	}
	if !constraint.Check(ver) {
		return errors.NewDocumentIdentityError("application_version %s does not satisfy %s",
			ver, opts.VersionConstraint)
	}
	return nil
}

// Application returns the product name of the indexed document.
func (idx *Index) Application() string { return idx.application }

// ApplicationVersion returns the product version of the indexed document.
func (idx *Index) ApplicationVersion() string { return idx.applicationVersion }

// Concept looks up a concept by name.
func (idx *Index) Concept(name string) (*idl.Concept, bool) {
	return idx.concepts.Get(name)
}

// Prototype looks up a prototype by name.
func (idx *Index) Prototype(name string) (*idl.Prototype, bool) {
	return idx.prototypes.Get(name)
}

// HasType reports whether name is a concept or a prototype.
func (idx *Index) HasType(name string) bool {
	if _, ok := idx.concepts.Get(name); ok {
		return true
	}
	_, ok := idx.prototypes.Get(name)
	return ok
}

// IsSimple reports whether the named concept is a simple struct: its only
// type information is its struct body.
func (idx *Index) IsSimple(name string) bool {
	_, ok := idx.simple[name]
	return ok
}

// Concepts returns all concepts in document order.
func (idx *Index) Concepts() []*idl.Concept {
	out := make([]*idl.Concept, 0, idx.concepts.Len())
	for pair := idx.concepts.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Prototypes returns all prototypes in document order.
func (idx *Index) Prototypes() []*idl.Prototype {
	out := make([]*idl.Prototype, 0, idx.prototypes.Len())
	for pair := idx.prototypes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of concepts and prototypes.
func (idx *Index) Len() (concepts, prototypes int) {
	return idx.concepts.Len(), idx.prototypes.Len()
}
