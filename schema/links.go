package schema

import "github.com/teranos/protolua/errors"

// Namespace containers and their index pages
const (
	PrototypesContainer = "prototypes"
	TypesContainer      = "types"
)

// ResolveLink maps a documented member name to its documentation path,
// relative to the documentation root. fragment, when non-empty, is appended
// as an anchor.
//
//	prototypes            -> prototypes.html
//	types                 -> types.html
//	<concept>             -> types/<concept>.html
//	<prototype>           -> prototypes/<prototype>.html
func (idx *Index) ResolveLink(member, fragment string) (string, error) {
	var path string
	switch {
	case member == PrototypesContainer:
		path = PrototypesContainer + ".html"
	case member == TypesContainer:
		path = TypesContainer + ".html"
	default:
		if _, ok := idx.concepts.Get(member); ok {
			path = TypesContainer + "/" + member + ".html"
		} else if _, ok := idx.prototypes.Get(member); ok {
			path = PrototypesContainer + "/" + member + ".html"
		} else {
			return "", errors.NewLinkResolutionError("invalid link: %s", member)
		}
	}

	if fragment != "" {
		path += "#" + fragment
	}
	return path, nil
}
