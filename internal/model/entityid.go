package model

import "strings"

// EntityRef is the display-oriented decomposition of an entity id: the
// relative path every id carries, plus the symbol name and signature hash
// for symbol ids. Downstream layers use it to render an id without keeping
// the entity record itself around.
type EntityRef struct {
	Kind    string // "file" | "dir" | "sym"
	RelPath string
	Name    string
	Hash    string
}

// ParseEntityID decomposes a well-formed entity id back into its parts.
// It reports false for relationship ids, placeholder ids, and anything
// else that is not a concrete file/dir/sym entity id.
func ParseEntityID(id string) (EntityRef, bool) {
	switch {
	case strings.HasPrefix(id, "sym:"):
		rest := strings.TrimPrefix(id, "sym:")
		hashIdx := strings.LastIndexByte(rest, '@')
		if hashIdx < 0 {
			return EntityRef{}, false
		}
		hash := rest[hashIdx+1:]
		// The first '#' ends the path; a later '#' can only belong to a
		// private-field name like "#secret".
		pathIdx := strings.IndexByte(rest[:hashIdx], '#')
		if pathIdx < 0 {
			return EntityRef{}, false
		}
		name := rest[pathIdx+1 : hashIdx]
		if rest[:pathIdx] == "" || name == "" || hash == "" {
			return EntityRef{}, false
		}
		return EntityRef{Kind: "sym", RelPath: rest[:pathIdx], Name: name, Hash: hash}, true

	case strings.HasPrefix(id, "file:"):
		rest := strings.TrimPrefix(id, "file:")
		if rest == "" || strings.ContainsRune(rest, ':') {
			return EntityRef{}, false // empty, or a file:<path>:<symbol> placeholder
		}
		return EntityRef{Kind: "file", RelPath: rest}, true

	case strings.HasPrefix(id, "dir:"):
		rest := strings.TrimPrefix(id, "dir:")
		if rest == "" {
			return EntityRef{}, false
		}
		return EntityRef{Kind: "dir", RelPath: rest}, true
	}
	return EntityRef{}, false
}

// String re-assembles the canonical id, the inverse of ParseEntityID for
// well-formed refs.
func (r EntityRef) String() string {
	switch r.Kind {
	case "sym":
		return "sym:" + r.RelPath + "#" + r.Name + "@" + r.Hash
	case "file":
		return "file:" + r.RelPath
	case "dir":
		return "dir:" + r.RelPath
	}
	return ""
}
