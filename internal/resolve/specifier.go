// Package resolve implements module specifier resolution, the bounded
// re-export-following export map, imported-member lookup, and a heuristic
// stand-in for a real language type checker.
package resolve

import (
	"path"
	"strings"

	"github.com/codeatlas/parsecore/internal/pathutil"
)

// candidateSuffixes lists the source-file extensions tried, in priority
// order, after a specifier has been joined to a directory. Declaration-only
// ".d.ts" files are deliberately absent: a concrete implementation file is
// always preferred over a declaration-only one with the same basename.
var candidateSuffixes = []string{"", ".ts", ".tsx", ".js", ".jsx", "/index.ts", "/index.tsx", "/index.js", "/index.jsx"}

// FileSystem is the minimal existence check the resolver needs; satisfied
// by the cache (a file is "known" if it has a cached entry) or by a real
// filesystem adapter.
type FileSystem interface {
	Exists(relPath string) bool
}

// ResolveSpecifier resolves an import/require specifier seen in fromFile to
// a project-relative source file path. Bare package specifiers (no leading
// "." or "/") are never resolved to a file: they are external by
// definition and the caller should fall back to an external placeholder.
func ResolveSpecifier(specifier, fromFile string, fs FileSystem) (string, bool) {
	if specifier == "" {
		return "", false
	}
	if !strings.HasPrefix(specifier, ".") && !strings.HasPrefix(specifier, "/") {
		return "", false
	}

	var base string
	if strings.HasPrefix(specifier, "/") {
		base = strings.TrimPrefix(specifier, "/")
	} else {
		dir := pathutil.Dir(fromFile)
		base = path.Join(dir, specifier)
	}
	base = pathutil.NormalizePath(base)

	for _, suffix := range candidateSuffixes {
		candidate := base + suffix
		if fs.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// ResolveSpecifierWithAliases behaves like ResolveSpecifier, but first
// rewrites specifier through aliases (a bare prefix, e.g. "@app", mapped to
// a project-relative directory, e.g. "src/app"). This lets the path aliases
// a bundler config declares resolve to a real file instead of falling
// through to an external placeholder, the same bare specifiers would
// otherwise become.
func ResolveSpecifierWithAliases(specifier, fromFile string, fs FileSystem, aliases map[string]string) (string, bool) {
	for prefix, target := range aliases {
		if specifier == prefix {
			return ResolveSpecifier("/"+target, fromFile, fs)
		}
		if rest, ok := strings.CutPrefix(specifier, prefix+"/"); ok {
			return ResolveSpecifier("/"+path.Join(target, rest), fromFile, fs)
		}
	}
	return ResolveSpecifier(specifier, fromFile, fs)
}
