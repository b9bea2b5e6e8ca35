package pathutil

import (
	"regexp"
	"strings"
)

// importFromRe matches `import ... from "X"` / `import "X"` and
// `export ... from "X"` forms; requireRe matches `require("X")`.
var (
	importFromRe = regexp.MustCompile(`(?:import|export)(?:[^'"]*?from)?\s*['"]([^'"]+)['"]`)
	requireRe    = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
)

// ExtractTopLevelDependencies performs a regex-level scan of source text for
// `import ... from "X"` and `require("X")` forms and returns the set of bare
// package roots referenced — i.e. it drops relative/absolute specifiers and
// reduces scoped (`@scope/pkg/sub`) or unscoped (`pkg/sub`) specifiers to
// their first path segment (`@scope/pkg` or `pkg`).
func ExtractTopLevelDependencies(text string) []string {
	seen := make(map[string]bool)
	var roots []string

	add := func(spec string) {
		root := packageRoot(spec)
		if root == "" || seen[root] {
			return
		}
		seen[root] = true
		roots = append(roots, root)
	}

	for _, m := range importFromRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range requireRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	return roots
}

// packageRoot returns the bare package root of a module specifier, or ""
// for relative/absolute specifiers which are not external dependencies.
func packageRoot(spec string) string {
	if spec == "" || strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
		return ""
	}
	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
