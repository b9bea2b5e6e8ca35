package resolve

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/cache"
)

// MaxReexportDepth bounds how many "export * from" hops GetModuleExportMap
// will follow before giving up and returning an empty map. A process
// hosting the parser core may lower or raise it once at startup from its
// own configuration (internal/config's resolve.max_reexport_depth); the
// scan loop itself is single-threaded, so reading this without a lock is
// safe.
var MaxReexportDepth = 4

// Source supplies the per-file state the export-map walk needs: the
// symbols already extracted for a file and its syntax tree (to find
// re-export statements, which are not represented as Symbol entities).
type Source interface {
	Entry(relPath string) (*cache.Entry, bool)
}

// GetModuleExportMap computes the effective set of names moduleFile
// exposes, following re-export chains up to MaxReexportDepth and breaking
// cycles via seen. The result and its contributing-file chain are suitable
// for caching with cache.SetExportMap.
func GetModuleExportMap(src Source, fs FileSystem, moduleFile string, depth int, seen map[string]bool) (cache.ExportMap, []string) {
	if depth >= MaxReexportDepth || seen[moduleFile] {
		return cache.ExportMap{}, nil
	}
	seen[moduleFile] = true

	entry, ok := src.Entry(moduleFile)
	if !ok {
		return cache.ExportMap{}, []string{moduleFile}
	}

	out := cache.ExportMap{}
	chain := []string{moduleFile}

	for _, sym := range entry.Symbols {
		if sym.IsExported {
			out[sym.Name] = cache.ExportEntry{File: moduleFile, OriginalName: sym.Name, Depth: depth}
		}
	}

	if entry.Tree == nil || entry.Tree.Root == nil {
		return out, chain
	}

	root := entry.Tree.Root
	for i := 0; i < int(root.ChildCount()); i++ {
		stmt := root.Child(i)
		if stmt.Type() != "export_statement" {
			continue
		}
		// Default export: register under "default" with originalName =
		// the declared symbol's name when the default export
		// wraps a named declaration (`export default function d(){}`);
		// falls back to originalName "default" for a bare expression
		// (`export default 42`), which has no declared name to recover.
		if name, ok := defaultExportName(entry, stmt); ok {
			if _, exists := out["default"]; !exists {
				out["default"] = cache.ExportEntry{File: moduleFile, OriginalName: name, Depth: depth}
			}
		}

		re := parseReexport(entry, stmt)
		if re == nil {
			continue
		}
		target, resolved := ResolveSpecifier(re.module, moduleFile, fs)
		if !resolved {
			continue // unresolved re-export source: nothing further to merge
		}

		switch re.kind {
		case reexportStar:
			subMap, subChain := GetModuleExportMap(src, fs, target, depth+1, seen)
			for k, v := range subMap {
				if k == "default" {
					continue
				}
				if _, exists := out[k]; !exists {
					out[k] = v
				}
			}
			chain = append(chain, subChain...)
		case reexportNamespace:
			out[re.alias] = cache.ExportEntry{File: target, OriginalName: re.alias, Depth: depth}
		case reexportNamed:
			subMap, subChain := GetModuleExportMap(src, fs, target, depth+1, seen)
			if v, ok := subMap[re.original]; ok {
				name := re.alias
				if name == "" {
					name = re.original
				}
				if _, exists := out[name]; !exists {
					out[name] = v
				}
			}
			chain = append(chain, subChain...)
		}
	}

	return out, chain
}

// defaultExportName reports whether stmt is `export default ...` and, if
// the default export wraps a declaration with a name (function/class), the
// declared name.
func defaultExportName(entry *cache.Entry, stmt *sitter.Node) (string, bool) {
	hasDefault := false
	var decl *sitter.Node
	for i := 0; i < int(stmt.ChildCount()); i++ {
		child := stmt.Child(i)
		switch child.Type() {
		case "default":
			hasDefault = true
		case "export", ";":
			continue
		default:
			decl = child
		}
	}
	if !hasDefault {
		return "", false
	}
	if decl != nil {
		if name := childByField(decl, "name"); name != nil {
			return entry.Tree.NodeText(name), true
		}
	}
	return "default", true
}

type reexportKind int

const (
	reexportStar reexportKind = iota
	reexportNamespace
	reexportNamed
)

type reexport struct {
	kind     reexportKind
	module   string
	alias    string
	original string
}

// parseReexport inspects one export_statement node and, if it is a
// re-export ("export ... from '...'"), classifies it. Returns nil for a
// local (non-re-export) export statement.
func parseReexport(entry *cache.Entry, stmt *sitter.Node) *reexport {
	var source string
	hasStar := false
	var namespaceAlias string
	var namedAlias, namedOriginal string

	for i := 0; i < int(stmt.ChildCount()); i++ {
		child := stmt.Child(i)
		switch child.Type() {
		case "string":
			source = unquote(entry.Tree.NodeText(child))
		case "*":
			hasStar = true
		case "namespace_export":
			if name := childByField(child, "name"); name != nil {
				namespaceAlias = entry.Tree.NodeText(name)
			} else if name := lastIdentifierChild(entry, child); name != "" {
				namespaceAlias = name
			}
		case "export_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				nameNode := childByField(spec, "name")
				aliasNode := childByField(spec, "alias")
				if nameNode != nil {
					namedOriginal = entry.Tree.NodeText(nameNode)
				}
				if aliasNode != nil {
					namedAlias = entry.Tree.NodeText(aliasNode)
				}
			}
		}
	}

	if source == "" {
		return nil
	}
	switch {
	case namespaceAlias != "":
		return &reexport{kind: reexportNamespace, module: source, alias: namespaceAlias}
	case hasStar:
		return &reexport{kind: reexportStar, module: source}
	case namedOriginal != "":
		return &reexport{kind: reexportNamed, module: source, alias: namedAlias, original: namedOriginal}
	}
	return nil
}

func childByField(node *sitter.Node, field string) *sitter.Node {
	return node.ChildByFieldName(field)
}

func lastIdentifierChild(entry *cache.Entry, node *sitter.Node) string {
	var name string
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "identifier" {
			name = entry.Tree.NodeText(c)
		}
	}
	return name
}

func unquote(s string) string {
	return strings.Trim(s, `"'`+"`")
}
