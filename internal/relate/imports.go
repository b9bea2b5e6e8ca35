package relate

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/resolve"
)

// buildImports scans every import_statement in the file, populating
// importMap/importSymbolMap and emitting the corresponding IMPORTS edge.
func (b *Builder) buildImports() {
	root := b.tree.Root
	if root == nil {
		return
	}
	for i := 0; i < int(root.ChildCount()); i++ {
		stmt := root.Child(i)
		if stmt.Type() != "import_statement" {
			continue
		}
		b.buildImportStatement(stmt)
	}
}

func (b *Builder) buildImportStatement(stmt *sitter.Node) {
	source := stmt.ChildByFieldName("source")
	module := unquote(b.text(source))
	if module == "" {
		return
	}
	resolvedFile, hasFile := resolve.ResolveSpecifierWithAliases(module, b.relPath, b.fs, b.cfg.PathAliases)

	clause := childByType(stmt, "import_clause")
	if clause == nil {
		// Side-effect import: `import "m"`.
		toID := "import:" + module + ":*"
		if hasFile {
			toID = "file:" + resolvedFile + ":" + basenameNoExt(resolvedFile)
		}
		b.emit(fileEntityID(b.relPath), model.Imports, toID, map[string]any{
			"importKind": "side-effect", "module": module,
		})
		return
	}

	for j := 0; j < int(clause.ChildCount()); j++ {
		part := clause.Child(j)
		switch part.Type() {
		case "identifier":
			// default import
			alias := b.text(part)
			if hasFile {
				b.importMap[alias] = resolvedFile
				b.importSymbolMap[alias] = "default"
			}
			toID := "import:" + module + ":default"
			if hasFile {
				toID = "file:" + resolvedFile + ":default"
			}
			b.emit(fileEntityID(b.relPath), model.Imports, toID, map[string]any{
				"importKind": "default", "module": module, "alias": alias,
			})
		case "namespace_import":
			alias := lastIdentifierText(b, part)
			if alias == "" {
				continue
			}
			if hasFile {
				b.importMap[alias] = resolvedFile
				b.importSymbolMap[alias] = "*"
			}
			toID := "import:" + module + ":*"
			if hasFile {
				toID = "file:" + resolvedFile + ":*"
			}
			b.emit(fileEntityID(b.relPath), model.Imports, toID, map[string]any{
				"importKind": "namespace", "module": module, "alias": alias,
			})
		case "named_imports":
			for k := 0; k < int(part.ChildCount()); k++ {
				spec := part.Child(k)
				if spec.Type() != "import_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				aliasNode := spec.ChildByFieldName("alias")
				original := b.text(nameNode)
				alias := original
				if aliasNode != nil {
					alias = b.text(aliasNode)
				}
				if original == "" {
					continue
				}
				if hasFile {
					b.importMap[alias] = resolvedFile
					b.importSymbolMap[alias] = original
				}

				exportedFile, exportedName, depth, found := resolveExportedOrigin(b, resolvedFile, hasFile, original)
				toID := "import:" + module + ":" + alias
				meta := map[string]any{"importKind": "named", "module": module, "importDepth": depth}
				if aliasNode != nil {
					meta["alias"] = alias
				}
				if found {
					toID = "file:" + exportedFile + ":" + exportedName
				} else if original != alias {
					toID = "import:" + module + ":" + original
				}
				b.emit(fileEntityID(b.relPath), model.Imports, toID, meta)
			}
		}
	}
}

func resolveExportedOrigin(b *Builder, resolvedFile string, hasFile bool, original string) (file, name string, depth int, found bool) {
	if !hasFile {
		return "", "", 0, false
	}
	exportMap := resolve.CachedExportMap(b.cache, b.fs, resolvedFile)
	entry, ok := exportMap[original]
	if !ok {
		return "", "", 0, false
	}
	return entry.File, entry.OriginalName, entry.Depth + 1, true
}

func fileEntityID(relPath string) string {
	return "file:" + relPath
}

func basenameNoExt(relPath string) string {
	i := len(relPath) - 1
	slash := -1
	for ; i >= 0; i-- {
		if relPath[i] == '/' {
			slash = i
			break
		}
	}
	base := relPath[slash+1:]
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}

func lastIdentifierText(b *Builder, node *sitter.Node) string {
	var name string
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "identifier" {
			name = b.text(c)
		}
	}
	return name
}

func childByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == nodeType {
			return c
		}
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
