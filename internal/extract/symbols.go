package extract

import (
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/pathutil"
	"github.com/codeatlas/parsecore/internal/syntax"
)

// Extractor walks one parsed file's syntax tree and produces its Symbol
// entities. One Extractor is used per file.
type Extractor struct {
	tree *syntax.Tree
	now  time.Time
}

// New creates an Extractor for tree.
func New(tree *syntax.Tree, now time.Time) *Extractor {
	return &Extractor{tree: tree, now: now}
}

// ExtractSymbols walks the top level of the file and every class body,
// producing one Symbol per named declaration. Unnamed declarations are
// skipped: the extractor never invents names.
func (e *Extractor) ExtractSymbols() []*model.Symbol {
	var out []*model.Symbol
	root := e.tree.Root
	if root == nil {
		return out
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		out = append(out, e.extractTopLevel(root.Child(i))...)
	}
	return out
}

// extractTopLevel dispatches on a top-level (or export_statement-wrapped)
// node, returning zero or more symbols.
func (e *Extractor) extractTopLevel(node *sitter.Node) []*model.Symbol {
	if node == nil {
		return nil
	}
	if node.Type() == "export_statement" {
		var out []*model.Symbol
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "export" || child.Type() == "default" {
				continue
			}
			out = append(out, e.extractDeclaration(child, node)...)
		}
		return out
	}
	return e.extractDeclaration(node, node)
}

// extractDeclaration builds the symbol(s) for a single declaration node.
// exportNode is the export_statement wrapper when present, else decl itself;
// it anchors the isExported/visibility check and the doc-comment search.
func (e *Extractor) extractDeclaration(decl, exportNode *sitter.Node) []*model.Symbol {
	switch decl.Type() {
	case "function_declaration", "generator_function_declaration":
		if s := e.extractFunction(decl, exportNode); s != nil {
			return []*model.Symbol{s}
		}
	case "class_declaration":
		return e.extractClass(decl, exportNode)
	case "interface_declaration":
		if s := e.extractInterface(decl, exportNode); s != nil {
			return []*model.Symbol{s}
		}
	case "type_alias_declaration":
		if s := e.extractTypeAlias(decl, exportNode); s != nil {
			return []*model.Symbol{s}
		}
	case "enum_declaration":
		if s := e.extractEnum(decl, exportNode); s != nil {
			return []*model.Symbol{s}
		}
	case "lexical_declaration", "variable_declaration":
		return e.extractVariableDeclaration(decl, exportNode)
	}
	return nil
}

func (e *Extractor) text(node *sitter.Node) string {
	return sitterNodeText(e.tree, node)
}

func (e *Extractor) newSymbol(name string, kind model.SymbolKind, signatureNode, exportNode *sitter.Node) *model.Symbol {
	signature := e.text(signatureNode)
	if signature == "" {
		signature = string(kind) + ":" + name
	}
	s := &model.Symbol{
		ID:           model.SymbolID(e.tree.FilePath, name, signature),
		RelPath:      e.tree.FilePath,
		Name:         name,
		Kind:         kind,
		Signature:    signature,
		Doc:          e.leadingDoc(exportNode),
		Visibility:   model.VisibilityPublic,
		ContentHash:  pathutil.HashContent(signature),
		Language:     string(e.tree.Language),
		FirstSeen:    e.now,
		LastModified: e.now,
	}
	if isPrivateName(name) {
		s.Visibility = model.VisibilityPrivate
	}
	s.IsExported = e.isExported(exportNode)
	s.IsDeprecated = strings.Contains(strings.ToLower(s.Doc), "@deprecated")
	return s
}

// isPrivateName applies the conventional "#field"/"_field" private marker.
func isPrivateName(name string) bool {
	return strings.HasPrefix(name, "#") || strings.HasPrefix(name, "_")
}

// isExported reports whether node is (or is wrapped by) an export_statement.
func (e *Extractor) isExported(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	if node.Type() == "export_statement" {
		return true
	}
	parent := node.Parent()
	for parent != nil {
		if parent.Type() == "export_statement" {
			return true
		}
		if strings.HasSuffix(parent.Type(), "_declaration") || strings.HasSuffix(parent.Type(), "_statement") {
			break
		}
		parent = parent.Parent()
	}
	if prev := node.PrevSibling(); prev != nil && e.text(prev) == "export" {
		return true
	}
	return false
}

// leadingDoc concatenates the comment nodes immediately preceding node,
// skipping blank lines between the comment and the declaration.
func (e *Extractor) leadingDoc(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	var lines []string
	sibling := node.PrevSibling()
	for sibling != nil && sibling.Type() == "comment" {
		lines = append([]string{e.text(sibling)}, lines...)
		sibling = sibling.PrevSibling()
	}
	return strings.Join(lines, "\n")
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

func walk(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), fn)
	}
}
