// Package syntax wraps tree-sitter to provide the "compiler host" shape the
// parser core consumes: a syntax tree with per-node kind and textual range,
// plus an optional, best-effort type checker. It supports the
// TypeScript/JavaScript/TSX grammar family.
package syntax

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/codeatlas/parsecore/internal/corerr"
	"github.com/codeatlas/parsecore/internal/pathutil"
)

// Parser wraps a tree-sitter parser configured for exactly one language.
type Parser struct {
	parser *sitter.Parser
	lang   pathutil.Language
}

// NewParser creates a parser for the given language. Only the
// TypeScript/TSX/JavaScript family is supported for real parsing; any other
// language reports UnsupportedLanguageError.
func NewParser(lang pathutil.Language) (*Parser, error) {
	p := sitter.NewParser()
	switch lang {
	case pathutil.TypeScript:
		p.SetLanguage(typescript.GetLanguage())
	case pathutil.TSX:
		p.SetLanguage(tsx.GetLanguage())
	case pathutil.JavaScript:
		p.SetLanguage(javascript.GetLanguage())
	default:
		return nil, &corerr.UnsupportedLanguageError{Language: string(lang)}
	}
	return &Parser{parser: p, lang: lang}, nil
}

// Tree holds a parsed AST plus the source bytes it was derived from.
type Tree struct {
	Tree     *sitter.Tree
	Root     *sitter.Node
	Source   []byte
	FilePath string
	Language pathutil.Language
}

// Parse parses source and returns the resulting Tree.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &corerr.ParseError{Message: err.Error(), Severity: corerr.SeverityError}
	}
	return &Tree{
		Tree:     tree,
		Root:     tree.RootNode(),
		Source:   source,
		Language: p.lang,
	}, nil
}

// Close releases parser resources. The parser must not be used afterward.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// Close releases the parse tree's resources.
func (t *Tree) Close() {
	if t.Tree != nil {
		t.Tree.Close()
		t.Tree = nil
		t.Root = nil
	}
}

// HasErrors reports whether the parse tree contains syntax errors.
func (t *Tree) HasErrors() bool {
	if t.Root == nil {
		return false
	}
	return t.Root.HasError()
}

// WalkNodes traverses the AST depth-first, calling visitor for each node.
// Traversal stops early if visitor returns false.
func (t *Tree) WalkNodes(visitor func(*sitter.Node) bool) {
	if t.Root == nil {
		return
	}
	walkNode(t.Root, visitor)
}

func walkNode(node *sitter.Node, visitor func(*sitter.Node) bool) bool {
	if !visitor(node) {
		return false
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if !walkNode(node.Child(i), visitor) {
			return false
		}
	}
	return true
}

// FindNodesByType returns all nodes of the given tree-sitter type.
func (t *Tree) FindNodesByType(nodeType string) []*sitter.Node {
	var nodes []*sitter.Node
	t.WalkNodes(func(n *sitter.Node) bool {
		if n.Type() == nodeType {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}

// NodeText returns the source text for a node, bounds-checked against the
// tree's source buffer to avoid a slice-out-of-range panic on a node from a
// stale tree.
func (t *Tree) NodeText(node *sitter.Node) string {
	if node == nil || t.Source == nil {
		return ""
	}
	if node.EndByte() > uint32(len(t.Source)) {
		return ""
	}
	return node.Content(t.Source)
}
