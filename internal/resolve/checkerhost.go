package resolve

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/cache"
	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/syntax"
)

// HeuristicCheckerHost is the weaker, budget-gated approximation of a real
// compiler type checker sanctioned in place of one (no TypeScript compiler
// is embedded in this module): it answers symbol/type/signature questions
// by looking the node's text up in the cache's global name index rather
// than by evaluating the type system. A single unambiguous match in the
// index is treated as resolved; zero or multiple matches are "unknown."
type HeuristicCheckerHost struct {
	cache *cache.Cache
	tree  *syntax.Tree
}

// NewHeuristicCheckerHost builds a checker host scoped to one file's tree,
// consulting c's global indexes for cross-file lookups.
func NewHeuristicCheckerHost(c *cache.Cache, tree *syntax.Tree) *HeuristicCheckerHost {
	return &HeuristicCheckerHost{cache: c, tree: tree}
}

func (h *HeuristicCheckerHost) lookupUnique(name string) (*model.Symbol, bool) {
	candidates := h.cache.LookupByName(name)
	if len(candidates) != 1 {
		return nil, false
	}
	return candidates[0], true
}

// GetSymbolAtLocation resolves node's identifier text to the unique
// same-named symbol known across the scan, if any.
func (h *HeuristicCheckerHost) GetSymbolAtLocation(node *sitter.Node) (syntax.Symbol, bool) {
	name := h.tree.NodeText(node)
	sym, ok := h.lookupUnique(name)
	if !ok {
		return syntax.Symbol{}, false
	}
	return syntax.Symbol{File: sym.RelPath, Name: sym.Name}, true
}

// GetResolvedSignature approximates "the declared signature backing this
// call" by resolving the callee expression's root identifier the same way
// GetSymbolAtLocation does.
func (h *HeuristicCheckerHost) GetResolvedSignature(call *sitter.Node) (syntax.Signature, bool) {
	callee := call.ChildByFieldName("function")
	if callee == nil {
		return syntax.Signature{}, false
	}
	root := callee
	for root.Type() == "member_expression" {
		obj := root.ChildByFieldName("object")
		if obj == nil {
			break
		}
		root = obj
	}
	name := h.tree.NodeText(root)
	sym, ok := h.lookupUnique(name)
	if !ok {
		return syntax.Signature{}, false
	}
	return syntax.Signature{File: sym.RelPath, Name: sym.Name}, true
}

// GetTypeAtLocation approximates "the declared type of this expression" by
// treating an identifier's unique same-named class/interface/type-alias
// symbol as its type.
func (h *HeuristicCheckerHost) GetTypeAtLocation(node *sitter.Node) (syntax.Type, bool) {
	name := h.tree.NodeText(node)
	sym, ok := h.lookupUnique(name)
	if !ok {
		return syntax.Type{}, false
	}
	switch sym.Kind {
	case model.KindClass, model.KindInterface, model.KindTypeAlias:
		return syntax.Type{
			Name:          sym.Name,
			DeclaringFile: sym.RelPath,
			IsUnion:       sym.IsUnion,
			IsInterface:   sym.Kind == model.KindInterface,
		}, true
	}
	// Fall back to the symbol's declared/returned type text, if any.
	typeName := sym.ReturnType
	if typeName == "" {
		return syntax.Type{}, false
	}
	return syntax.Type{Name: typeName, DeclaringFile: sym.RelPath}, true
}
