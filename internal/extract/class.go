package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/pathutil"
)

// extractClass produces the class symbol plus one symbol per method in its
// body, each carrying Receiver = the class name.
func (e *Extractor) extractClass(node, exportNode *sitter.Node) []*model.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.text(nameNode)

	s := e.newSymbol(name, model.KindClass, node, exportNode)
	if heritage := childByType(node, "class_heritage"); heritage != nil {
		s.Extends, s.Implements = e.extractHeritage(heritage)
	}
	s.IsAbstract = hasKeywordChild(node, "abstract")

	out := []*model.Symbol{s}
	if body := node.ChildByFieldName("body"); body != nil {
		out = append(out, e.extractClassMembers(body, name)...)
	}
	return out
}

func (e *Extractor) extractClassMembers(body *sitter.Node, className string) []*model.Symbol {
	var out []*model.Symbol
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "method_definition":
			if s := e.extractMethod(child, className); s != nil {
				out = append(out, s)
			}
		case "public_field_definition", "field_definition":
			if s := e.extractFieldMember(child, className); s != nil {
				out = append(out, s)
			}
		}
	}
	return out
}

func (e *Extractor) extractMethod(node *sitter.Node, className string) *model.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.text(nameNode)

	s := e.newSymbol(name, model.KindMethod, node, node)
	s.Receiver = className
	s.Params = e.extractParams(node.ChildByFieldName("parameters"))
	s.ReturnType = e.extractReturnType(node)
	s.IsAsync = hasKeywordChild(node, "async")
	mod := childByType(node, "accessibility_modifier")
	if hasKeywordChild(node, "private") || (mod != nil && hasKeywordChild(mod, "private")) {
		s.Visibility = model.VisibilityPrivate
	} else if hasKeywordChild(node, "protected") || (mod != nil && hasKeywordChild(mod, "protected")) {
		s.Visibility = model.VisibilityProtected
	}
	if body := node.ChildByFieldName("body"); body != nil {
		s.Complexity = pathutil.Complexity(body)
	}
	return s
}

func (e *Extractor) extractFieldMember(node *sitter.Node, className string) *model.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = node.ChildByFieldName("property")
	}
	if nameNode == nil {
		return nil
	}
	name := e.text(nameNode)

	s := e.newSymbol(name, model.KindProperty, node, node)
	s.Receiver = className
	s.ReturnType = e.extractTypeAnnotation(node)
	mod := childByType(node, "accessibility_modifier")
	if hasKeywordChild(node, "private") || (mod != nil && hasKeywordChild(mod, "private")) {
		s.Visibility = model.VisibilityPrivate
	} else if hasKeywordChild(node, "protected") || (mod != nil && hasKeywordChild(mod, "protected")) {
		s.Visibility = model.VisibilityProtected
	}
	return s
}

// extractHeritage splits a class_heritage node into its extends/implements
// lists, kept as distinct fields rather than flattened into one slice.
func (e *Extractor) extractHeritage(heritage *sitter.Node) (extends string, implements []string) {
	for i := 0; i < int(heritage.ChildCount()); i++ {
		clause := heritage.Child(i)
		switch clause.Type() {
		case "extends_clause":
			walk(clause, func(n *sitter.Node) bool {
				if (n.Type() == "type_identifier" || n.Type() == "identifier") && extends == "" {
					extends = e.text(n)
				}
				return true
			})
		case "implements_clause", "class_implements":
			for j := 0; j < int(clause.ChildCount()); j++ {
				member := clause.Child(j)
				if member.Type() == "type_identifier" || member.Type() == "generic_type" {
					implements = append(implements, e.text(member))
				}
			}
		}
	}
	return extends, implements
}
