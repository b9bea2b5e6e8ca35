package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/model"
)

func (e *Extractor) extractInterface(node, exportNode *sitter.Node) *model.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.text(nameNode)

	s := e.newSymbol(name, model.KindInterface, node, exportNode)
	if extendsNode := childByType(node, "extends_type_clause"); extendsNode != nil {
		for i := 0; i < int(extendsNode.ChildCount()); i++ {
			child := extendsNode.Child(i)
			if child.Type() == "type_identifier" || child.Type() == "generic_type" {
				s.InterfaceExtends = append(s.InterfaceExtends, e.text(child))
			}
		}
	}
	return s
}

func (e *Extractor) extractTypeAlias(node, exportNode *sitter.Node) *model.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.text(nameNode)

	s := e.newSymbol(name, model.KindTypeAlias, node, exportNode)
	if value := node.ChildByFieldName("value"); value != nil {
		s.AliasedType = e.text(value)
		switch value.Type() {
		case "union_type":
			s.IsUnion = true
		case "intersection_type":
			s.IsIntersection = true
		}
	}
	return s
}

func (e *Extractor) extractEnum(node, exportNode *sitter.Node) *model.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.text(nameNode)
	return e.newSymbol(name, model.KindSymbol, node, exportNode)
}
