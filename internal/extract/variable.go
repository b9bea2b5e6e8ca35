package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/model"
)

func (e *Extractor) extractVariableDeclaration(node, exportNode *sitter.Node) []*model.Symbol {
	var out []*model.Symbol
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		if s := e.extractDeclarator(child, exportNode); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (e *Extractor) extractDeclarator(node, exportNode *sitter.Node) *model.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil || nameNode.Type() != "identifier" {
		return nil
	}
	name := e.text(nameNode)

	value := node.ChildByFieldName("value")
	if value != nil {
		switch value.Type() {
		case "arrow_function", "function_expression":
			return e.extractArrowOrFunctionExpr(value, name, exportNode)
		}
	}

	s := e.newSymbol(name, model.KindVariable, node, exportNode)
	s.ReturnType = e.extractTypeAnnotation(node)
	return s
}
