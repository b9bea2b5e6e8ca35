package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/pathutil"
)

func (e *Extractor) extractFunction(node, exportNode *sitter.Node) *model.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.text(nameNode)

	s := e.newSymbol(name, model.KindFunction, node, exportNode)
	s.Params = e.extractParams(node.ChildByFieldName("parameters"))
	s.ReturnType = e.extractReturnType(node)
	s.IsAsync = hasKeywordChild(node, "async")
	s.IsGenerator = node.Type() == "generator_function_declaration" || childByType(node, "*") != nil
	if body := node.ChildByFieldName("body"); body != nil {
		s.Complexity = pathutil.Complexity(body)
	}
	return s
}

// extractArrowOrFunctionExpr handles arrow_function / function_expression
// declarations bound to a name via a variable_declarator.
func (e *Extractor) extractArrowOrFunctionExpr(node *sitter.Node, name string, exportNode *sitter.Node) *model.Symbol {
	s := e.newSymbol(name, model.KindFunction, node, exportNode)
	params := node.ChildByFieldName("parameters")
	if params == nil {
		params = node.ChildByFieldName("parameter")
	}
	s.Params = e.extractParams(params)
	s.ReturnType = e.extractReturnType(node)
	s.IsAsync = hasKeywordChild(node, "async")
	if body := node.ChildByFieldName("body"); body != nil {
		s.Complexity = pathutil.Complexity(body)
	}
	return s
}

func hasKeywordChild(node *sitter.Node, keyword string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == keyword {
			return true
		}
	}
	return false
}

func (e *Extractor) extractParams(paramsNode *sitter.Node) []model.Param {
	if paramsNode == nil {
		return nil
	}
	var params []model.Param
	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(i)
		switch child.Type() {
		case "required_parameter", "rest_parameter":
			if p := e.extractParam(child); p != nil {
				params = append(params, *p)
			}
		case "optional_parameter":
			if p := e.extractParam(child); p != nil {
				p.Optional = true
				params = append(params, *p)
			}
		case "identifier":
			params = append(params, model.Param{Name: e.text(child)})
		}
	}
	return params
}

func (e *Extractor) extractParam(node *sitter.Node) *model.Param {
	pattern := node.ChildByFieldName("pattern")
	if pattern == nil {
		pattern = node.ChildByFieldName("name")
	}
	if pattern == nil {
		return nil
	}
	typeName := e.extractTypeAnnotation(node)
	if node.Type() == "rest_parameter" && typeName != "" {
		typeName = "..." + typeName
	}
	p := &model.Param{Name: e.text(pattern), Type: typeName}
	if v := node.ChildByFieldName("value"); v != nil {
		p.DefaultValue = e.text(v)
	}
	return p
}

// extractTypeAnnotation finds a ": Type" child and returns Type.
func (e *Extractor) extractTypeAnnotation(node *sitter.Node) string {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		typeNode = childByType(node, "type_annotation")
	}
	if typeNode == nil {
		return ""
	}
	if typeNode.Type() == "type_annotation" {
		return e.stripAnnotationColon(typeNode)
	}
	return e.text(typeNode)
}

func (e *Extractor) stripAnnotationColon(node *sitter.Node) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == ":" || child.Type() == "comment" {
			continue
		}
		return e.text(child)
	}
	return ""
}

func (e *Extractor) extractReturnType(node *sitter.Node) string {
	if returnNode := node.ChildByFieldName("return_type"); returnNode != nil {
		if returnNode.Type() == "type_annotation" {
			return e.stripAnnotationColon(returnNode)
		}
		return e.text(returnNode)
	}
	paramsSeen := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "formal_parameters" {
			paramsSeen = true
			continue
		}
		if paramsSeen && child.Type() == "type_annotation" {
			return e.stripAnnotationColon(child)
		}
	}
	return ""
}
