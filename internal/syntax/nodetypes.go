package syntax

import sitter "github.com/smacker/go-tree-sitter"

// EntityNodeTypes maps tree-sitter node types to the semantic category the
// symbol extractor dispatches on.
var EntityNodeTypes = map[string]string{
	"function_declaration":           "function",
	"function_expression":            "function",
	"arrow_function":                 "function",
	"generator_function_declaration": "function",

	"method_definition": "method",

	"class_declaration": "class",
	"class_expression":  "class",

	"interface_declaration":  "interface",
	"type_alias_declaration": "type",
	"enum_declaration":       "enum",

	"lexical_declaration":  "variable",
	"variable_declaration": "variable",

	"import_statement": "import",
	"export_statement": "export",
	"export_clause":    "export",
}

// IsEntityNode reports whether node represents a code entity.
func IsEntityNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	_, ok := EntityNodeTypes[node.Type()]
	return ok
}

// EntityType returns the semantic entity category for node, or "" if node
// is not an entity-producing node.
func EntityType(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return EntityNodeTypes[node.Type()]
}
