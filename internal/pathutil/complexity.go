package pathutil

import sitter "github.com/smacker/go-tree-sitter"

// branchingNodeTypes are the tree-sitter node types counted as a branch by
// Complexity. Purely syntactic: the type checker is never consulted.
var branchingNodeTypes = map[string]bool{
	"if_statement":           true,
	"for_statement":          true,
	"for_in_statement":       true,
	"while_statement":        true,
	"do_statement":           true,
	"switch_case":            true,
	"ternary_expression":     true,
	"conditional_expression": true,
	"catch_clause":           true,
}

// Complexity computes a cyclomatic-complexity-like count: 1 plus the number
// of branching constructs (if/for/while/do-while/case/ternary/catch) found
// in node's subtree.
func Complexity(node *sitter.Node) int {
	count := 1
	if node == nil {
		return count
	}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if branchingNodeTypes[n.Type()] {
			count++
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return count
}
