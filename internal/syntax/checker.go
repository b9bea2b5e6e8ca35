package syntax

import sitter "github.com/smacker/go-tree-sitter"

// Symbol is the minimal shape a CheckerHost reports back for a resolved
// declaration: the file that declares it (relative path) and its name.
type Symbol struct {
	File string
	Name string
}

// Signature is the minimal shape reported for a resolved call signature.
type Signature struct {
	File string
	Name string
}

// Type is the minimal shape reported for a resolved expression type.
type Type struct {
	Name          string
	DeclaringFile string
	IsUnion       bool
	IsInterface   bool
}

// CheckerHost is the type-checker-shaped collaborator interface the parser
// core consumes: getSymbolAtLocation, getResolvedSignature, getTypeAtLocation.
// Any method may report (zero, false); the core always falls back to the
// next resolution-ladder rung rather than treating that as an error. A nil
// CheckerHost is valid and means "no checker available at all."
type CheckerHost interface {
	GetSymbolAtLocation(node *sitter.Node) (Symbol, bool)
	GetResolvedSignature(call *sitter.Node) (Signature, bool)
	GetTypeAtLocation(node *sitter.Node) (Type, bool)
}
