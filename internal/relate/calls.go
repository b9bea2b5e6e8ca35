package relate

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/checker"
	"github.com/codeatlas/parsecore/internal/model"
)

// buildSymbolScoped emits every edge rooted at sym: calls, heritage,
// decorators, overrides, throws, return/param types.
func (b *Builder) buildSymbolScoped(sym *model.Symbol) {
	node := b.findDeclNode(sym)
	if node == nil {
		return
	}

	switch sym.Kind {
	case model.KindFunction, model.KindMethod:
		body := node.ChildByFieldName("body")
		b.walkCalls(sym, body)
		b.buildReturnType(sym, node)
		b.buildParamTypes(sym, node)
		b.buildThrows(sym, body)
	case model.KindClass:
		b.buildHeritageEdges(sym, node)
	}
}

// findDeclNode locates the declaration node for sym by signature/name
// match. Symbols were built from the same tree, so a direct text match on
// signature is exact; this avoids threading AST node pointers through the
// model package.
func (b *Builder) findDeclNode(sym *model.Symbol) *sitter.Node {
	var found *sitter.Node
	walkFn(b.tree.Root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		switch n.Type() {
		case "function_declaration", "generator_function_declaration", "class_declaration",
			"method_definition", "arrow_function", "function_expression":
			if b.text(n) == sym.Signature {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

func walkFn(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkFn(node.Child(i), fn)
	}
}

// walkCalls runs the CALLS/REFERENCES/mutator-WRITES pass over sym's body.
func (b *Builder) walkCalls(sym *model.Symbol, body *sitter.Node) {
	if body == nil {
		return
	}
	walkFn(body, func(n *sitter.Node) bool {
		if n.Type() == "call_expression" {
			b.emitCall(sym, n)
		}
		return true
	})
}

func (b *Builder) emitCall(sym *model.Symbol, call *sitter.Node) {
	callee := call.ChildByFieldName("function")
	if callee == nil {
		return
	}
	isMethod := callee.Type() == "member_expression"
	name := b.calleeSimpleName(callee)
	if name == "" || b.isStop(name) {
		return
	}

	res, dynamicDispatch := b.resolveCallTarget(name, call, callee, isMethod)
	meta := map[string]any{
		"kind": "call", "isMethod": isMethod,
		"arity":      argCount(call),
		"awaited":    isAwaited(call),
		"accessPath": b.text(callee),
		"line":       int(call.StartPoint().Row) + 1,
		"column":     int(call.StartPoint().Column) + 1,
		"resolution": res.tag,
		"scope":      res.scope,
	}
	if dynamicDispatch {
		meta["dynamicDispatch"] = true
	}
	b.emitRes(sym.ID, model.Calls, res, cloneMeta(meta))
	b.emitRes(sym.ID, model.References, res, map[string]any{"kind": "reference", "via": "call"})
	if res.scope == "imported" {
		b.emitRes(sym.ID, model.DependsOn, res, map[string]any{})
	}

	if isMethod {
		member := callee.ChildByFieldName("property")
		if member != nil && mutatorMethods[b.text(member)] {
			if recvName := receiverWriteName(b, callee.ChildByFieldName("object")); recvName != "" && !b.isStop(recvName) {
				recvRes := b.resolveSimpleName(recvName, checker.ContextReference)
				b.emitRes(sym.ID, model.Writes, recvRes, map[string]any{
					"kind": "write", "operator": "mutate", "accessPath": b.text(callee),
					"dataFlowId": dataFlowID(b.relPath, sym.ID, recvName),
				})
			}
		}
	}
}

// resolveCallTarget implements the CALLS resolution ladder. For a plain
// call it is resolveSimpleName on the callee's simple name, with the
// checker's resolved-signature query as the last attempt before an edge
// stays an external placeholder. For a property call `obj.m(...)`, it first
// tries to resolve the receiver's declared type via the checker to a
// declaring file, producing file:<declFile>:<m> directly; only when that
// fails does it fall back to the bare method name. It also reports whether
// the receiver's type is a union or interface (dynamic dispatch).
func (b *Builder) resolveCallTarget(name string, call, callee *sitter.Node, isMethod bool) (resolution, bool) {
	if !isMethod {
		res := b.resolveSimpleName(name, checker.ContextCall)
		if res.scope == "external" {
			if sig, ok := b.signatureResolution(call, name); ok {
				return sig, false
			}
		}
		return res, false
	}

	receiver := callee.ChildByFieldName("object")
	if receiver == nil || b.checkerHost == nil || b.budget == nil {
		return b.resolveSimpleName(name, checker.ContextCall), false
	}

	hints := checker.Hints{Ambiguous: true}
	if !b.budget.ShouldUseTypeChecker(checker.ContextCall, hints) || !b.budget.TakeBudget() {
		return b.resolveSimpleName(name, checker.ContextCall), false
	}

	t, ok := b.checkerHost.GetTypeAtLocation(receiver)
	if !ok || t.DeclaringFile == "" {
		return b.resolveSimpleName(name, checker.ContextCall), false
	}

	dynamicDispatch := t.IsUnion || t.IsInterface
	res := resolution{
		toID: "file:" + t.DeclaringFile + ":" + name, scope: "imported",
		tag: "type-checker", confidence: 0.85, usedTypeChecker: true,
	}
	if sym, found := b.cache.LookupLocal(t.DeclaringFile, name); found {
		res.toID = sym.ID
	}
	if t.DeclaringFile == b.relPath {
		res.scope = "local"
	}
	return res, dynamicDispatch
}

// signatureResolution asks the checker host for the signature declaration
// backing call, under the call-context budget policy. With the heuristic
// host this rarely improves on the name ladder, but a host backed by a real
// compiler resolves overloads and re-bound callees the AST rungs cannot.
func (b *Builder) signatureResolution(call *sitter.Node, name string) (resolution, bool) {
	if b.checkerHost == nil || b.budget == nil {
		return resolution{}, false
	}
	hints := checker.Hints{Ambiguous: len(b.cache.LookupByName(name)) > 1, NameLength: len(name)}
	if !b.budget.ShouldUseTypeChecker(checker.ContextCall, hints) || !b.budget.TakeBudget() {
		return resolution{}, false
	}
	sig, ok := b.checkerHost.GetResolvedSignature(call)
	if !ok || sig.File == "" {
		return resolution{}, false
	}
	toID := "file:" + sig.File + ":" + sig.Name
	if sym, found := b.cache.LookupLocal(sig.File, sig.Name); found {
		toID = sym.ID
	}
	return resolution{toID: toID, scope: "imported", tag: "type-checker", confidence: 0.85, usedTypeChecker: true}, true
}

// emitNew handles one `new Foo(...)` instantiation site. Called from the
// file-scoped pass: instantiations are not symbol-call-site specific, so
// from is the nearest enclosing declaration (or the file).
func (b *Builder) emitNew(from string, node *sitter.Node) {
	callee := node.ChildByFieldName("constructor")
	if callee == nil {
		return
	}
	name := b.calleeSimpleName(callee)
	if name == "" || b.isStop(name) {
		return
	}
	res := b.resolveSimpleName(name, checker.ContextReference)
	b.emitRes(from, model.References, res, map[string]any{
		"kind": "instantiation", "line": int(node.StartPoint().Row) + 1,
	})
}

// receiverWriteName names the storage location a mutating method call
// writes: the identifier itself for `xs.push(...)`, the final property
// segment for a chained receiver like `state.items.push(...)`.
func receiverWriteName(b *Builder, receiver *sitter.Node) string {
	if receiver == nil {
		return ""
	}
	switch receiver.Type() {
	case "identifier":
		return b.text(receiver)
	case "member_expression":
		if prop := receiver.ChildByFieldName("property"); prop != nil {
			return b.text(prop)
		}
	}
	return ""
}

// calleeSimpleName returns the rightmost segment of a (possibly qualified)
// callee expression, split on the first dot but applied right-to-left
// since member_expression nests on the object side.
func (b *Builder) calleeSimpleName(callee *sitter.Node) string {
	switch callee.Type() {
	case "identifier":
		return b.text(callee)
	case "member_expression":
		if prop := callee.ChildByFieldName("property"); prop != nil {
			return b.text(prop)
		}
	}
	return ""
}

func argCount(call *sitter.Node) int {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return 0
	}
	n := 0
	for i := 0; i < int(args.ChildCount()); i++ {
		t := args.Child(i).Type()
		if t != "(" && t != ")" && t != "," {
			n++
		}
	}
	return n
}

func isAwaited(node *sitter.Node) bool {
	parent := node.Parent()
	for parent != nil {
		switch parent.Type() {
		case "await_expression":
			return true
		case "parenthesized_expression":
			parent = parent.Parent()
			continue
		}
		return false
	}
	return false
}

func cloneMeta(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
