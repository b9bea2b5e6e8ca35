package relate

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/checker"
	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/resolve"
)

// buildFileScoped is a full-tree walk emitting REFERENCES, READS, WRITES,
// and TYPE_USES edges attributed to each node's nearest enclosing
// declaration (or the file itself at top level). Declaration names, call
// callees, import specifiers, and annotation nodes already covered by
// CALLS/RETURNS_TYPE/PARAM_TYPE are skipped here to avoid duplicating
// edges emitted by the symbol-scoped pass.
func (b *Builder) buildFileScoped() {
	if b.tree.Root == nil {
		return
	}
	b.walkFileScoped(b.tree.Root)
}

func (b *Builder) walkFileScoped(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "import_statement":
		return // import-edge extraction owns this subtree

	case "export_clause", "namespace_export":
		return // export specifier names are declarations, not references

	case "function_declaration", "generator_function_declaration", "method_definition",
		"class_declaration", "interface_declaration", "type_alias_declaration", "enum_declaration",
		"public_field_definition", "field_definition":
		nameNode := n.ChildByFieldName("name")
		var skip *sitter.Node
		if n.Type() == "class_declaration" {
			skip = childByType(n, "class_heritage")
		} else if n.Type() == "interface_declaration" {
			skip = childByType(n, "extends_type_clause")
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c == nameNode || c == skip {
				continue
			}
			b.walkFileScoped(c)
		}
		return

	case "variable_declarator":
		// the bound name is a declaration, not a reference; still walk the
		// initializer (and its own type annotation, handled generically).
		if v := n.ChildByFieldName("value"); v != nil {
			b.walkFileScoped(v)
		}
		if t := n.ChildByFieldName("type"); t != nil {
			b.walkFileScoped(t)
		}
		return

	case "formal_parameters":
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "identifier" {
				continue // bare parameter binding: a declaration
			}
			b.walkFileScoped(c)
		}
		return

	case "required_parameter", "optional_parameter", "rest_parameter":
		if v := n.ChildByFieldName("value"); v != nil {
			b.walkFileScoped(v)
		}
		return // pattern (the binding) and type (PARAM_TYPE's job) are skipped

	case "call_expression":
		// callee is CALLS's job; arguments still get walked.
		if args := n.ChildByFieldName("arguments"); args != nil {
			b.walkFileScoped(args)
		}
		return

	case "new_expression":
		b.emitNew(b.enclosingFrom(n), n)
		if args := n.ChildByFieldName("arguments"); args != nil {
			b.walkFileScoped(args)
		}
		return

	case "decorator":
		b.handleDecorator(n)
		return

	case "assignment_expression", "augmented_assignment_expression":
		b.handleAssignment(n)
		return

	case "type_annotation":
		parent := n.Parent()
		if parent != nil {
			switch parent.Type() {
			case "required_parameter", "optional_parameter", "rest_parameter":
				return // PARAM_TYPE already covers it
			case "function_declaration", "generator_function_declaration",
				"arrow_function", "function_expression", "method_definition":
				if parent.ChildByFieldName("return_type") == n {
					return // RETURNS_TYPE already covers it
				}
			}
		}
		b.emitTypeUseFromAnnotation(n)
		return

	case "generic_type":
		b.emitTypeUse(n)
		if args := n.ChildByFieldName("type_arguments"); args != nil {
			b.walkFileScoped(args)
		}
		return

	case "type_identifier":
		b.emitTypeUse(n)
		return

	case "member_expression":
		b.emitPropertyRead(n)
		if obj := n.ChildByFieldName("object"); obj != nil {
			b.walkFileScoped(obj)
		}
		return

	case "identifier":
		b.emitIdentifierReference(n)
		return
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		b.walkFileScoped(n.Child(i))
	}
}

// emitIdentifierReference handles a bare identifier encountered outside
// any of the special-cased contexts above: a plain read of a name.
func (b *Builder) emitIdentifierReference(n *sitter.Node) {
	name := b.text(n)
	if name == "" || b.isStop(name) {
		return
	}
	from := b.enclosingFrom(n)
	res := b.resolveSimpleName(name, checker.ContextReference)
	b.emitRes(from, model.References, res, map[string]any{"kind": "identifier"})
}

// emitPropertyRead handles a member_expression outside an assignment LHS or
// call callee: `a.b` read as a plain property reference.
func (b *Builder) emitPropertyRead(n *sitter.Node) {
	prop := n.ChildByFieldName("property")
	if prop == nil {
		return
	}
	name := b.text(prop)
	if name == "" || b.isStop(name) {
		return
	}
	from := b.enclosingFrom(n)
	res := b.resolveSimpleName(name, checker.ContextReference)
	b.emitRes(from, model.References, res, map[string]any{"kind": "identifier", "accessPath": b.text(n)})
}

// emitTypeUse resolves and emits a TYPE_USES edge for a type_identifier or
// generic_type node (e.g. `Foo` or `Foo<Bar>`).
func (b *Builder) emitTypeUse(n *sitter.Node) {
	text := b.text(n)
	base := stripGenerics(text)
	if base == "" || b.isStop(base) {
		return
	}
	from := b.enclosingFrom(n)
	res := b.resolveSimpleName(base, checker.ContextReference)
	b.emitRes(from, model.TypeUses, res, map[string]any{"kind": "type", "text": text})
}

// emitTypeUseFromAnnotation strips the leading ":" from a type_annotation
// node and emits a TYPE_USES edge for the referenced type.
func (b *Builder) emitTypeUseFromAnnotation(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == ":" || c.Type() == "comment" {
			continue
		}
		b.emitTypeUse(c)
		return
	}
}

// handleDecorator resolves a decorator expression's root identifier via
// the type checker first, then the import map, then an external
// placeholder.
func (b *Builder) handleDecorator(n *sitter.Node) {
	var target *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() != "@" {
			target = c
		}
	}
	if target == nil {
		return
	}
	name := decoratorRootName(b, target)
	if name == "" || b.isStop(name) {
		return
	}
	from := b.enclosingFrom(n)

	var toID string
	used := false
	confidence := externalConfidence
	if b.checkerHost != nil && b.budget != nil {
		if b.budget.ShouldUseTypeChecker(checker.ContextDecorator, checker.Hints{}) && b.budget.TakeBudget() {
			if sym, ok := b.checkerHost.GetSymbolAtLocation(target); ok {
				toID = "file:" + sym.File + ":" + sym.Name
				used = true
				confidence = 0.85
			}
		}
	}
	if toID == "" {
		if moduleFile, ok := b.importMap[name]; ok {
			tgt, found := resolve.ResolveImportedMember(b.cache, b.fs, moduleFile, name, b.importSymbolMap)
			if found {
				toID = "file:" + tgt.File + ":" + tgt.OriginalName
				confidence = 0.8
			}
		}
	}
	if toID == "" {
		toID = "external:" + name
	}
	if confidence < b.cfg.MinInferredConfidence {
		return
	}
	meta := map[string]any{"kind": "decorator"}
	if used {
		meta["usedTypeChecker"] = true
	}
	meta["inferred"] = true
	meta["confidence"] = confidence
	b.emit(from, model.References, toID, meta)
}

func decoratorRootName(b *Builder, n *sitter.Node) string {
	switch n.Type() {
	case "identifier":
		return b.text(n)
	case "call_expression":
		if fn := n.ChildByFieldName("function"); fn != nil {
			return decoratorRootName(b, fn)
		}
	case "member_expression":
		if obj := n.ChildByFieldName("object"); obj != nil {
			return decoratorRootName(b, obj)
		}
	}
	return ""
}

// handleAssignment implements the write/read split of a binary assignment
// expression: the left-hand side names a write target, the right-hand
// side is scanned for reads.
func (b *Builder) handleAssignment(n *sitter.Node) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil {
		return
	}
	from := b.enclosingFrom(n)
	op := assignmentOperator(b, n, left, right)

	switch left.Type() {
	case "identifier":
		b.emitWriteName(from, b.text(left), op, "")
	case "member_expression":
		b.handlePropertyWrite(from, left, op)
	case "object_pattern", "array_pattern":
		for _, name := range b.destructuredNames(left) {
			b.emitWriteName(from, name, op, "")
		}
	default:
		b.walkFileScoped(left)
	}

	if right != nil {
		b.emitReads(from, right)
	}
}

func assignmentOperator(b *Builder, n, left, right *sitter.Node) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == left || c == right {
			continue
		}
		return b.text(c)
	}
	return "="
}

// emitWriteName resolves a simple write target name through the
// local/imported/checker/external ladder and emits a WRITES edge with its
// dataflow-grouping id attached.
func (b *Builder) emitWriteName(from, name, operator, accessPath string) {
	if name == "" || b.isStop(name) {
		return
	}
	res := b.resolveSimpleName(name, checker.ContextReference)
	meta := map[string]any{"kind": "write", "operator": operator, "dataFlowId": dataFlowID(b.relPath, from, name)}
	if accessPath != "" {
		meta["accessPath"] = accessPath
	}
	b.emitRes(from, model.Writes, res, meta)
}

// handlePropertyWrite resolves `a.b = ...`'s target through its own ladder:
// checker on the property expression, then the import map on the root,
// then a same-file name-index search, then an external placeholder.
func (b *Builder) handlePropertyWrite(from string, left *sitter.Node, operator string) {
	prop := left.ChildByFieldName("property")
	if prop == nil {
		b.walkFileScoped(left)
		return
	}
	propName := b.text(prop)
	if propName == "" || b.isStop(propName) {
		return
	}

	var toID string
	used := false
	confidence := externalConfidence
	local := false
	if b.checkerHost != nil && b.budget != nil {
		candidates := b.cache.LookupByName(propName)
		hints := checker.Hints{Ambiguous: len(candidates) > 1}
		if b.budget.ShouldUseTypeChecker(checker.ContextReference, hints) && b.budget.TakeBudget() {
			if sym, ok := b.checkerHost.GetSymbolAtLocation(prop); ok {
				toID = "file:" + sym.File + ":" + sym.Name
				used = true
				confidence = 0.85
			}
		}
	}
	if toID == "" {
		if obj := left.ChildByFieldName("object"); obj != nil && obj.Type() == "identifier" {
			rootName := b.text(obj)
			if moduleFile, ok := b.importMap[rootName]; ok {
				if target, found := resolve.ResolveImportedMember(b.cache, b.fs, moduleFile, propName, b.importSymbolMap); found {
					toID = "file:" + target.File + ":" + target.OriginalName
					confidence = 0.8
				}
			}
		}
	}
	sameFileCandidates := 0
	if toID == "" {
		if candidates := restrictToFile(b.cache.LookupByName(propName), b.relPath); len(candidates) >= 1 {
			toID = candidates[0].ID
			local = true
			sameFileCandidates = len(candidates)
		}
	}
	if toID == "" {
		toID = "external:" + propName
	}
	if !local && confidence < b.cfg.MinInferredConfidence {
		return
	}

	meta := map[string]any{
		"kind": "write", "operator": operator, "accessPath": b.text(left),
		"dataFlowId": dataFlowID(b.relPath, from, propName),
	}
	if sameFileCandidates > 1 {
		meta["ambiguous"] = true
		meta["candidateCount"] = sameFileCandidates
	}
	if used {
		meta["usedTypeChecker"] = true
	}
	if !local {
		meta["inferred"] = true
		meta["confidence"] = confidence
	}
	b.emit(from, model.Writes, toID, meta)
}

func restrictToFile(symbols []*model.Symbol, relPath string) []*model.Symbol {
	var out []*model.Symbol
	for _, s := range symbols {
		if s.RelPath == relPath {
			out = append(out, s)
		}
	}
	return out
}

// destructuredNames flattens an object_pattern/array_pattern into the list
// of identifier names it binds, in source order.
func (b *Builder) destructuredNames(pattern *sitter.Node) []string {
	var names []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "shorthand_property_identifier_pattern", "identifier":
			names = append(names, b.text(n))
			return
		case "pair_pattern":
			if v := n.ChildByFieldName("value"); v != nil {
				walk(v)
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(pattern)
	return names
}

// emitReads walks node (the right-hand side of an assignment) emitting a
// READS edge for every identifier and property access found.
func (b *Builder) emitReads(from string, node *sitter.Node) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "identifier":
			name := b.text(n)
			if name == "" || b.isStop(name) {
				return
			}
			res := b.resolveSimpleName(name, checker.ContextReference)
			b.emitRes(from, model.Reads, res, map[string]any{
				"kind": "read", "dataFlowId": dataFlowID(b.relPath, from, name),
			})
			return
		case "member_expression":
			if prop := n.ChildByFieldName("property"); prop != nil {
				name := b.text(prop)
				if name != "" && !b.isStop(name) {
					res := b.resolveSimpleName(name, checker.ContextReference)
					b.emitRes(from, model.Reads, res, map[string]any{
						"kind": "read", "accessPath": b.text(n),
						"dataFlowId": dataFlowID(b.relPath, from, name),
					})
				}
			}
			if obj := n.ChildByFieldName("object"); obj != nil {
				walk(obj)
			}
			return
		case "call_expression":
			if args := n.ChildByFieldName("arguments"); args != nil {
				walk(args)
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
}
