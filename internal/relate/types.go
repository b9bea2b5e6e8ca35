package relate

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/checker"
	"github.com/codeatlas/parsecore/internal/model"
)

// buildHeritageEdges emits EXTENDS/IMPLEMENTS and OVERRIDES for a class
// symbol.
func (b *Builder) buildHeritageEdges(sym *model.Symbol, classNode *sitter.Node) {
	var baseToID string
	var usedChecker bool

	if sym.Extends != "" {
		res := b.resolveSimpleName(sym.Extends, checker.ContextHeritage)
		retagPlaceholder(&res, "class", sym.Extends)
		b.emitRes(sym.ID, model.Extends, res, map[string]any{})
		baseToID = res.toID
		usedChecker = res.usedTypeChecker
	}
	for _, impl := range sym.Implements {
		res := b.resolveSimpleName(impl, checker.ContextHeritage)
		retagPlaceholder(&res, "interface", impl)
		b.emitRes(sym.ID, model.Implements, res, map[string]any{})
	}

	if baseToID == "" {
		return
	}
	baseFile, ok := declaringFile(baseToID)
	if !ok {
		return
	}
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		if member.Type() != "method_definition" {
			continue
		}
		nameNode := member.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		methodName := b.text(nameNode)
		toID := "file:" + baseFile + ":" + methodName
		if concrete, ok := b.cache.LookupLocal(baseFile, methodName); ok {
			toID = concrete.ID
		}
		meta := map[string]any{}
		if usedChecker {
			meta["usedTypeChecker"] = true
		}
		b.emit(methodSymbolID(b, sym, methodName), model.Overrides, toID, meta)
	}
}

// retagPlaceholder rewrites an external-tier resolution's target to the
// kind-specific placeholder form heritage and throw edges carry
// (class:<name>, interface:<name>) instead of the generic external one.
func retagPlaceholder(res *resolution, prefix, name string) {
	if res.scope == "external" {
		res.toID = prefix + ":" + name
	}
}

// declaringFile extracts the file a resolved heritage target lives in: the
// path segment of a file:<path>:<symbol> placeholder, or the relPath baked
// into a concrete sym: id. Unresolved (class:/external:) targets have no
// declaring file and report false.
func declaringFile(toID string) (file string, ok bool) {
	if ref, parsed := model.ParseEntityID(toID); parsed && ref.Kind == "sym" {
		return ref.RelPath, true
	}
	const prefix = "file:"
	if len(toID) <= len(prefix) || toID[:len(prefix)] != prefix {
		return "", false
	}
	rest := toID[len(prefix):]
	idx := -1
	for i := len(rest) - 1; i >= 0; i-- {
		if rest[i] == ':' {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", false
	}
	return rest[:idx], true
}

func methodSymbolID(b *Builder, classSym *model.Symbol, methodName string) string {
	for _, s := range b.symbols {
		if s.Kind == model.KindMethod && s.Receiver == classSym.Name && s.Name == methodName {
			return s.ID
		}
	}
	return classSym.ID
}

// buildThrows emits THROWS edges for every throw statement in body.
func (b *Builder) buildThrows(sym *model.Symbol, body *sitter.Node) {
	if body == nil {
		return
	}
	walkFn(body, func(n *sitter.Node) bool {
		if n.Type() != "throw_statement" {
			return true
		}
		target := throwTargetName(b, n)
		if target == "" {
			return true
		}
		res := b.resolveSimpleName(target, checker.ContextReference)
		retagPlaceholder(&res, "class", target)
		meta := map[string]any{"line": int(n.StartPoint().Row) + 1}
		if candidates := b.cache.LookupByName(target); len(candidates) > 1 {
			meta["ambiguous"] = true
			meta["candidateCount"] = len(candidates)
		}
		b.emitRes(sym.ID, model.Throws, res, meta)
		return true
	})
}

func throwTargetName(b *Builder, throwStmt *sitter.Node) string {
	var expr *sitter.Node
	for i := 0; i < int(throwStmt.ChildCount()); i++ {
		child := throwStmt.Child(i)
		if child.Type() != "throw" && child.Type() != ";" {
			expr = child
			break
		}
	}
	if expr == nil {
		return ""
	}
	if expr.Type() == "new_expression" {
		if ctor := expr.ChildByFieldName("constructor"); ctor != nil {
			return b.calleeSimpleName(ctor)
		}
	}
	return b.calleeSimpleName(expr)
}

// buildReturnType emits RETURNS_TYPE for fn's declared (or checker-inferred)
// return type.
func (b *Builder) buildReturnType(sym *model.Symbol, fn *sitter.Node) {
	typeName := sym.ReturnType
	usedChecker := false
	if typeName == "" {
		// No annotation: ask the checker about the function's name node (the
		// whole declaration node has no identity a symbol table can answer
		// for). Exported declarations use the export context; the rest keep
		// the stricter reference policy.
		nameNode := fn.ChildByFieldName("name")
		if nameNode == nil || b.checkerHost == nil || b.budget == nil {
			return
		}
		ctx := checker.ContextReference
		if sym.IsExported {
			ctx = checker.ContextExport
		}
		hints := checker.Hints{
			Ambiguous:  len(b.cache.LookupByName(sym.Name)) > 1,
			NameLength: len(sym.Name),
		}
		if !b.budget.ShouldUseTypeChecker(ctx, hints) || !b.budget.TakeBudget() {
			return
		}
		if t, ok := b.checkerHost.GetTypeAtLocation(nameNode); ok {
			typeName = t.Name
			usedChecker = true
		} else {
			return
		}
	}
	base := stripGenerics(typeName)
	if base == "" || b.isStop(base) {
		return
	}
	res := b.resolveSimpleName(base, checker.ContextReference)
	meta := map[string]any{}
	if usedChecker {
		meta["usedTypeChecker"] = true
	}
	b.emitRes(sym.ID, model.ReturnsType, res, meta)
}

// buildParamTypes emits PARAM_TYPE and DEPENDS_ON for each declared
// parameter type.
func (b *Builder) buildParamTypes(sym *model.Symbol, fn *sitter.Node) {
	for _, p := range sym.Params {
		if p.Type == "" {
			continue
		}
		base := stripGenerics(p.Type)
		if base == "" || b.isStop(base) {
			continue
		}
		res := b.resolveSimpleName(base, checker.ContextReference)
		b.emitRes(sym.ID, model.ParamType, res, map[string]any{"param": p.Name})

		// DEPENDS_ON uses its own type-specific confidence scale rather than
		// the resolution ladder's, since a parameter's declared type is a
		// weaker dependency signal than a direct reference to the same name.
		confidence := 0.4
		switch res.scope {
		case "local":
			confidence = 0.9
		case "imported":
			confidence = 0.6
		}
		if confidence < b.cfg.MinInferredConfidence {
			continue
		}
		b.emit(sym.ID, model.DependsOn, res.toID, map[string]any{
			"param": p.Name, "confidence": confidence, "inferred": res.scope != "local",
		})
	}
}
