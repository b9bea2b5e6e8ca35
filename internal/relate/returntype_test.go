package relate

import (
	"context"
	"testing"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/cache"
	"github.com/codeatlas/parsecore/internal/checker"
	"github.com/codeatlas/parsecore/internal/extract"
	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/pathutil"
	"github.com/codeatlas/parsecore/internal/syntax"
)

// typedHost is a CheckerHost stub that answers GetTypeAtLocation for one
// identifier with a fixed type, standing in for a compiler-backed host the
// heuristic one cannot emulate (it derives types from annotations, and the
// inferred-return-type path only runs when there is no annotation).
type typedHost struct {
	tree *syntax.Tree
	name string
	typ  syntax.Type
}

func (h *typedHost) GetSymbolAtLocation(node *sitter.Node) (syntax.Symbol, bool) {
	return syntax.Symbol{}, false
}

func (h *typedHost) GetResolvedSignature(call *sitter.Node) (syntax.Signature, bool) {
	return syntax.Signature{}, false
}

func (h *typedHost) GetTypeAtLocation(node *sitter.Node) (syntax.Type, bool) {
	if h.tree.NodeText(node) == h.name {
		return h.typ, true
	}
	return syntax.Type{}, false
}

// noFS is a resolve.FileSystem with no files: every specifier misses.
type noFS struct{}

func (noFS) Exists(string) bool { return false }

func parseRelateSource(t *testing.T, path, src string) (*syntax.Tree, []*model.Symbol) {
	t.Helper()
	p, err := syntax.NewParser(pathutil.TypeScript)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	defer p.Close()

	tree, err := p.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tree.FilePath = path
	tree.Language = pathutil.TypeScript
	return tree, extract.New(tree, time.Now()).ExtractSymbols()
}

func cacheEntryFor(tree *syntax.Tree, symbols []*model.Symbol) *cache.Entry {
	m := make(map[string]*model.Symbol, len(symbols))
	for _, s := range symbols {
		m[model.QualifiedKey(s.RelPath, s.Name)] = s
	}
	return &cache.Entry{Symbols: symbols, SymbolMap: m, Tree: tree, LastModified: time.Now()}
}

func TestBuildReturnTypeInfersThroughChecker(t *testing.T) {
	tree, symbols := parseRelateSource(t, "src/maker.ts", `export function makeUser() {
	return current;
}
`)
	defer tree.Close()

	// A second file declaring the same name makes the lookup ambiguous,
	// which is what lets the export-context policy spend a checker call.
	otherTree, otherSymbols := parseRelateSource(t, "src/other.ts", `function makeUser() {}
`)
	defer otherTree.Close()

	c := cache.New()
	c.Set("src/maker.ts", cacheEntryFor(tree, symbols))
	c.Set("src/other.ts", cacheEntryFor(otherTree, otherSymbols))

	host := &typedHost{tree: tree, name: "makeUser", typ: syntax.Type{Name: "User", DeclaringFile: "src/models.ts"}}
	budget := checker.NewBudget(10)

	builder := New(c, noFS{}, budget, host, tree, symbols, time.Now(), DefaultConfig())
	rels := builder.Build()

	var makerID string
	for _, s := range symbols {
		if s.Name == "makeUser" {
			makerID = s.ID
		}
	}
	if makerID == "" {
		t.Fatal("expected makeUser to be extracted")
	}

	var returns *model.Relationship
	for _, r := range rels {
		if r.FromEntityID == makerID && r.Type == model.ReturnsType {
			returns = r
		}
	}
	if returns == nil {
		t.Fatal("expected a RETURNS_TYPE edge inferred through the checker host")
	}
	if returns.ToEntityID != "external:User" {
		t.Errorf("inferred return type target = %s, want external:User", returns.ToEntityID)
	}
	if used, _ := returns.Metadata["usedTypeChecker"].(bool); !used {
		t.Error("expected usedTypeChecker=true on a checker-inferred return type")
	}
	if budget.Stats().Spent == 0 {
		t.Error("expected the inference to consume budget")
	}
}

func TestBuildReturnTypeSkipsInferenceWithoutBudget(t *testing.T) {
	tree, symbols := parseRelateSource(t, "src/maker.ts", `export function makeUser() {
	return current;
}
`)
	defer tree.Close()

	otherTree, otherSymbols := parseRelateSource(t, "src/other.ts", `function makeUser() {}
`)
	defer otherTree.Close()

	c := cache.New()
	c.Set("src/maker.ts", cacheEntryFor(tree, symbols))
	c.Set("src/other.ts", cacheEntryFor(otherTree, otherSymbols))

	host := &typedHost{tree: tree, name: "makeUser", typ: syntax.Type{Name: "User"}}
	budget := checker.NewBudget(0)

	builder := New(c, noFS{}, budget, host, tree, symbols, time.Now(), DefaultConfig())
	for _, r := range builder.Build() {
		if r.Type == model.ReturnsType {
			t.Fatalf("an exhausted budget must skip return-type inference, got edge to %s", r.ToEntityID)
		}
	}
}
