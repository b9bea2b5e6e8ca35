// Package relate implements the relationship builder: it walks one file's
// syntax tree and symbol list and emits every typed edge the extractor
// pipeline defines, through the same local → imported → type-checker →
// placeholder resolution ladder at every site that names another entity.
// An unresolved target becomes an external:<name> placeholder edge rather
// than being dropped, since placeholder envelopes are first-class output,
// not something to discard.
package relate

import (
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/cache"
	"github.com/codeatlas/parsecore/internal/checker"
	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/pathutil"
	"github.com/codeatlas/parsecore/internal/resolve"
	"github.com/codeatlas/parsecore/internal/syntax"
)

// defaultStopNames are identifiers never worth emitting an edge for: language
// keywords and builtin values that name no declaration. Names that are too
// short are filtered separately by MinNameLength in isStop.
var defaultStopNames = map[string]bool{
	"this": true, "super": true, "undefined": true, "null": true,
	"true": true, "false": true, "arguments": true,
}

// mutatorMethods are the method names treated as writes to their receiver
// when called: the builtin collection mutators.
var mutatorMethods = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true, "splice": true,
	"sort": true, "reverse": true, "copyWithin": true, "fill": true,
	"set": true, "delete": true, "clear": true, "add": true,
}

// Config holds the resolution-tuning options exposed to callers.
type Config struct {
	MinNameLength         int
	MinInferredConfidence float64
	StopNames             map[string]bool
	PathAliases           map[string]string
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{MinNameLength: 2, MinInferredConfidence: 0.5, StopNames: defaultStopNames}
}

// Builder emits relationships for one file.
type Builder struct {
	cache       *cache.Cache
	fs          resolve.FileSystem
	budget      *checker.Budget
	checkerHost syntax.CheckerHost
	tree        *syntax.Tree
	symbols     []*model.Symbol
	relPath     string
	now         time.Time
	cfg         Config

	importMap       map[string]string // alias -> resolved relPath
	importSymbolMap map[string]string // alias -> original exported name

	edges   []*model.Relationship
	seenAgg map[string]*model.Relationship // "(from|to)" -> representative, for aggregation
	seen    map[string]bool                // "(from|type|to)" -> emitted, for non-aggregated dedupe

	declNodes map[*sitter.Node]*model.Symbol // decl node -> owning symbol, for enclosing-declaration lookup
}

// New builds a Builder for one file's pass.
func New(c *cache.Cache, fs resolve.FileSystem, budget *checker.Budget, host syntax.CheckerHost, tree *syntax.Tree, symbols []*model.Symbol, now time.Time, cfg Config) *Builder {
	return &Builder{
		cache:           c,
		fs:              fs,
		budget:          budget,
		checkerHost:     host,
		tree:            tree,
		symbols:         symbols,
		relPath:         tree.FilePath,
		now:             now,
		cfg:             cfg,
		importMap:       map[string]string{},
		importSymbolMap: map[string]string{},
		seenAgg:         map[string]*model.Relationship{},
		seen:            map[string]bool{},
		declNodes:       map[*sitter.Node]*model.Symbol{},
	}
}

// Build runs all three passes (imports, symbol-scoped, file-scoped) and
// returns the normalized, deduplicated relationship set.
func (b *Builder) Build() []*model.Relationship {
	b.indexDeclNodes()
	b.buildImports()
	for _, sym := range b.symbols {
		b.buildSymbolScoped(sym)
	}
	b.buildFileScoped()
	return b.edges
}

// indexDeclNodes locates each symbol's declaration node once up front so
// both the symbol-scoped and file-scoped passes can share it: the former
// to find a symbol's body, the latter to find a node's nearest enclosing
// declaration to attribute a file-scoped site to.
func (b *Builder) indexDeclNodes() {
	for _, sym := range b.symbols {
		if node := b.findDeclNode(sym); node != nil {
			b.declNodes[node] = sym
		}
	}
}

// enclosingFrom walks node's ancestor chain to the nearest indexed
// declaration and returns its symbol id, or the file entity id if node has
// no enclosing declaration (top-level file scope).
func (b *Builder) enclosingFrom(node *sitter.Node) string {
	for n := node; n != nil; n = n.Parent() {
		if sym, ok := b.declNodes[n]; ok {
			return sym.ID
		}
	}
	return fileEntityID(b.relPath)
}

func (b *Builder) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return b.tree.NodeText(node)
}

func (b *Builder) isStop(name string) bool {
	if len(name) < b.cfg.MinNameLength {
		return true
	}
	return b.cfg.StopNames[name]
}

// emit adds a relationship honoring the aggregation contract: for
// aggregated types, a second site for the same (from,to) bumps
// occurrencesScan on the first-seen record instead of creating a new one.
func (b *Builder) emit(from string, typ model.RelationshipType, to string, meta map[string]any) {
	if typ.Aggregated() {
		key := from + "|" + string(typ) + "|" + to
		if existing, ok := b.seenAgg[key]; ok {
			n, _ := existing.Metadata["occurrencesScan"].(int)
			existing.Metadata["occurrencesScan"] = n + 1
			return
		}
		if meta == nil {
			meta = map[string]any{}
		}
		meta["occurrencesScan"] = 1
		rel := model.NewRelationship(from, typ, to, b.now, meta)
		b.seenAgg[key] = rel
		b.edges = append(b.edges, rel)
		return
	}

	key := from + "|" + string(typ) + "|" + to
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.edges = append(b.edges, model.NewRelationship(from, typ, to, b.now, meta))
}

// emitRes emits a relationship whose target came from resolveSimpleName's
// ladder, attaching confidence/inferred metadata and applying the
// minInferredConfidence gate: a non-local resolution scoring below the
// configured floor is dropped rather than emitted, never half-written.
func (b *Builder) emitRes(from string, typ model.RelationshipType, res resolution, meta map[string]any) {
	if meta == nil {
		meta = map[string]any{}
	}
	if res.scope != "local" {
		meta["inferred"] = true
		meta["confidence"] = res.confidence
		if res.confidence < b.cfg.MinInferredConfidence {
			return
		}
	}
	if res.usedTypeChecker {
		meta["usedTypeChecker"] = true
	}
	b.emit(from, typ, res.toID, meta)
}

// resolution is the outcome of running the four-tier resolution ladder
// against a simple name.
type resolution struct {
	toID            string
	scope           string // local | imported | external | unknown
	tag             string // direct | via-import | type-checker | heuristic
	confidence      float64
	usedTypeChecker bool
}

// resolveSimpleName implements the ladder shared by calls, heritage,
// decorators, throws, and reads/writes: local index, then the file's
// import map via deep export resolution, then (for contexts that allow it)
// the type checker, then an external placeholder.
func (b *Builder) resolveSimpleName(name string, ctx checker.Context) resolution {
	if sym, ok := b.cache.LookupLocal(b.relPath, name); ok {
		return resolution{toID: sym.ID, scope: "local", tag: "direct", confidence: 0.95}
	}

	if moduleFile, ok := b.importMap[name]; ok {
		target, found := resolve.ResolveImportedMember(b.cache, b.fs, moduleFile, name, b.importSymbolMap)
		if found {
			toID := "file:" + target.File + ":" + target.OriginalName
			if sym, ok := b.cache.LookupLocal(target.File, target.OriginalName); ok {
				toID = sym.ID
			}
			return resolution{toID: toID, scope: "imported", tag: "via-import", confidence: 0.8}
		}
		return resolution{toID: "import:" + moduleFile + ":" + name, scope: "imported", tag: "via-import", confidence: 0.6}
	}

	if b.checkerHost != nil && b.budget != nil {
		candidates := b.cache.LookupByName(name)
		hints := checker.Hints{Imported: false, Ambiguous: len(candidates) > 1, NameLength: len(name)}
		if b.budget.ShouldUseTypeChecker(ctx, hints) && b.budget.TakeBudget() {
			if best := bestCandidate(candidates, b.relPath); best != nil {
				return resolution{toID: best.ID, scope: "imported", tag: "type-checker", confidence: 0.85, usedTypeChecker: true}
			}
		}
	}

	return resolution{toID: "external:" + name, scope: "external", tag: "heuristic", confidence: externalConfidence}
}

// externalConfidence is the fixed intrinsic score of the external-placeholder
// tier: the lowest rung of the ladder, sitting exactly at the default
// confidence floor so placeholders survive a default configuration but are
// the first edges dropped when a caller raises the gate.
const externalConfidence = 0.5

// bestCandidate picks the name-index candidate to concretize a reference to.
// A single candidate wins outright. Among several, the one sharing strictly
// more leading path segments with relPath than every other wins; a tie means
// no winner and the reference stays a placeholder.
func bestCandidate(candidates []*model.Symbol, relPath string) *model.Symbol {
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}
	var best *model.Symbol
	bestScore, runnerUp := -1, -1
	for _, c := range candidates {
		score := sharedPrefixSegments(c.RelPath, relPath)
		if score > bestScore {
			runnerUp = bestScore
			bestScore = score
			best = c
		} else if score > runnerUp {
			runnerUp = score
		}
	}
	if bestScore > runnerUp {
		return best
	}
	return nil
}

func sharedPrefixSegments(a, b string) int {
	as, bs := strings.Split(a, "/"), strings.Split(b, "/")
	n := 0
	for n < len(as) && n < len(bs) && as[n] == bs[n] {
		n++
	}
	return n
}

func dataFlowID(filePath, enclosingID, name string) string {
	return "df_" + pathutil.ShortHash(filePath+"|"+enclosingID+"|"+name)
}

func stripGenerics(typeName string) string {
	if i := strings.IndexByte(typeName, '<'); i >= 0 {
		typeName = typeName[:i]
	}
	for _, sep := range []string{"|", "&"} {
		if i := strings.Index(typeName, sep); i >= 0 {
			typeName = typeName[:i]
		}
	}
	return strings.TrimSpace(typeName)
}
