// Package incremental implements the incremental parser: it drives one
// scan across a set of files and directories, reusing cached results for
// unchanged content and running the full extract/relate pipeline only on
// what changed, then reports the entity/relationship delta against the
// state the cache held coming in.
package incremental

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/codeatlas/parsecore/internal/cache"
	"github.com/codeatlas/parsecore/internal/checker"
	"github.com/codeatlas/parsecore/internal/corerr"
	"github.com/codeatlas/parsecore/internal/directory"
	"github.com/codeatlas/parsecore/internal/extract"
	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/pathutil"
	"github.com/codeatlas/parsecore/internal/relate"
	"github.com/codeatlas/parsecore/internal/resolve"
	"github.com/codeatlas/parsecore/internal/syntax"
)

// Config carries the resolution-tuning knobs: the type-checker budget and
// the relationship builder's name-length/confidence/stop-name policy.
type Config struct {
	TypeCheckerBudget int
	Relate            relate.Config
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{TypeCheckerBudget: checker.DefaultBudget, Relate: relate.DefaultConfig()}
}

// Input describes one scan request: an explicit file list, a set of
// directories to discover files under, and whether to treat the cache as
// authoritative (Incremental=false forces a full rescan by clearing it
// first). Cancel, if non-nil, is polled between files; a scan stops as soon
// as it observes the channel closed or receivable, leaving every
// already-completed file's cache entry intact.
type Input struct {
	Files       []string
	Directories []string
	Incremental bool
	Cancel      <-chan struct{}
}

// ParseResult is the wire contract of one scan: the full current entity and
// relationship sets for the files touched by Input, the diagnostics
// collected along the way, and the delta against what the cache held for
// those same files before this call.
type ParseResult struct {
	Files         []*model.File
	Directories   []*model.Directory
	Symbols       []*model.Symbol
	Relationships []*model.Relationship
	Errors        []*corerr.ParseError

	IsIncremental bool

	AddedEntities        []string
	RemovedEntities      []string
	UpdatedEntities      []string
	AddedRelationships   []string
	RemovedRelationships []string
}

// Parser owns the cache and configuration for one long-lived scan scope: a
// daemon-style caller keeps one Parser alive across many Parse calls to get
// real incremental behavior; a one-shot caller constructs one per run.
type Parser struct {
	cache *cache.Cache
	fs    FileSystem
	cfg   Config
}

// New creates a Parser reading through fs, with an empty cache.
func New(fs FileSystem, cfg Config) *Parser {
	return &Parser{cache: cache.New(), fs: fs, cfg: cfg}
}

// Cache exposes the underlying cache manager, mainly so a caller can report
// Stats() or force-invalidate a path between scans.
func (p *Parser) Cache() *cache.Cache {
	return p.cache
}

// pendingFile is a changed file staged by the extraction phase, waiting for
// its relationship pass: its fresh (relationship-less) cache entry plus the
// prior entry it replaced, kept for the end-of-scan diff.
type pendingFile struct {
	path     string
	entry    *cache.Entry
	oldEntry *cache.Entry
	hadOld   bool
}

// Parse runs one scan over the files named by input (plus every file
// discovered under input.Directories), returning the full current state for
// those files and the delta since the last time each was scanned.
//
// The scan runs in two phases: every changed file is first parsed and its
// symbols staged into the cache, and only then does any file get its
// relationship pass. Cross-file resolution (import maps, export maps, the
// global symbol index) therefore sees every file in the input set regardless
// of the order the files were visited in, which keeps the emitted edge set
// independent of path sort order.
func (p *Parser) Parse(ctx context.Context, input Input) *ParseResult {
	if !input.Incremental {
		p.cache.Clear()
	}

	paths := p.collectPaths(input)
	sort.Strings(paths)

	result := &ParseResult{}
	budget := checker.NewBudget(p.cfg.TypeCheckerBudget)
	now := scanTime(ctx)

	hitOccurred := false
	cancelled := false

	var pending []*pendingFile

	// Phase 1: read, hash, cache-probe, and extract symbols for every
	// changed file, staging each into the cache so phase 2's resolution
	// rungs can see the whole input set.
	for _, path := range paths {
		if cancelled {
			break
		}
		select {
		case <-input.Cancel:
			cancelled = true
			continue
		default:
		}

		data, err := p.fs.ReadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, &corerr.ParseError{
				File: path, Message: err.Error(), Severity: corerr.SeverityError,
			})
			continue
		}
		hash := pathutil.HashContent(string(data))

		oldEntry, hadOld := p.cache.Get(path)

		if !p.cache.IsFileChanged(path, hash) {
			hitOccurred = true
			entry, _ := p.cache.Get(path)
			appendEntry(result, entry)
			continue
		}

		p.cache.Remove(path)

		lang := pathutil.DetectLanguage(filepath.Ext(path))
		entry, errs := p.extractOne(path, data, hash, lang, now)
		result.Errors = append(result.Errors, errs...)
		if entry == nil {
			continue
		}

		p.cache.Set(path, entry)
		pending = append(pending, &pendingFile{path: path, entry: entry, oldEntry: oldEntry, hadOld: hadOld})
	}

	var addedEntities, removedEntities, updatedEntities []string
	var addedRels, removedRels []string

	// Phase 2: build relationships for each staged file and fold the
	// per-file diff into the scan's change sets.
	for i, pf := range pending {
		if !cancelled {
			select {
			case <-input.Cancel:
				cancelled = true
			default:
			}
		}
		if cancelled {
			// A staged entry without its relationship pass is a partially
			// parsed file; per the cache-consistency contract it must not
			// survive the scan.
			p.discardPending(pending[i:])
			break
		}

		result.Errors = append(result.Errors, p.relateOne(pf, budget)...)
		appendEntry(result, pf.entry)

		added, removed, updated, addedR, removedR := diffEntry(pf.oldEntry, pf.hadOld, pf.entry)
		addedEntities = append(addedEntities, added...)
		removedEntities = append(removedEntities, removed...)
		updatedEntities = append(updatedEntities, updated...)
		addedRels = append(addedRels, addedR...)
		removedRels = append(removedRels, removedR...)
	}

	allPaths := p.cache.Paths()
	sort.Strings(allPaths)
	dirResult := directory.Build(allPaths, now)
	result.Directories = dirResult.Directories
	result.Relationships = append(result.Relationships, dirResult.Relationships...)

	if cancelled {
		result.Errors = append(result.Errors, &corerr.ParseError{
			Message: "cancelled", Severity: corerr.SeverityError,
		})
	}

	result.IsIncremental = hitOccurred
	result.AddedEntities = dedupe(addedEntities)
	result.RemovedEntities = dedupe(removedEntities)
	result.UpdatedEntities = dedupe(updatedEntities)
	result.AddedRelationships = dedupe(addedRels)
	result.RemovedRelationships = dedupe(removedRels)
	return result
}

// discardPending drops the cache entries of every pending file whose
// relationship pass did not run, so a cancelled scan leaves only fully
// parsed files behind.
func (p *Parser) discardPending(remaining []*pendingFile) {
	for _, pf := range remaining {
		p.cache.Remove(pf.path)
	}
}

// extractOne parses one changed file and builds its relationship-less cache
// entry: the File entity, the extracted symbols, the local symbol map, and
// the retained syntax tree. It never returns a partially-built entry: a
// panic mid-extraction is recovered into a warning diagnostic and the file
// is dropped from this scan.
func (p *Parser) extractOne(path string, data []byte, hash string, lang pathutil.Language, now time.Time) (entry *cache.Entry, errs []*corerr.ParseError) {
	if !pathutil.IsSourceLanguage(lang) {
		tree := &syntax.Tree{Source: data, FilePath: path, Language: lang}
		file := extract.BuildFile(tree, now)
		file.ContentHash = hash
		return &cache.Entry{
			ContentHash: hash, File: file, Tree: tree,
			SymbolMap: map[string]*model.Symbol{}, LastModified: now,
		}, nil
	}

	parser, err := syntax.NewParser(lang)
	if err != nil {
		return nil, []*corerr.ParseError{corerr.ToParseError(path, err)}
	}
	defer parser.Close()

	tree, err := parser.Parse(context.Background(), data)
	if err != nil {
		return nil, []*corerr.ParseError{corerr.ToParseError(path, err)}
	}
	tree.FilePath = path
	tree.Language = lang

	if tree.HasErrors() {
		errs = append(errs, &corerr.ParseError{
			File: path, Message: "syntax errors in parsed tree", Severity: corerr.SeverityWarning,
		})
	}

	defer func() {
		if r := recover(); r != nil {
			tree.Close()
			entry = nil
			errs = append(errs, &corerr.ParseError{
				File: path, Message: panicMessage(r), Severity: corerr.SeverityWarning,
			})
		}
	}()

	file := extract.BuildFile(tree, now)
	file.ContentHash = hash

	ext := extract.New(tree, now)
	symbols := ext.ExtractSymbols()

	symbolMap := make(map[string]*model.Symbol, len(symbols))
	for _, s := range symbols {
		symbolMap[model.QualifiedKey(s.RelPath, s.Name)] = s
	}

	return &cache.Entry{
		ContentHash: hash, File: file, Symbols: symbols, SymbolMap: symbolMap,
		Tree: tree, LastModified: now,
	}, errs
}

// relateOne runs the relationship builder for one staged file's entry. An
// edge-building panic becomes a warning diagnostic, the file keeps its
// entities, and its relationship set stays empty rather than half-written.
func (p *Parser) relateOne(pf *pendingFile, budget *checker.Budget) (errs []*corerr.ParseError) {
	defer func() {
		if r := recover(); r != nil {
			pf.entry.Relationships = nil
			errs = append(errs, &corerr.ParseError{
				File: pf.path, Message: panicMessage(r), Severity: corerr.SeverityWarning,
			})
		}
	}()

	entry := pf.entry
	if entry.Tree == nil || entry.Tree.Root == nil {
		return nil
	}
	host := resolve.NewHeuristicCheckerHost(p.cache, entry.Tree)
	exists := &diskExistsAdapter{cache: p.cache, fs: p.fs}
	builder := relate.New(p.cache, exists, budget, host, entry.Tree, entry.Symbols, entry.LastModified, p.cfg.Relate)
	entry.Relationships = builder.Build()
	return errs
}

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return "panic: " + toString(r)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "unrecoverable error"
}

// scanTime derives the scan's fixed timestamp from ctx, falling back to the
// zero value when ctx carries none (the caller is expected to set one so
// every entity/relationship from one scan shares a single instant).
func scanTime(ctx context.Context) time.Time {
	if ctx == nil {
		return time.Time{}
	}
	if t, ok := ctx.Value(scanTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Time{}
}

type scanTimeKey struct{}

// WithScanTime attaches the fixed timestamp a scan should stamp every entity
// and relationship with.
func WithScanTime(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, scanTimeKey{}, now)
}

// collectPaths normalizes and merges input.Files with every file discovered
// by recursively walking input.Directories, skipping dependency/build
// directories (ignore.go) and non-regular entries.
func (p *Parser) collectPaths(input Input) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(relPath string) {
		relPath = pathutil.NormalizePath(relPath)
		if relPath == "" || seen[relPath] {
			return
		}
		seen[relPath] = true
		out = append(out, relPath)
	}

	for _, f := range input.Files {
		add(f)
	}
	for _, d := range input.Directories {
		p.walkDir(pathutil.NormalizePath(d), add)
	}
	return out
}

func (p *Parser) walkDir(relPath string, add func(string)) {
	if shouldSkipDir(relPath) {
		return
	}
	children, err := p.fs.ListDir(relPath)
	if err != nil {
		return
	}
	for _, child := range children {
		info, err := p.fs.Stat(child)
		if err != nil {
			continue
		}
		if info.IsDir() {
			p.walkDir(child, add)
			continue
		}
		add(child)
	}
}

// appendEntry folds a cache entry's file/symbols/relationships into result,
// used both for cache hits (entry unchanged) and freshly (re)parsed files.
func appendEntry(result *ParseResult, entry *cache.Entry) {
	if entry == nil {
		return
	}
	if entry.File != nil {
		result.Files = append(result.Files, entry.File)
	}
	result.Symbols = append(result.Symbols, entry.Symbols...)
	result.Relationships = append(result.Relationships, entry.Relationships...)
}

// diffEntry compares a file's prior cache entry (if any) against its freshly
// built one, producing the added/removed/updated id sets.
// Symbol ids embed a content hash already, so a changed symbol body shows up
// as one id removed and a different one added, never as "updated" — that
// label is reserved for File entities, whose id is stable across edits.
func diffEntry(old *cache.Entry, hadOld bool, fresh *cache.Entry) (added, removed, updated, addedRel, removedRel []string) {
	if fresh.File != nil {
		switch {
		case !hadOld || old.File == nil:
			added = append(added, fresh.File.ID)
		case old.File.ContentHash != fresh.File.ContentHash:
			updated = append(updated, fresh.File.ID)
		}
	}

	oldSymIDs := idSet(symbolIDs(old, hadOld))
	newSymIDs := idSet(symbolIDs(fresh, true))
	for id := range newSymIDs {
		if !oldSymIDs[id] {
			added = append(added, id)
		}
	}
	for id := range oldSymIDs {
		if !newSymIDs[id] {
			removed = append(removed, id)
		}
	}

	oldRelIDs := idSet(relationshipIDs(old, hadOld))
	newRelIDs := idSet(relationshipIDs(fresh, true))
	for id := range newRelIDs {
		if !oldRelIDs[id] {
			addedRel = append(addedRel, id)
		}
	}
	for id := range oldRelIDs {
		if !newRelIDs[id] {
			removedRel = append(removedRel, id)
		}
	}
	return
}

func symbolIDs(e *cache.Entry, present bool) []string {
	if !present || e == nil {
		return nil
	}
	ids := make([]string, 0, len(e.Symbols))
	for _, s := range e.Symbols {
		ids = append(ids, s.ID)
	}
	return ids
}

func relationshipIDs(e *cache.Entry, present bool) []string {
	if !present || e == nil {
		return nil
	}
	ids := make([]string, 0, len(e.Relationships))
	for _, r := range e.Relationships {
		ids = append(ids, r.ID)
	}
	return ids
}

func idSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
