// Package cache implements the in-memory, scan-scoped cache manager: a
// per-file entry cache plus the global symbol and name indexes the module
// resolver and relationship builder consult for local/imported resolution.
// The cache owns no persistence of its own; it lives only for the
// lifetime of the process embedding it.
package cache

import (
	"time"

	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/syntax"
)

// Entry is the cached state for a single file: its content hash and the
// entities/relationships produced on the scan that last (re)parsed it.
type Entry struct {
	ContentHash   string
	File          *model.File
	Symbols       []*model.Symbol
	Relationships []*model.Relationship
	SymbolMap     map[string]*model.Symbol // "<relPath>:<name>" -> Symbol
	Tree          *syntax.Tree             // retained for export-map/heritage resolution
	LastModified  time.Time
}

// Cache holds per-file entries plus the global indexes derived from them.
// It is single-threaded: the only mutator is the scan loop, so no lock is
// required.
type Cache struct {
	entries           map[string]*Entry          // absolutePath -> Entry
	globalSymbolIndex map[string]*model.Symbol   // "<relPath>:<name>" -> last-seen Symbol
	nameIndex         map[string][]*model.Symbol // name -> []Symbol, insertion order
	exportMaps        map[string]*exportCacheEntry
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		entries:           make(map[string]*Entry),
		globalSymbolIndex: make(map[string]*model.Symbol),
		nameIndex:         make(map[string][]*model.Symbol),
		exportMaps:        make(map[string]*exportCacheEntry),
	}
}

// Has reports whether path has a cached entry.
func (c *Cache) Has(path string) bool {
	_, ok := c.entries[path]
	return ok
}

// Exists satisfies resolve.FileSystem: a path is a known project file once
// it has been scanned into the cache at least once this run.
func (c *Cache) Exists(path string) bool {
	return c.Has(path)
}

// Entry satisfies resolve.Source, letting the module resolver pull a
// file's extracted symbols and tree without importing the cache package's
// internals directly.
func (c *Cache) Entry(path string) (*Entry, bool) {
	return c.Get(path)
}

// Get returns the cached entry for path, if any.
func (c *Cache) Get(path string) (*Entry, bool) {
	e, ok := c.entries[path]
	return e, ok
}

// Set stores entry for path, replacing any prior entry, and updates the
// global symbol/name indexes transactionally: the prior entry's symbols
// (if any) are purged first, then entry's symbols are registered.
func (c *Cache) Set(path string, entry *Entry) {
	if prior, ok := c.entries[path]; ok {
		c.purgeIndexes(prior)
	}
	c.entries[path] = entry
	for _, sym := range entry.Symbols {
		key := model.QualifiedKey(sym.RelPath, sym.Name)
		c.globalSymbolIndex[key] = sym // last-seen definition wins
		c.nameIndex[sym.Name] = append(c.nameIndex[sym.Name], sym)
	}
}

// Remove purges path's entry and its index contributions. Idempotent: a
// second call for an already-removed path is a no-op.
func (c *Cache) Remove(path string) {
	entry, ok := c.entries[path]
	if !ok {
		return
	}
	c.purgeIndexes(entry)
	delete(c.entries, path)
	c.invalidateExportMapsForFile(entry.File)
}

func (c *Cache) purgeIndexes(entry *Entry) {
	for _, sym := range entry.Symbols {
		key := model.QualifiedKey(sym.RelPath, sym.Name)
		if cur, ok := c.globalSymbolIndex[key]; ok && cur == sym {
			delete(c.globalSymbolIndex, key)
		}
		c.nameIndex[sym.Name] = removeSymbol(c.nameIndex[sym.Name], sym)
		if len(c.nameIndex[sym.Name]) == 0 {
			delete(c.nameIndex, sym.Name)
		}
	}
}

func removeSymbol(list []*model.Symbol, target *model.Symbol) []*model.Symbol {
	out := list[:0]
	for _, s := range list {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}

// Clear empties the cache and all indexes.
func (c *Cache) Clear() {
	c.entries = make(map[string]*Entry)
	c.globalSymbolIndex = make(map[string]*model.Symbol)
	c.nameIndex = make(map[string][]*model.Symbol)
	c.exportMaps = make(map[string]*exportCacheEntry)
}

// Stats summarizes cache occupancy.
type Stats struct {
	Files            int
	Symbols          int
	ExportMapEntries int
}

// Stats returns current occupancy counts.
func (c *Cache) Stats() Stats {
	return Stats{
		Files:            len(c.entries),
		Symbols:          len(c.globalSymbolIndex),
		ExportMapEntries: len(c.exportMaps),
	}
}

// LookupLocal returns the last-seen symbol for "<relPath>:<name>", the
// fast path the relationship builder's local resolution rung consults.
func (c *Cache) LookupLocal(relPath, name string) (*model.Symbol, bool) {
	sym, ok := c.globalSymbolIndex[model.QualifiedKey(relPath, name)]
	return sym, ok
}

// LookupByName returns every symbol known under name, insertion order
// preserved, duplicates allowed — the name-index rung of resolution.
func (c *Cache) LookupByName(name string) []*model.Symbol {
	return c.nameIndex[name]
}

// Paths returns every absolute/relative path currently cached, in no
// particular order. Callers that need determinism should sort it.
func (c *Cache) Paths() []string {
	paths := make([]string, 0, len(c.entries))
	for p := range c.entries {
		paths = append(paths, p)
	}
	return paths
}
