package cache

import (
	"testing"
	"time"

	"github.com/codeatlas/parsecore/internal/model"
)

func testSymbol(relPath, name string) *model.Symbol {
	return &model.Symbol{
		ID:      model.SymbolID(relPath, name, name+"()"),
		RelPath: relPath,
		Name:    name,
		Kind:    model.KindFunction,
	}
}

func testEntry(hash string, symbols ...*model.Symbol) *Entry {
	m := make(map[string]*model.Symbol, len(symbols))
	for _, s := range symbols {
		m[model.QualifiedKey(s.RelPath, s.Name)] = s
	}
	return &Entry{ContentHash: hash, Symbols: symbols, SymbolMap: m, LastModified: time.Now()}
}

func TestSetIndexesSymbols(t *testing.T) {
	c := New()
	f := testSymbol("src/a.ts", "f")
	c.Set("src/a.ts", testEntry("h1", f))

	got, ok := c.LookupLocal("src/a.ts", "f")
	if !ok || got != f {
		t.Fatal("expected the global symbol index to hold f after Set")
	}
	byName := c.LookupByName("f")
	if len(byName) != 1 || byName[0] != f {
		t.Fatalf("LookupByName(f) = %v, want exactly the one indexed symbol", byName)
	}
}

func TestSetReplacesPriorEntryTransactionally(t *testing.T) {
	c := New()
	old := testSymbol("src/a.ts", "old")
	c.Set("src/a.ts", testEntry("h1", old))

	fresh := testSymbol("src/a.ts", "fresh")
	c.Set("src/a.ts", testEntry("h2", fresh))

	if _, ok := c.LookupLocal("src/a.ts", "old"); ok {
		t.Error("replacing an entry must purge its prior symbols from the index")
	}
	if _, ok := c.LookupLocal("src/a.ts", "fresh"); !ok {
		t.Error("replacing an entry must register the fresh symbols")
	}
	if got := c.LookupByName("old"); len(got) != 0 {
		t.Errorf("name index still holds the replaced symbol: %v", got)
	}
}

func TestSameNameInTwoFilesBothIndexed(t *testing.T) {
	c := New()
	a := testSymbol("src/a.ts", "shared")
	b := testSymbol("src/b.ts", "shared")
	c.Set("src/a.ts", testEntry("h1", a))
	c.Set("src/b.ts", testEntry("h2", b))

	// Distinct qualified keys both resolve; the name index keeps both in
	// insertion order.
	if _, ok := c.LookupLocal("src/a.ts", "shared"); !ok {
		t.Error("expected src/a.ts:shared to stay indexed")
	}
	if _, ok := c.LookupLocal("src/b.ts", "shared"); !ok {
		t.Error("expected src/b.ts:shared to be indexed")
	}
	byName := c.LookupByName("shared")
	if len(byName) != 2 || byName[0] != a || byName[1] != b {
		t.Errorf("LookupByName(shared) = %v, want [a b] in insertion order", byName)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := New()
	f := testSymbol("src/a.ts", "f")
	c.Set("src/a.ts", testEntry("h1", f))

	c.Remove("src/a.ts")
	c.Remove("src/a.ts") // second removal must be a no-op, not a panic

	if c.Has("src/a.ts") {
		t.Error("entry should be gone after Remove")
	}
	if _, ok := c.LookupLocal("src/a.ts", "f"); ok {
		t.Error("Remove must purge the global symbol index")
	}
	if got := c.LookupByName("f"); len(got) != 0 {
		t.Errorf("Remove must purge the name index, still holds %v", got)
	}
}

func TestClearEmptiesEverything(t *testing.T) {
	c := New()
	c.Set("src/a.ts", testEntry("h1", testSymbol("src/a.ts", "f")))
	c.SetExportMap("src/a.ts", 0, ExportMap{"f": {File: "src/a.ts", OriginalName: "f"}}, []string{"src/a.ts"})

	c.Clear()

	s := c.Stats()
	if s.Files != 0 || s.Symbols != 0 || s.ExportMapEntries != 0 {
		t.Errorf("stats after Clear = %+v, want all zero", s)
	}
}

func TestExportMapInvalidationByChainMember(t *testing.T) {
	c := New()
	m := ExportMap{"h": {File: "src/b.ts", OriginalName: "h", Depth: 1}}
	c.SetExportMap("src/c.ts", 0, m, []string{"src/c.ts", "src/b.ts"})

	if _, ok := c.GetExportMap("src/c.ts", 0); !ok {
		t.Fatal("expected the export map to be cached")
	}

	// Rehashing any file on the contributing chain must drop the map, even
	// when it is not the file the map was keyed under.
	c.InvalidateExportMapsForPath("src/b.ts")
	if _, ok := c.GetExportMap("src/c.ts", 0); ok {
		t.Error("expected chain invalidation to drop the cached export map")
	}
}

func TestRemoveInvalidatesExportMapsForFile(t *testing.T) {
	c := New()
	entry := testEntry("h1", testSymbol("src/b.ts", "h"))
	entry.File = &model.File{ID: model.FileID("src/b.ts"), RelPath: "src/b.ts"}
	c.Set("src/b.ts", entry)
	c.SetExportMap("src/c.ts", 0, ExportMap{}, []string{"src/c.ts", "src/b.ts"})

	c.Remove("src/b.ts")
	if _, ok := c.GetExportMap("src/c.ts", 0); ok {
		t.Error("removing a chain member must drop export maps derived from it")
	}
}
