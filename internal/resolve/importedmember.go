package resolve

import "github.com/codeatlas/parsecore/internal/cache"

// Target is a resolved module member: the declaring file, its original
// (pre-alias) name, and the re-export depth at which it was found.
type Target struct {
	File         string
	OriginalName string
	Depth        int
}

// ResolveImportedMember resolves an alias introduced by an import statement
// in sourceFile to the file and original name it ultimately refers to, in
// this order: the importSymbolMap hint, then the requested member itself,
// then "default" when member is the default-import token. The module's
// export map comes from the scan's memoization layer, so repeated ladder
// lookups against the same module cost one traversal per scan.
func ResolveImportedMember(c *cache.Cache, fs FileSystem, moduleFile, member string, importSymbolMap map[string]string) (Target, bool) {
	exportMap := CachedExportMap(c, fs, moduleFile)

	if hint, ok := importSymbolMap[member]; ok {
		if entry, ok := exportMap[hint]; ok {
			return Target{File: entry.File, OriginalName: entry.OriginalName, Depth: entry.Depth}, true
		}
	}
	if entry, ok := exportMap[member]; ok {
		return Target{File: entry.File, OriginalName: entry.OriginalName, Depth: entry.Depth}, true
	}
	if member == "default" {
		if entry, ok := exportMap["default"]; ok {
			return Target{File: entry.File, OriginalName: entry.OriginalName, Depth: entry.Depth}, true
		}
	}
	return Target{}, false
}

// CachedExportMap consults (and populates) the cache's export-map
// memoization layer for moduleFile, recomputing the map only on the first
// lookup after the file — or any file on its re-export chain — is rehashed.
func CachedExportMap(c *cache.Cache, fs FileSystem, moduleFile string) cache.ExportMap {
	if m, ok := c.GetExportMap(moduleFile, 0); ok {
		return m
	}
	m, chain := GetModuleExportMap(c, fs, moduleFile, 0, map[string]bool{})
	c.SetExportMap(moduleFile, 0, m, chain)
	return m
}
