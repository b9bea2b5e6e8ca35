package cache

import (
	"fmt"

	"github.com/codeatlas/parsecore/internal/model"
)

// ExportEntry records where an exported name is actually declared:
// the declaring file, its original (pre-alias) name, and the re-export
// depth at which it was found.
type ExportEntry struct {
	File         string
	OriginalName string
	Depth        int
}

// ExportMap is the effective set of names a module exposes.
type ExportMap map[string]ExportEntry

// exportCacheEntry pairs a cached export map with the set of files whose
// content contributed to computing it, so invalidation can find it again
// when any file on that chain is rehashed.
type exportCacheEntry struct {
	Map   ExportMap
	Chain []string
}

// exportMapKey forms the (filePath, depth) cache key.
func exportMapKey(filePath string, depth int) string {
	return fmt.Sprintf("%s@%d", filePath, depth)
}

// GetExportMap returns the cached export map for (filePath, depth), if any.
func (c *Cache) GetExportMap(filePath string, depth int) (ExportMap, bool) {
	entry, ok := c.exportMaps[exportMapKey(filePath, depth)]
	if !ok {
		return nil, false
	}
	return entry.Map, true
}

// SetExportMap caches the computed export map for (filePath, depth), along
// with the chain of files (including filePath) whose rehashing should
// invalidate it.
func (c *Cache) SetExportMap(filePath string, depth int, m ExportMap, chain []string) {
	c.exportMaps[exportMapKey(filePath, depth)] = &exportCacheEntry{Map: m, Chain: chain}
}

// invalidateExportMapsForFile drops every cached export map whose chain
// includes the file f (e.g. because that file is being
// removed or re-parsed after a content-hash change).
func (c *Cache) invalidateExportMapsForFile(f *model.File) {
	if f == nil {
		return
	}
	c.InvalidateExportMapsForPath(f.RelPath)
}

// InvalidateExportMapsForPath drops every cached export map whose
// contributing-file chain includes relPath.
func (c *Cache) InvalidateExportMapsForPath(relPath string) {
	for key, entry := range c.exportMaps {
		for _, f := range entry.Chain {
			if f == relPath {
				delete(c.exportMaps, key)
				break
			}
		}
	}
}
