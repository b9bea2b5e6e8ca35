package cache

// IsFileChanged reports whether path's cached content hash differs from
// newHash, or has never been scanned at all.
func (c *Cache) IsFileChanged(path, newHash string) bool {
	entry, ok := c.entries[path]
	if !ok {
		return true
	}
	return entry.ContentHash != newHash
}
