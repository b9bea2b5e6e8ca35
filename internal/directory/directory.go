// Package directory materializes directory entities and CONTAINS edges
// from the set of file paths seen in a scan, forming a containment forest
// whose roots are the top-level directories. It walks every ancestor of each
// normalized relative path, adding one directory entity per unique
// ancestor and a CONTAINS edge from each to its immediate child.
package directory

import (
	"time"

	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/pathutil"
)

// Result is the set of directory entities and CONTAINS edges materialized
// for one batch of file paths.
type Result struct {
	Directories   []*model.Directory
	Relationships []*model.Relationship
}

// Build walks the ancestor chain of every path in relPaths, emitting one
// Directory entity per unique directory and one CONTAINS edge from each
// directory to its immediate children (files or directories). A file inside
// a directory ends up with exactly one CONTAINS parent; a file at the
// repository root gets none, since no entity is emitted for the root itself.
// The whole set forms a directed forest.
func Build(relPaths []string, now time.Time) *Result {
	res := &Result{}
	seen := make(map[string]*model.Directory)

	ensureDir := func(dirPath string) *model.Directory {
		if d, ok := seen[dirPath]; ok {
			return d
		}
		d := &model.Directory{
			ID:           model.DirectoryID(dirPath),
			RelPath:      dirPath,
			Depth:        pathutil.Depth(dirPath),
			ContentHash:  pathutil.HashContent(dirPath),
			FirstSeen:    now,
			LastModified: now,
		}
		if parent := pathutil.Dir(dirPath); parent != "" {
			d.ParentID = model.DirectoryID(parent)
		}
		seen[dirPath] = d
		res.Directories = append(res.Directories, d)
		return d
	}

	containsEdges := make(map[string]bool) // dedupe by (from,to)

	emitContains := func(fromID, toID string) {
		key := fromID + "|" + toID
		if containsEdges[key] {
			return
		}
		containsEdges[key] = true
		res.Relationships = append(res.Relationships, model.NewRelationship(
			fromID, model.Contains, toID, now, map[string]any{"inferred": false},
		))
	}

	for _, relPath := range relPaths {
		ancestors := pathutil.Ancestors(relPath)
		for _, dirPath := range ancestors {
			ensureDir(dirPath)
		}
		// link each directory to its parent directory
		for _, dirPath := range ancestors {
			d := seen[dirPath]
			if d.ParentID != "" {
				emitContains(d.ParentID, d.ID)
			}
		}
		// link the file to its immediate parent directory, or nothing if
		// the file sits at the repository root.
		if parent := pathutil.Dir(relPath); parent != "" {
			emitContains(model.DirectoryID(parent), model.FileID(relPath))
		}
	}

	return res
}
