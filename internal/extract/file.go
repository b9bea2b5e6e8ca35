// Package extract implements the symbol extractor: given a parsed source
// file, it produces the File entity and the Symbol entities for every
// top-level and class-member declaration.
package extract

import (
	"path/filepath"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/pathutil"
	"github.com/codeatlas/parsecore/internal/syntax"
)

var testPathMarkers = []string{".test.", ".spec.", "__tests__/", "/test/", "/tests/"}
var configBasenames = map[string]bool{
	"tsconfig.json": true, "package.json": true, "jest.config.js": true,
	"webpack.config.js": true, ".eslintrc.json": true, "babel.config.js": true,
}

// BuildFile materializes the File entity for tree: content hash,
// line/byte counts, extracted top-level dependencies, and the test/config
// classification predicates.
func BuildFile(tree *syntax.Tree, now time.Time) *model.File {
	src := string(tree.Source)
	lines := strings.Count(src, "\n") + 1
	base := filepath.Base(tree.FilePath)

	f := &model.File{
		ID:           model.FileID(tree.FilePath),
		RelPath:      tree.FilePath,
		ContentHash:  pathutil.HashContent(src),
		Language:     string(tree.Language),
		Extension:    filepath.Ext(tree.FilePath),
		Lines:        lines,
		ByteSize:     len(tree.Source),
		Dependencies: pathutil.ExtractTopLevelDependencies(src),
		IsTest:       isTestPath(tree.FilePath),
		IsConfig:     configBasenames[base],
		FirstSeen:    now,
		LastModified: now,
	}
	return f
}

func isTestPath(relPath string) bool {
	lower := strings.ToLower(relPath)
	for _, marker := range testPathMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// sitterNodeText is the bounds-checked text accessor, operating on a
// syntax.Tree.
func sitterNodeText(tree *syntax.Tree, node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return tree.NodeText(node)
}
