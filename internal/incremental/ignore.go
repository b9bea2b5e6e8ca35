package incremental

import "github.com/codeatlas/parsecore/internal/pathutil"

// skipDirNames lists directory names never worth descending into during
// directory discovery: dependency trees and build output. The name alone
// is enough to decide; skipping the wrong directory only costs a missed
// file, not a bad exclude.
var skipDirNames = map[string]bool{
	"node_modules": true, "vendor": true, "target": true,
	".git": true, "dist": true, "build": true, ".next": true,
	"coverage": true, ".turbo": true, ".cache": true,
}

func shouldSkipDir(relPath string) bool {
	return skipDirNames[pathutil.Base(relPath)]
}
