package incremental

import (
	"os"
	"path/filepath"

	"github.com/codeatlas/parsecore/internal/pathutil"
)

// FileSystem is the minimal I/O surface the incremental parser needs to walk
// a repository: read a file's bytes, stat a path, and list a directory's
// immediate children. A real disk-backed implementation is provided by
// OSFileSystem; tests substitute an in-memory one.
type FileSystem interface {
	ReadFile(relPath string) ([]byte, error)
	Stat(relPath string) (os.FileInfo, error)
	ListDir(relPath string) ([]string, error)
}

// OSFileSystem implements FileSystem against the real filesystem, rooted at
// Root. All paths passed to and returned from its methods are repo-relative,
// normalized per pathutil.NormalizePath.
type OSFileSystem struct {
	Root string
}

// NewOSFileSystem creates an OSFileSystem rooted at root.
func NewOSFileSystem(root string) *OSFileSystem {
	return &OSFileSystem{Root: root}
}

func (fs *OSFileSystem) abs(relPath string) string {
	return filepath.Join(fs.Root, filepath.FromSlash(relPath))
}

// ReadFile reads the file at relPath.
func (fs *OSFileSystem) ReadFile(relPath string) ([]byte, error) {
	return os.ReadFile(fs.abs(relPath))
}

// Stat stats the path at relPath.
func (fs *OSFileSystem) Stat(relPath string) (os.FileInfo, error) {
	return os.Stat(fs.abs(relPath))
}

// ListDir lists the immediate children of relPath, each returned as a
// repo-relative path.
func (fs *OSFileSystem) ListDir(relPath string) ([]string, error) {
	entries, err := os.ReadDir(fs.abs(relPath))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		child := e.Name()
		if relPath != "" {
			child = relPath + "/" + child
		}
		out = append(out, pathutil.NormalizePath(child))
	}
	return out, nil
}

// diskExistsAdapter satisfies resolve.FileSystem by checking both the cache
// (files already scanned this run) and the real filesystem (files that
// exist on disk but have not yet been visited in this scan, e.g. an import
// target outside the requested input set).
type diskExistsAdapter struct {
	cache existsChecker
	fs    FileSystem
}

type existsChecker interface {
	Exists(relPath string) bool
}

func (a *diskExistsAdapter) Exists(relPath string) bool {
	if a.cache.Exists(relPath) {
		return true
	}
	info, err := a.fs.Stat(relPath)
	return err == nil && !info.IsDir()
}
