// Package pathutil provides the path normalization, hashing, language
// detection, and complexity-counting primitives the rest of the parser
// core treats as pure, deterministic building blocks.
package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts separators to "/", collapses repeated separators,
// and strips a trailing separator, preserving relativity to the repo root.
// It never returns an absolute path for a relative input.
func NormalizePath(p string) string {
	if p == "" {
		return p
	}
	cleaned := filepath.ToSlash(filepath.Clean(p))
	cleaned = strings.TrimPrefix(cleaned, "./")
	for strings.Contains(cleaned, "//") {
		cleaned = strings.ReplaceAll(cleaned, "//", "/")
	}
	if cleaned != "/" {
		cleaned = strings.TrimSuffix(cleaned, "/")
	}
	return cleaned
}

// RelativeTo normalizes path relative to base, matching the repo-root
// relative paths every entity id is built from.
func RelativeTo(base, path string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", err
	}
	return NormalizePath(rel), nil
}

// Dir returns the normalized parent directory of a normalized path, or ""
// if the path has no parent (it is already a repo-root entry).
func Dir(relPath string) string {
	d := filepath.ToSlash(filepath.Dir(relPath))
	if d == "." {
		return ""
	}
	return d
}

// Base returns the file or directory name component of a normalized path.
func Base(relPath string) string {
	return filepath.Base(relPath)
}

// Ancestors returns the chain of normalized directory paths from the
// immediate parent of relPath up to (but not including) the repo root,
// ordered from the root-most ancestor down to the immediate parent.
func Ancestors(relPath string) []string {
	dir := Dir(relPath)
	if dir == "" {
		return nil
	}
	var chain []string
	for dir != "" {
		chain = append(chain, dir)
		dir = Dir(dir)
	}
	// reverse so the root-most ancestor comes first
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Depth reports how many path segments separate relPath from the repo root.
func Depth(relPath string) int {
	if relPath == "" {
		return 0
	}
	return len(strings.Split(relPath, "/"))
}
