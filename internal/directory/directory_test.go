package directory

import (
	"testing"
	"time"

	"github.com/codeatlas/parsecore/internal/model"
)

func TestBuildEmitsOneEntityPerUniqueDirectory(t *testing.T) {
	res := Build([]string{"src/a.ts", "src/lib/b.ts", "src/lib/c.ts"}, time.Now())

	seen := map[string]int{}
	for _, d := range res.Directories {
		seen[d.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("directory %s emitted %d times, want 1", id, n)
		}
	}
	if len(seen) != 2 {
		t.Errorf("got %d directories, want 2 (src, src/lib)", len(seen))
	}
	if _, ok := seen["dir:src"]; !ok {
		t.Error("expected dir:src")
	}
	if _, ok := seen["dir:src/lib"]; !ok {
		t.Error("expected dir:src/lib")
	}
}

func TestBuildContainmentForest(t *testing.T) {
	files := []string{"src/a.ts", "src/lib/b.ts", "docs/readme.md", "root.ts"}
	res := Build(files, time.Now())

	// Every file id appears as a CONTAINS child exactly once, except a file
	// at the repository root, which has no parent directory to contain it.
	parents := map[string][]string{}
	for _, r := range res.Relationships {
		if r.Type != model.Contains {
			t.Fatalf("directory handler emitted a non-CONTAINS edge: %s", r.Type)
		}
		parents[r.ToEntityID] = append(parents[r.ToEntityID], r.FromEntityID)
	}

	for _, f := range []string{"src/a.ts", "src/lib/b.ts", "docs/readme.md"} {
		id := model.FileID(f)
		if len(parents[id]) != 1 {
			t.Errorf("file %s has %d CONTAINS parents, want exactly 1", f, len(parents[id]))
		}
	}
	if len(parents[model.FileID("root.ts")]) != 0 {
		t.Error("a repository-root file must have no CONTAINS parent")
	}
	if got := parents["dir:src/lib"]; len(got) != 1 || got[0] != "dir:src" {
		t.Errorf("dir:src/lib parents = %v, want [dir:src]", got)
	}
}

func TestBuildDirectoryAttributes(t *testing.T) {
	res := Build([]string{"a/b/c.ts"}, time.Now())

	var deep *model.Directory
	for _, d := range res.Directories {
		if d.RelPath == "a/b" {
			deep = d
		}
	}
	if deep == nil {
		t.Fatal("expected directory a/b")
	}
	if deep.Depth != 2 {
		t.Errorf("a/b depth = %d, want 2", deep.Depth)
	}
	if deep.ParentID != "dir:a" {
		t.Errorf("a/b parent = %q, want dir:a", deep.ParentID)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	files := []string{"src/a.ts", "src/lib/b.ts"}
	now := time.Now()
	first := Build(files, now)
	second := Build(files, now)

	if len(first.Relationships) != len(second.Relationships) {
		t.Fatal("two builds over the same paths must emit the same edge count")
	}
	for i := range first.Relationships {
		if first.Relationships[i].ID != second.Relationships[i].ID {
			t.Fatalf("edge %d differs between identical builds", i)
		}
	}
}
