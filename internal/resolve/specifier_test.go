package resolve

import "testing"

// fakeFS is an in-memory FileSystem for resolver tests: a set of project-
// relative paths considered to exist.
type fakeFS map[string]bool

func (f fakeFS) Exists(relPath string) bool { return f[relPath] }

func TestResolveSpecifierRelative(t *testing.T) {
	fs := fakeFS{"src/utils.ts": true}

	got, ok := ResolveSpecifier("./utils", "src/index.ts", fs)
	if !ok {
		t.Fatal("expected ./utils to resolve")
	}
	if got != "src/utils.ts" {
		t.Errorf("got %q, want src/utils.ts", got)
	}
}

func TestResolveSpecifierIndexFallback(t *testing.T) {
	fs := fakeFS{"src/lib/index.ts": true}

	got, ok := ResolveSpecifier("./lib", "src/index.ts", fs)
	if !ok {
		t.Fatal("expected ./lib to resolve via index.ts fallback")
	}
	if got != "src/lib/index.ts" {
		t.Errorf("got %q, want src/lib/index.ts", got)
	}
}

func TestResolveSpecifierBarePackageNeverResolves(t *testing.T) {
	fs := fakeFS{"node_modules/react/index.js": true}

	_, ok := ResolveSpecifier("react", "src/index.ts", fs)
	if ok {
		t.Error("bare package specifier should never resolve to a file")
	}
}

func TestResolveSpecifierMissing(t *testing.T) {
	fs := fakeFS{}

	_, ok := ResolveSpecifier("./missing", "src/index.ts", fs)
	if ok {
		t.Error("expected ./missing to not resolve against an empty filesystem")
	}
}

func TestResolveSpecifierWithAliasesExactPrefix(t *testing.T) {
	fs := fakeFS{"src/app/index.ts": true}
	aliases := map[string]string{"@app": "src/app"}

	got, ok := ResolveSpecifierWithAliases("@app", "src/other.ts", fs, aliases)
	if !ok {
		t.Fatal("expected @app to resolve via alias")
	}
	if got != "src/app/index.ts" {
		t.Errorf("got %q, want src/app/index.ts", got)
	}
}

func TestResolveSpecifierWithAliasesSubpath(t *testing.T) {
	fs := fakeFS{"src/app/widgets/button.ts": true}
	aliases := map[string]string{"@app": "src/app"}

	got, ok := ResolveSpecifierWithAliases("@app/widgets/button", "src/other.ts", fs, aliases)
	if !ok {
		t.Fatal("expected @app/widgets/button to resolve via alias")
	}
	if got != "src/app/widgets/button.ts" {
		t.Errorf("got %q, want src/app/widgets/button.ts", got)
	}
}

func TestResolveSpecifierWithAliasesFallsThroughWhenUnmatched(t *testing.T) {
	fs := fakeFS{"src/utils.ts": true}
	aliases := map[string]string{"@app": "src/app"}

	got, ok := ResolveSpecifierWithAliases("./utils", "src/index.ts", fs, aliases)
	if !ok {
		t.Fatal("expected ./utils to still resolve via the plain relative path")
	}
	if got != "src/utils.ts" {
		t.Errorf("got %q, want src/utils.ts", got)
	}
}

func TestResolveSpecifierWithAliasesUnconfiguredBareStaysExternal(t *testing.T) {
	fs := fakeFS{"node_modules/lodash/index.js": true}

	_, ok := ResolveSpecifierWithAliases("lodash", "src/index.ts", fs, nil)
	if ok {
		t.Error("an unconfigured bare specifier should not resolve to a file")
	}
}
