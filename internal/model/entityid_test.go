package model

import (
	"testing"
	"time"
)

func TestEntityIDRoundTrip(t *testing.T) {
	ids := []string{
		SymbolID("src/auth.ts", "login", "function login(): void {}"),
		SymbolID("src/auth.ts", "#secret", "#secret: string"),
		FileID("src/auth.ts"),
		DirectoryID("src/lib"),
	}
	for _, id := range ids {
		ref, ok := ParseEntityID(id)
		if !ok {
			t.Errorf("ParseEntityID(%q) failed", id)
			continue
		}
		if got := ref.String(); got != id {
			t.Errorf("round trip: %q -> %+v -> %q", id, ref, got)
		}
	}
}

func TestParseEntityIDParts(t *testing.T) {
	id := SymbolID("src/auth.ts", "login", "sig")
	ref, ok := ParseEntityID(id)
	if !ok {
		t.Fatal("expected a well-formed symbol id to parse")
	}
	if ref.Kind != "sym" || ref.RelPath != "src/auth.ts" || ref.Name != "login" {
		t.Errorf("ref = %+v, want sym/src/auth.ts/login", ref)
	}
	if len(ref.Hash) != 8 {
		t.Errorf("hash = %q, want 8 hex chars", ref.Hash)
	}
}

func TestParseEntityIDRejectsNonEntities(t *testing.T) {
	bad := []string{
		"external:helper",
		"class:Base",
		"import:./b:x",
		"file:src/b.ts:default", // a placeholder, not a file entity
		"rel:deadbeef",
		"sym:no-hash-separator",
		"",
	}
	for _, id := range bad {
		if _, ok := ParseEntityID(id); ok {
			t.Errorf("ParseEntityID(%q) = ok, want rejection", id)
		}
	}
}

func TestCanonicalRelationshipIDLaw(t *testing.T) {
	a := CanonicalRelationshipID("sym:a.ts#f@11111111", Calls, "sym:a.ts#g@22222222")
	b := CanonicalRelationshipID("sym:a.ts#f@11111111", Calls, "sym:a.ts#g@22222222")
	if a != b {
		t.Error("the canonical id must be a pure function of (from, type, to)")
	}
	c := CanonicalRelationshipID("sym:a.ts#f@11111111", References, "sym:a.ts#g@22222222")
	if a == c {
		t.Error("different relationship types must canonicalize differently")
	}

	rel := NewRelationship("sym:a.ts#f@11111111", Calls, "sym:a.ts#g@22222222", time.Now(), nil)
	if rel.ID != a {
		t.Error("NewRelationship must stamp the canonical id")
	}
}

func TestBuildToRefEnvelopes(t *testing.T) {
	cases := []struct {
		id   string
		kind RefKind
	}{
		{"file:src/b.ts:default", RefFileSymbol},
		{"file:src/b.ts:*", RefFileSymbol},
		{"external:helper", RefExternal},
		{"class:Base", RefEntity},
		{"interface:Shape", RefEntity},
		{"import:./b:x", RefEntity},
	}
	for _, c := range cases {
		ref := BuildToRef(c.id)
		if ref == nil {
			t.Errorf("BuildToRef(%q) = nil, want kind %s", c.id, c.kind)
			continue
		}
		if ref.Kind != c.kind {
			t.Errorf("BuildToRef(%q).Kind = %s, want %s", c.id, ref.Kind, c.kind)
		}
	}

	for _, concrete := range []string{"sym:a.ts#f@12345678", "dir:src", "file:src/a.ts"} {
		if ref := BuildToRef(concrete); ref != nil {
			t.Errorf("BuildToRef(%q) = %+v, want nil for a concrete entity id", concrete, ref)
		}
	}
}

func TestFileSymbolToRefParts(t *testing.T) {
	ref := BuildToRef("file:src/b.ts:multiply")
	if ref == nil || ref.File != "src/b.ts" || ref.Symbol != "multiply" {
		t.Errorf("ref = %+v, want file=src/b.ts symbol=multiply", ref)
	}
}

func TestNewRelationshipSourceDefaults(t *testing.T) {
	plain := NewRelationship("a", Calls, "b", time.Now(), nil)
	if plain.Metadata["source"] != "ast" {
		t.Errorf("source = %v, want ast by default", plain.Metadata["source"])
	}

	checked := NewRelationship("a", Calls, "b", time.Now(), map[string]any{"usedTypeChecker": true})
	if checked.Metadata["source"] != "type-checker" {
		t.Errorf("source = %v, want type-checker when the checker was consulted", checked.Metadata["source"])
	}

	if plain.FromRef == nil || plain.FromRef.ID != "a" || plain.FromRef.Kind != "entity" {
		t.Errorf("fromRef = %+v, want entity/a", plain.FromRef)
	}
}
