package extract

import (
	"context"
	"testing"
	"time"

	"github.com/codeatlas/parsecore/internal/model"
	"github.com/codeatlas/parsecore/internal/pathutil"
	"github.com/codeatlas/parsecore/internal/syntax"
)

const testSource = `
// Loads and validates a user session.
export interface Session {
	userID: string;
	expiresAt: number;
}

export interface AdminSession extends Session {
	adminLevel: number;
}

/**
 * Base authenticator.
 */
export class Authenticator implements Session {
	userID: string;
	#secret: string;
	protected retries: number;

	constructor(userID: string) {
		this.userID = userID;
		this.retries = 0;
	}

	async validate(token: string): Promise<boolean> {
		if (token === "") {
			return false;
		}
		return true;
	}

	private reset(): void {
		this.retries = 0;
	}
}

export class AdminAuthenticator extends Authenticator implements AdminSession {
	adminLevel: number;

	constructor(userID: string, level: number) {
		super(userID);
		this.adminLevel = level;
	}
}

export type TokenResult = Session | null;

export enum Role {
	User,
	Admin,
}

export function login(userID: string, password: string): TokenResult {
	if (password === "") {
		return null;
	}
	return { userID, expiresAt: 0 };
}

const retryLimit = 3;

export const createSession = (userID: string): Session => {
	return { userID, expiresAt: 0 };
};
`

func parseTestSource(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	p, err := syntax.NewParser(pathutil.TypeScript)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	defer p.Close()

	tree, err := p.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tree.FilePath = "auth.ts"
	tree.Language = pathutil.TypeScript
	return tree
}

func symbolByName(symbols []*model.Symbol, name string) *model.Symbol {
	for _, s := range symbols {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func TestExtractSymbolsTopLevel(t *testing.T) {
	tree := parseTestSource(t, testSource)
	defer tree.Close()

	now := time.Now()
	symbols := New(tree, now).ExtractSymbols()

	wantKinds := map[string]model.SymbolKind{
		"Session":            model.KindInterface,
		"AdminSession":       model.KindInterface,
		"Authenticator":      model.KindClass,
		"AdminAuthenticator": model.KindClass,
		"TokenResult":        model.KindTypeAlias,
		"Role":               model.KindSymbol,
		"login":              model.KindFunction,
		"retryLimit":         model.KindVariable,
		"createSession":      model.KindFunction,
	}

	for name, kind := range wantKinds {
		sym := symbolByName(symbols, name)
		if sym == nil {
			t.Fatalf("expected top-level symbol %q, got none (symbols: %d)", name, len(symbols))
		}
		if sym.Kind != kind {
			t.Errorf("%s: kind = %s, want %s", name, sym.Kind, kind)
		}
	}
}

func TestExtractClassMembers(t *testing.T) {
	tree := parseTestSource(t, testSource)
	defer tree.Close()

	symbols := New(tree, time.Now()).ExtractSymbols()

	validate := symbolByName(symbols, "validate")
	if validate == nil {
		t.Fatal("expected method 'validate'")
	}
	if validate.Kind != model.KindMethod {
		t.Errorf("validate: kind = %s, want method", validate.Kind)
	}
	if validate.Receiver != "Authenticator" {
		t.Errorf("validate: receiver = %q, want Authenticator", validate.Receiver)
	}
	if !validate.IsAsync {
		t.Error("validate: expected IsAsync true")
	}

	reset := symbolByName(symbols, "reset")
	if reset == nil {
		t.Fatal("expected method 'reset'")
	}
	if reset.Visibility != model.VisibilityPrivate {
		t.Errorf("reset: visibility = %s, want private", reset.Visibility)
	}

	secret := symbolByName(symbols, "#secret")
	if secret == nil {
		t.Fatal("expected field '#secret'")
	}
	if secret.Visibility != model.VisibilityPrivate {
		t.Errorf("#secret: visibility = %s, want private (name-based)", secret.Visibility)
	}
}

func TestExtractHeritage(t *testing.T) {
	tree := parseTestSource(t, testSource)
	defer tree.Close()

	symbols := New(tree, time.Now()).ExtractSymbols()

	admin := symbolByName(symbols, "AdminAuthenticator")
	if admin == nil {
		t.Fatal("expected class AdminAuthenticator")
	}
	if admin.Extends != "Authenticator" {
		t.Errorf("AdminAuthenticator.Extends = %q, want Authenticator", admin.Extends)
	}
	found := false
	for _, iface := range admin.Implements {
		if iface == "AdminSession" {
			found = true
		}
	}
	if !found {
		t.Errorf("AdminAuthenticator.Implements = %v, want to contain AdminSession", admin.Implements)
	}

	adminSession := symbolByName(symbols, "AdminSession")
	if adminSession == nil {
		t.Fatal("expected interface AdminSession")
	}
	if len(adminSession.InterfaceExtends) != 1 || adminSession.InterfaceExtends[0] != "Session" {
		t.Errorf("AdminSession.InterfaceExtends = %v, want [Session]", adminSession.InterfaceExtends)
	}
}

func TestExtractExportedAndDoc(t *testing.T) {
	tree := parseTestSource(t, testSource)
	defer tree.Close()

	symbols := New(tree, time.Now()).ExtractSymbols()

	auth := symbolByName(symbols, "Authenticator")
	if auth == nil {
		t.Fatal("expected class Authenticator")
	}
	if !auth.IsExported {
		t.Error("Authenticator: expected IsExported true")
	}
	if auth.Doc == "" {
		t.Error("Authenticator: expected a leading doc comment")
	}

	retryLimit := symbolByName(symbols, "retryLimit")
	if retryLimit == nil {
		t.Fatal("expected variable retryLimit")
	}
	if retryLimit.IsExported {
		t.Error("retryLimit: expected IsExported false (no export keyword)")
	}
}

func TestExtractArrowFunctionBoundToConst(t *testing.T) {
	tree := parseTestSource(t, testSource)
	defer tree.Close()

	symbols := New(tree, time.Now()).ExtractSymbols()

	createSession := symbolByName(symbols, "createSession")
	if createSession == nil {
		t.Fatal("expected createSession to be extracted from its arrow function")
	}
	if createSession.Kind != model.KindFunction {
		t.Errorf("createSession: kind = %s, want function", createSession.Kind)
	}
	if !createSession.IsExported {
		t.Error("createSession: expected IsExported true")
	}
}

func TestBuildFile(t *testing.T) {
	tree := parseTestSource(t, testSource)
	defer tree.Close()

	now := time.Now()
	f := BuildFile(tree, now)

	if f.RelPath != "auth.ts" {
		t.Errorf("RelPath = %q, want auth.ts", f.RelPath)
	}
	if f.Language != "typescript" {
		t.Errorf("Language = %q, want typescript", f.Language)
	}
	if f.ContentHash == "" {
		t.Error("expected non-empty ContentHash")
	}
	if f.Lines <= 0 {
		t.Errorf("Lines = %d, want > 0", f.Lines)
	}
	if f.IsTest {
		t.Error("auth.ts should not be classified as a test file")
	}
}

func TestBuildFileTestPathClassification(t *testing.T) {
	tree := parseTestSource(t, "export const x = 1;")
	defer tree.Close()
	tree.FilePath = "src/auth.spec.ts"

	f := BuildFile(tree, time.Now())
	if !f.IsTest {
		t.Error("auth.spec.ts should be classified as a test file")
	}
}

func TestExtractNoSymbolsFromEmptyFile(t *testing.T) {
	tree := parseTestSource(t, "")
	defer tree.Close()

	symbols := New(tree, time.Now()).ExtractSymbols()
	if len(symbols) != 0 {
		t.Errorf("expected no symbols from an empty file, got %d", len(symbols))
	}
}
