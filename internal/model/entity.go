// Package model defines the entity and relationship data model this
// module's parser core emits: files, directories, symbols, and the typed
// relationships between them, plus the canonical id schemes that keep
// diffs meaningful across scans.
package model

import (
	"fmt"
	"time"

	"github.com/codeatlas/parsecore/internal/pathutil"
)

// SymbolKind enumerates the kinds a Symbol entity may take.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindTypeAlias SymbolKind = "typeAlias"
	KindProperty  SymbolKind = "property"
	KindVariable  SymbolKind = "variable"
	KindSymbol    SymbolKind = "symbol"
	KindMethod    SymbolKind = "method"
)

// Visibility is a symbol's access modifier.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
)

// Param describes one function/method parameter.
type Param struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	DefaultValue string `json:"defaultValue,omitempty"`
	Optional     bool   `json:"optional"`
}

// File is the entity produced for each source file in a scan.
type File struct {
	ID           string    `json:"id"`
	RelPath      string    `json:"relPath"`
	ContentHash  string    `json:"contentHash"`
	Language     string    `json:"language"`
	Extension    string    `json:"extension"`
	Lines        int       `json:"lines"`
	ByteSize     int       `json:"byteSize"`
	Dependencies []string  `json:"dependencies"`
	IsTest       bool      `json:"isTest"`
	IsConfig     bool      `json:"isConfig"`
	FirstSeen    time.Time `json:"firstSeen"`
	LastModified time.Time `json:"lastModified"`
}

// FileID returns the canonical id for a file entity at relPath.
func FileID(relPath string) string {
	return "file:" + relPath
}

// Directory is the entity produced for each distinct ancestor directory of
// a scanned file.
type Directory struct {
	ID           string    `json:"id"`
	RelPath      string    `json:"relPath"`
	Depth        int       `json:"depth"`
	ParentID     string    `json:"parentId,omitempty"`
	ContentHash  string    `json:"contentHash"`
	FirstSeen    time.Time `json:"firstSeen"`
	LastModified time.Time `json:"lastModified"`
}

// DirectoryID returns the canonical id for a directory entity at relPath.
func DirectoryID(relPath string) string {
	return "dir:" + relPath
}

// Symbol is the entity produced for each named top-level or class-member
// declaration in a source file.
type Symbol struct {
	ID           string     `json:"id"`
	RelPath      string     `json:"relPath"`
	Name         string     `json:"name"`
	Kind         SymbolKind `json:"kind"`
	Signature    string     `json:"signature"`
	Doc          string     `json:"doc,omitempty"`
	Visibility   Visibility `json:"visibility"`
	IsExported   bool       `json:"isExported"`
	IsDeprecated bool       `json:"isDeprecated"`
	ContentHash  string     `json:"contentHash"`
	Language     string     `json:"language"`
	FirstSeen    time.Time  `json:"firstSeen"`
	LastModified time.Time  `json:"lastModified"`

	// function/method
	Params      []Param `json:"params,omitempty"`
	ReturnType  string  `json:"returnType,omitempty"`
	IsAsync     bool    `json:"isAsync,omitempty"`
	IsGenerator bool    `json:"isGenerator,omitempty"`
	Complexity  int     `json:"complexity,omitempty"`
	Receiver    string  `json:"receiver,omitempty"`

	// class
	Extends    string   `json:"extends,omitempty"`
	Implements []string `json:"implements,omitempty"`
	IsAbstract bool     `json:"isAbstract,omitempty"`

	// interface
	InterfaceExtends []string `json:"interfaceExtends,omitempty"`

	// typeAlias
	AliasedType    string `json:"aliasedType,omitempty"`
	IsUnion        bool   `json:"isUnion,omitempty"`
	IsIntersection bool   `json:"isIntersection,omitempty"`
}

// SymbolID computes the stable id sym:<relPath>#<name>@<shortHash(signature)>.
// Ids are stable across scans as long as (relPath, name, signature) hold.
func SymbolID(relPath, name, signature string) string {
	return fmt.Sprintf("sym:%s#%s@%s", relPath, name, pathutil.ShortHash(signature))
}

// QualifiedKey is the "<relPath>:<name>" local-index key the cache manager
// and resolver use for fast same-file/same-repository lookups.
func QualifiedKey(relPath, name string) string {
	return relPath + ":" + name
}
