package model

import (
	"strings"
	"time"

	"github.com/codeatlas/parsecore/internal/pathutil"
)

// RelationshipType enumerates every edge kind the relationship builder
// emits. No language keyword appears in any value: all are domain-neutral.
type RelationshipType string

const (
	Imports     RelationshipType = "IMPORTS"
	Calls       RelationshipType = "CALLS"
	References  RelationshipType = "REFERENCES"
	Reads       RelationshipType = "READS"
	Writes      RelationshipType = "WRITES"
	Extends     RelationshipType = "EXTENDS"
	Implements  RelationshipType = "IMPLEMENTS"
	Overrides   RelationshipType = "OVERRIDES"
	Throws      RelationshipType = "THROWS"
	TypeUses    RelationshipType = "TYPE_USES"
	ReturnsType RelationshipType = "RETURNS_TYPE"
	ParamType   RelationshipType = "PARAM_TYPE"
	DependsOn   RelationshipType = "DEPENDS_ON"
	Contains    RelationshipType = "CONTAINS"
)

// Aggregated reports whether t collapses multiple syntactic sites for the
// same (from, to) pair into a single record with an occurrence count.
func (t RelationshipType) Aggregated() bool {
	switch t {
	case Calls, References, Reads, Writes:
		return true
	default:
		return false
	}
}

// RefKind discriminates the three ToRef placeholder variants.
type RefKind string

const (
	RefFileSymbol RefKind = "fileSymbol"
	RefExternal   RefKind = "external"
	RefEntity     RefKind = "entity"
)

// ToRef is the structured placeholder envelope attached to any relationship
// whose target is not (yet) a known concrete entity id.
type ToRef struct {
	Kind   RefKind `json:"kind"`
	File   string  `json:"file,omitempty"`
	Symbol string  `json:"symbol,omitempty"`
	Name   string  `json:"name,omitempty"`
	ID     string  `json:"id,omitempty"`
}

// FromRef is the minimal envelope attached to every relationship's source.
type FromRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Relationship is a single typed edge between two entities.
type Relationship struct {
	ID           string           `json:"id"`
	FromEntityID string           `json:"fromEntityId"`
	ToEntityID   string           `json:"toEntityId"`
	Type         RelationshipType `json:"type"`
	Created      time.Time        `json:"created"`
	LastModified time.Time        `json:"lastModified"`
	Version      int              `json:"version"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
	ToRef        *ToRef           `json:"toRef,omitempty"`
	FromRef      *FromRef         `json:"fromRef,omitempty"`
}

// CanonicalRelationshipID computes the deterministic id derived from
// (fromEntityId, type, toEntityId). Two relationships with the same triple
// always produce the same id, across scans and across processes.
func CanonicalRelationshipID(from string, typ RelationshipType, to string) string {
	key := from + "|" + string(typ) + "|" + to
	return "rel:" + pathutil.ShortHash(key)
}

// BuildToRef inspects a toEntityId and returns the structured placeholder
// envelope for it, or nil if the id already refers to a concrete entity
// (a bare "sym:...", "dir:...", or one-segment "file:<relPath>" id).
func BuildToRef(toEntityID string) *ToRef {
	switch {
	case strings.HasPrefix(toEntityID, "file:"):
		rest := strings.TrimPrefix(toEntityID, "file:")
		parts := strings.SplitN(rest, ":", 2)
		if len(parts) == 2 {
			return &ToRef{Kind: RefFileSymbol, File: parts[0], Symbol: parts[1]}
		}
		return nil
	case strings.HasPrefix(toEntityID, "external:"):
		return &ToRef{Kind: RefExternal, Name: strings.TrimPrefix(toEntityID, "external:")}
	case strings.HasPrefix(toEntityID, "class:"),
		strings.HasPrefix(toEntityID, "interface:"),
		strings.HasPrefix(toEntityID, "function:"),
		strings.HasPrefix(toEntityID, "typeAlias:"),
		strings.HasPrefix(toEntityID, "import:"):
		return &ToRef{Kind: RefEntity, ID: toEntityID}
	default:
		return nil
	}
}

// IsPlaceholder reports whether toEntityID carries a ToRef envelope.
func IsPlaceholder(toEntityID string) bool {
	return BuildToRef(toEntityID) != nil
}

// NewRelationship constructs a relationship with its canonical id, ToRef,
// and FromRef already attached, per the normalization contract every
// emitted relationship must satisfy.
func NewRelationship(from string, typ RelationshipType, to string, now time.Time, metadata map[string]any) *Relationship {
	if metadata == nil {
		metadata = map[string]any{}
	}
	if _, ok := metadata["source"]; !ok {
		if used, _ := metadata["usedTypeChecker"].(bool); used {
			metadata["source"] = "type-checker"
		} else {
			metadata["source"] = "ast"
		}
	}
	return &Relationship{
		ID:           CanonicalRelationshipID(from, typ, to),
		FromEntityID: from,
		ToEntityID:   to,
		Type:         typ,
		Created:      now,
		LastModified: now,
		Version:      1,
		Metadata:     metadata,
		ToRef:        BuildToRef(to),
		FromRef:      &FromRef{Kind: "entity", ID: from},
	}
}
