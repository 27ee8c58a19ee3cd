// Package rebac implements the resolution core for Relationship-Based
// Access Control (ReBAC).
//
// Permissions are derived from relationship tuples between subjects and
// objects. This package provides:
//   - Validation of subject/relation/object triples
//   - Deterministic tuple encoding
//   - Denormalized object-index construction for fast access-list queries
//   - A short-TTL cache of prior authorization decisions
//   - Generation of dialect-specific access-list queries
//
// The design is inspired by Google Zanzibar and similar systems. Tuple
// storage itself lives behind the TupleStore interface; see the lgorm
// package for the GORM-backed implementation.
package rebac

// Reserved separators of the canonical tuple encoding. Identifiers must not
// contain either character; ComputeTuple does not enforce this.
const (
	relationSeparator = "#"
	objectSeparator   = "@"
)

// Identifier is a typed reference to a subject or object, written as
// "type:id". Only the first colon delimits the type; the id may itself
// contain colons.
type Identifier struct {
	Type string
	ID   string
}

// String returns the canonical string representation: "type:id".
func (i Identifier) String() string {
	return i.Type + ":" + i.ID
}

// SplitIdentifier derives an Identifier from its string form by splitting
// on the first colon. "user:abc:def" yields ("user", "abc:def"). When the
// string contains no colon the whole value becomes the type and the id is
// empty; Validate rejects such identifiers before they reach this point.
func SplitIdentifier(s string) Identifier {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return Identifier{Type: s[:i], ID: s[i+1:]}
		}
	}
	return Identifier{Type: s}
}

// ComputeTuple encodes a (subject, relation, object) triple into its
// canonical string form: "<subject>#<relation>@<object>".
//
// The same encoding serves relation tuples and permission tuples; the
// caller's intent, not the encoding, determines which one a given string
// represents. The encoding is not injective if raw identifiers contain the
// reserved separators '#' or '@' — callers must treat those characters as
// forbidden in identifiers.
func ComputeTuple(subject, relation, object string) string {
	return subject + relationSeparator + relation + objectSeparator + object
}
