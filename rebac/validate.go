package rebac

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed subject/relation/object triple.
// It is returned before any tuple is computed or any collaborator is
// touched, so a failed validation never has side effects.
type ValidationError struct {
	Field  string // "subject", "relation" or "object"
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rebac: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Validate rejects malformed triples before any encoding occurs. It fails
// when the subject or object contains no colon, when the relation is empty
// or contains a non-letter character, or when subject and object are equal
// (a thing cannot relate to itself through this mechanism).
//
// Every input of BuildAccessListQuery must have passed Validate first; the
// query builder performs no sanitization of its own.
func Validate(subject, relation, object string) error {
	if !strings.Contains(subject, ":") {
		return &ValidationError{Field: "subject", Value: subject, Reason: "must be of the form type:id"}
	}
	if !strings.Contains(object, ":") {
		return &ValidationError{Field: "object", Value: object, Reason: "must be of the form type:id"}
	}
	if !isRelationName(relation) {
		return &ValidationError{Field: "relation", Value: relation, Reason: "must contain only letters"}
	}
	if subject == object {
		return &ValidationError{Field: "object", Value: object, Reason: "subject and object must differ"}
	}
	return nil
}

// isRelationName reports whether s matches ^[a-zA-Z]+$.
func isRelationName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
