package rebac

// Wildcard is the sentinel stored in index records when a grant applies to
// every object of the relevant type. It appears only in the serialized
// record fields; in-process code uses EntityRef instead of comparing
// against this string.
const Wildcard = "*"

// EntityRef identifies the object side of an index entry. It is either a
// specific object with a role, or Any — a wildcard asserting that the grant
// covers every object of the applicable type.
type EntityRef struct {
	Object Identifier
	Role   string
	Any    bool
}

// AnyEntity returns the wildcard entity reference.
func AnyEntity() EntityRef {
	return EntityRef{Any: true}
}

// SpecificEntity returns a reference to a concrete object with a role.
func SpecificEntity(object Identifier, role string) EntityRef {
	return EntityRef{Object: object, Role: role}
}

// Key returns the stored composite form: "<type>:<id>#<role>", or the
// wildcard sentinel.
func (e EntityRef) Key() string {
	if e.Any {
		return Wildcard
	}
	return e.Object.String() + relationSeparator + e.Role
}

// EntityID returns the stored object id, or the wildcard sentinel.
func (e EntityRef) EntityID() string {
	if e.Any {
		return Wildcard
	}
	return e.Object.ID
}

// EntityType returns the stored object type, or the wildcard sentinel.
func (e EntityRef) EntityType() string {
	if e.Any {
		return Wildcard
	}
	return e.Object.Type
}

// Relation returns the stored role, or the wildcard sentinel.
func (e EntityRef) Relation() string {
	if e.Any {
		return Wildcard
	}
	return e.Role
}

// ObjectIndexEntry is a materialized grant record: a denormalized mapping
// from a subject and permission to the entity it may act on. The object
// index is precomputed from the tuple store so access-list queries can
// avoid walking the relation graph at check time.
type ObjectIndexEntry struct {
	Subject           string   // "<subjectType>:<subjectId>#<permission>"
	SubjectID         string
	SubjectType       string
	SubjectPermission string
	Entity            string   // "<objectType>:<objectId>#<role>" or "*"
	EntityID          string
	EntityType        string
	Relation          string
	InheritanceTree   []string // derivation path, for audit/explainability only
}

// IsWildcard reports whether this entry grants the permission on every
// object of the relevant type.
func (e ObjectIndexEntry) IsWildcard() bool {
	return e.Entity == Wildcard
}

// Grant is the input to index materialization: a subject holding a
// permission on an object through a role, together with the chain of
// relations that derived it. The caller is responsible for having computed
// the transitive closure path; BuildIndexEntry does not walk relation
// graphs.
type Grant struct {
	Subject         string
	Permission      string
	Role            string
	Object          string
	InheritanceTree []string
}

// BuildIndexEntry derives a denormalized index record from a granted
// permission. The wildcard form triggers when the role or the object is
// "*"; in that case the entity fields all collapse to the wildcard sentinel
// regardless of the concrete object passed in. The inheritance tree passes
// through unchanged.
//
// The function is pure; malformed identifiers are assumed to have been
// rejected by Validate upstream.
func BuildIndexEntry(subject, permission, role, object string, inheritanceTree []string) ObjectIndexEntry {
	entity := AnyEntity()
	if role != Wildcard && object != Wildcard {
		entity = SpecificEntity(SplitIdentifier(object), role)
	}

	sub := SplitIdentifier(subject)

	return ObjectIndexEntry{
		Subject:           subject + relationSeparator + permission,
		SubjectID:         sub.ID,
		SubjectType:       sub.Type,
		SubjectPermission: permission,
		Entity:            entity.Key(),
		EntityID:          entity.EntityID(),
		EntityType:        entity.EntityType(),
		Relation:          entity.Relation(),
		InheritanceTree:   inheritanceTree,
	}
}
