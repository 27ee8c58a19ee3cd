package rebac

import (
	"reflect"
	"testing"
)

func TestBuildIndexEntryConcrete(t *testing.T) {
	tree := []string{"owner", "editor", "viewer"}
	entry := BuildIndexEntry("user:1", "view", "viewer", "doc:42", tree)

	if entry.Subject != "user:1#view" {
		t.Errorf("Subject = %q", entry.Subject)
	}
	if entry.SubjectType != "user" || entry.SubjectID != "1" {
		t.Errorf("subject parts = (%q, %q)", entry.SubjectType, entry.SubjectID)
	}
	if entry.SubjectPermission != "view" {
		t.Errorf("SubjectPermission = %q", entry.SubjectPermission)
	}
	if entry.Entity != "doc:42#viewer" {
		t.Errorf("Entity = %q", entry.Entity)
	}
	if entry.EntityType != "doc" || entry.EntityID != "42" {
		t.Errorf("entity parts = (%q, %q)", entry.EntityType, entry.EntityID)
	}
	if entry.Relation != "viewer" {
		t.Errorf("Relation = %q", entry.Relation)
	}
	if !reflect.DeepEqual(entry.InheritanceTree, tree) {
		t.Errorf("InheritanceTree = %v, want %v", entry.InheritanceTree, tree)
	}
	if entry.IsWildcard() {
		t.Error("concrete entry reported as wildcard")
	}
}

func TestBuildIndexEntryWildcardRole(t *testing.T) {
	entry := BuildIndexEntry("user:1", "read", Wildcard, "doc:42", []string{"read"})

	// A wildcard grant collapses all entity fields regardless of the
	// concrete object passed in.
	if entry.Entity != Wildcard || entry.EntityID != Wildcard ||
		entry.EntityType != Wildcard || entry.Relation != Wildcard {
		t.Errorf("wildcard entry = %+v", entry)
	}
	if entry.Subject != "user:1#read" {
		t.Errorf("Subject = %q", entry.Subject)
	}
	if !entry.IsWildcard() {
		t.Error("wildcard entry not reported as wildcard")
	}
}

func TestBuildIndexEntryWildcardObject(t *testing.T) {
	entry := BuildIndexEntry("user:1", "read", "viewer", Wildcard, nil)

	if entry.Entity != Wildcard || entry.EntityID != Wildcard ||
		entry.EntityType != Wildcard || entry.Relation != Wildcard {
		t.Errorf("wildcard entry = %+v", entry)
	}
}

func TestBuildIndexEntrySplitsOnFirstColon(t *testing.T) {
	entry := BuildIndexEntry("user:abc:def", "view", "viewer", "doc:x:y", nil)

	if entry.SubjectType != "user" || entry.SubjectID != "abc:def" {
		t.Errorf("subject parts = (%q, %q)", entry.SubjectType, entry.SubjectID)
	}
	if entry.EntityType != "doc" || entry.EntityID != "x:y" {
		t.Errorf("entity parts = (%q, %q)", entry.EntityType, entry.EntityID)
	}
}

func TestEntityRef(t *testing.T) {
	any := AnyEntity()
	if any.Key() != Wildcard || any.EntityID() != Wildcard ||
		any.EntityType() != Wildcard || any.Relation() != Wildcard {
		t.Errorf("AnyEntity() = %+v", any)
	}

	ref := SpecificEntity(Identifier{Type: "doc", ID: "42"}, "viewer")
	if ref.Key() != "doc:42#viewer" {
		t.Errorf("Key() = %q", ref.Key())
	}
	if ref.Any {
		t.Error("specific entity reported as wildcard")
	}
}
