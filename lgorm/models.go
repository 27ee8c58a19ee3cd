package lgorm

import (
	"encoding/json"
	"time"

	"github.com/getlattice/lattice/rebac"
)

// gormPermissionTuple stores computed permission tuples. The tuple column
// carries the canonical "<subject>#<relation>@<object>" form and is indexed
// for prefix matching.
type gormPermissionTuple struct {
	ID          string    `gorm:"primaryKey;column:id"`
	Tuple       string    `gorm:"column:tuple;size:512;index:idx_tuple"`
	SubjectType string    `gorm:"column:subjectType;size:64"`
	SubjectID   string    `gorm:"column:subjectId;size:255"`
	Relation    string    `gorm:"column:relation;size:64"`
	ObjectType  string    `gorm:"column:objectType;size:64"`
	ObjectID    string    `gorm:"column:objectId;size:255"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM. It must match the relation
// referenced by generated access-list queries.
func (gormPermissionTuple) TableName() string {
	return rebac.PermissionTupleTable
}

// gormObjectIndexRow stores a materialized grant record. Column names are
// case-sensitive on purpose: the quoted-identifier query dialect references
// them verbatim.
type gormObjectIndexRow struct {
	ID                string    `gorm:"primaryKey;column:id"`
	Subject           string    `gorm:"column:subject;size:512;index:idx_oi_subject"`
	SubjectID         string    `gorm:"column:subjectId;size:255"`
	SubjectType       string    `gorm:"column:subjectType;size:64;index:idx_oi_type_perm,priority:1"`
	SubjectPermission string    `gorm:"column:subjectPermission;size:64;index:idx_oi_type_perm,priority:2"`
	Entity            string    `gorm:"column:entity;size:512;index:idx_oi_entity"`
	EntityID          string    `gorm:"column:entityId;size:255"`
	EntityType        string    `gorm:"column:entityType;size:64"`
	Relation          string    `gorm:"column:relation;size:64"`
	InheritanceTree   string    `gorm:"column:inheritanceTree;size:1024"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

func (gormObjectIndexRow) TableName() string {
	return rebac.ObjectIndexTable
}

// gormActorIndexRow is the companion materialization mapping a subject to
// the entities it is associated with. It is consumed by access-list
// queries, not built by the resolution core; rows are written by whatever
// system owns subject/entity associations.
type gormActorIndexRow struct {
	ID         string    `gorm:"primaryKey;column:id"`
	Subject    string    `gorm:"column:subject;size:512;index:idx_ai_subject"`
	Entity     string    `gorm:"column:entity;size:512;index:idx_ai_entity"`
	EntityID   string    `gorm:"column:entityId;size:255"`
	EntityType string    `gorm:"column:entityType;size:64"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (gormActorIndexRow) TableName() string {
	return rebac.ActorIndexTable
}

// fromIndexEntry converts a core index entry to its GORM model. The
// inheritance tree is serialized as JSON for the audit trail.
func fromIndexEntry(e rebac.ObjectIndexEntry) *gormObjectIndexRow {
	tree, _ := json.Marshal(e.InheritanceTree)
	return &gormObjectIndexRow{
		ID:                e.Subject + "|" + e.Entity,
		Subject:           e.Subject,
		SubjectID:         e.SubjectID,
		SubjectType:       e.SubjectType,
		SubjectPermission: e.SubjectPermission,
		Entity:            e.Entity,
		EntityID:          e.EntityID,
		EntityType:        e.EntityType,
		Relation:          e.Relation,
		InheritanceTree:   string(tree),
	}
}

// toIndexEntry converts a GORM model back to the core type.
func toIndexEntry(row *gormObjectIndexRow) rebac.ObjectIndexEntry {
	var tree []string
	if row.InheritanceTree != "" {
		_ = json.Unmarshal([]byte(row.InheritanceTree), &tree)
	}
	return rebac.ObjectIndexEntry{
		Subject:           row.Subject,
		SubjectID:         row.SubjectID,
		SubjectType:       row.SubjectType,
		SubjectPermission: row.SubjectPermission,
		Entity:            row.Entity,
		EntityID:          row.EntityID,
		EntityType:        row.EntityType,
		Relation:          row.Relation,
		InheritanceTree:   tree,
	}
}
