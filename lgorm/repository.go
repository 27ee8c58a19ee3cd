// Package lgorm provides the GORM-backed storage adapter for the lattice
// resolution core: permission-tuple persistence, the materialized object
// and actor indexes, and execution of generated access-list queries.
package lgorm

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/getlattice/lattice/rebac"
)

// Open connects to the database selected by dbType (sqlite, postgres or
// mysql) using the given DSN.
func Open(dbType, dsn string, config *gorm.Config) (*gorm.DB, error) {
	if config == nil {
		config = &gorm.Config{}
	}

	var dialector gorm.Dialector
	switch dbType {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("lgorm: unknown database type %q", dbType)
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("lgorm: open %s failed: %w", dbType, err)
	}
	return db, nil
}

// Dialect returns the access-list query dialect matching dbType. The
// sqlite driver accepts the quoted-identifier form.
func Dialect(dbType string) rebac.Dialect {
	if dbType == "mysql" {
		return rebac.DialectMySQL
	}
	return rebac.DialectPostgres
}

// Repository implements rebac.TupleStore using GORM. It also executes
// generated access-list queries and carries the seeding helpers used by
// tests, the materializer and the CLI. Grant/revoke APIs proper live
// outside this module.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tuple repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for callers composing further storage.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// AutoMigrate creates the permission-tuple, object-index and actor-index
// tables.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&gormPermissionTuple{}, &gormObjectIndexRow{}, &gormActorIndexRow{})
}

// WriteTuple validates and persists one permission tuple. Duplicates are
// ignored.
func (r *Repository) WriteTuple(ctx context.Context, subject, relation, object string) error {
	if err := rebac.Validate(subject, relation, object); err != nil {
		return err
	}

	tuple := rebac.ComputeTuple(subject, relation, object)
	sub := rebac.SplitIdentifier(subject)
	obj := rebac.SplitIdentifier(object)

	row := &gormPermissionTuple{
		ID:          tuple,
		Tuple:       tuple,
		SubjectType: sub.Type,
		SubjectID:   sub.ID,
		Relation:    relation,
		ObjectType:  obj.Type,
		ObjectID:    obj.ID,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(row).Error
}

// WriteActorEntry persists one actor-index association of a subject with an
// entity key of the form "<type>:<id>#<role>".
func (r *Repository) WriteActorEntry(ctx context.Context, subject, entity string) error {
	ref := rebac.SplitIdentifier(entity)
	row := &gormActorIndexRow{
		ID:         subject + "|" + entity,
		Subject:    subject,
		Entity:     entity,
		EntityID:   trimRole(ref.ID),
		EntityType: ref.Type,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(row).Error
}

// trimRole drops the "#role" suffix from an entity id part.
func trimRole(id string) string {
	for i := 0; i < len(id); i++ {
		if id[i] == '#' {
			return id[:i]
		}
	}
	return id
}

// MatchTuplePrefix reports whether any persisted tuple has computedTuple as
// a literal prefix. The prefix is bound as a parameter, so this check (and
// only this check) is safe for unvalidated input; the raw access-list query
// path is not.
func (r *Repository) MatchTuplePrefix(ctx context.Context, computedTuple string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormPermissionTuple{}).
		Where("tuple LIKE ?", computedTuple+"%").
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("lgorm: tuple prefix match failed: %w", err)
	}
	return count > 0, nil
}

// ReadIndexEntries returns all materialized object-index entries for a
// subject key of the form "<subject>#<permission>".
func (r *Repository) ReadIndexEntries(ctx context.Context, subject string) ([]rebac.ObjectIndexEntry, error) {
	var rows []gormObjectIndexRow
	if err := r.db.WithContext(ctx).Where("subject = ?", subject).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("lgorm: read index entries failed: %w", err)
	}

	entries := make([]rebac.ObjectIndexEntry, len(rows))
	for i := range rows {
		entries[i] = toIndexEntry(&rows[i])
	}
	return entries, nil
}

// ListAccessible builds the access-list query for the given dialect and
// executes it, returning the matching rows of the concrete collection.
//
// All arguments must have passed rebac.Validate-style sanitization: the
// generated query embeds them verbatim.
func (r *Repository) ListAccessible(ctx context.Context, dialect rebac.Dialect, objectTypeCollection, computedTuple, subject, objectType, action string) ([]map[string]any, error) {
	query, err := rebac.BuildAccessListQuery(dialect, objectTypeCollection, computedTuple, subject, objectType, action)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("lgorm: access list query failed: %w", err)
	}
	return rows, nil
}

// Compile-time interface check
var _ rebac.TupleStore = (*Repository)(nil)
