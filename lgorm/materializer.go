package lgorm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/getlattice/lattice/rebac"
)

// IndexMaterializer recomputes object-index rows from the tuple store.
// There is no incremental-update contract: Refresh drops and rebuilds the
// whole index inside one transaction, and runs whenever the owning system
// decides the index is stale.
type IndexMaterializer struct {
	db  *gorm.DB
	log *zap.Logger
}

// MaterializerOption configures an IndexMaterializer.
type MaterializerOption func(*IndexMaterializer)

// WithMaterializerLogger sets the logger used for refresh reporting.
func WithMaterializerLogger(log *zap.Logger) MaterializerOption {
	return func(m *IndexMaterializer) {
		m.log = log
	}
}

// NewIndexMaterializer creates a materializer over the given database.
func NewIndexMaterializer(db *gorm.DB, opts ...MaterializerOption) *IndexMaterializer {
	m := &IndexMaterializer{
		db:  db,
		log: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Refresh rebuilds the object index from the persisted permission tuples.
// Each stored tuple becomes a direct grant: the tuple's relation serves as
// both permission and role, and the derivation path is the single relation
// itself. Grants derived through relation closure are applied separately
// via Apply by whoever computed the closure.
func (m *IndexMaterializer) Refresh(ctx context.Context) error {
	var tuples []gormPermissionTuple
	if err := m.db.WithContext(ctx).Find(&tuples).Error; err != nil {
		return fmt.Errorf("lgorm: read tuples for refresh failed: %w", err)
	}

	grants := make([]rebac.Grant, len(tuples))
	for i, t := range tuples {
		grants[i] = rebac.Grant{
			Subject:         t.SubjectType + ":" + t.SubjectID,
			Permission:      t.Relation,
			Role:            t.Relation,
			Object:          t.ObjectType + ":" + t.ObjectID,
			InheritanceTree: []string{t.Relation},
		}
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&gormObjectIndexRow{}).Error; err != nil {
			return err
		}
		return writeGrants(tx, grants)
	})
	if err != nil {
		return fmt.Errorf("lgorm: index refresh failed: %w", err)
	}

	m.log.Debug("object index refreshed", zap.Int("grants", len(grants)))
	return nil
}

// Apply materializes caller-computed grants without dropping existing rows.
// Use it for grants derived through relation closure, where the caller
// supplies the full inheritance path.
func (m *IndexMaterializer) Apply(ctx context.Context, grants []rebac.Grant) error {
	if len(grants) == 0 {
		return nil
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return writeGrants(tx, grants)
	})
	if err != nil {
		return fmt.Errorf("lgorm: apply grants failed: %w", err)
	}

	m.log.Debug("grants applied to object index", zap.Int("grants", len(grants)))
	return nil
}

// writeGrants upserts one index row per grant.
func writeGrants(tx *gorm.DB, grants []rebac.Grant) error {
	for _, g := range grants {
		entry := rebac.BuildIndexEntry(g.Subject, g.Permission, g.Role, g.Object, g.InheritanceTree)
		row := fromIndexEntry(entry)

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}
