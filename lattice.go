// Package lattice wires the ReBAC resolution core to its default
// collaborators: the GORM-backed tuple store and the Redis-backed decision
// cache. Applications needing other stores compose the rebac package
// directly.
package lattice

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/getlattice/lattice/lgorm"
	"github.com/getlattice/lattice/rebac"
)

// NewDefaultResolver creates a Resolver using the GORM tuple store and a
// Redis-backed decision cache with the default 2s TTL.
func NewDefaultResolver(db *gorm.DB, rdb *redis.Client, opts ...rebac.ResolverOption) *rebac.Resolver {
	repo := lgorm.NewRepository(db)
	cache := rebac.NewDecisionCache(rebac.NewRedisKV(rdb))

	opts = append([]rebac.ResolverOption{rebac.WithCache(cache)}, opts...)
	return rebac.NewResolver(repo, opts...)
}

// NewLocalResolver creates a Resolver using the GORM tuple store and an
// in-memory decision cache, for single-instance deployments and tests.
func NewLocalResolver(db *gorm.DB, opts ...rebac.ResolverOption) *rebac.Resolver {
	repo := lgorm.NewRepository(db)
	cache := rebac.NewDecisionCache(rebac.NewMemoryKV())

	opts = append([]rebac.ResolverOption{rebac.WithCache(cache)}, opts...)
	return rebac.NewResolver(repo, opts...)
}

// NewDefaultMaterializer creates an object-index materializer over the
// given database.
func NewDefaultMaterializer(db *gorm.DB, opts ...lgorm.MaterializerOption) *lgorm.IndexMaterializer {
	return lgorm.NewIndexMaterializer(db, opts...)
}
