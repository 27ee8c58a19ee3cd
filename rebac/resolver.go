package rebac

import (
	"context"

	"go.uber.org/zap"
)

// TupleStore is the contract required from the external relational store:
// a single-tuple existence check equivalent to executing the generated
// access-list query for one object.
type TupleStore interface {
	// MatchTuplePrefix reports whether any persisted permission tuple has
	// the computed tuple as a literal prefix. Prefix matching supports
	// hierarchical permission propagation for nested resources.
	MatchTuplePrefix(ctx context.Context, computedTuple string) (bool, error)
}

// Checker answers authorization checks. Resolver is the default
// implementation; wrappers can decorate it for auditing.
type Checker interface {
	Check(ctx context.Context, subject, relation, object string) (bool, error)
}

// Recorder receives decision events for audit purposes. Implementations
// must not block the check path.
type Recorder interface {
	Record(ctx context.Context, computedTuple string, allowed bool, fromCache bool)
}

// Resolver runs the authorization pipeline:
// validate → compute tuple → cache lookup → on miss, consult the tuple
// store and cache the decision.
//
// All operations are request-scoped. The resolver performs no locking and
// does not coalesce concurrent lookups for the same tuple; two concurrent
// misses both consult the store. That is acceptable because the underlying
// check is an idempotent read, but no at-most-once execution guarantee is
// provided. Cache and store failures propagate verbatim; no retry or
// backoff happens here.
type Resolver struct {
	store    TupleStore
	cache    *DecisionCache
	recorder Recorder
	log      *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache enables the short-TTL decision cache.
func WithCache(cache *DecisionCache) ResolverOption {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithRecorder registers an audit recorder for resolved decisions.
func WithRecorder(rec Recorder) ResolverOption {
	return func(r *Resolver) {
		r.recorder = rec
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = log
	}
}

// NewResolver creates a resolver backed by the given tuple store.
func NewResolver(store TupleStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store: store,
		log:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Check reports whether the subject holds the relation (or permission) on
// the object. An invalid triple aborts the whole check before touching the
// cache or the store.
func (r *Resolver) Check(ctx context.Context, subject, relation, object string) (bool, error) {
	if err := Validate(subject, relation, object); err != nil {
		return false, err
	}

	tuple := ComputeTuple(subject, relation, object)

	if r.cache != nil {
		decision, err := r.cache.Lookup(ctx, tuple)
		if err != nil {
			return false, err
		}
		if decision.Hit() {
			r.log.Debug("decision served from cache",
				zap.String("tuple", tuple),
				zap.Stringer("decision", decision),
			)
			r.record(ctx, tuple, decision.Allowed(), true)
			return decision.Allowed(), nil
		}
	}

	allowed, err := r.store.MatchTuplePrefix(ctx, tuple)
	if err != nil {
		return false, err
	}

	if r.cache != nil {
		if err := r.cache.Store(ctx, tuple, allowed); err != nil {
			return false, err
		}
	}

	r.log.Debug("decision resolved from store",
		zap.String("tuple", tuple),
		zap.Bool("allowed", allowed),
	)
	r.record(ctx, tuple, allowed, false)

	return allowed, nil
}

func (r *Resolver) record(ctx context.Context, tuple string, allowed, fromCache bool) {
	if r.recorder != nil {
		r.recorder.Record(ctx, tuple, allowed, fromCache)
	}
}

// Compile-time interface check
var _ Checker = (*Resolver)(nil)
