// Package audit records authorization decisions for explainability and
// compliance review. Recording is best-effort: a failed write is logged and
// never blocks or fails the decision path.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/getlattice/lattice/rebac"
)

// Event is one resolved authorization decision.
type Event struct {
	ID              string    `json:"id"`
	Tuple           string    `json:"tuple"` // computed tuple string
	Allowed         bool      `json:"allowed"`
	Source          string    `json:"source"` // "cache" or "store"
	InheritanceTree []string  `json:"inheritance_tree,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store defines the interface for persisting and querying decision events.
type Store interface {
	// SaveEvent persists a decision event.
	SaveEvent(ctx context.Context, event *Event) error

	// ListEvents returns the most recent events, newest first.
	ListEvents(ctx context.Context, limit int) ([]*Event, error)
}

// DecisionRecorder implements rebac.Recorder on top of a Store. It is safe
// for concurrent use.
type DecisionRecorder struct {
	store Store
	log   *zap.Logger
}

// RecorderOption configures a DecisionRecorder.
type RecorderOption func(*DecisionRecorder)

// WithLogger sets the logger used to report failed writes.
func WithLogger(log *zap.Logger) RecorderOption {
	return func(r *DecisionRecorder) {
		r.log = log
	}
}

// NewDecisionRecorder creates a recorder persisting to the given store.
func NewDecisionRecorder(store Store, opts ...RecorderOption) *DecisionRecorder {
	r := &DecisionRecorder{
		store: store,
		log:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Record persists one decision event. Failures are logged, never returned:
// auditing must not change the outcome of a check.
func (r *DecisionRecorder) Record(ctx context.Context, computedTuple string, allowed, fromCache bool) {
	source := "store"
	if fromCache {
		source = "cache"
	}

	event := &Event{
		ID:        uuid.NewString(),
		Tuple:     computedTuple,
		Allowed:   allowed,
		Source:    source,
		CreatedAt: time.Now(),
	}

	if err := r.store.SaveEvent(ctx, event); err != nil {
		r.log.Warn("audit event dropped",
			zap.String("tuple", computedTuple),
			zap.Error(err),
		)
	}
}

// MemoryStore provides an in-memory implementation of Store, useful for
// testing and development.
type MemoryStore struct {
	mu     sync.RWMutex
	events []*Event
}

// NewMemoryStore creates a new in-memory event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveEvent appends the event.
func (s *MemoryStore) SaveEvent(ctx context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListEvents returns up to limit events, newest first. A non-positive limit
// returns everything.
func (s *MemoryStore) ListEvents(ctx context.Context, limit int) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}

	result := make([]*Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		result = append(result, s.events[i])
	}
	return result, nil
}

// Compile-time interface checks
var (
	_ Store          = (*MemoryStore)(nil)
	_ rebac.Recorder = (*DecisionRecorder)(nil)
)
