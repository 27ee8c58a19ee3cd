package rebac

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryKV provides an in-memory implementation of KV. This is useful for
// testing, development, and simple single-instance deployments. For
// distributed deployments, use RedisKV.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryKV creates a new in-memory key-value store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetWithExpiry writes a value that expires after ttl.
func (kv *MemoryKV) SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.entries[key] = memoryEntry{
		value:     value,
		expiresAt: kv.now().Add(ttl),
	}
	return nil
}

// Get returns the value for key, treating expired entries as absent.
func (kv *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	kv.mu.RLock()
	entry, found := kv.entries[key]
	kv.mu.RUnlock()

	if !found || kv.now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

// MemoryTupleStore provides an in-memory implementation of TupleStore.
// Tuples are held as their computed string forms.
type MemoryTupleStore struct {
	mu     sync.RWMutex
	tuples []string
}

// NewMemoryTupleStore creates a new in-memory tuple store.
func NewMemoryTupleStore() *MemoryTupleStore {
	return &MemoryTupleStore{
		tuples: make([]string, 0),
	}
}

// Add stores a computed permission tuple if it is not already present.
func (s *MemoryTupleStore) Add(computedTuple string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tuples {
		if t == computedTuple {
			return
		}
	}
	s.tuples = append(s.tuples, computedTuple)
}

// MatchTuplePrefix reports whether any stored tuple has computedTuple as a
// literal prefix.
func (s *MemoryTupleStore) MatchTuplePrefix(ctx context.Context, computedTuple string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tuples {
		if strings.HasPrefix(t, computedTuple) {
			return true, nil
		}
	}
	return false, nil
}

// Compile-time interface checks
var (
	_ KV         = (*MemoryKV)(nil)
	_ TupleStore = (*MemoryTupleStore)(nil)
)
