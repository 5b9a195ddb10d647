package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/farmwatch/farmwatch/pkg/types"
	"github.com/farmwatch/farmwatch/server/internal/metrics"
)

// sweepInterval is the fixed period of the background eviction pass. It is
// independent of the expiry TTL and of read/write traffic.
const sweepInterval = 30 * time.Second

// Store is a thread-safe in-memory record index keyed by the derived record
// key. Writes merge partial updates over existing records; a background
// sweep (Run) removes records whose last observation is older than the TTL.
type Store struct {
	mu   sync.RWMutex
	data map[string]*types.Record
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Store whose records expire ttl after their last observation.
func New(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*types.Record),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Now returns the store's current clock reading. Callers ingesting a batch
// capture it once so every item in the batch lands on the same timestamp.
func (s *Store) Now() time.Time { return s.now() }

// Upsert creates the record for key if absent, with both timestamps set to
// now, or overlays the update's present fields onto the existing record and
// refreshes LastSeen. FirstSeen is never modified after creation.
func (s *Store) Upsert(key string, u types.Update, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data[key]
	if !ok {
		r = &types.Record{Key: key, FirstSeen: now.Unix()}
		s.data[key] = r
	}
	u.Apply(r)
	r.LastSeen = now.Unix()
}

// Get returns a copy of the record for key and whether it exists. The record
// may be stale; staleness is the caller's concern.
func (s *Store) Get(key string) (types.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data[key]
	if !ok {
		return types.Record{}, false
	}
	return *r, true
}

// ListFresh returns copies of all records observed within the TTL, ordered
// by LastSeen descending (most recently observed first).
func (s *Store) ListFresh() []types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().Unix() - int64(s.ttl/time.Second)
	out := make([]types.Record, 0, len(s.data))
	for _, r := range s.data {
		if r.LastSeen >= cutoff {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastSeen > out[j].LastSeen
	})
	return out
}

// Count returns the total number of records held, including stale ones the
// sweep has not yet removed.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Sweep removes every record whose last observation is older than the TTL
// relative to now. It returns the number of records removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Unix() - int64(s.ttl/time.Second)
	removed := 0
	for key, r := range s.data {
		if r.LastSeen < cutoff {
			delete(s.data, key)
			removed++
		}
	}
	return removed
}

// Run starts the background eviction loop, ticking on the fixed sweep
// period until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Sweep(now); n > 0 {
				metrics.StoreEvicted.Add(float64(n))
				slog.Debug("store: swept stale records", "count", n)
			}
		}
	}
}
