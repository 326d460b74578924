package tracker

import (
	"sync"

	"github.com/getstubd/stubd/pkg/stub"
)

// HitTracker is a thread-safe map from endpoint identity to invocation count.
// Entries are created lazily on first hit. Counts are 64-bit and grow
// monotonically for the lifetime of the tracker.
type HitTracker struct {
	mu     sync.RWMutex
	counts map[stub.Identity]uint64
}

// New creates an empty HitTracker.
func New() *HitTracker {
	return &HitTracker{
		counts: make(map[stub.Identity]uint64),
	}
}

// Next returns the count observed for the identity before this call and
// increments it. The read-then-increment is atomic per identity: two
// concurrent callers for the same identity never observe the same count.
func (t *HitTracker) Next(id stub.Identity) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.counts[id]
	t.counts[id] = n + 1
	return n
}

// Count returns the number of hits recorded for the identity (0 if never hit).
func (t *HitTracker) Count(id stub.Identity) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[id]
}

// Len returns the number of identities with at least one recorded hit.
func (t *HitTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.counts)
}

// Reset discards all recorded counts.
func (t *HitTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts = make(map[stub.Identity]uint64)
}
