package engine

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/getstubd/stubd/pkg/requestlog"
)

// InMemoryRequestLogger implements RequestLogger with a capped in-memory
// buffer. Oldest entries are evicted first once the capacity is reached.
type InMemoryRequestLogger struct {
	entries    []*requestlog.Entry
	maxEntries int
	mu         sync.RWMutex
}

// NewInMemoryRequestLogger creates a new InMemoryRequestLogger with the given capacity.
func NewInMemoryRequestLogger(maxEntries int) *InMemoryRequestLogger {
	if maxEntries <= 0 {
		maxEntries = 1000 // Default
	}
	return &InMemoryRequestLogger{
		entries:    make([]*requestlog.Entry, 0, maxEntries),
		maxEntries: maxEntries,
	}
}

// Log records a request log entry.
func (l *InMemoryRequestLogger) Log(entry *requestlog.Entry) {
	if entry == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ID == "" {
		entry.ID = "req-" + uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	// FIFO eviction: remove oldest if at capacity
	if len(l.entries) >= l.maxEntries {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, entry)
}

// Get retrieves a log entry by ID.
func (l *InMemoryRequestLogger) Get(id string) *requestlog.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, entry := range l.entries {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

// List returns all log entries, newest first, optionally filtered.
func (l *InMemoryRequestLogger) List(filter *requestlog.Filter) []*requestlog.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*requestlog.Entry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		entry := l.entries[i]
		if filter != nil && !matchesFilter(entry, filter) {
			continue
		}
		result = append(result, entry)
	}

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return []*requestlog.Entry{}
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(result) {
			result = result[:filter.Limit]
		}
	}

	return result
}

// Clear removes all log entries.
func (l *InMemoryRequestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]*requestlog.Entry, 0, l.maxEntries)
}

// Count returns the number of log entries.
func (l *InMemoryRequestLogger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// matchesFilter checks if an entry matches all filter criteria.
func matchesFilter(entry *requestlog.Entry, filter *requestlog.Filter) bool {
	if filter.Method != "" && entry.Method != filter.Method {
		return false
	}
	if filter.Path != "" && !strings.HasPrefix(entry.Path, filter.Path) {
		return false
	}
	if filter.EndpointID != "" && entry.EndpointID != filter.EndpointID {
		return false
	}
	if filter.StatusCode != 0 && entry.ResponseStatus != filter.StatusCode {
		return false
	}
	return true
}
