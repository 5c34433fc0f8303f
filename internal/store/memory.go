package store

import (
	"sync"
	"time"
)

// retentionWindow bounds how long ingested events are kept in memory.
const retentionWindow = 24 * time.Hour

// StoredEvent is one retained telemetry record. The timestamp is kept as the
// raw string the client sent; scans parse it on demand and skip values that
// fail to parse.
type StoredEvent struct {
	CustomerID string
	Timestamp  string
	Type       string
	Payload    map[string]any
	ReceivedAt time.Time
}

// MemoryStore is an append-only in-memory event log with age-based
// compaction. It is shared by every request handler, so all access goes
// through the mutex.
type MemoryStore struct {
	mu     sync.Mutex
	events []StoredEvent

	now func() time.Time
}

// NewMemoryStore creates an empty store with the 24h retention window.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Add stamps the event with the current instant, appends it, and prunes
// anything older than the retention window. Compaction runs on every write
// only; an expired event can linger through a read-only idle period until the
// next write evicts it. That trade-off keeps the store timer-free at the low
// write volumes it is built for.
func (s *MemoryStore) Add(ev StoredEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ReceivedAt = s.now()
	s.events = append(s.events, ev)
	s.compactLocked()
}

// CountInWindow reports how many of customerID's events carry a timestamp in
// [now-window, now], plus the most recent timestamp seen for that customer
// across the whole retained log, not just the window. Timestamps that fail to
// parse are excluded from both. The second return is nil when the customer
// has no retained events.
func (s *MemoryStore) CountInWindow(customerID string, window time.Duration) (int, *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowAt := s.now()
	cutoff := nowAt.Add(-window)

	count := 0
	var last *string
	var lastAt time.Time
	for i := range s.events {
		e := &s.events[i]
		if e.CustomerID != customerID {
			continue
		}
		ts, err := time.Parse(time.RFC3339, e.Timestamp)
		if err != nil {
			continue
		}
		if !ts.Before(cutoff) && !ts.After(nowAt) {
			count++
		}
		if last == nil || ts.After(lastAt) {
			raw := e.Timestamp
			last = &raw
			lastAt = ts
		}
	}
	return count, last
}

// Size returns the number of retained events.
func (s *MemoryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// compactLocked drops events older than the retention window. Events whose
// timestamp no longer parses are dropped too; they can never satisfy the keep
// predicate. Callers must hold the mutex.
func (s *MemoryStore) compactLocked() {
	keepSince := s.now().Add(-retentionWindow)

	kept := s.events[:0]
	for _, e := range s.events {
		ts, err := time.Parse(time.RFC3339, e.Timestamp)
		if err != nil {
			continue
		}
		if !ts.Before(keepSince) {
			kept = append(kept, e)
		}
	}
	// Zero the tail so evicted payload maps can be collected.
	for i := len(kept); i < len(s.events); i++ {
		s.events[i] = StoredEvent{}
	}
	s.events = kept
}
