package utils

import "sync"

// IDTracker tracks seen property IDs to deduplicate fetched listings
type IDTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewIDTracker creates a new tracker
func NewIDTracker() *IDTracker {
	return &IDTracker{seen: make(map[string]struct{})}
}

// Add returns true if the ID is new (not seen before), false if duplicate
func (t *IDTracker) Add(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.seen[id]; exists {
		return false
	}
	t.seen[id] = struct{}{}
	return true
}

// Count returns the number of tracked IDs
func (t *IDTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}
