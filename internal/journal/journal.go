// Package journal keeps a bounded, in-memory record of routed listings.
package journal

import (
	"sync"
	"time"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

const defaultCapacity = 50

// Entry is one routed listing.
type Entry struct {
	Market     model.Market
	Topic      model.Topic
	Recipients int
	At         time.Time
}

// Journal is a fixed-capacity ring of entries. Oldest entries are evicted first.
type Journal struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// New creates a journal holding at most capacity entries.
// A non-positive capacity falls back to the default.
func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Journal{entries: make([]Entry, capacity)}
}

// Add records e, replacing the oldest entry when the journal is full.
func (j *Journal) Add(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries[j.next] = e
	j.next = (j.next + 1) % len(j.entries)
	if j.next == 0 {
		j.full = true
	}
}

// Len returns the number of stored entries.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.full {
		return len(j.entries)
	}
	return j.next
}

// List returns the stored entries, newest first.
func (j *Journal) List() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	n := j.next
	if j.full {
		n = len(j.entries)
	}
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (j.next - i + len(j.entries)) % len(j.entries)
		out = append(out, j.entries[idx])
	}
	return out
}
