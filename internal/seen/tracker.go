// Package seen tracks which market IDs have already been observed.
package seen

import (
	"sync"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

// Tracker is a grow-only set of market IDs with a one-time baseline pass.
//
// The first Diff after construction marks every ID as seen and reports
// nothing, so listings that predate the process never produce alerts.
// IDs are never removed.
type Tracker struct {
	mu          sync.Mutex
	ids         map[string]struct{}
	initialized bool
}

// New creates an empty Tracker in the bootstrapping state.
func New() *Tracker {
	return &Tracker{ids: make(map[string]struct{})}
}

// IsNew reports whether id has not been marked seen yet.
func (t *Tracker) IsNew(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.ids[id]
	return !ok
}

// MarkSeen adds id to the set.
func (t *Tracker) MarkSeen(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids[id] = struct{}{}
}

// Initialized reports whether the baseline pass has happened.
func (t *Tracker) Initialized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initialized
}

// Len returns the number of tracked IDs.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}

// Diff marks every market in the batch as seen and returns the ones that were
// not seen before, in batch order. The first call is the baseline and always
// returns nil. Markets without an ID are ignored.
func (t *Tracker) Diff(markets []model.Market) []model.Market {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		for _, m := range markets {
			if m.ID != "" {
				t.ids[m.ID] = struct{}{}
			}
		}
		t.initialized = true
		return nil
	}

	var fresh []model.Market
	for _, m := range markets {
		if m.ID == "" {
			continue
		}
		if _, ok := t.ids[m.ID]; ok {
			continue
		}
		t.ids[m.ID] = struct{}{}
		fresh = append(fresh, m)
	}
	return fresh
}
