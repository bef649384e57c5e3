package storage

import (
	"context"
	"sync"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

// Memory implements Storage in process memory. It is the default backend.
type Memory struct {
	mu    sync.Mutex
	prefs map[int64]*model.Preferences
	order []int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{prefs: make(map[int64]*model.Preferences)}
}

// Get returns the preferences of chatID, creating them if needed.
func (m *Memory) Get(_ context.Context, chatID int64) (model.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.lookup(chatID), nil
}

// Toggle flips the flag of topic for chatID.
func (m *Memory) Toggle(_ context.Context, chatID int64, topic model.Topic) (model.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.lookup(chatID)
	if topic.Valid() {
		p.Enabled[topic] = !p.Enabled[topic]
	}
	return *p, nil
}

// List returns a snapshot of all subscribers.
func (m *Memory) List(_ context.Context) ([]model.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Preferences, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.prefs[id])
	}
	return out, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) lookup(chatID int64) *model.Preferences {
	if p, ok := m.prefs[chatID]; ok {
		return p
	}
	p := model.DefaultPreferences(chatID)
	m.prefs[chatID] = &p
	m.order = append(m.order, chatID)
	return &p
}
