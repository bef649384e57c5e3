package journal

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Market.ID)
	}
	return out
}

func add(j *Journal, id string) {
	j.Add(Entry{Market: model.Market{ID: id}, Topic: model.TopicOther})
}

func TestJournal(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		add      []string
		want     []string
	}{
		{name: "empty", capacity: 3, want: []string{}},
		{name: "partial", capacity: 3, add: []string{"a", "b"}, want: []string{"b", "a"}},
		{name: "exactly full", capacity: 3, add: []string{"a", "b", "c"}, want: []string{"c", "b", "a"}},
		{name: "wraps", capacity: 3, add: []string{"a", "b", "c", "d", "e"}, want: []string{"e", "d", "c"}},
		{name: "capacity one", capacity: 1, add: []string{"a", "b"}, want: []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := New(tt.capacity)
			for _, id := range tt.add {
				add(j, id)
			}
			if diff := cmp.Diff(tt.want, ids(j.List())); diff != "" {
				t.Errorf("List() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(len(tt.want), j.Len()); diff != "" {
				t.Errorf("Len() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJournalDefaultCapacity(t *testing.T) {
	j := New(0)
	for i := 0; i < defaultCapacity+10; i++ {
		add(j, "x")
	}
	if diff := cmp.Diff(defaultCapacity, j.Len()); diff != "" {
		t.Errorf("Len() mismatch (-want +got):\n%s", diff)
	}
}

func TestJournalConcurrent(t *testing.T) {
	j := New(8)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			add(j, "m")
			_ = j.List()
		}()
	}
	wg.Wait()
	if diff := cmp.Diff(8, j.Len()); diff != "" {
		t.Errorf("Len() mismatch (-want +got):\n%s", diff)
	}
}
