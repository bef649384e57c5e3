package seen

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

func markets(ids ...string) []model.Market {
	out := make([]model.Market, len(ids))
	for i, id := range ids {
		out[i] = model.Market{ID: id, Question: "Q" + id}
	}
	return out
}

func ids(ms []model.Market) []string {
	var out []string
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func TestDiffBaselineSuppressesAlerts(t *testing.T) {
	tr := New()
	if tr.Initialized() {
		t.Fatal("new tracker must be bootstrapping")
	}

	got := tr.Diff(markets("1", "2", "3"))
	if diff := cmp.Diff(0, len(got)); diff != "" {
		t.Errorf("baseline should report nothing (-want +got):\n%s", diff)
	}
	if !tr.Initialized() {
		t.Error("tracker should be initialized after baseline")
	}
	for _, id := range []string{"1", "2", "3"} {
		if tr.IsNew(id) {
			t.Errorf("id %s should be seen after baseline", id)
		}
	}
	if diff := cmp.Diff(3, tr.Len()); diff != "" {
		t.Errorf("Len() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffEmptyBaseline(t *testing.T) {
	tr := New()
	if got := tr.Diff(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if !tr.Initialized() {
		t.Fatal("empty successful fetch still completes the baseline")
	}

	got := tr.Diff(markets("7"))
	if diff := cmp.Diff([]string{"7"}, ids(got)); diff != "" {
		t.Errorf("new ids mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffReportsOnlyNewInOrder(t *testing.T) {
	tr := New()
	tr.Diff(markets("1", "2"))

	got := tr.Diff(markets("5", "1", "4", "2", "3"))
	if diff := cmp.Diff([]string{"5", "4", "3"}, ids(got)); diff != "" {
		t.Errorf("new ids mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffIsIdempotent(t *testing.T) {
	tr := New()
	tr.Diff(markets("1"))

	first := tr.Diff(markets("1", "2"))
	if diff := cmp.Diff([]string{"2"}, ids(first)); diff != "" {
		t.Errorf("first diff mismatch (-want +got):\n%s", diff)
	}
	for range 3 {
		again := tr.Diff(markets("1", "2"))
		if diff := cmp.Diff(0, len(again)); diff != "" {
			t.Errorf("re-fetch must not report again (-want +got):\n%s", diff)
		}
	}
}

func TestDiffDuplicateInBatch(t *testing.T) {
	tr := New()
	tr.Diff(nil)

	got := tr.Diff(markets("9", "9"))
	if diff := cmp.Diff([]string{"9"}, ids(got)); diff != "" {
		t.Errorf("duplicate should be reported once (-want +got):\n%s", diff)
	}
}

func TestDiffSkipsEmptyIDs(t *testing.T) {
	tr := New()
	tr.Diff(markets(""))
	if diff := cmp.Diff(0, tr.Len()); diff != "" {
		t.Errorf("empty id must not be tracked (-want +got):\n%s", diff)
	}

	got := tr.Diff(markets("", "a"))
	if diff := cmp.Diff([]string{"a"}, ids(got)); diff != "" {
		t.Errorf("new ids mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkSeen(t *testing.T) {
	tr := New()
	if !tr.IsNew("x") {
		t.Fatal("unknown id should be new")
	}
	tr.MarkSeen("x")
	if tr.IsNew("x") {
		t.Fatal("marked id should not be new")
	}
	if tr.Initialized() {
		t.Error("MarkSeen must not complete the baseline")
	}
}

func TestDiffConcurrent(t *testing.T) {
	tr := New()
	tr.Diff(nil)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := make([]string, 0, 50)
			for i := range 50 {
				batch = append(batch, fmt.Sprintf("%d", (g*50+i)%100))
			}
			n := len(tr.Diff(markets(batch...)))
			mu.Lock()
			total += n
			mu.Unlock()
		}()
	}
	wg.Wait()

	if diff := cmp.Diff(100, total); diff != "" {
		t.Errorf("each id must be reported exactly once (-want +got):\n%s", diff)
	}
}
