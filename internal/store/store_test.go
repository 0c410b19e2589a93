package store

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func rec(id string, at time.Time) Record {
	return Record{
		Kind:        "generic",
		MessageID:   id,
		Outcome:     OutcomeDelivered,
		ProcessedAt: at,
	}
}

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestAddAndList_NewestFirst(t *testing.T) {
	base := time.Now()
	st := New(10, time.Hour)
	st.now = fixedClock(base)

	for i := 0; i < 3; i++ {
		st.Add(rec(fmt.Sprintf("m-%d", i), base.Add(time.Duration(i)*time.Second)))
	}

	records := st.List()
	if len(records) != 3 {
		t.Fatalf("List: got %d records, want 3", len(records))
	}
	if records[0].MessageID != "m-2" {
		t.Errorf("List[0].MessageID: got %q, want m-2", records[0].MessageID)
	}
	if records[2].MessageID != "m-0" {
		t.Errorf("List[2].MessageID: got %q, want m-0", records[2].MessageID)
	}
}

func TestAdd_DropsOldestAtCapacity(t *testing.T) {
	base := time.Now()
	st := New(2, time.Hour)
	st.now = fixedClock(base)

	for i := 0; i < 3; i++ {
		st.Add(rec(fmt.Sprintf("m-%d", i), base))
	}

	if n := st.Count(); n != 2 {
		t.Fatalf("Count: got %d, want 2", n)
	}
	records := st.List()
	if records[0].MessageID != "m-2" || records[1].MessageID != "m-1" {
		t.Errorf("List after trim: got %q/%q, want m-2/m-1",
			records[0].MessageID, records[1].MessageID)
	}
}

func TestList_ExcludesExpired(t *testing.T) {
	base := time.Now()
	st := New(10, time.Hour)

	st.Add(rec("old", base.Add(-2*time.Hour)))
	st.Add(rec("new", base))

	st.now = fixedClock(base)
	records := st.List()

	if len(records) != 1 {
		t.Fatalf("List: got %d records, want 1", len(records))
	}
	if records[0].MessageID != "new" {
		t.Errorf("List[0].MessageID: got %q, want new", records[0].MessageID)
	}
}

func TestCount_IncludesExpired(t *testing.T) {
	base := time.Now()
	st := New(10, time.Hour)

	st.Add(rec("old", base.Add(-2*time.Hour)))
	st.Add(rec("new", base))

	// Count includes both; expired not yet evicted.
	if n := st.Count(); n != 2 {
		t.Errorf("Count: got %d, want 2", n)
	}
}

func TestEvict_RemovesExpired(t *testing.T) {
	base := time.Now()
	st := New(10, time.Hour)

	st.Add(rec("old1", base.Add(-3*time.Hour)))
	st.Add(rec("old2", base.Add(-2*time.Hour)))
	st.Add(rec("live", base))

	removed := st.Evict(base)
	if removed != 2 {
		t.Errorf("Evict: removed %d, want 2", removed)
	}
	if st.Count() != 1 {
		t.Errorf("Count after evict: got %d, want 1", st.Count())
	}
}

func TestEvict_NoOp_AllLive(t *testing.T) {
	base := time.Now()
	st := New(10, time.Hour)
	st.Add(rec("live", base))

	if removed := st.Evict(base); removed != 0 {
		t.Errorf("Evict on live record: removed %d, want 0", removed)
	}
}

func TestConcurrentAdds(t *testing.T) {
	st := New(50, time.Hour)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Add(rec("concurrent", time.Now()))
		}()
	}
	wg.Wait()

	if st.Count() != 50 {
		t.Errorf("Count after concurrent adds: got %d, want 50", st.Count())
	}
}

func TestConcurrentMixedOps(t *testing.T) {
	st := New(50, time.Hour)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			st.Add(rec("mixed", time.Now()))
		}()
		go func() {
			defer wg.Done()
			st.List()
		}()
	}
	wg.Wait()
}
