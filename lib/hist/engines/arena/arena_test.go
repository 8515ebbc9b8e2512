package arena

import (
	"fmt"
	"testing"
)

// whitebox tests for record recycling and hint bookkeeping

func TestFreeListRecyclesRemovedRecords(t *testing.T) {
	h := NewHistory[string](nil).(*arenaImpl[string])

	// cycle handles through the arena: each generation removes its chain
	// before the next one is built
	for gen := 0; gen < 100; gen++ {
		handle := uint64(gen)
		for i := 0; i < 10; i++ {
			h.Add(handle, int64(i), fmt.Sprintf("g%d", gen))
		}
		h.Remove(handle)
	}

	if len(h.records) > 10 {
		t.Errorf("arena grew to %d records although at most 10 are ever live", len(h.records))
	}
	if h.count != 0 {
		t.Errorf("expected empty engine, Count() == %d", h.count)
	}

	free := 0
	for cur := h.free; cur != nilIdx; cur = h.records[cur].next {
		free++
	}
	if free != len(h.records) {
		t.Errorf("expected all %d arena slots on the free list, found %d", len(h.records), free)
	}
}

func TestRemoveReleasesStoredValues(t *testing.T) {
	h := NewHistory[string](nil).(*arenaImpl[string])

	h.Add(1, 100, "payload")
	h.Remove(1)

	for i, rec := range h.records {
		if rec.value != "" {
			t.Errorf("record %d still holds value %q after Remove", i, rec.value)
		}
	}
	if _, ok := h.hints[1]; ok {
		t.Error("Remove must drop the handle's skip-ahead hint")
	}
}

func TestHintTracksInsertionAndLookup(t *testing.T) {
	h := NewHistory[string](nil).(*arenaImpl[string])

	for i := 0; i < 50; i++ {
		h.Add(1, int64(i*10), "v")
	}

	hint, ok := h.hints[1]
	if !ok {
		t.Fatal("sequential inserts must leave the hint set")
	}
	if h.records[hint].startTime != 490 {
		t.Errorf("hint must sit at the last insertion point, got %d", h.records[hint].startTime)
	}

	if _, found := h.TryGetValue(1, 255); !found {
		t.Fatal("expected hit at 255")
	}
	if h.records[h.hints[1]].startTime != 250 {
		t.Errorf("hint must sit at the matched record, got %d", h.records[h.hints[1]].startTime)
	}

	// the hint must reference a record of this chain
	reachable := false
	for cur := h.heads[1]; cur != nilIdx; cur = h.records[cur].next {
		if cur == h.hints[1] {
			reachable = true
			break
		}
	}
	if !reachable {
		t.Error("hint points outside its own chain")
	}
}

func TestInsertBeforeHeadRelinks(t *testing.T) {
	h := NewHistory[string](nil).(*arenaImpl[string])

	h.Add(1, 1000, "A")
	h.Add(1, 500, "B")

	head := h.heads[1]
	if h.records[head].startTime != 500 || h.records[head].value != "B" {
		t.Errorf("head must be the earlier record, got (%d, %q)",
			h.records[head].startTime, h.records[head].value)
	}
	next := h.records[head].next
	if next == nilIdx || h.records[next].startTime != 1000 {
		t.Error("former head must be the new head's successor")
	}
}
