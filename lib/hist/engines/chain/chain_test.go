package chain

import "testing"

// whitebox tests for the parts of the engine the interface cannot observe:
// head identity preservation and skip-ahead cache movement

func TestHeadIdentityPreservedOnSplice(t *testing.T) {
	h := NewHistory[string](nil).(*chainImpl[string])

	h.Add(1, 1000, "A")
	head := h.chains[1]

	// insert before the current earliest record
	h.Add(1, 500, "B")

	if h.chains[1] != head {
		t.Fatal("out-of-order insert must preserve the identity of the chain's head object")
	}
	if head.startTime != 500 || head.value != "B" {
		t.Errorf("head must now carry the earlier record, got (%d, %q)", head.startTime, head.value)
	}
	if head.next == nil || head.next.startTime != 1000 || head.next.value != "A" {
		t.Error("displaced record must be relinked as the head's successor")
	}
}

func TestSkipAheadAdvancesOnSequentialAccess(t *testing.T) {
	h := NewHistory[string](nil).(*chainImpl[string])

	for i := 0; i < 100; i++ {
		h.Add(1, int64(i*10), "v")
	}

	head := h.chains[1]
	if head.skipAhead == nil {
		t.Fatal("sequential inserts must leave the skip-ahead cache set")
	}
	if head.skipAhead.startTime != 990 {
		t.Errorf("cache must sit at the last insertion point, got %d", head.skipAhead.startTime)
	}

	// a mid-chain query moves the cache to the matched record
	if _, found := h.TryGetValue(1, 550); !found {
		t.Fatal("expected hit at 550")
	}
	if head.skipAhead.startTime != 550 {
		t.Errorf("cache must sit at the matched record, got %d", head.skipAhead.startTime)
	}

	// the cache must always be reachable from the head
	reachable := false
	for cur := head; cur != nil; cur = cur.next {
		if cur == head.skipAhead {
			reachable = true
			break
		}
	}
	if !reachable {
		t.Error("skip-ahead cache points outside its own chain")
	}
}

func TestSkipAheadStaysInChainAfterSplices(t *testing.T) {
	h := NewHistory[string](nil).(*chainImpl[string])

	h.Add(1, 100, "a")
	h.Add(1, 300, "c")
	h.Add(1, 500, "e")

	// park the cache at the tail, then splice in front of everything
	if _, found := h.TryGetValue(1, 500); !found {
		t.Fatal("expected hit at 500")
	}
	h.Add(1, 50, "head")
	h.Add(1, 200, "b")
	h.Add(1, 400, "d")

	head := h.chains[1]
	times := []int64{}
	for cur := head; cur != nil; cur = cur.next {
		times = append(times, cur.startTime)
	}
	want := []int64{50, 100, 200, 300, 400, 500}
	if len(times) != len(want) {
		t.Fatalf("expected %d records, got %v", len(want), times)
	}
	for i := range want {
		if times[i] != want[i] {
			t.Fatalf("chain out of order: got %v, want %v", times, want)
		}
	}

	reachable := false
	for cur := head; cur != nil; cur = cur.next {
		if cur == head.skipAhead {
			reachable = true
			break
		}
	}
	if !reachable {
		t.Error("skip-ahead cache points outside its own chain after splices")
	}
}

func TestRundownForcesTimeZeroOnlyOnEmptyChain(t *testing.T) {
	h := NewHistory[string](nil).(*chainImpl[string])

	h.AddRundown(1, 999, "R")
	if head := h.chains[1]; head.startTime != 0 {
		t.Errorf("rundown on empty chain must store start time 0, got %d", head.startTime)
	}

	h.AddRundown(1, 999, "S")
	if head := h.chains[1]; head.next == nil || head.next.startTime != 999 {
		t.Error("rundown on non-empty chain must keep the passed start time")
	}
}
