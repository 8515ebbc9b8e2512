package testing

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/ValentinKolb/hKV/lib/hist"
)

// HistFactory is a function that creates a new instance of a history engine
// for the conformance suite. The suite stores string payloads.
type HistFactory func() hist.IHistory[string]

// RunHistoryTests runs a comprehensive conformance suite for a history
// engine implementation. Every engine must pass the whole suite; feature
// flags only exist so partial engines can be developed against it.
func RunHistoryTests(t *testing.T, name string, factory HistFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Add&TryGetValue", func(t *testing.T) {
			testAddGet(t, factory())
		})

		t.Run("OutOfOrderInsert", func(t *testing.T) {
			testOutOfOrderInsert(t, factory())
		})

		t.Run("InsertPermutations", func(t *testing.T) {
			testInsertPermutations(t, factory)
		})

		t.Run("TieBreak", func(t *testing.T) {
			testTieBreak(t, factory())
		})

		t.Run("Rundown", func(t *testing.T) {
			testRundown(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("CountAccounting", func(t *testing.T) {
			testCountAccounting(t, factory())
		})

		t.Run("MonotonicStress", func(t *testing.T) {
			testMonotonicStress(t, factory())
		})

		t.Run("Entries", func(t *testing.T) {
			testEntries(t, factory())
		})

		t.Run("RandomizedInvariants", func(t *testing.T) {
			testRandomizedInvariants(t, factory())
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})

		t.Run("Close", func(t *testing.T) {
			testClose(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the engine supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, h hist.IHistory[string], feature hist.Feature) {
	if !h.SupportsFeature(feature) {
		t.Skip()
	}
}

// expectValue asserts a successful lookup with the expected value
func expectValue(t *testing.T, h hist.IHistory[string], handle uint64, queryTime int64, want string) {
	t.Helper()
	got, found := h.TryGetValue(handle, queryTime)
	if !found {
		t.Errorf("TryGetValue(%d, %d): expected %q, got not-found", handle, queryTime, want)
		return
	}
	if got != want {
		t.Errorf("TryGetValue(%d, %d): expected %q, got %q", handle, queryTime, got, want)
	}
}

// expectMiss asserts a not-found lookup
func expectMiss(t *testing.T, h hist.IHistory[string], handle uint64, queryTime int64) {
	t.Helper()
	if got, found := h.TryGetValue(handle, queryTime); found {
		t.Errorf("TryGetValue(%d, %d): expected not-found, got %q", handle, queryTime, got)
	}
}

// checkInvariants enumerates the engine and verifies the structural
// invariants: per-handle ascending startTime order and agreement between the
// enumerated element count and Count().
func checkInvariants(t *testing.T, h hist.IHistory[string]) {
	t.Helper()

	yielded := 0
	lastTime := make(map[uint64]int64)
	seen := make(map[uint64]bool)

	for v := range h.Entries() {
		yielded++
		if seen[v.Handle] && v.StartTime < lastTime[v.Handle] {
			t.Errorf("chain ordering broken for handle %d: %d after %d", v.Handle, v.StartTime, lastTime[v.Handle])
		}
		seen[v.Handle] = true
		lastTime[v.Handle] = v.StartTime
	}

	if yielded != h.Count() {
		t.Errorf("enumerated %d records, Count() reports %d", yielded, h.Count())
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testAddGet(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd|hist.FeatureGet)

	const handle = 42

	h.Add(handle, 1000, "A")

	expectValue(t, h, handle, 1000, "A")
	expectValue(t, h, handle, 5000, "A")
	expectMiss(t, h, handle, 999)
	expectMiss(t, h, 7, 1000)

	// a later version supersedes from its start time onward
	h.Add(handle, 2000, "B")

	expectValue(t, h, handle, 1999, "A")
	expectValue(t, h, handle, 2000, "B")
	expectValue(t, h, handle, 9000, "B")

	if h.Count() != 2 {
		t.Errorf("expected Count() == 2, got %d", h.Count())
	}
}

func testOutOfOrderInsert(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd|hist.FeatureGet)

	const handle = 1

	h.Add(handle, 1000, "A")
	h.Add(handle, 500, "B")

	expectValue(t, h, handle, 750, "B")
	expectValue(t, h, handle, 1000, "A")
	expectMiss(t, h, handle, 400)

	// insert between two existing records, after queries moved the cache
	h.Add(handle, 700, "C")

	expectValue(t, h, handle, 699, "B")
	expectValue(t, h, handle, 700, "C")
	expectValue(t, h, handle, 999, "C")
	expectValue(t, h, handle, 1000, "A")
}

// testInsertPermutations verifies that the resolved history is independent
// of the order the Adds were issued in.
func testInsertPermutations(t *testing.T, factory HistFactory) {
	records := []struct {
		time  int64
		value string
	}{
		{100, "a"}, {200, "b"}, {300, "c"}, {400, "d"}, {500, "e"},
	}

	orders := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{1, 4, 0, 3, 2},
	}

	queries := []struct {
		time int64
		want string
		hit  bool
	}{
		{99, "", false},
		{100, "a", true},
		{150, "a", true},
		{200, "b", true},
		{450, "d", true},
		{500, "e", true},
		{9999, "e", true},
	}

	for _, order := range orders {
		h := factory()
		requireFeature(t, h, hist.FeatureAdd|hist.FeatureGet)

		for _, i := range order {
			h.Add(1, records[i].time, records[i].value)
		}

		// issue queries in ascending order first (cache-friendly), then in
		// descending order (cache-hostile); results must match either way
		for _, q := range queries {
			if q.hit {
				expectValue(t, h, 1, q.time, q.want)
			} else {
				expectMiss(t, h, 1, q.time)
			}
		}
		for i := len(queries) - 1; i >= 0; i-- {
			q := queries[i]
			if q.hit {
				expectValue(t, h, 1, q.time, q.want)
			} else {
				expectMiss(t, h, 1, q.time)
			}
		}
	}
}

func testTieBreak(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd|hist.FeatureGet)

	const handle = 3

	h.Add(handle, 100, "first")
	h.Add(handle, 100, "second")

	// most recent writer wins at exactly the tied timestamp
	expectValue(t, h, handle, 100, "second")
	expectValue(t, h, handle, 101, "second")
	expectMiss(t, h, handle, 99)

	h.Add(handle, 100, "third")
	expectValue(t, h, handle, 100, "third")

	if h.Count() != 3 {
		t.Errorf("tied records must all be stored, Count() == %d", h.Count())
	}
}

func testRundown(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd|hist.FeatureRundown|hist.FeatureGet)

	// rundown on an empty chain asserts the state since time zero
	h.AddRundown(1, 999, "R")
	expectValue(t, h, 1, 0, "R")
	expectValue(t, h, 1, 999, "R")

	// rundown on a non-empty chain is an ordinary insert
	h.Add(2, 500, "X")
	h.AddRundown(2, 999, "R2")
	expectMiss(t, h, 2, 0)
	expectValue(t, h, 2, 500, "X")
	expectValue(t, h, 2, 999, "R2")
}

func testRemove(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd|hist.FeatureGet|hist.FeatureRemove)

	h.Add(1, 100, "a")
	h.Add(1, 200, "b")
	h.Add(1, 300, "c")
	h.Add(2, 100, "x")

	if h.Count() != 4 {
		t.Fatalf("expected Count() == 4, got %d", h.Count())
	}

	h.Remove(1)

	if h.Count() != 1 {
		t.Errorf("expected Count() == 1 after Remove, got %d", h.Count())
	}
	expectMiss(t, h, 1, 100)
	expectMiss(t, h, 1, 300)
	expectMiss(t, h, 1, 9999)
	expectValue(t, h, 2, 100, "x")

	// removing an unknown handle is a no-op
	h.Remove(7777)
	if h.Count() != 1 {
		t.Errorf("Remove of unknown handle changed Count() to %d", h.Count())
	}

	// the handle is free for reuse with fresh history
	h.Add(1, 50, "reused")
	expectValue(t, h, 1, 60, "reused")
	expectMiss(t, h, 1, 49)
}

func testCountAccounting(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd|hist.FeatureRemove)

	adds := 0
	removed := 0

	for handle := uint64(1); handle <= 10; handle++ {
		for i := 0; i < int(handle); i++ {
			h.Add(handle, int64(i*10), "v")
			adds++
		}
	}

	// remove every even handle; its chain length is the handle number
	for handle := uint64(2); handle <= 10; handle += 2 {
		h.Remove(handle)
		removed += int(handle)
	}

	if want := adds - removed; h.Count() != want {
		t.Errorf("expected Count() == %d (adds %d - removed %d), got %d", want, adds, removed, h.Count())
	}
}

// testMonotonicStress validates the skip-ahead fast path, not merely the
// naive scan: strictly increasing inserts followed by strictly increasing
// queries must resolve every single record exactly.
func testMonotonicStress(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd|hist.FeatureGet)

	const n = 5000
	const handle = 1

	values := make([]string, n)
	for i := 0; i < n; i++ {
		values[i] = string(rune('a'+i%26)) + string(rune('0'+i%10))
		h.Add(handle, int64(i*100), values[i])
	}

	for i := 0; i < n; i++ {
		expectValue(t, h, handle, int64(i*100), values[i])
	}

	// queries between two start times resolve to the earlier record
	for i := 0; i < n-1; i++ {
		expectValue(t, h, handle, int64(i*100+50), values[i])
	}
}

func testEntries(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd|hist.FeatureRemove|hist.FeatureEntries)

	h.Add(1, 300, "c")
	h.Add(1, 100, "a")
	h.Add(1, 200, "b")
	h.Add(2, 10, "x")
	h.Add(2, 20, "y")
	h.Remove(2)
	h.Add(3, 5, "z")

	got := make(map[uint64][]int64)
	for v := range h.Entries() {
		got[v.Handle] = append(got[v.Handle], v.StartTime)
	}

	if len(got[2]) != 0 {
		t.Errorf("removed handle 2 must not be enumerated, got %v", got[2])
	}
	if want := []int64{100, 200, 300}; !sort.SliceIsSorted(got[1], func(i, j int) bool { return got[1][i] < got[1][j] }) || len(got[1]) != len(want) {
		t.Errorf("handle 1: expected ascending %v, got %v", want, got[1])
	}

	checkInvariants(t, h)

	// early termination must not panic or corrupt state
	stopped := 0
	for range h.Entries() {
		stopped++
		break
	}
	if stopped != 1 {
		t.Errorf("expected exactly one element before break, got %d", stopped)
	}

	checkInvariants(t, h)
}

// testRandomizedInvariants drives the engine with a random interleaving of
// operations against a plain reference model and checks both the query
// results and the structural invariants.
func testRandomizedInvariants(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd|hist.FeatureRundown|hist.FeatureGet|hist.FeatureRemove|hist.FeatureEntries)

	rng := rand.New(rand.NewSource(0x5eed))

	// reference model: per handle, the list of (time, value) in add order
	type rec struct {
		time  int64
		value string
		seq   int
	}
	model := make(map[uint64][]rec)
	seq := 0

	lookup := func(handle uint64, q int64) (string, bool) {
		best := rec{seq: -1}
		found := false
		for _, r := range model[handle] {
			if r.time > q {
				continue
			}
			// greatest time wins; among ties the most recently added
			if !found || r.time > best.time || (r.time == best.time && r.seq > best.seq) {
				best = r
				found = true
			}
		}
		return best.value, found
	}

	const ops = 20000
	for i := 0; i < ops; i++ {
		handle := uint64(rng.Intn(20) + 1)
		switch rng.Intn(10) {
		case 0: // remove
			h.Remove(handle)
			delete(model, handle)
		case 1, 2, 3: // query
			q := int64(rng.Intn(1000))
			want, wantFound := lookup(handle, q)
			got, gotFound := h.TryGetValue(handle, q)
			if gotFound != wantFound || (gotFound && got != want) {
				t.Fatalf("op %d: TryGetValue(%d, %d) = (%q, %v), model says (%q, %v)",
					i, handle, q, got, gotFound, want, wantFound)
			}
		case 4: // rundown
			time := int64(rng.Intn(1000))
			value := string(rune('a' + rng.Intn(26)))
			h.AddRundown(handle, time, value)
			if len(model[handle]) == 0 {
				// on an empty chain a rundown counts from time zero
				time = 0
			}
			model[handle] = append(model[handle], rec{time: time, value: value, seq: seq})
			seq++
		default: // add
			time := int64(rng.Intn(1000))
			value := string(rune('A' + rng.Intn(26)))
			h.Add(handle, time, value)
			model[handle] = append(model[handle], rec{time: time, value: value, seq: seq})
			seq++
		}
	}

	total := 0
	for _, recs := range model {
		total += len(recs)
	}
	if h.Count() != total {
		t.Errorf("expected Count() == %d, got %d", total, h.Count())
	}

	checkInvariants(t, h)
}

func testClose(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd)

	h.Add(1, 100, "a")
	h.Add(1, 200, "b")
	h.Add(2, 100, "x")

	if err := h.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

func testInfo(t *testing.T, h hist.IHistory[string]) {
	requireFeature(t, h, hist.FeatureAdd|hist.FeatureStats)

	h.Add(1, 100, "a")
	h.Add(1, 200, "b")
	h.Add(2, 100, "x")

	info := h.GetInfo()

	if info.Records != 3 {
		t.Errorf("expected Info.Records == 3, got %d", info.Records)
	}
	if info.Chains != 2 {
		t.Errorf("expected Info.Chains == 2, got %d", info.Chains)
	}
	if info.HistType == "" {
		t.Error("Info.HistType must identify the engine")
	}
	if info.ChainDistribution.Max != 2 {
		t.Errorf("expected longest chain == 2, got %v", info.ChainDistribution.Max)
	}
}
