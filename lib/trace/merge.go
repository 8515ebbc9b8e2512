package trace

import (
	"github.com/ValentinKolb/hKV/lib/hist"
	"github.com/ValentinKolb/hKV/lib/hist/util"
)

// MergeByTime flattens a history into one globally time-ordered slice of
// version records. Enumeration only guarantees ascending order within each
// handle's chain, so the per-handle streams are k-way-merged through a
// keyed min-heap: the heap holds one entry per handle, prioritized by the
// time of that handle's next pending record.
//
// Records of different handles sharing a start time appear in unspecified
// relative order. The history must not be mutated during the merge.
func MergeByTime[V any](h hist.IHistory[V]) []hist.Version[V] {
	chains := make(map[uint64][]hist.Version[V])
	for v := range h.Entries() {
		chains[v.Handle] = append(chains[v.Handle], v)
	}

	heap := util.NewMergeHeap()
	cursor := make(map[uint64]int, len(chains))
	for handle, records := range chains {
		heap.AddItem(handle, records[0].StartTime)
	}

	out := make([]hist.Version[V], 0, h.Count())
	for {
		item, ok := heap.Peek()
		if !ok {
			break
		}

		handle := item.Key
		i := cursor[handle]
		out = append(out, chains[handle][i])

		i++
		cursor[handle] = i
		if i < len(chains[handle]) {
			// reprioritize with the handle's next record time
			heap.AddItem(handle, chains[handle][i].StartTime)
		} else {
			heap.RemoveByKey(handle)
		}
	}

	return out
}
