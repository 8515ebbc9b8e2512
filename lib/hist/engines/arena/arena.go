package arena

import (
	"iter"

	"github.com/ValentinKolb/hKV/lib/hist"
	"github.com/ValentinKolb/hKV/lib/hist/util"
)

// --------------------------------------------------------------------------
// Core arena engine structure
// --------------------------------------------------------------------------

// nilIdx marks the end of a chain and an empty free list
const nilIdx int32 = -1

// record is one version record in the shared arena. Chains are built from
// int32 index links instead of pointers; a record on the free list reuses
// next as the free-list link.
type record[V any] struct {
	startTime int64
	value     V
	next      int32
}

// arenaImpl implements hist.IHistory with all records in one shared arena
// slice. Each handle maps to the arena index of its chain head, and the
// skip-ahead cache is a plain per-handle index. Because chains are linked by
// indices, out-of-order inserts are ordinary sorted splicing; no head
// identity trick is needed.
type arenaImpl[V any] struct {
	records []record[V]
	free    int32 // head of the free list of recycled records
	heads   map[uint64]int32
	hints   map[uint64]int32 // skip-ahead position per chain
	count   int
}

// Options configures the arena engine during initialization
type Options struct {
	InitialCapacity int // Preallocation hint for the arena and key table (<=0 = none)
}

// DefaultOptions returns the default arena engine options
func DefaultOptions() *Options {
	return &Options{
		InitialCapacity: 64,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewHistory creates a new arena engine instance with the specified
// options (optional).
//
// Thread-safety: the returned engine is single-threaded by contract, see
// the hist.IHistory documentation.
func NewHistory[V any](opts *Options) hist.IHistory[V] {
	if opts == nil {
		opts = DefaultOptions()
	}

	capacity := opts.InitialCapacity
	if capacity < 0 {
		capacity = 0
	}

	return &arenaImpl[V]{
		records: make([]record[V], 0, capacity),
		free:    nilIdx,
		heads:   make(map[uint64]int32, capacity),
		hints:   make(map[uint64]int32, capacity),
	}
}

// alloc takes a record from the free list or grows the arena
func (h *arenaImpl[V]) alloc(startTime int64, value V, next int32) int32 {
	if h.free != nilIdx {
		idx := h.free
		h.free = h.records[idx].next
		h.records[idx] = record[V]{startTime: startTime, value: value, next: next}
		return idx
	}
	h.records = append(h.records, record[V]{startTime: startTime, value: value, next: next})
	return int32(len(h.records) - 1)
}

// --------------------------------------------------------------------------
// Core IHistory Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Add inserts a new version for handle, keeping the chain sorted ascending
// by startTime. See the chain engine for the access-pattern rationale; the
// semantics of both engines are identical.
func (h *arenaImpl[V]) Add(handle uint64, startTime int64, value V) {
	h.add(handle, startTime, value, false)
}

// AddRundown inserts a snapshot version: if no chain exists yet for handle,
// the record's start time is forced to time zero. On an existing chain it
// behaves exactly like Add.
func (h *arenaImpl[V]) AddRundown(handle uint64, startTime int64, value V) {
	h.add(handle, startTime, value, true)
}

func (h *arenaImpl[V]) add(handle uint64, startTime int64, value V, rundown bool) {
	head, ok := h.heads[handle]
	if !ok {
		if rundown {
			// late-arriving rundown fact with no earlier explicit assertion
			startTime = 0
		}
		idx := h.alloc(startTime, value, nilIdx)
		h.heads[handle] = idx
		h.hints[handle] = idx
		h.count++
		return
	}

	if startTime < h.records[head].startTime {
		// new earliest record: ordinary splice in front of the head
		idx := h.alloc(startTime, value, head)
		h.heads[handle] = idx
		h.hints[handle] = idx
		h.count++
		return
	}

	// Resume from the skip-ahead hint when the new record belongs at or
	// past the cached position
	cur := head
	if hint, ok := h.hints[handle]; ok && h.records[hint].startTime <= startTime {
		cur = hint
	}

	// Advance to the last record with startTime <= the new one. Equal
	// timestamps are passed over, so the most recently added record ends up
	// last among its ties and wins queries at exactly that time.
	for h.records[cur].next != nilIdx && h.records[h.records[cur].next].startTime <= startTime {
		cur = h.records[cur].next
	}

	next := h.records[cur].next
	idx := h.alloc(startTime, value, next)
	h.records[cur].next = idx
	h.hints[handle] = idx
	h.count++
}

// Remove discards the handle's entire chain and pushes its records onto the
// free list for reuse. Removing an unknown handle is a no-op.
func (h *arenaImpl[V]) Remove(handle uint64) {
	head, ok := h.heads[handle]
	if !ok {
		return
	}

	length := 0
	cur := head
	for cur != nilIdx {
		next := h.records[cur].next
		// zero the record so stored values are released to the go gc
		h.records[cur] = record[V]{next: h.free}
		h.free = cur
		cur = next
		length++
	}

	delete(h.heads, handle)
	delete(h.hints, handle)
	h.count -= length
}

// --------------------------------------------------------------------------
// Core IHistory Interface Methods - Read Operations
// --------------------------------------------------------------------------

// TryGetValue returns the value of the last version of handle whose
// startTime is <= queryTime. A successful lookup moves the skip-ahead hint
// to the matched record.
func (h *arenaImpl[V]) TryGetValue(handle uint64, queryTime int64) (V, bool) {
	var zero V

	head, ok := h.heads[handle]
	if !ok {
		return zero, false
	}

	cur := head
	if hint, ok := h.hints[handle]; ok && h.records[hint].startTime <= queryTime {
		cur = hint
	}

	// Track the most recent qualifying record while advancing, stopping at
	// the first record past queryTime
	match := nilIdx
	for cur != nilIdx && h.records[cur].startTime <= queryTime {
		match = cur
		cur = h.records[cur].next
	}

	if match == nilIdx {
		// every record starts after queryTime
		return zero, false
	}

	h.hints[handle] = match
	return h.records[match].value, true
}

// Count returns the total number of stored version records across all
// chains, maintained incrementally.
func (h *arenaImpl[V]) Count() int {
	return h.count
}

// Entries returns a lazy, single-use sequence over every version record.
// Handles are visited in map order (unspecified); records within a chain
// are yielded in ascending startTime order. The sequence is undefined if
// the engine is mutated during iteration.
func (h *arenaImpl[V]) Entries() iter.Seq[hist.Version[V]] {
	return func(yield func(hist.Version[V]) bool) {
		for handle, head := range h.heads {
			for cur := head; cur != nilIdx; cur = h.records[cur].next {
				v := hist.Version[V]{
					Handle:    handle,
					StartTime: h.records[cur].startTime,
					Value:     h.records[cur].value,
				}
				if !yield(v) {
					return
				}
			}
		}
	}
}

// --------------------------------------------------------------------------
// IHistory Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the engine, including how many arena
// slots are parked on the free list.
func (h *arenaImpl[V]) GetInfo() hist.Info {
	chainLengths := make([]float64, 0, len(h.heads))
	for _, head := range h.heads {
		length := 0
		for cur := head; cur != nilIdx; cur = h.records[cur].next {
			length++
		}
		chainLengths = append(chainLengths, float64(length))
	}

	freeSlots := 0
	for cur := h.free; cur != nilIdx; cur = h.records[cur].next {
		freeSlots++
	}

	meta := &struct {
		ArenaLen  int `json:"arena_len"`
		ArenaCap  int `json:"arena_cap"`
		FreeSlots int `json:"free_slots"`
	}{
		ArenaLen:  len(h.records),
		ArenaCap:  cap(h.records),
		FreeSlots: freeSlots,
	}

	supportedFeatures := []hist.Feature{
		hist.FeatureAdd, hist.FeatureRundown,
		hist.FeatureGet, hist.FeatureRemove,
		hist.FeatureEntries, hist.FeatureStats,
	}

	return hist.Info{
		Records:           h.count,
		Chains:            len(h.heads),
		ChainDistribution: util.NewDistributionStats(chainLengths),
		HistType:          hist.ImplArena,
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}
}

// Close releases the arena, the free list, and both key tables. The engine
// must not be used afterwards.
func (h *arenaImpl[V]) Close() error {
	h.records = nil
	h.free = nilIdx
	h.heads = nil
	h.hints = nil
	h.count = 0
	return nil
}

// SupportsFeature checks if this engine supports a specific feature
func (h *arenaImpl[V]) SupportsFeature(feature hist.Feature) bool {
	supportedFeatures := hist.FeatureAdd |
		hist.FeatureRundown |
		hist.FeatureGet |
		hist.FeatureRemove |
		hist.FeatureEntries |
		hist.FeatureStats
	return supportedFeatures&feature == feature
}
