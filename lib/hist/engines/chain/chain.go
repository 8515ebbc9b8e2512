package chain

import (
	"iter"

	"github.com/ValentinKolb/hKV/lib/hist"
	"github.com/ValentinKolb/hKV/lib/hist/util"
)

// --------------------------------------------------------------------------
// Core chain engine structure
// --------------------------------------------------------------------------

// node is one version record in a handle's chain. Chains are singly linked
// and sorted ascending by startTime. skipAhead is only meaningful on the
// node that heads a chain; it is a non-owning reference to some node
// reachable from the head by following next, never to another chain.
type node[V any] struct {
	startTime int64
	value     V
	next      *node[V]
	skipAhead *node[V]
}

// chainImpl implements hist.IHistory with a key table from handle to the
// head node of that handle's version chain.
//
// The head node stored in the key table keeps its identity for the lifetime
// of the chain: inserting before an existing node moves that node's content
// into a new successor and overwrites the node in place, so the table entry
// never has to be rewritten on out-of-order inserts.
type chainImpl[V any] struct {
	chains map[uint64]*node[V]
	count  int
}

// Options configures the chain engine during initialization
type Options struct {
	InitialCapacity int // Preallocation hint for the key table (<=0 = none)
}

// DefaultOptions returns the default chain engine options
func DefaultOptions() *Options {
	return &Options{
		InitialCapacity: 64,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewHistory creates a new chain engine instance with the specified
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

	return &chainImpl[V]{
		chains: make(map[uint64]*node[V], capacity),
	}
}

// --------------------------------------------------------------------------
// Core IHistory Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Add inserts a new version for handle, keeping the chain sorted ascending
// by startTime. Inserts issued in increasing time order resume from the
// chain's skip-ahead cache and are amortized O(1); out-of-order inserts
// fall back to a scan from the head.
func (h *chainImpl[V]) Add(handle uint64, startTime int64, value V) {
	h.add(handle, startTime, value, false)
}

// AddRundown inserts a snapshot version: if no chain exists yet for handle,
// the record's start time is forced to time zero, asserting the state has
// been in force since the earliest observable moment. On an existing chain
// it behaves exactly like Add.
func (h *chainImpl[V]) AddRundown(handle uint64, startTime int64, value V) {
	h.add(handle, startTime, value, true)
}

func (h *chainImpl[V]) add(handle uint64, startTime int64, value V, rundown bool) {
	head, ok := h.chains[handle]
	if !ok {
		if rundown {
			// late-arriving rundown fact with no earlier explicit assertion
			startTime = 0
		}
		h.chains[handle] = &node[V]{startTime: startTime, value: value}
		h.count++
		return
	}

	// Resume from the skip-ahead cache when the new record belongs at or
	// past the cached position
	cur := head
	if sa := head.skipAhead; sa != nil && sa.startTime <= startTime {
		cur = sa
	}

	for {
		if startTime < cur.startTime {
			// Splice before cur while preserving cur's identity: duplicate
			// the displaced record into a new successor and overwrite cur in
			// place. The key table keeps pointing at the same head object.
			displaced := &node[V]{
				startTime: cur.startTime,
				value:     cur.value,
				next:      cur.next,
			}
			cur.startTime = startTime
			cur.value = value
			cur.next = displaced
			break
		}
		if cur.next == nil {
			// Append: new record has the largest startTime seen so far.
			// Records with an equal startTime are passed over above, so the
			// most recently added one ends up last and wins queries at
			// exactly that time.
			cur.next = &node[V]{startTime: startTime, value: value}
			cur = cur.next
			break
		}
		cur = cur.next
	}

	// cur is now at the insertion point; the next forward-moving insert or
	// query resumes from here
	head.skipAhead = cur
	h.count++
}

// Remove discards the handle's entire chain. The total record count shrinks
// by the chain's length; removing an unknown handle is a no-op.
func (h *chainImpl[V]) Remove(handle uint64) {
	head, ok := h.chains[handle]
	if !ok {
		return
	}

	length := 0
	for cur := head; cur != nil; cur = cur.next {
		length++
	}

	delete(h.chains, handle)
	h.count -= length
}

// --------------------------------------------------------------------------
// Core IHistory Interface Methods - Read Operations
// --------------------------------------------------------------------------

// TryGetValue returns the value of the last version of handle whose
// startTime is <= queryTime. Queries issued with non-decreasing times
// resume from the skip-ahead cache; other queries scan from the head.
//
// Note: a successful lookup moves the skip-ahead cache to the matched
// record, so the read path mutates internal state (results are unaffected,
// only access speed is).
func (h *chainImpl[V]) TryGetValue(handle uint64, queryTime int64) (V, bool) {
	var zero V

	head, ok := h.chains[handle]
	if !ok {
		return zero, false
	}

	cur := head
	if sa := head.skipAhead; sa != nil && sa.startTime <= queryTime {
		cur = sa
	}

	// Track the most recent qualifying record while advancing, stopping at
	// the first record past queryTime
	var match *node[V]
	for cur != nil && cur.startTime <= queryTime {
		match = cur
		cur = cur.next
	}

	if match == nil {
		// every record starts after queryTime
		return zero, false
	}

	head.skipAhead = match
	return match.value, true
}

// Count returns the total number of stored version records across all
// chains, maintained incrementally.
func (h *chainImpl[V]) Count() int {
	return h.count
}

// Entries returns a lazy, single-use sequence over every version record.
// Handles are visited in map order (unspecified); records within a chain
// are yielded in ascending startTime order. The sequence is undefined if
// the engine is mutated during iteration.
func (h *chainImpl[V]) Entries() iter.Seq[hist.Version[V]] {
	return func(yield func(hist.Version[V]) bool) {
		for handle, head := range h.chains {
			for cur := head; cur != nil; cur = cur.next {
				v := hist.Version[V]{
					Handle:    handle,
					StartTime: cur.startTime,
					Value:     cur.value,
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

// GetInfo returns statistics about the engine. It walks every chain, so the
// cost is O(records).
func (h *chainImpl[V]) GetInfo() hist.Info {
	chainLengths := make([]float64, 0, len(h.chains))
	for _, head := range h.chains {
		length := 0
		for cur := head; cur != nil; cur = cur.next {
			length++
		}
		chainLengths = append(chainLengths, float64(length))
	}

	supportedFeatures := []hist.Feature{
		hist.FeatureAdd, hist.FeatureRundown,
		hist.FeatureGet, hist.FeatureRemove,
		hist.FeatureEntries, hist.FeatureStats,
	}

	return hist.Info{
		Records:           h.count,
		Chains:            len(h.chains),
		ChainDistribution: util.NewDistributionStats(chainLengths),
		HistType:          hist.ImplChain,
		SupportedFeatures: supportedFeatures,
	}
}

// Close releases the key table and with it every chain. The engine must not
// be used afterwards.
func (h *chainImpl[V]) Close() error {
	h.chains = nil
	h.count = 0
	return nil
}

// SupportsFeature checks if this engine supports a specific feature
func (h *chainImpl[V]) SupportsFeature(feature hist.Feature) bool {
	supportedFeatures := hist.FeatureAdd |
		hist.FeatureRundown |
		hist.FeatureGet |
		hist.FeatureRemove |
		hist.FeatureEntries |
		hist.FeatureStats
	return supportedFeatures&feature == feature
}
