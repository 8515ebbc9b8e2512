package hist

import "iter"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IHistory is the interface for a temporal handle-history structure: it maps
// a reusable numeric handle to whichever value was in force at a given point
// on a caller-defined, totally ordered time axis.
//
// Handles are opaque 64-bit identifiers that may be recycled over the
// observed time window (process IDs, thread IDs, addresses). StartTime is a
// signed ordinal used strictly for ordering; its unit is caller-defined.
// Values are stored opaquely, the structure never copies, hashes, or
// compares them.
//
// Thread-safety: implementations are NOT safe for concurrent use. Lookups
// mutate internal cache state, so even logically read-only calls must be
// serialized externally. The intended consumer is a single goroutine that
// walks a trace forward in time.
type IHistory[V any] interface {
	// Add inserts a new version for handle, valid from startTime until the
	// start of the chronologically next version. Inserts may arrive out of
	// time order; the chain is kept sorted ascending by startTime. Among
	// records with an identical startTime the most recently added one wins
	// for queries at exactly that time. Add cannot fail.
	Add(handle uint64, startTime int64, value V)

	// AddRundown behaves like Add, except when no version exists yet for
	// handle: then the record's effective start time is forced to time zero
	// regardless of startTime. This models a snapshot ("rundown") fact that
	// asserts the state has been in force since the earliest observable
	// moment. On a non-empty chain the passed startTime is used unchanged.
	AddRundown(handle uint64, startTime int64, value V)

	// TryGetValue returns the value of the last version of handle whose
	// startTime is <= queryTime, i.e. the association in force at queryTime.
	// found is false if the handle is unknown or every version starts after
	// queryTime. A successful lookup updates the chain's skip-ahead cache,
	// so repeated queries with non-decreasing times are amortized O(1).
	TryGetValue(handle uint64, queryTime int64) (value V, found bool)

	// Remove discards the handle's entire version chain. Removing an unknown
	// handle is a no-op, not an error.
	Remove(handle uint64)

	// Entries returns a lazy, single-use sequence over every version record
	// across all handles. Handles are visited in unspecified order; the
	// records of one handle are yielded in ascending startTime order. The
	// sequence is undefined if the history is mutated during iteration.
	Entries() iter.Seq[Version[V]]

	// Count returns the total number of stored version records.
	Count() int

	// GetInfo returns metadata and distribution statistics about the engine.
	GetInfo() (info Info)

	// SupportsFeature checks if the engine supports the specified feature.
	// Multiple features can be checked at once using the bitwise OR operator.
	SupportsFeature(feature Feature) (ok bool)

	// Close releases the engine's internal storage. The engine must not be
	// used afterwards.
	Close() (err error)
}
