// Package hist defines the interface for temporal handle-history engines:
// versioned lookup structures that answer "which value was in force for this
// handle at this time" over a monotonic, caller-defined time axis.
//
// The package focuses on:
//   - A unified interface (IHistory) shared by all engine implementations
//   - A common enumeration element type (Version) and engine metadata (Info)
//   - Feature flags so consumers can detect engine capabilities
//
// The Problem:
//
//	Trace consumers deal with numeric identifiers that are reused over the
//	lifetime of a trace. A process ID observed at the start of a trace and
//	the same process ID observed ten seconds later may name two entirely
//	different processes. A plain map therefore cannot answer lookups against
//	recorded history; the lookup has to be qualified with a point in time.
//	IHistory keeps every assertion ever made about a handle, ordered by its
//	validity-start time, and resolves a (handle, time) query to the most
//	recent assertion at or before that time.
//
// Access Pattern:
//
//	Both producers and consumers of a trace move forward in time, so inserts
//	and queries are mostly (but not always) issued in ascending time order.
//	Engines exploit this with a per-chain skip-ahead cache that resumes
//	scans near the previous position instead of from the head, making the
//	sequential case amortized O(1). Out-of-order inserts (such as rundown
//	events delivered at the end of a trace window) stay correct, merely
//	slower.
//
// Implementations:
//
//	The package includes two engine implementations of the IHistory
//	interface, exercised by one shared conformance suite
//	(lib/hist/testing):
//
//	- Chain engine: a per-handle singly linked list with the skip-ahead
//	  cache held on the chain's head node. Out-of-order inserts splice new
//	  records in place, preserving the identity of the head object.
//	  Available in the "github.com/ValentinKolb/hKV/lib/hist/engines/chain"
//	  package.
//
//	- Arena engine: all records live in a shared arena slice and chains are
//	  index links; removed chains are recycled through a free list. The
//	  skip-ahead cache is a plain per-handle index. Available in the
//	  "github.com/ValentinKolb/hKV/lib/hist/engines/arena" package.
//
// Concurrency:
//
//	IHistory instances are single-threaded by contract: the skip-ahead cache
//	is mutated on every operation, including lookups. Callers that need
//	concurrent access must serialize externally; the lib/trace session layer
//	shows the intended pattern (a concurrent registry of scopes, each scope's
//	history driven by a single consumer).
package hist
