// Package chain implements the linked-list history engine: a temporal lookup
// structure that maps a reusable numeric handle to whichever value was in
// force at a given point on a monotonic time axis. It provides a complete
// implementation of the hist.IHistory interface with a focus on the
// near-sequential access pattern of trace consumption.
//
// The package focuses on:
//   - Amortized O(1) inserts and lookups for the common, forward-moving case
//   - Tolerance of out-of-order inserts without losing chain ordering
//   - Head identity preservation so the key table never has to be rewritten
//   - Whole-history removal for handles known to be dead (ID reuse)
//
// Key Components:
//
//   - chainImpl: The central structure implementing hist.IHistory. It holds a
//     key table (hash map) from handle to the head node of that handle's
//     version chain and the incrementally maintained total record count.
//
//   - node: One version record {startTime, value, next, skipAhead}. Chains
//     are singly linked lists sorted ascending by startTime. The skipAhead
//     field is populated only on the node that heads a chain.
//
// Internal Mechanisms:
//
//   - Skip-Ahead Cache: Every chain carries one cached position, held on its
//     head node. An insert or query whose time is at or past the cached
//     position resumes the scan there instead of at the head. Producers and
//     consumers of a trace both move forward in time, so in the common case
//     each operation advances the cache by a few nodes at most, making the
//     access pattern amortized O(1) instead of O(chain length). A time
//     before the cached position falls back to a full forward scan; the
//     result is identical either way. Because lookups move the cache, even
//     TryGetValue mutates engine state, which is why the engine is
//     single-threaded by contract.
//
//   - In-Place Splicing: An out-of-order insert that belongs before an
//     existing record duplicates the displaced record into a new successor
//     node and overwrites the original node's fields in place. The object
//     that heads the chain therefore keeps its identity for the lifetime of
//     the chain, and the key table entry written on the first Add never
//     needs to change. The skipAhead reference always lands on a node still
//     reachable from the head, so splicing cannot strand the cache outside
//     its chain.
//
//   - Tie Handling: Insertion scans advance past records with an equal
//     startTime, so among records sharing a timestamp the most recently
//     added one sits last in the chain. A query at exactly that timestamp
//     returns the last qualifying record, which means the most recent
//     writer wins.
//
//   - Rundown Records: Trace windows often open mid-flight, so the first
//     fact learned about a handle may be a snapshot ("rundown") delivered
//     late. AddRundown on an empty chain forces the record's start time to
//     time zero, asserting the state as of the dawn of observation. On a
//     non-empty chain a rundown is an ordinary insert, because an explicit
//     earlier assertion always outranks a snapshot.
//
// The engine performs no locking, no allocation beyond the inserted nodes,
// and never inspects the stored values. For a flat, index-linked alternative
// with record recycling see the arena engine.
package chain
