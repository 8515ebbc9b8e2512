// Package arena implements the flat history engine: the same temporal
// handle-history semantics as the chain engine, built on a shared arena of
// records linked by int32 indices instead of per-node pointers.
//
// The package focuses on:
//   - One contiguous backing slice for all version records of all handles
//   - Record recycling through a free list, so Remove feeds later Adds
//   - Ordinary sorted splicing for out-of-order inserts
//
// Layout:
//
//	Each handle maps to the arena index of its chain head, and chain order
//	is expressed through each record's next index. Because the key table
//	holds indices rather than object references, inserting before an
//	existing record is plain relinking; the in-place content swap the chain
//	engine performs to preserve head identity has no equivalent here.
//
// Skip-Ahead Cache:
//
//	The per-chain cached position is a plain index held in a side table.
//	Inserts and queries whose time is at or past the cached position resume
//	scanning there, giving the same amortized O(1) behavior as the chain
//	engine for forward-moving access. Removing a chain drops its hint with
//	it, and because hints are per-handle they can never dangle into a
//	recycled record of another chain.
//
// Memory Behavior:
//
//	Removed records are zeroed (releasing stored values to the garbage
//	collector) and pushed onto a free list that alloc drains before growing
//	the arena. Workloads that cycle handles, such as process tables with ID
//	reuse, therefore reach a steady arena size instead of growing without
//	bound. The arena itself never shrinks.
//
// Both engines are verified by the shared conformance suite in
// lib/hist/testing; callers choose by construction and otherwise program
// against hist.IHistory.
package arena
