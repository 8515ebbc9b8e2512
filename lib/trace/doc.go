// Package trace is the reference consumer of the history engines: it reads
// a trace event stream, builds per-scope handle histories, and resolves
// point-in-time queries against them. The engines themselves know nothing
// about traces; this package is the layer that feeds them (handle, time,
// value) triples and (handle, time) queries.
//
// The package focuses on:
//   - An NDJSON event model (set, rundown, end, get) with typed errors
//   - A Reader for plain or gzip-compressed trace files
//   - A Session holding one history engine per named scope, with operation
//     counters exported to the process-wide metrics registry
//   - A resolver pipeline that decouples parsing from applying through a
//     lock-free MPSC queue while preserving the engines' single-consumer
//     contract
//   - A time-ordered merge over a history's per-handle chains
//
// Event Semantics:
//
//   - "set" asserts that a handle maps to a value from the event time
//     onward, until a later assertion supersedes it.
//   - "rundown" is a snapshot assertion delivered late (typically at the
//     end of a capture window): if nothing earlier is known about the
//     handle, the value counts as in force since time zero.
//   - "end" retires a handle whose identifier is about to be recycled; its
//     entire history is dropped so stale state can never leak into the
//     identifier's next life.
//   - "get" resolves the value in force for a handle at the event time and
//     yields a Resolution.
//
// Ordering:
//
//	Trace producers emit events mostly in time order, which is exactly the
//	pattern the engines' skip-ahead cache is built for. Out-of-order events
//	(rundowns above all) are handled correctly regardless.
//
// Error Handling:
//
//	Malformed lines and unknown operations surface as *Error values with
//	typed return codes; the engines themselves cannot fail, so a clean
//	trace always resolves without error.
package trace
