// Package testing provides standardised tests and benchmarks for history
// engine implementations that satisfy the hist.IHistory interface.
//
// The package contains:
//   - testing: A conformance suite validating the IHistory contract, including
//     out-of-order insert tolerance, tie-break semantics, rundown handling,
//     count accounting, and the structural invariants (chain ordering and
//     count reconciliation) checked through enumeration
//   - benchmark: Performance tests separating the skip-ahead fast path
//     (sequential access) from the fallback path (random access)
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() hist.IHistory[string] {
//		return NewMyEngine()
//	}
//
//	// Running the standard test suite
//	histtesting.RunHistoryTests(t, "MyEngine", factory)
//
//	// Running performance benchmarks
//	histtesting.RunHistoryBenchmarks(b, "MyEngine", factory)
package testing
