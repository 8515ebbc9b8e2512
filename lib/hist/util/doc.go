// Package util provides utility components for history engines that satisfy
// the hist.IHistory interface and for the trace layer built on top of them.
//
// The package contains:
//   - statistics: Distribution statistics describing how version records spread across chains
//   - mergeheap: A keyed min-heap ordered by time, used to merge per-handle chains into one time-ordered stream
//   - queue: A lock-free Multi-Producer Single-Consumer (MPSC) queue used by the trace resolver pipeline
//
// Each component is engine-agnostic and works with any implementation of the
// hist.IHistory interface.
package util
