// Package cmd implements the command-line interface for the hKV handle
// history store. It provides a hierarchical command structure for working
// with recorded trace files and for benchmarking the history engines.
//
// The package is organized into several subpackages:
//
//   - trace: Commands for trace file operations (resolve, stats, export, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See hkv -help for a list of all commands.
package cmd
