package trace

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/ValentinKolb/hKV/lib/hist"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for hKV history engines",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfHandleSpread = 100
	perfChainDepth   = 1000
	perfSamples      = 10000
	perfSkip         = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. add-seq,get-seq)"))
	key = "handles"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different handles to use for the tests"))
	key = "depth"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How many version records to stack per handle for the query tests"))
	key = "samples"
	perfTestCmd.Flags().Int(key, 10000, util.WrapString("Number of operations to sample for the latency percentiles"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfHandleSpread = viper.GetInt("handles")
	perfChainDepth = viper.GetInt("depth")
	perfSamples = viper.GetInt("samples")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for hKV history engines")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Engine: %s\n", util.GetEngineName())
	fmt.Printf("Handles: %d\n", perfHandleSpread)
	fmt.Printf("Chain depth: %d\n", perfChainDepth)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	addSeqResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("add-seq") {
			return
		}

		h := histFactory()

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			h.Add(uint64(i%perfHandleSpread), int64(i), "test")
		}
	})

	results["add-seq"] = addSeqResult
	printResult("add-seq", addSeqResult)

	addOOOResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("add-ooo") {
			return
		}

		h := histFactory()
		rng := rand.New(rand.NewSource(42))

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			h.Add(uint64(i%perfHandleSpread), rng.Int63n(int64(b.N+1)), "test")
		}
	})

	results["add-ooo"] = addOOOResult
	printResult("add-ooo", addOOOResult)

	getSeqResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get-seq") {
			return
		}

		// prepare populated chains
		h := preparedHistory()
		span := int64(perfChainDepth * perfHandleSpread)

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			h.TryGetValue(uint64(i%perfHandleSpread), int64(i)%span)
		}
	})

	results["get-seq"] = getSeqResult
	printResult("get-seq", getSeqResult)

	getRandomResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get-random") {
			return
		}

		// prepare populated chains
		h := preparedHistory()
		span := int64(perfChainDepth * perfHandleSpread)
		rng := rand.New(rand.NewSource(42))

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			h.TryGetValue(uint64(rng.Intn(perfHandleSpread)), rng.Int63n(span))
		}
	})

	results["get-random"] = getRandomResult
	printResult("get-random", getRandomResult)

	removeResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("remove") {
			return
		}

		h := histFactory()

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			handle := uint64(i)
			h.Add(handle, int64(i), "test")
			h.Remove(handle)
		}
	})

	results["remove"] = removeResult
	printResult("remove", removeResult)

	mixedUsageResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("mixed") {
			return
		}

		h := histFactory()

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			handle := uint64(i % perfHandleSpread)
			switch i % 4 {
			case 0, 1: // add
				h.Add(handle, int64(i), "test")
			case 2: // get
				h.TryGetValue(handle, int64(i))
			case 3: // remove and recreate via rundown
				h.Remove(handle)
				h.AddRundown(handle, int64(i), "test")
			}
		}
	})

	results["mixed"] = mixedUsageResult
	printResult("mixed", mixedUsageResult)

	// Measure per-op latency percentiles on top of the throughput numbers
	fmt.Println()
	fmt.Printf("sampling latencies (%d ops per test)...\n", perfSamples)
	printLatencies(sampleLatencies())

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// preparedHistory builds an instance with perfHandleSpread handles holding
// perfChainDepth version records each
func preparedHistory() hist.IHistory[string] {
	h := histFactory()
	for d := 0; d < perfChainDepth; d++ {
		for k := 0; k < perfHandleSpread; k++ {
			h.Add(uint64(k), int64(d*perfHandleSpread+k), "test")
		}
	}
	return h
}

// sampleLatencies times individual operations with a metrics registry so the
// report can show tail latencies, not just the mean ns/op
func sampleLatencies() gometrics.Registry {
	registry := gometrics.NewRegistry()

	addTimer := gometrics.GetOrRegisterTimer("add-seq", registry)
	h := histFactory()
	for i := 0; i < perfSamples; i++ {
		start := time.Now()
		h.Add(uint64(i%perfHandleSpread), int64(i), "test")
		addTimer.UpdateSince(start)
	}

	getTimer := gometrics.GetOrRegisterTimer("get-seq", registry)
	for i := 0; i < perfSamples; i++ {
		start := time.Now()
		h.TryGetValue(uint64(i%perfHandleSpread), int64(i))
		getTimer.UpdateSince(start)
	}

	return registry
}

// printLatencies prints the p50/p95/p99 latencies of all sampled tests
func printLatencies(registry gometrics.Registry) {
	registry.Each(func(name string, i interface{}) {
		timer, ok := i.(gometrics.Timer)
		if !ok {
			return
		}
		ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})
		fmt.Printf("%-20sp50 %s\tp95 %s\tp99 %s\n",
			name,
			time.Duration(ps[0]),
			time.Duration(ps[1]),
			time.Duration(ps[2]),
		)
	})
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Engine", "Handles", "ChainDepth",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		skipped := result.NsPerOp() == 0

		if !skipped {
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			strconv.FormatFloat(nsPerOp, 'f', 0, 64),
			time.Duration(nsPerOp).String(),
			strconv.FormatFloat(opsPerSec, 'f', 0, 64),
			strconv.FormatBool(skipped),
			util.GetEngineName(),
			strconv.Itoa(perfHandleSpread),
			strconv.Itoa(perfChainDepth),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %v", err)
		}
	}

	return nil
}
