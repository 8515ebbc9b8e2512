package testing

import (
	"math/rand"
	"testing"

	"github.com/ValentinKolb/hKV/lib/hist"
)

// RunHistoryBenchmarks runs all benchmarks for a history engine implementation
func RunHistoryBenchmarks(b *testing.B, name string, factory HistFactory) {

	b.Run("AddSequential", func(b *testing.B) {
		h := factory()
		benchmarkAddSequential(b, h)
		h.Close()
	})

	b.Run("AddManyHandles", func(b *testing.B) {
		h := factory()
		benchmarkAddManyHandles(b, h)
		h.Close()
	})

	b.Run("AddOutOfOrder", func(b *testing.B) {
		h := factory()
		benchmarkAddOutOfOrder(b, h)
		h.Close()
	})

	b.Run("GetSequential", func(b *testing.B) {
		h := factory()
		benchmarkGetSequential(b, h)
		h.Close()
	})

	b.Run("GetRandom", func(b *testing.B) {
		h := factory()
		benchmarkGetRandom(b, h)
		h.Close()
	})

	b.Run("Remove", func(b *testing.B) {
		h := factory()
		benchmarkRemove(b, h)
		h.Close()
	})

	b.Run("MixedUsage", func(b *testing.B) {
		h := factory()
		benchmarkMixedUsage(b, h)
		h.Close()
	})
}

// benchmarkAddSequential measures the skip-ahead fast path: one handle,
// strictly increasing start times.
func benchmarkAddSequential(b *testing.B, h hist.IHistory[string]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Add(1, int64(i), "v")
	}
}

func benchmarkAddManyHandles(b *testing.B, h hist.IHistory[string]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Add(uint64(i%1024), int64(i), "v")
	}
}

// benchmarkAddOutOfOrder measures the fallback path: random start times
// defeat the cache and force scans from the head.
func benchmarkAddOutOfOrder(b *testing.B, h hist.IHistory[string]) {
	rng := rand.New(rand.NewSource(1))
	times := make([]int64, b.N)
	for i := range times {
		times[i] = int64(rng.Intn(1 << 20))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Add(uint64(i%1024), times[i], "v")
	}
}

func benchmarkGetSequential(b *testing.B, h hist.IHistory[string]) {
	const n = 1 << 16
	for i := 0; i < n; i++ {
		h.Add(1, int64(i), "v")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.TryGetValue(1, int64(i%n))
	}
}

func benchmarkGetRandom(b *testing.B, h hist.IHistory[string]) {
	const n = 1 << 16
	for i := 0; i < n; i++ {
		h.Add(uint64(i%1024), int64(i), "v")
	}
	rng := rand.New(rand.NewSource(2))
	queries := make([]int64, b.N)
	for i := range queries {
		queries[i] = int64(rng.Intn(n))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.TryGetValue(uint64(i%1024), queries[i])
	}
}

func benchmarkRemove(b *testing.B, h hist.IHistory[string]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handle := uint64(i)
		h.Add(handle, 1, "a")
		h.Add(handle, 2, "b")
		h.Add(handle, 3, "c")
		h.Remove(handle)
	}
}

func benchmarkMixedUsage(b *testing.B, h hist.IHistory[string]) {
	rng := rand.New(rand.NewSource(3))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handle := uint64(rng.Intn(256))
		switch i % 8 {
		case 0:
			h.Remove(handle)
		case 1, 2:
			h.TryGetValue(handle, int64(i))
		default:
			h.Add(handle, int64(i), "v")
		}
	}
}
