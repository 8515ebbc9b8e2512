package chain

import (
	"testing"

	"github.com/ValentinKolb/hKV/lib/hist"
	histtesting "github.com/ValentinKolb/hKV/lib/hist/testing"
)

func Test(t *testing.T) {
	histtesting.RunHistoryTests(t, "ChainHistory", func() hist.IHistory[string] {
		return NewHistory[string](nil)
	})
}

func Benchmark(b *testing.B) {
	histtesting.RunHistoryBenchmarks(b, "ChainHistory", func() hist.IHistory[string] {
		return NewHistory[string](nil)
	})
}
