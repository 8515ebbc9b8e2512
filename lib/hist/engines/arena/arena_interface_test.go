package arena

import (
	"testing"

	"github.com/ValentinKolb/hKV/lib/hist"
	histtesting "github.com/ValentinKolb/hKV/lib/hist/testing"
)

func Test(t *testing.T) {
	histtesting.RunHistoryTests(t, "ArenaHistory", func() hist.IHistory[string] {
		return NewHistory[string](nil)
	})
}

func Benchmark(b *testing.B) {
	histtesting.RunHistoryBenchmarks(b, "ArenaHistory", func() hist.IHistory[string] {
		return NewHistory[string](nil)
	})
}
