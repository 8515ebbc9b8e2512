package trace

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ValentinKolb/hKV/lib/hist"
	"github.com/ValentinKolb/hKV/lib/hist/engines/arena"
	"github.com/ValentinKolb/hKV/lib/hist/engines/chain"
)

func chainFactory() hist.IHistory[string] {
	return chain.NewHistory[string](nil)
}

func TestSessionApply(t *testing.T) {
	s := NewSession(chainFactory)

	steps := []struct {
		ev      Event
		want    *Resolution
		wantErr bool
	}{
		{ev: Event{Scope: "process", Handle: 1, Time: 100, Op: OpSet, Value: "svchost"}},
		{ev: Event{Scope: "process", Handle: 1, Time: 50, Op: OpRundown, Value: "early"}},
		{
			ev:   Event{Scope: "process", Handle: 1, Time: 75, Op: OpGet},
			want: &Resolution{Scope: "process", Handle: 1, Time: 75, Value: "early", Found: true},
		},
		{
			ev:   Event{Scope: "process", Handle: 1, Time: 100, Op: OpGet},
			want: &Resolution{Scope: "process", Handle: 1, Time: 100, Value: "svchost", Found: true},
		},
		// same handle number in another scope is unrelated
		{
			ev:   Event{Scope: "thread", Handle: 1, Time: 100, Op: OpGet},
			want: &Resolution{Scope: "thread", Handle: 1, Time: 100, Found: false},
		},
		{ev: Event{Scope: "process", Handle: 1, Op: OpEnd}},
		{
			ev:   Event{Scope: "process", Handle: 1, Time: 100, Op: OpGet},
			want: &Resolution{Scope: "process", Handle: 1, Time: 100, Found: false},
		},
		{ev: Event{Scope: "process", Handle: 1, Time: 100, Op: "bogus"}, wantErr: true},
	}

	for i, step := range steps {
		res, err := s.Apply(&step.ev)
		if step.wantErr {
			if err == nil {
				t.Errorf("step %d: expected error, got none", i)
			}
			continue
		}
		if err != nil {
			t.Fatalf("step %d: unexpected error %v", i, err)
		}
		if step.want == nil {
			if res != nil {
				t.Errorf("step %d: expected no resolution, got %+v", i, res)
			}
			continue
		}
		if res == nil || *res != *step.want {
			t.Errorf("step %d: got %+v, want %+v", i, res, step.want)
		}
	}
}

// TestSessionRundownBeforeAnyAssertion covers the capture-window pattern:
// the rundown arrives as the only fact and counts from time zero.
func TestSessionRundownBeforeAnyAssertion(t *testing.T) {
	s := NewSession(chainFactory)

	if _, err := s.Apply(&Event{Scope: "process", Handle: 9, Time: 8000, Op: OpRundown, Value: "R"}); err != nil {
		t.Fatal(err)
	}

	res, err := s.Apply(&Event{Scope: "process", Handle: 9, Time: 0, Op: OpGet})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Value != "R" {
		t.Errorf("rundown must count from time zero, got %+v", res)
	}
}

func TestResolvePipeline(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# generated trace\n")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, `{"scope":"thread","handle":%d,"time":%d,"op":"set","value":"v%d"}`+"\n", i%10, i*10, i)
	}
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, `{"scope":"thread","handle":%d,"time":%d,"op":"get"}`+"\n", i%10, i*10)
	}

	s := NewSession(chainFactory)
	results, err := Resolve(NewReader(strings.NewReader(sb.String())), s)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if len(results) != 500 {
		t.Fatalf("expected 500 resolutions, got %d", len(results))
	}
	for i, res := range results {
		if !res.Found {
			t.Fatalf("resolution %d: expected hit, got miss (%+v)", i, res)
		}
		if want := fmt.Sprintf("v%d", i); res.Value != want {
			t.Fatalf("resolution %d: got %q, want %q", i, res.Value, want)
		}
	}

	if s.Count() != 500 {
		t.Errorf("expected 500 stored records, got %d", s.Count())
	}
}

func TestResolveStopsOnMalformedLine(t *testing.T) {
	input := `{"scope":"process","handle":1,"time":1,"op":"set","value":"a"}
this is not json
{"scope":"process","handle":1,"time":2,"op":"set","value":"b"}
`
	s := NewSession(chainFactory)
	_, err := Resolve(NewReader(strings.NewReader(input)), s)
	if err == nil {
		t.Fatal("expected parse error, got none")
	}
}

func TestMergeByTime(t *testing.T) {
	for _, engine := range []struct {
		name    string
		factory hist.HistFactory[string]
	}{
		{"chain", chainFactory},
		{"arena", func() hist.IHistory[string] { return arena.NewHistory[string](nil) }},
	} {
		t.Run(engine.name, func(t *testing.T) {
			h := engine.factory()

			// interleaved handles with out-of-order inserts
			h.Add(1, 300, "c")
			h.Add(2, 100, "x")
			h.Add(1, 100, "a")
			h.Add(3, 250, "m")
			h.Add(1, 200, "b")
			h.Add(2, 400, "y")

			merged := MergeByTime(h)

			if len(merged) != h.Count() {
				t.Fatalf("merge yielded %d records, Count() == %d", len(merged), h.Count())
			}
			for i := 1; i < len(merged); i++ {
				if merged[i].StartTime < merged[i-1].StartTime {
					t.Fatalf("merge out of order at %d: %d after %d",
						i, merged[i].StartTime, merged[i-1].StartTime)
				}
			}
		})
	}
}
