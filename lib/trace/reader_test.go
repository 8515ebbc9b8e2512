package trace

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const sampleTrace = `# process scope demo
{"scope":"process","handle":4711,"time":100,"op":"set","value":"init"}

{"scope":"process","handle":4711,"time":250,"op":"get"}
{"scope":"process","handle":4711,"time":300,"op":"end"}
`

func TestReaderParsesEvents(t *testing.T) {
	r := NewReader(strings.NewReader(sampleTrace))

	want := []Event{
		{Scope: "process", Handle: 4711, Time: 100, Op: OpSet, Value: "init"},
		{Scope: "process", Handle: 4711, Time: 250, Op: OpGet},
		{Scope: "process", Handle: 4711, Time: 300, Op: OpEnd},
	}

	for i, w := range want {
		ev, err := r.Next()
		if err != nil {
			t.Fatalf("event %d: unexpected error %v", i, err)
		}
		if *ev != w {
			t.Errorf("event %d: got %+v, want %+v", i, *ev, w)
		}
	}

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after last event, got %v", err)
	}
}

func TestReaderRejectsMalformedLines(t *testing.T) {
	r := NewReader(strings.NewReader(`{"scope":"process","handle":1,`))

	_, err := r.Next()
	var terr *Error
	if !errors.As(err, &terr) || terr.Code != RetCParseError {
		t.Errorf("expected *Error with RetCParseError, got %v", err)
	}
}

func TestReaderRejectsUnknownOp(t *testing.T) {
	r := NewReader(strings.NewReader(`{"scope":"process","handle":1,"time":1,"op":"frobnicate"}`))

	_, err := r.Next()
	var terr *Error
	if !errors.As(err, &terr) || terr.Code != RetCInvalidOperation {
		t.Errorf("expected *Error with RetCInvalidOperation, got %v", err)
	}
}

func TestReaderRejectsMissingScope(t *testing.T) {
	r := NewReader(strings.NewReader(`{"handle":1,"time":1,"op":"set","value":"x"}`))

	_, err := r.Next()
	var terr *Error
	if !errors.As(err, &terr) || terr.Code != RetCParseError {
		t.Errorf("expected *Error with RetCParseError, got %v", err)
	}
}

func TestOpenReadsGzipTraces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.ndjson.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(sampleTrace)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	defer r.Close()

	count := 0
	for {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count++
	}
	if count != 3 {
		t.Errorf("expected 3 events from gzip trace, got %d", count)
	}
}
