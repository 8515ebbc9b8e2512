package trace

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/sugawarayuuta/sonnet"
)

// maxLineBytes bounds a single trace line; events are small JSON objects but
// payload values are caller-defined
const maxLineBytes = 1024 * 1024

// Reader reads trace events from an NDJSON stream, one event per line.
// Blank lines and lines starting with '#' are skipped.
type Reader struct {
	scanner *bufio.Scanner
	closers []io.Closer
	line    int
}

// NewReader creates a Reader over an already-open stream
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{scanner: scanner}
}

// Open creates a Reader for a trace file. Files ending in ".gz" are
// transparently decompressed.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		src     io.Reader = f
		closers           = []io.Closer{f}
	)

	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, NewError(RetCParseError, fmt.Sprintf("%s: %v", path, err))
		}
		src = zr
		// close the gzip layer before the file
		closers = append([]io.Closer{zr}, closers...)
	}

	r := NewReader(src)
	r.closers = closers
	return r, nil
}

// Next returns the next event of the stream. It returns io.EOF after the
// last event and a *Error for malformed lines.
func (r *Reader) Next() (*Event, error) {
	for r.scanner.Scan() {
		r.line++

		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var ev Event
		if err := sonnet.Unmarshal(line, &ev); err != nil {
			return nil, NewError(RetCParseError, fmt.Sprintf("line %d: %v", r.line, err))
		}
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}

		return &ev, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, NewError(RetCInternalError, fmt.Sprintf("line %d: %v", r.line, err))
	}
	return nil, io.EOF
}

// Line returns the number of the most recently consumed line
func (r *Reader) Line() int {
	return r.line
}

// Close releases the underlying stream (if the Reader owns one)
func (r *Reader) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}
