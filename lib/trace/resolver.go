package trace

import (
	"errors"
	"io"

	"github.com/ValentinKolb/hKV/lib/hist/util"
)

// Resolve runs a whole trace stream through the session and collects the
// resolutions of its OpGet events.
//
// The reader and the applier are decoupled through a lock-free MPSC queue:
// the producer goroutine parses lines while the calling goroutine applies
// events, so the session's single-consumer contract holds by construction.
// Resolve drains the stream completely or stops at the first error.
func Resolve(r *Reader, s *Session) ([]Resolution, error) {
	queue := util.NewMPSC[Event]()
	readErr := make(chan error, 1)

	// producer: parse lines and push events
	go func() {
		defer queue.Close()
		for {
			ev, err := r.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					readErr <- nil
				} else {
					readErr <- err
				}
				return
			}
			if !queue.Push(ev) {
				readErr <- NewError(RetCInternalError, "event queue closed while reading")
				return
			}
		}
	}()

	// consumer: apply events in trace order
	var (
		results  []Resolution
		applyErr error
	)
	for ev := range queue.Recv() {
		if applyErr != nil {
			// drain the queue so the producer is never blocked
			continue
		}
		res, err := s.Apply(ev)
		if err != nil {
			applyErr = err
			continue
		}
		if res != nil {
			results = append(results, *res)
		}
	}

	if err := <-readErr; err != nil {
		return results, err
	}
	return results, applyErr
}
