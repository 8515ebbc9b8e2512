package trace

import (
	"fmt"

	"github.com/ValentinKolb/hKV/lib/hist"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Session
// --------------------------------------------------------------------------

// Session owns the histories of one trace: one history engine per named
// scope ("process", "thread", ...), created lazily through the injected
// factory.
//
// Thread-safety: the scope registry itself is a concurrent map, so scopes
// may be looked up from any goroutine. The histories behind it remain
// single-threaded by contract; all events of a session must be applied by
// one goroutine (the resolver pipeline guarantees this).
type Session struct {
	scopes  *xsync.MapOf[string, hist.IHistory[string]]
	factory hist.HistFactory[string]

	// operation counters, shared with the process-wide metrics registry
	setEvents     *metrics.Counter
	rundownEvents *metrics.Counter
	endEvents     *metrics.Counter
	lookupHits    *metrics.Counter
	lookupMisses  *metrics.Counter
}

// NewSession creates a session whose scopes are backed by engines from the
// given factory.
func NewSession(factory hist.HistFactory[string]) *Session {
	return &Session{
		scopes:        xsync.NewMapOf[string, hist.IHistory[string]](),
		factory:       factory,
		setEvents:     metrics.GetOrCreateCounter(`hkv_trace_events_total{op="set"}`),
		rundownEvents: metrics.GetOrCreateCounter(`hkv_trace_events_total{op="rundown"}`),
		endEvents:     metrics.GetOrCreateCounter(`hkv_trace_events_total{op="end"}`),
		lookupHits:    metrics.GetOrCreateCounter(`hkv_trace_lookups_total{result="hit"}`),
		lookupMisses:  metrics.GetOrCreateCounter(`hkv_trace_lookups_total{result="miss"}`),
	}
}

// Scope returns the history for a named scope, creating it on first use.
func (s *Session) Scope(name string) hist.IHistory[string] {
	h, _ := s.scopes.LoadOrCompute(name, func() hist.IHistory[string] {
		return s.factory()
	})
	return h
}

// Apply applies one event to the session. OpGet events produce a
// Resolution; all other ops return (nil, nil) on success.
//
// Thread-safety: Apply mutates history state and must only be called from a
// single goroutine per session.
func (s *Session) Apply(ev *Event) (*Resolution, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	h := s.Scope(ev.Scope)

	switch ev.Op {
	case OpSet:
		h.Add(ev.Handle, ev.Time, ev.Value)
		s.setEvents.Inc()
		return nil, nil

	case OpRundown:
		h.AddRundown(ev.Handle, ev.Time, ev.Value)
		s.rundownEvents.Inc()
		return nil, nil

	case OpEnd:
		h.Remove(ev.Handle)
		s.endEvents.Inc()
		return nil, nil

	case OpGet:
		value, found := h.TryGetValue(ev.Handle, ev.Time)
		if found {
			s.lookupHits.Inc()
		} else {
			s.lookupMisses.Inc()
		}
		return &Resolution{
			Scope:  ev.Scope,
			Handle: ev.Handle,
			Time:   ev.Time,
			Value:  value,
			Found:  found,
		}, nil

	default:
		return nil, NewError(RetCInvalidOperation, fmt.Sprintf("unknown op %q", ev.Op))
	}
}

// ScopeNames returns the names of all scopes created so far
func (s *Session) ScopeNames() []string {
	names := make([]string, 0)
	s.scopes.Range(func(name string, _ hist.IHistory[string]) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Infos returns engine metadata for every scope of the session
func (s *Session) Infos() map[string]hist.Info {
	infos := make(map[string]hist.Info)
	s.scopes.Range(func(name string, h hist.IHistory[string]) bool {
		infos[name] = h.GetInfo()
		return true
	})
	return infos
}

// Count returns the total number of version records across all scopes
func (s *Session) Count() int {
	total := 0
	s.scopes.Range(func(_ string, h hist.IHistory[string]) bool {
		total += h.Count()
		return true
	})
	return total
}
