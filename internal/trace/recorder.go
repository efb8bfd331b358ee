package trace

import "sync"

// Sink receives the trace of every successful selection.
//
// Record must be inert:
//   - must not panic (implementations should guard themselves)
//   - must not return errors
//
// The caller must assume Record may be a no-op.
type Sink interface {
	Record(tr SelectionTrace)
}

// NopSink discards all traces.
type NopSink struct{}

func (NopSink) Record(SelectionTrace) {}

// SafeRecord records a trace and guarantees inertness even if the sink is buggy.
// It intentionally swallows panics.
func SafeRecord(s Sink, tr SelectionTrace) {
	if s == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	s.Record(tr)
}

// Recorder is a concurrency-safe in-memory collector.
//
// Traces are stored in arrival order, which depends on scheduling when
// selections run concurrently; each trace is individually canonical.
type Recorder struct {
	mu     sync.Mutex
	traces []SelectionTrace
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Record(tr SelectionTrace) {
	if r == nil {
		return
	}
	defer func() {
		_ = recover()
	}()

	c := tr.Clone()
	r.mu.Lock()
	r.traces = append(r.traces, c)
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all recorded traces.
func (r *Recorder) Snapshot() []SelectionTrace {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SelectionTrace, len(r.traces))
	for i := range r.traces {
		out[i] = r.traces[i].Clone()
	}
	return out
}

// Len returns the number of recorded traces.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.traces)
}
