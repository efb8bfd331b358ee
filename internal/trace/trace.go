// Package trace defines the canonical, hashable audit record of one task
// selection.
//
// A SelectionTrace captures the inputs of a selection (ontology identity,
// engine settings, classification) together with the resulting ordered task
// list and the logical decisions that produced it. It contains no timestamps,
// pointers or other runtime-dependent values, so identical selections produce
// byte-identical canonical encodings and identical hashes. That is what makes
// a selection replayable.
package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// SelectionTrace is the canonical, deterministic record of a selection.
//
// Selected keeps the engine's output order; it is never re-sorted. Events are
// sorted by Canonicalize and describe why each task was considered.
//
// Any consumer producing traces should treat SelectionTrace as immutable once
// Canonicalize() is called.
type SelectionTrace struct {
	OntologyVersion string             `json:"ontologyVersion"`
	OntologyHash    string             `json:"ontologyHash"`
	Settings        Settings           `json:"settings"`
	Classification  map[string]float64 `json:"classification"`
	Selected        []string           `json:"selected"`
	Events          []TraceEvent       `json:"events"`
}

// Settings mirrors the engine configuration that influenced a selection.
type Settings struct {
	DimensionThreshold float64 `json:"dimensionThreshold"`
	IncludeMandatory   bool    `json:"includeMandatory"`
	MaxTasks           int     `json:"maxTasks"`
	StrictReferences   bool    `json:"strictReferences"`
	Truncation         string  `json:"truncation"`
}

// TraceEventKind is the stable, canonical discriminator for TraceEvent.
//
// The string values are part of the trace's canonical bytes; do not rename.
type TraceEventKind string

const (
	EventTaskSeeded       TraceEventKind = "TaskSeeded"
	EventTaskRequired     TraceEventKind = "TaskRequired"
	EventReferenceDropped TraceEventKind = "ReferenceDropped"
	EventTaskTruncated    TraceEventKind = "TaskTruncated"
)

// Stable reason codes.
const (
	ReasonMandatory = "Mandatory"
	ReasonActivated = "Activated"
	ReasonMaxTasks  = "MaxTasks"
)

// TraceEvent is a single logical decision.
//
//   - TaskSeeded: TaskID entered the seed set; Reason is Mandatory or
//     Activated, Dimensions lists the activating dimensions.
//   - TaskRequired: TaskID was pulled in by the closure; CauseTaskID is the
//     task whose dependency list first reached it.
//   - ReferenceDropped: CauseTaskID declares TaskID as a dependency but TaskID
//     is not in the ontology.
//   - TaskTruncated: TaskID was removed by the size cap.
type TraceEvent struct {
	Kind        TraceEventKind `json:"kind"`
	TaskID      string         `json:"taskId,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	CauseTaskID string         `json:"causeTaskId,omitempty"`
	Dimensions  []string       `json:"dimensions,omitempty"`
}

// Validate checks basic invariants and returns a descriptive error.
func (t *SelectionTrace) Validate() error {
	if t == nil {
		return errors.New("trace is nil")
	}
	if t.OntologyHash == "" {
		return errors.New("ontologyHash is required")
	}
	if t.OntologyVersion == "" {
		return errors.New("ontologyVersion is required")
	}
	for i, id := range t.Selected {
		if id == "" {
			return fmt.Errorf("selected[%d] is empty", i)
		}
	}
	for i := range t.Events {
		e := t.Events[i]
		if e.Kind == "" {
			return fmt.Errorf("events[%d].kind is required", i)
		}
		if e.TaskID == "" {
			return fmt.Errorf("events[%d].taskId is required for kind %q", i, e.Kind)
		}
		if e.Kind == EventReferenceDropped && e.CauseTaskID == "" {
			return fmt.Errorf("events[%d].causeTaskId is required for kind %q", i, e.Kind)
		}
		for j, d := range e.Dimensions {
			if d == "" {
				return fmt.Errorf("events[%d].dimensions[%d] is empty", i, j)
			}
		}
	}
	return nil
}

// Canonicalize normalizes and sorts the trace into its canonical form.
//
// Canonicalization rules:
//   - Dimensions are copied and sorted; empty slices become nil.
//   - Nil classification, selection and event lists become empty values.
//   - Events are stably sorted by (taskId, kindOrder, reason, causeTaskId, dimensionsLex).
func (t *SelectionTrace) Canonicalize() {
	if t == nil {
		return
	}
	if t.Classification == nil {
		t.Classification = map[string]float64{}
	}
	if t.Selected == nil {
		t.Selected = []string{}
	}
	if t.Events == nil {
		t.Events = []TraceEvent{}
	}
	for i := range t.Events {
		if len(t.Events[i].Dimensions) == 0 {
			t.Events[i].Dimensions = nil
			continue
		}
		dims := make([]string, len(t.Events[i].Dimensions))
		copy(dims, t.Events[i].Dimensions)
		sort.Strings(dims)
		t.Events[i].Dimensions = dims
	}

	sort.SliceStable(t.Events, func(i, j int) bool {
		a := t.Events[i]
		b := t.Events[j]

		if a.TaskID != b.TaskID {
			return a.TaskID < b.TaskID
		}
		if kindOrder(a.Kind) != kindOrder(b.Kind) {
			return kindOrder(a.Kind) < kindOrder(b.Kind)
		}
		if a.Reason != b.Reason {
			return a.Reason < b.Reason
		}
		if a.CauseTaskID != b.CauseTaskID {
			return a.CauseTaskID < b.CauseTaskID
		}
		return compareStringSlices(a.Dimensions, b.Dimensions)
	})
}

func kindOrder(k TraceEventKind) int {
	switch k {
	case EventTaskSeeded:
		return 10
	case EventTaskRequired:
		return 20
	case EventReferenceDropped:
		return 30
	case EventTaskTruncated:
		return 40
	default:
		return 1000
	}
}

func compareStringSlices(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			continue
		}
		return a[i] < b[i]
	}
	return len(a) < len(b)
}

// Clone returns a deep copy of the trace.
func (t SelectionTrace) Clone() SelectionTrace {
	out := t
	if t.Classification != nil {
		out.Classification = make(map[string]float64, len(t.Classification))
		for k, v := range t.Classification {
			out.Classification[k] = v
		}
	}
	if t.Selected != nil {
		out.Selected = append([]string(nil), t.Selected...)
	}
	if t.Events != nil {
		out.Events = make([]TraceEvent, len(t.Events))
		for i, e := range t.Events {
			out.Events[i] = e
			if e.Dimensions != nil {
				out.Events[i].Dimensions = append([]string(nil), e.Dimensions...)
			}
		}
	}
	return out
}

// CanonicalJSON returns the canonical JSON encoding of the trace.
// It canonicalizes a copy of the trace to avoid mutating the caller's slices.
func (t SelectionTrace) CanonicalJSON() ([]byte, error) {
	c := t.Clone()
	c.Canonicalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&c); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Hash returns the deterministic trace hash (sha256 hex) of the canonical JSON bytes.
func (t SelectionTrace) Hash() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return ComputeTraceHash(b), nil
}

// MarshalJSON ensures a fixed field order and omission of empty optional fields.
// Dimensions are emitted sorted without mutating the original slice.
func (e TraceEvent) MarshalJSON() ([]byte, error) {
	if e.Kind == "" {
		return nil, errors.New("kind is required")
	}
	type plain TraceEvent
	p := plain(e)
	if len(e.Dimensions) > 0 {
		p.Dimensions = make([]string, len(e.Dimensions))
		copy(p.Dimensions, e.Dimensions)
		sort.Strings(p.Dimensions)
	} else {
		p.Dimensions = nil
	}
	return json.Marshal(p)
}
