package selection

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"verigraph/internal/classification"
	"verigraph/internal/ontology"
	"verigraph/internal/trace"
)

// Observer receives the outcome of every selection. Implementations must be
// safe for concurrent use and must not block.
type Observer interface {
	ObserveSelection(stats Stats)
	ObserveFailure(err error)
}

// Stats summarizes one successful selection.
type Stats struct {
	Seeded            int
	Closure           int
	Selected          int
	Truncated         int
	DroppedReferences int
	Duration          time.Duration
}

type nopObserver struct{}

func (nopObserver) ObserveSelection(Stats) {}
func (nopObserver) ObserveFailure(error)   {}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver sets the selection observer. A nil observer is ignored.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithTraceSink records the trace of every successful selection into s.
func WithTraceSink(s trace.Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// Engine selects ordered task lists from an ontology.
//
// It is immutable after New and safe for concurrent use.
type Engine struct {
	ont *ontology.Ontology
	cfg Config

	// nodes is a private snapshot of the ontology taken once in New.
	nodes map[string]ontology.TaskNode
	ids   []string // sorted

	logger   *zap.Logger
	observer Observer
	sink     trace.Sink
}

// New builds an Engine over ont.
//
// Besides Config.Validate, New rejects a MaxTasks smaller than the number of
// mandatory nodes when IncludeMandatory is set: such a cap could never honour
// mandatory inclusion.
func New(ont *ontology.Ontology, cfg Config, opts ...Option) (*Engine, error) {
	if ont == nil {
		return nil, fmt.Errorf("%w: ontology is required", ErrInvalidConfig)
	}
	if cfg.Truncation == "" {
		cfg.Truncation = TruncationPriority
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.IncludeMandatory {
		if m := len(ont.MandatoryNodes()); cfg.MaxTasks < m {
			return nil, fmt.Errorf("%w: max tasks %d is below the %d mandatory tasks", ErrInvalidConfig, cfg.MaxTasks, m)
		}
	}

	e := &Engine{
		ont:      ont,
		cfg:      cfg,
		nodes:    make(map[string]ontology.TaskNode, ont.Len()),
		logger:   zap.NewNop(),
		observer: nopObserver{},
		sink:     trace.NopSink{},
	}
	for _, n := range ont.Nodes() {
		e.nodes[n.ID] = n
		e.ids = append(e.ids, n.ID)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Ontology returns the ontology the engine selects from.
func (e *Engine) Ontology() *ontology.Ontology { return e.ont }

// Observer returns the observer selections are reported to.
func (e *Engine) Observer() Observer { return e.observer }

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// replayer returns an engine over the same ontology and logger with cfg.
// It has no observer or trace sink: a replay is not a new selection.
func (e *Engine) replayer(cfg Config) (*Engine, error) {
	return New(e.ont, cfg, WithLogger(e.logger.With(zap.Bool("replay", true))))
}

// Selection is the complete outcome of one selection.
type Selection struct {
	// IDs is the ordered task list handed to the expansion stage.
	IDs []string
	// Reasons explains, per selected id, why it was included.
	Reasons map[string][]string
	// ActiveDimensions lists the classification dimensions that met the
	// threshold, sorted. It may include dimensions unknown to the ontology.
	ActiveDimensions []string
	// Truncated lists the ids removed by the size cap, in closure order.
	Truncated []string
	// DroppedReferences lists dependency edges whose target is missing from
	// the ontology.
	DroppedReferences []Reference
	// Trace is the canonical audit record of this selection.
	Trace trace.SelectionTrace
	// Stats is what the observer was told about this selection.
	Stats Stats
}

// Clone returns a deep copy of s.
func (s Selection) Clone() Selection {
	out := s
	out.IDs = cloneStrings(s.IDs)
	out.ActiveDimensions = cloneStrings(s.ActiveDimensions)
	out.Truncated = cloneStrings(s.Truncated)
	if s.DroppedReferences != nil {
		out.DroppedReferences = append([]Reference(nil), s.DroppedReferences...)
	}
	if s.Reasons != nil {
		out.Reasons = make(map[string][]string, len(s.Reasons))
		for k, v := range s.Reasons {
			out.Reasons[k] = cloneStrings(v)
		}
	}
	out.Trace = s.Trace.Clone()
	return out
}

// Select returns the ordered task ids required for c.
func (e *Engine) Select(c classification.Classification) ([]string, error) {
	sel, err := e.SelectAndExplain(c)
	if err != nil {
		return nil, err
	}
	return sel.IDs, nil
}

// Explain returns, per selected id, the ordered reasons it was included.
func (e *Engine) Explain(c classification.Classification) (map[string][]string, error) {
	sel, err := e.SelectAndExplain(c)
	if err != nil {
		return nil, err
	}
	return sel.Reasons, nil
}

// SelectAndExplain performs one traversal and derives the ordered ids, the
// explanation and the trace from the same intermediate state.
func (e *Engine) SelectAndExplain(c classification.Classification) (Selection, error) {
	start := time.Now()

	d, err := e.derive(c)
	if err != nil {
		e.observer.ObserveFailure(err)
		e.logFailure(c, err)
		return Selection{}, err
	}

	sel := Selection{
		IDs:               d.selected,
		Reasons:           e.explain(d),
		ActiveDimensions:  d.activeList,
		Truncated:         d.truncated,
		DroppedReferences: d.dropped,
		Trace:             e.buildTrace(c, d),
	}
	sel.Stats = Stats{
		Seeded:            len(d.seeds),
		Closure:           len(d.closureOrder),
		Selected:          len(d.selected),
		Truncated:         len(d.truncated),
		DroppedReferences: len(d.dropped),
		Duration:          time.Since(start),
	}

	e.observer.ObserveSelection(sel.Stats)
	if len(d.dropped) > 0 {
		e.logger.Warn("dropped unknown dependency references",
			zap.Stringers("references", d.dropped))
	}
	e.logger.Debug("task selection",
		zap.String("classification", c.Fingerprint()),
		zap.Strings("active_dimensions", d.activeList),
		zap.Int("seeded", len(d.seeds)),
		zap.Int("closure", len(d.closureOrder)),
		zap.Int("selected", len(d.selected)),
		zap.Strings("truncated", d.truncated),
	)

	trace.SafeRecord(e.sink, sel.Trace.Clone())
	return sel, nil
}

func (e *Engine) logFailure(c classification.Classification, err error) {
	var se *StructuralError
	if errors.As(err, &se) {
		e.logger.Error("ontology cycle detected",
			zap.String("ontology_version", e.ont.Version()),
			zap.String("classification", c.Fingerprint()),
			zap.Strings("unresolved", se.Unresolved),
			zap.Strings("cycle", se.Cycle),
		)
		return
	}
	e.logger.Warn("task selection failed", zap.Error(err))
}

// derivation is the call-local intermediate state of one selection.
type derivation struct {
	active     map[string]struct{}
	activeList []string

	seeds      []string // sorted
	seedInfo   map[string]seed
	closure    map[string]struct{}
	requiredBy map[string]string // first dependent that reached an id during closure
	// closureOrder is the topological order of the full closure.
	closureOrder []string
	dropped      []Reference

	selected  []string
	truncated []string
}

func (e *Engine) derive(c classification.Classification) (*derivation, error) {
	d := &derivation{}
	d.active, d.activeList = e.activeDimensions(c)
	d.seeds, d.seedInfo = e.seed(d.active)

	if err := e.close(d); err != nil {
		return nil, err
	}

	order, err := e.order(d.closure)
	if err != nil {
		return nil, err
	}
	d.closureOrder = order

	d.selected, d.truncated, err = e.truncate(order)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
