package selection

import (
	"verigraph/internal/classification"
	"verigraph/internal/trace"
)

func (e *Engine) settings() trace.Settings {
	return trace.Settings{
		DimensionThreshold: e.cfg.DimensionThreshold,
		IncludeMandatory:   e.cfg.IncludeMandatory,
		MaxTasks:           e.cfg.MaxTasks,
		StrictReferences:   e.cfg.StrictReferences,
		Truncation:         string(e.cfg.Truncation),
	}
}

// ConfigFromSettings converts recorded trace settings back into a Config.
func ConfigFromSettings(s trace.Settings) (Config, error) {
	mode, err := ParseTruncationMode(s.Truncation)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		DimensionThreshold: s.DimensionThreshold,
		IncludeMandatory:   s.IncludeMandatory,
		MaxTasks:           s.MaxTasks,
		StrictReferences:   s.StrictReferences,
		Truncation:         mode,
	}
	return cfg, cfg.Validate()
}

// buildTrace records the logical decisions of d in canonical form.
func (e *Engine) buildTrace(c classification.Classification, d *derivation) trace.SelectionTrace {
	var events []trace.TraceEvent
	for _, id := range d.seeds {
		s := d.seedInfo[id]
		if s.mandatory {
			events = append(events, trace.TraceEvent{Kind: trace.EventTaskSeeded, TaskID: id, Reason: trace.ReasonMandatory})
		}
		if len(s.dimensions) > 0 {
			events = append(events, trace.TraceEvent{
				Kind:       trace.EventTaskSeeded,
				TaskID:     id,
				Reason:     trace.ReasonActivated,
				Dimensions: cloneStrings(s.dimensions),
			})
		}
	}
	for id, cause := range d.requiredBy {
		events = append(events, trace.TraceEvent{Kind: trace.EventTaskRequired, TaskID: id, CauseTaskID: cause})
	}
	for _, r := range d.dropped {
		events = append(events, trace.TraceEvent{Kind: trace.EventReferenceDropped, TaskID: r.Missing, CauseTaskID: r.TaskID})
	}
	for _, id := range d.truncated {
		events = append(events, trace.TraceEvent{Kind: trace.EventTaskTruncated, TaskID: id, Reason: trace.ReasonMaxTasks})
	}

	tr := trace.SelectionTrace{
		OntologyVersion: e.ont.Version(),
		OntologyHash:    e.ont.Hash(),
		Settings:        e.settings(),
		Classification:  c.Clone(),
		Selected:        cloneStrings(d.selected),
		Events:          events,
	}
	tr.Canonicalize()
	return tr
}
