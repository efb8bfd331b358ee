package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"verigraph/internal/selection"
)

type selectionOutput struct {
	OntologyVersion   string                `json:"ontology_version"`
	OntologyHash      string                `json:"ontology_hash"`
	Tasks             []string              `json:"tasks"`
	Reasons           map[string][]string   `json:"reasons"`
	ActiveDimensions  []string              `json:"active_dimensions"`
	Truncated         []string              `json:"truncated"`
	DroppedReferences []selection.Reference `json:"dropped_references"`
	TraceHash         string                `json:"trace_hash"`
}

type planOutput struct {
	OntologyVersion       string                `json:"ontology_version"`
	Tasks                 []selection.PlanEntry `json:"tasks"`
	TotalEstimatedMinutes int                   `json:"total_estimated_minutes"`
}

type explanationOutput struct {
	Tasks   []string            `json:"tasks"`
	Reasons map[string][]string `json:"reasons"`
}

func (a *app) renderSelections(format string, sels []selection.Selection) error {
	switch format {
	case formatJSON:
		out := make([]selectionOutput, 0, len(sels))
		for _, sel := range sels {
			hash, err := sel.Trace.Hash()
			if err != nil {
				return fmt.Errorf("hash trace: %w", err)
			}
			out = append(out, selectionOutput{
				OntologyVersion:   sel.Trace.OntologyVersion,
				OntologyHash:      sel.Trace.OntologyHash,
				Tasks:             nonNil(sel.IDs),
				Reasons:           sel.Reasons,
				ActiveDimensions:  nonNil(sel.ActiveDimensions),
				Truncated:         nonNil(sel.Truncated),
				DroppedReferences: sel.DroppedReferences,
				TraceHash:         hash,
			})
		}
		return writeJSON(a.stdout, out)
	case formatPlan:
		out := make([]planOutput, 0, len(sels))
		for _, sel := range sels {
			plan := a.engine.Plan(sel)
			out = append(out, planOutput{
				OntologyVersion:       a.ontology.Version(),
				Tasks:                 plan,
				TotalEstimatedMinutes: selection.TotalEstimatedMinutes(plan),
			})
		}
		return writeJSON(a.stdout, out)
	default:
		for i, sel := range sels {
			if len(sels) > 1 {
				if _, err := fmt.Fprintf(a.stdout, "# classification %d\n", i); err != nil {
					return err
				}
			}
			for _, id := range sel.IDs {
				if _, err := fmt.Fprintln(a.stdout, id); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func (a *app) renderExplanations(format string, sels []selection.Selection) error {
	if format == formatJSON {
		out := make([]explanationOutput, 0, len(sels))
		for _, sel := range sels {
			out = append(out, explanationOutput{Tasks: nonNil(sel.IDs), Reasons: sel.Reasons})
		}
		return writeJSON(a.stdout, out)
	}
	for i, sel := range sels {
		if len(sels) > 1 {
			if _, err := fmt.Fprintf(a.stdout, "# classification %d\n", i); err != nil {
				return err
			}
		}
		for _, id := range sel.IDs {
			if _, err := fmt.Fprintln(a.stdout, id); err != nil {
				return err
			}
			for _, r := range sel.Reasons[id] {
				if _, err := fmt.Fprintf(a.stdout, "  - %s\n", r); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// writeJSON writes a single value unwrapped and several as an array.
func writeJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if len(items) == 1 {
		return enc.Encode(items[0])
	}
	return enc.Encode(items)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
