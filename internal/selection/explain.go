package selection

import "strings"

// Explanation reason strings.
const (
	ReasonMandatory        = "mandatory"
	ReasonUnknown          = "unknown"
	reasonActivatedPrefix  = "activated by dimensions: "
	reasonRequiredByPrefix = "required as dependency of: "
)

// explain builds the per-id reasons for the final selection.
//
// Reasons are appended in a fixed order: mandatory, activating dimensions,
// then the first other selected id (in selection order) that depends on it.
// An id with none of these is explained as "unknown"; that only happens when
// truncation removed every selected dependent of a dependency.
func (e *Engine) explain(d *derivation) map[string][]string {
	out := make(map[string][]string, len(d.selected))
	for _, id := range d.selected {
		var reasons []string
		s := d.seedInfo[id]
		if s.mandatory {
			reasons = append(reasons, ReasonMandatory)
		}
		if len(s.dimensions) > 0 {
			reasons = append(reasons, reasonActivatedPrefix+strings.Join(s.dimensions, ", "))
		}
		for _, other := range d.selected {
			if other != id && e.nodes[other].DependsOn(id) {
				reasons = append(reasons, reasonRequiredByPrefix+other)
				break
			}
		}
		if len(reasons) == 0 {
			reasons = []string{ReasonUnknown}
		}
		out[id] = reasons
	}
	return out
}
