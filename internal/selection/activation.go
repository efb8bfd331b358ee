package selection

import (
	"verigraph/internal/classification"
)

type seed struct {
	mandatory bool
	// dimensions lists the node's active dimensions in declared order.
	dimensions []string
}

// activeDimensions returns the set of dimensions whose weight meets the
// threshold, plus the same set sorted. Dimensions unknown to the ontology are
// kept; they simply match no node.
func (e *Engine) activeDimensions(c classification.Classification) (map[string]struct{}, []string) {
	list := c.Active(e.cfg.DimensionThreshold)
	set := make(map[string]struct{}, len(list))
	for _, d := range list {
		set[d] = struct{}{}
	}
	return set, list
}

// matchingDimensions returns the node dimensions present in active, in the
// node's declared order.
func matchingDimensions(dims []string, active map[string]struct{}) []string {
	var out []string
	for _, d := range dims {
		if _, ok := active[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// seed computes mandatory ∪ activated. A node activates on ANY active
// dimension. The returned ids are sorted.
func (e *Engine) seed(active map[string]struct{}) ([]string, map[string]seed) {
	var ids []string
	info := make(map[string]seed)
	for _, id := range e.ids {
		n := e.nodes[id]
		s := seed{
			mandatory:  e.cfg.IncludeMandatory && n.Mandatory,
			dimensions: matchingDimensions(n.Dimensions, active),
		}
		if !s.mandatory && len(s.dimensions) == 0 {
			continue
		}
		ids = append(ids, id)
		info[id] = s
	}
	return ids, info
}
