package selection

import "sort"

// truncate applies the MaxTasks cap to a topologically ordered list.
//
// Mandatory nodes keep their relative order and come first. Non-mandatory
// nodes are stably ranked by risk weight (descending) and then by declared
// dependency count (ascending, more foundational first); ties keep their
// topological position. The concatenation is cut to MaxTasks.
//
// In TruncationPriority mode the result keeps that priority order and may
// list a node before one of its dependencies. TruncationTopological re-orders
// the kept nodes canonically.
//
// It returns the kept ids and the removed ids (in their original order).
func (e *Engine) truncate(ordered []string) (kept, removed []string, err error) {
	if len(ordered) <= e.cfg.MaxTasks {
		return ordered, nil, nil
	}

	var mandatory, rest []string
	for _, id := range ordered {
		if e.nodes[id].Mandatory {
			mandatory = append(mandatory, id)
		} else {
			rest = append(rest, id)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		a, b := e.nodes[rest[i]], e.nodes[rest[j]]
		if a.RiskWeight != b.RiskWeight {
			return a.RiskWeight > b.RiskWeight
		}
		return len(a.Dependencies) < len(b.Dependencies)
	})

	prioritized := append(mandatory, rest...)
	kept = prioritized[:e.cfg.MaxTasks]

	keep := make(map[string]struct{}, len(kept))
	for _, id := range kept {
		keep[id] = struct{}{}
	}
	for _, id := range ordered {
		if _, ok := keep[id]; !ok {
			removed = append(removed, id)
		}
	}

	if e.cfg.Truncation == TruncationTopological {
		kept, err = e.order(keep)
		if err != nil {
			return nil, nil, err
		}
	}
	return kept, removed, nil
}
