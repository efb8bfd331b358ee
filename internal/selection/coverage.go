package selection

import "verigraph/internal/ontology"

// Coverage returns the weighted fraction of required that was executed.
//
// Both inputs are treated as sets. A node weighs its risk weight, or 1.0 when
// the id is not in the ontology. Executed ids outside required contribute
// nothing. When the required weight is zero (including no requirements at
// all) coverage is 1.0: there was nothing to miss.
func Coverage(ont *ontology.Ontology, executed, required []string) float64 {
	weight := func(id string) float64 {
		if ont == nil {
			return ontology.DefaultRiskWeight
		}
		return ont.RiskWeight(id)
	}

	req := make(map[string]struct{}, len(required))
	var requiredWeight float64
	for _, id := range required {
		if _, dup := req[id]; dup {
			continue
		}
		req[id] = struct{}{}
		requiredWeight += weight(id)
	}
	if requiredWeight == 0 {
		return 1.0
	}

	done := make(map[string]struct{}, len(executed))
	var executedWeight float64
	for _, id := range executed {
		if _, dup := done[id]; dup {
			continue
		}
		done[id] = struct{}{}
		if _, ok := req[id]; ok {
			executedWeight += weight(id)
		}
	}
	return executedWeight / requiredWeight
}

// Coverage scores executed against required using the engine's ontology.
func (e *Engine) Coverage(executed, required []string) float64 {
	return Coverage(e.ont, executed, required)
}
