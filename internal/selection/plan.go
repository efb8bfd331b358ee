package selection

// PlanEntry is the expansion-facing view of one selected task.
type PlanEntry struct {
	ID               string   `json:"id" yaml:"id"`
	Description      string   `json:"description" yaml:"description"`
	MinValidators    int      `json:"min_validators" yaml:"min_validators"`
	EstimatedMinutes int      `json:"estimated_minutes" yaml:"estimated_minutes"`
	RequiredSkills   []string `json:"required_skills" yaml:"required_skills"`
	RiskWeight       float64  `json:"risk_weight" yaml:"risk_weight"`
	Reasons          []string `json:"reasons" yaml:"reasons"`
}

// Plan resolves a selection against the ontology, preserving its order.
//
// The expansion stage consumes the plan as-is: it may parameterize entries
// but must not add, remove or reorder them.
func (e *Engine) Plan(sel Selection) []PlanEntry {
	out := make([]PlanEntry, 0, len(sel.IDs))
	for _, id := range sel.IDs {
		n, ok := e.ont.Lookup(id)
		if !ok {
			continue
		}
		out = append(out, PlanEntry{
			ID:               n.ID,
			Description:      n.Description,
			MinValidators:    n.MinValidators,
			EstimatedMinutes: n.EstimatedMinutes,
			RequiredSkills:   n.RequiredSkills,
			RiskWeight:       n.RiskWeight,
			Reasons:          cloneStrings(sel.Reasons[id]),
		})
	}
	return out
}

// TotalEstimatedMinutes sums the time estimates of a plan.
func TotalEstimatedMinutes(plan []PlanEntry) int {
	total := 0
	for _, p := range plan {
		total += p.EstimatedMinutes
	}
	return total
}
