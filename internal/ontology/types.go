package ontology

// Defaults applied by New to unset TaskNode fields.
const (
	DefaultRiskWeight       = 1.0
	DefaultMinValidators    = 2
	DefaultEstimatedMinutes = 30
)

// TaskNode is one verification primitive.
//
// RiskWeight, MinValidators and EstimatedMinutes use their zero value as
// "unset". RequiredSkills defaults to a copy of Dimensions when nil; an
// explicitly empty list is kept empty.
type TaskNode struct {
	ID               string   `yaml:"id" json:"id"`
	Description      string   `yaml:"description" json:"description"`
	Dimensions       []string `yaml:"dimensions" json:"dimensions"`
	Dependencies     []string `yaml:"dependencies" json:"dependencies"`
	Mandatory        bool     `yaml:"mandatory" json:"mandatory"`
	RiskWeight       float64  `yaml:"risk_weight" json:"risk_weight"`
	MinValidators    int      `yaml:"min_validators" json:"min_validators"`
	EstimatedMinutes int      `yaml:"estimated_minutes" json:"estimated_minutes"`
	RequiredSkills   []string `yaml:"required_skills" json:"required_skills"`
}

// HasDimension reports whether the node verifies dim.
func (n TaskNode) HasDimension(dim string) bool {
	for _, d := range n.Dimensions {
		if d == dim {
			return true
		}
	}
	return false
}

// DependsOn reports whether id is a declared dependency of the node.
func (n TaskNode) DependsOn(id string) bool {
	for _, d := range n.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

func (n TaskNode) clone() TaskNode {
	out := n
	out.Dimensions = cloneStrings(n.Dimensions)
	out.Dependencies = cloneStrings(n.Dependencies)
	out.RequiredSkills = cloneStrings(n.RequiredSkills)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// dedupe keeps the first occurrence of each value, preserving declared order.
func dedupe(in []string) []string {
	if in == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
