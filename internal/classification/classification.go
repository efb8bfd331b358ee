// Package classification models the untrusted output of the claim classifier:
// a weighted map of verification dimensions plus free-text red flags and
// ambiguities.
//
// Nothing in this package is trusted by the selection engine beyond the
// numeric comparison against a threshold. Range checking is offered through
// Result.Validate for upstream adapters; the engine never calls it.
package classification

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrInvalidClassification = errors.New("invalid classification")

// Classification maps a dimension name to its relevance weight.
//
// Dimensions unknown to the ontology are ignored by selection; dimensions
// absent from the map weigh 0.
type Classification map[string]float64

// Weight returns the weight of dim, or 0 when absent.
func (c Classification) Weight(dim string) float64 {
	return c[dim]
}

// IsActive reports whether dim meets the threshold (inclusive).
func (c Classification) IsActive(dim string, threshold float64) bool {
	w, ok := c[dim]
	return ok && w >= threshold
}

// Active returns the dimensions whose weight is >= threshold, sorted.
func (c Classification) Active(threshold float64) []string {
	out := make([]string, 0, len(c))
	for dim, w := range c {
		if w >= threshold {
			out = append(out, dim)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (c Classification) Clone() Classification {
	if c == nil {
		return nil
	}
	out := make(Classification, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Result is the classifier payload.
//
// RedFlags and Ambiguities are carried through for reporting and never
// influence task selection.
type Result struct {
	Dimensions  Classification `json:"dimensions"`
	RedFlags    []string       `json:"red_flags,omitempty"`
	Ambiguities []string       `json:"ambiguities,omitempty"`
}

// HasAmbiguities reports whether the classifier flagged unclear aspects.
func (r Result) HasAmbiguities() bool { return len(r.Ambiguities) > 0 }

// Validate checks that every weight is a finite number in [0, 1].
func (r Result) Validate() error {
	dims := make([]string, 0, len(r.Dimensions))
	for d := range r.Dimensions {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	for _, d := range dims {
		w := r.Dimensions[d]
		if d == "" {
			return fmt.Errorf("%w: empty dimension name", ErrInvalidClassification)
		}
		if math.IsNaN(w) || w < 0 || w > 1 {
			return fmt.Errorf("%w: weight for %q must be between 0.0 and 1.0, got %v", ErrInvalidClassification, d, w)
		}
	}
	return nil
}
