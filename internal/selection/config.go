package selection

import (
	"fmt"
	"math"
	"strings"
)

// TruncationMode selects how an over-long selection is cut down to MaxTasks.
type TruncationMode string

const (
	// TruncationPriority returns mandatory nodes followed by the highest
	// priority non-mandatory nodes, in priority order. The result may place a
	// node before one of its dependencies.
	TruncationPriority TruncationMode = "priority"

	// TruncationTopological keeps the same nodes as TruncationPriority but
	// re-runs the orderer over them, restoring dependency order.
	TruncationTopological TruncationMode = "topological"
)

// ParseTruncationMode parses a mode name; the empty string means the default.
func ParseTruncationMode(raw string) (TruncationMode, error) {
	switch m := TruncationMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return TruncationPriority, nil
	case TruncationPriority, TruncationTopological:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown truncation mode %q (expected priority|topological)", ErrInvalidConfig, raw)
	}
}

// Config controls a selection.
type Config struct {
	// DimensionThreshold is the minimum weight for a dimension to be active.
	DimensionThreshold float64
	// IncludeMandatory seeds every mandatory node regardless of classification.
	IncludeMandatory bool
	// MaxTasks is the hard cap on the returned list length. It must be at
	// least 1, and New rejects a cap below the ontology's mandatory node count
	// when IncludeMandatory is set rather than returning a partial mandatory
	// list.
	MaxTasks int
	// StrictReferences fails selection on dependency ids missing from the
	// ontology instead of dropping them.
	StrictReferences bool
	// Truncation selects the truncation strategy.
	Truncation TruncationMode
}

// DefaultConfig returns the default selection settings.
func DefaultConfig() Config {
	return Config{
		DimensionThreshold: 0.2,
		IncludeMandatory:   true,
		MaxTasks:           20,
		StrictReferences:   false,
		Truncation:         TruncationPriority,
	}
}

// Validate checks the configuration in isolation.
func (c Config) Validate() error {
	if math.IsNaN(c.DimensionThreshold) || math.IsInf(c.DimensionThreshold, 0) {
		return fmt.Errorf("%w: dimension threshold must be finite", ErrInvalidConfig)
	}
	if c.MaxTasks < 1 {
		return fmt.Errorf("%w: max tasks must be at least 1 (got %d)", ErrInvalidConfig, c.MaxTasks)
	}
	if _, err := ParseTruncationMode(string(c.Truncation)); err != nil {
		return err
	}
	return nil
}
