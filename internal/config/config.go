// Package config loads verigraph settings from YAML, a .env file and
// VERIGRAPH_* environment variables.
//
// Precedence, lowest first: DefaultConfig, the YAML file, the environment,
// then command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"strings"

	"verigraph/internal/selection"
)

// ErrInvalid marks configuration that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	Ontology  OntologyConfig  `yaml:"ontology"`
	Selection SelectionConfig `yaml:"selection"`
	Cache     CacheConfig     `yaml:"cache"`
	Batch     BatchConfig     `yaml:"batch"`
	Trace     TraceConfig     `yaml:"trace"`
	Log       LogConfig       `yaml:"log"`
}

// OntologyConfig locates the ontology. An empty path means the builtin one.
type OntologyConfig struct {
	Path string `yaml:"path"`
}

// SelectionConfig mirrors selection.Config in file form.
type SelectionConfig struct {
	DimensionThreshold float64 `yaml:"dimension_threshold"`
	IncludeMandatory   bool    `yaml:"include_mandatory"`
	MaxTasks           int     `yaml:"max_tasks"`
	StrictReferences   bool    `yaml:"strict_references"`
	Truncation         string  `yaml:"truncation"`
}

// CacheConfig sizes the selection cache; 0 disables it.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// BatchConfig bounds batch selection; 0 means GOMAXPROCS.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// TraceConfig points at the content-addressed trace store; empty disables it.
type TraceConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	sel := selection.DefaultConfig()
	return &Config{
		Selection: SelectionConfig{
			DimensionThreshold: sel.DimensionThreshold,
			IncludeMandatory:   sel.IncludeMandatory,
			MaxTasks:           sel.MaxTasks,
			StrictReferences:   sel.StrictReferences,
			Truncation:         string(sel.Truncation),
		},
		Cache: CacheConfig{Size: 1024},
		Log:   LogConfig{Level: "info"},
	}
}

// SelectionConfig converts the file form into an engine configuration.
func (c *Config) SelectionConfig() (selection.Config, error) {
	mode, err := selection.ParseTruncationMode(c.Selection.Truncation)
	if err != nil {
		return selection.Config{}, err
	}
	return selection.Config{
		DimensionThreshold: c.Selection.DimensionThreshold,
		IncludeMandatory:   c.Selection.IncludeMandatory,
		MaxTasks:           c.Selection.MaxTasks,
		StrictReferences:   c.Selection.StrictReferences,
		Truncation:         mode,
	}, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	sel, err := c.SelectionConfig()
	if err != nil {
		return fmt.Errorf("%w: selection: %v", ErrInvalid, err)
	}
	if err := sel.Validate(); err != nil {
		return fmt.Errorf("%w: selection: %v", ErrInvalid, err)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("%w: cache.size must be >= 0", ErrInvalid)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("%w: batch.concurrency must be >= 0", ErrInvalid)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}
