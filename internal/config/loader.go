package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvOntology         = "VERIGRAPH_ONTOLOGY"
	EnvThreshold        = "VERIGRAPH_THRESHOLD"
	EnvMaxTasks         = "VERIGRAPH_MAX_TASKS"
	EnvIncludeMandatory = "VERIGRAPH_INCLUDE_MANDATORY"
	EnvStrictRefs       = "VERIGRAPH_STRICT_REFS"
	EnvTruncation       = "VERIGRAPH_TRUNCATION"
	EnvCacheSize        = "VERIGRAPH_CACHE_SIZE"
	EnvBatchConcurrency = "VERIGRAPH_BATCH_CONCURRENCY"
	EnvTraceDir         = "VERIGRAPH_TRACE_DIR"
	EnvLogLevel         = "VERIGRAPH_LOG_LEVEL"
	EnvLogDevelopment   = "VERIGRAPH_LOG_DEVELOPMENT"
)

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Load builds a configuration from defaults, the YAML file at path (if any)
// and the process environment. The result is not yet validated, since flags
// may still override it.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
		}
		if err := decodeInto(cfg, b); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults.
func Parse(b []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := decodeInto(cfg, b); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeInto(cfg *Config, b []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: load %s: %v", ErrInvalid, path, err)
	}
	return nil
}

// ApplyEnv overrides fields from VERIGRAPH_* variables.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
		*dst = n
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
		*dst = b
		return nil
	}

	str(EnvOntology, &c.Ontology.Path)
	str(EnvTruncation, &c.Selection.Truncation)
	str(EnvTraceDir, &c.Trace.Dir)
	str(EnvLogLevel, &c.Log.Level)

	if v, ok := lookup(EnvThreshold); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvThreshold, err)
		}
		c.Selection.DimensionThreshold = f
	}
	for _, e := range []struct {
		key string
		dst *int
	}{
		{EnvMaxTasks, &c.Selection.MaxTasks},
		{EnvCacheSize, &c.Cache.Size},
		{EnvBatchConcurrency, &c.Batch.Concurrency},
	} {
		if err := integer(e.key, e.dst); err != nil {
			return err
		}
	}
	for _, e := range []struct {
		key string
		dst *bool
	}{
		{EnvIncludeMandatory, &c.Selection.IncludeMandatory},
		{EnvStrictRefs, &c.Selection.StrictReferences},
		{EnvLogDevelopment, &c.Log.Development},
	} {
		if err := boolean(e.key, e.dst); err != nil {
			return err
		}
	}
	return nil
}
